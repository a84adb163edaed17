package modinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"vramcounter/internal/progress"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadLegacyVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InfoFileName), `{
		# the game allows hash comments
		"id": "lw_console", // and slash comments
		"name": "Console Commands",
		"version": "2021.4.10",
	}`)

	info, err := Read(dir)
	require.NoError(t, err)
	require.Equal(t, Info{ID: "lw_console", Name: "Console Commands", Version: "2021.4.10", Folder: dir}, info)
	require.Equal(t, "Console Commands 2021.4.10 (lw_console)", info.FormattedName())
}

func TestReadObjectVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InfoFileName), `{
		"id": "shaderLib",
		"name": "GraphicsLib",
		"version": {"major": 1, "minor": "9", "patch": "0a"},
		"author": "DR, Tartiflette",
	}`)

	info, err := Read(dir)
	require.NoError(t, err)
	require.Equal(t, "1.9.0a", info.Version)
}

func TestReadKeepsHashInsideStrings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InfoFileName), `{"id":"a#b","name":"Mod #1","version":"1"}`)

	info, err := Read(dir)
	require.NoError(t, err)
	require.Equal(t, "a#b", info.ID)
	require.Equal(t, "Mod #1", info.Name)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(t.TempDir())
	require.ErrorIs(t, err, ErrNoModInfo)
}

func TestDiscoverSkipsFoldersWithoutIdentity(t *testing.T) {
	mods := t.TempDir()
	writeFile(t, filepath.Join(mods, "b", InfoFileName), `{"id":"b","name":"B","version":"2"}`)
	writeFile(t, filepath.Join(mods, "a", InfoFileName), `{"id":"a","name":"A","version":"1"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(mods, "empty"), 0o755))
	writeFile(t, filepath.Join(mods, "loose.txt"), "not a folder")

	log := progress.New(nil)
	infos, err := Discover(mods, log)
	require.NoError(t, err)

	want := []Info{
		{ID: "a", Name: "A", Version: "1", Folder: filepath.Join(mods, "a")},
		{ID: "b", Name: "B", Version: "2", Folder: filepath.Join(mods, "b")},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
	require.True(t, strings.Contains(log.String(), filepath.Join(mods, "empty")))
}

func TestLoadEnabled(t *testing.T) {
	mods := t.TempDir()

	ids, ok := LoadEnabled(mods, nil)
	require.False(t, ok)
	require.Nil(t, ids)

	writeFile(t, filepath.Join(mods, EnabledFileName), `{"enabledMods": ["a", "shaderLib",]}`)
	ids, ok = LoadEnabled(mods, nil)
	require.True(t, ok)
	require.Equal(t, []string{"a", "shaderLib"}, ids)
}
