package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.properties"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), s)
	require.False(t, s.MapsResolved())
}

func TestLoadProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.properties")
	content := "showSkippedFiles=true\n" +
		"showCountedFiles=false\n" +
		"showPerformance=TRUE\n" +
		"# areGfxLibNormalMapsEnabled=true\n" +
		"areGfxLibMaterialMapsEnabled=false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.True(t, s.ShowSkippedFiles)
	require.False(t, s.ShowCountedFiles)
	require.True(t, s.ShowPerformance)
	require.False(t, s.ShowGfxLibDebugOutput)
	require.Nil(t, s.NormalMaps)
	require.NotNil(t, s.MaterialMaps)
	require.False(t, *s.MaterialMaps)
	require.Nil(t, s.SurfaceMaps)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vram.toml")
	content := "showCountedFiles = false\n" +
		"areGfxLibNormalMapsEnabled = true\n" +
		"areGfxLibMaterialMapsEnabled = false\n" +
		"areGfxLibSurfaceMapsEnabled = true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.False(t, s.ShowCountedFiles)
	require.True(t, s.MapsResolved())
	require.True(t, *s.NormalMaps)
	require.False(t, *s.MaterialMaps)
	require.True(t, *s.SurfaceMaps)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.properties")
	require.NoError(t, os.WriteFile(path, []byte("showSkippedFiles=false\n"), 0o644))
	t.Setenv("VRAM_SHOW_SKIPPED_FILES", "true")
	t.Setenv("VRAM_SURFACE_MAPS_ENABLED", "false")

	s, err := Load(path)
	require.NoError(t, err)
	require.True(t, s.ShowSkippedFiles)
	require.NotNil(t, s.SurfaceMaps)
	require.False(t, *s.SurfaceMaps)
}

func TestSaveRoundTripsMapToggles(t *testing.T) {
	for _, name := range []string{"config.properties", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := Defaults().WithMaps(MapToggles{Normal: true, Material: false, Surface: true})
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestResolveFromSettings(t *testing.T) {
	s := Defaults().WithMaps(MapToggles{Normal: false, Material: true, Surface: false})
	called := false
	p := PrompterFunc(func(MapToggles) (MapToggles, error) {
		called = true
		return MapToggles{}, nil
	})

	eff, how, err := Resolve(s, true, p)
	require.NoError(t, err)
	require.False(t, called)
	require.Equal(t, ResolvedFromSettings, how)
	require.Equal(t, MapToggles{Normal: false, Material: true, Surface: false}, eff.Maps)
	require.True(t, eff.ShowCountedFiles)
}

func TestResolvePromptsOnlyWhenAddonEnabled(t *testing.T) {
	off := false
	s := Defaults()
	s.SurfaceMaps = &off

	var seen MapToggles
	p := PrompterFunc(func(initial MapToggles) (MapToggles, error) {
		seen = initial
		return MapToggles{Normal: true}, nil
	})

	eff, how, err := Resolve(s, true, p)
	require.NoError(t, err)
	require.Equal(t, ResolvedByPrompt, how)
	require.Equal(t, MapToggles{Normal: true, Material: true, Surface: false}, seen)
	require.Equal(t, MapToggles{Normal: true}, eff.Maps)

	eff, how, err = Resolve(s, false, p)
	require.NoError(t, err)
	require.Equal(t, ResolvedByDefault, how)
	require.Equal(t, MapToggles{Normal: true, Material: true, Surface: false}, eff.Maps)
}

func TestResolveDefaultsWithoutPrompter(t *testing.T) {
	eff, how, err := Resolve(Defaults(), true, nil)
	require.NoError(t, err)
	require.Equal(t, ResolvedByDefault, how)
	require.Equal(t, MapToggles{Normal: true, Material: true, Surface: true}, eff.Maps)
}

func TestResolvePromptError(t *testing.T) {
	p := PrompterFunc(func(MapToggles) (MapToggles, error) {
		return MapToggles{}, errors.New("aborted")
	})
	_, _, err := Resolve(Defaults(), true, p)
	require.ErrorIs(t, err, ErrUnresolved)
}

func TestLoadUnusedIndicators(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "config.properties")
	require.NoError(t, os.WriteFile(props, []byte("unusedIndicators=_OLD, _CURRENTLY_UNUSED,,\n"), 0o644))
	s, err := Load(props)
	require.NoError(t, err)
	require.Equal(t, []string{"_OLD", "_CURRENTLY_UNUSED"}, s.UnusedIndicators)

	toml := filepath.Join(dir, "vram.toml")
	require.NoError(t, os.WriteFile(toml, []byte(`unusedIndicators = ["_OLD", "_WIP"]`+"\n"), 0o644))
	s, err = Load(toml)
	require.NoError(t, err)
	require.Equal(t, []string{"_OLD", "_WIP"}, s.UnusedIndicators)

	t.Setenv("VRAM_UNUSED_INDICATORS", "_ENV")
	s, err = Load(toml)
	require.NoError(t, err)
	require.Equal(t, []string{"_ENV"}, s.UnusedIndicators)

	eff, _, err := Resolve(s, false, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"_ENV"}, eff.UnusedIndicators)
}

func TestSaveRoundTripsUnusedIndicators(t *testing.T) {
	for _, name := range []string{"config.properties", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := Defaults()
			want.UnusedIndicators = []string{"_OLD", "_WIP"}
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}
