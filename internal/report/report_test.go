package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"vramcounter/internal/config"
	"vramcounter/internal/estimator"
)

func TestFormatMiB(t *testing.T) {
	require.Equal(t, "0.000 MiB", FormatMiB(0))
	require.Equal(t, "1.000 MiB", FormatMiB(1048576))
	require.Equal(t, "413.500 MiB", FormatMiB(VanillaBytes))
	require.Equal(t, "0.001 MiB", FormatMiB(1366))
}

func TestTotalLines(t *testing.T) {
	got := TotalLines(estimator.Totals{All: 2 * 1048576, Enabled: 1048576})
	want := []Line{
		{Label: "Enabled + Disabled Mods w/o Vanilla", Value: "2.000 MiB"},
		{Label: "Enabled + Disabled Mods w/ Vanilla", Value: "415.500 MiB"},
		{},
		{Label: "Enabled Mods w/o Vanilla", Value: "1.000 MiB"},
		{Label: "Enabled Mods w/ Vanilla", Value: "414.500 MiB"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TotalLines mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{
		Enabled: []estimator.Package{
			{ID: "a", Name: "Alpha", Version: "1.0"},
			{ID: "b", Name: "Beta", Version: "0.2"},
		},
		Maps:   config.MapToggles{Normal: true, Material: false, Surface: true},
		Totals: estimator.Totals{All: 1048576, Enabled: 0},
	}
	out := s.String()

	require.True(t, strings.HasPrefix(out, "\n-------------\nVRAM Use Estimates\n"))
	require.Contains(t, out, "  Enabled Mods\n    Alpha 1.0 (a)\n    Beta 0.2 (b)\n")
	require.Contains(t, out, "    Normal Maps Enabled: true\n")
	require.Contains(t, out, "    Material Maps Enabled: false\n")
	require.Contains(t, out, "Edit 'config.properties' to choose")
	require.Contains(t, out, "Enabled + Disabled Mods w/o Vanilla   1.000 MiB\n")
	require.Contains(t, out, "Enabled Mods w/ Vanilla               413.500 MiB\n")
	require.Contains(t, out, `*Unused images in mods are counted unless they end with "_CURRENTLY_UNUSED"*`)
}

func TestModTotalsOrderedByImpact(t *testing.T) {
	r := estimator.Report{Packages: []estimator.PackageResult{
		{Package: estimator.Package{ID: "small", Name: "Small", Version: "1"}, TotalBytes: 10},
		{
			Package:    estimator.Package{ID: "big", Name: "Big", Version: "2"},
			Images:     make([]estimator.ImageAsset, 3),
			TotalBytes: 3 * 1048576,
		},
	}}

	out := ModTotals(r)
	require.Equal(t, "\nBig 2 (big) (3 images)\n3.000 MiB\n\nSmall 1 (small) (0 images)\n0.000 MiB\n", out)
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OutputFileName), []byte("stale contents that are longer"), 0o644))

	path, err := WriteFile(dir, "progress\n", "summary\n")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "progress\nsummary\n", string(data))
}

func TestCopyToClipboardWritesOSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")

	var buf bytes.Buffer
	require.NoError(t, CopyToClipboard(&buf, "hello"))
	require.True(t, strings.HasPrefix(buf.String(), "\x1b]52;c;"))
	require.Contains(t, buf.String(), "aGVsbG8=")
}
