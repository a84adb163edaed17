// Package report renders estimator results as the plain-text summary that is
// printed, written next to the tool and copied to the clipboard.
package report

import (
	"fmt"
	"strings"

	"vramcounter/internal/config"
	"vramcounter/internal/estimator"
)

const (
	// VanillaBytes is the VRAM the unmodded game uses (0.9.1a).
	VanillaBytes int64 = 433586176

	LabelWidth = 38

	UnusedSuffix = estimator.DefaultUnusedIndicator
)

// FormatMiB renders a byte count as mebibytes with three decimals.
func FormatMiB(bytes int64) string {
	return fmt.Sprintf("%.3f MiB", float64(bytes)/1048576)
}

// Line is one label/value pair of the totals block. An empty Label is a
// blank separator line.
type Line struct {
	Label string
	Value string
}

// TotalLines returns the four totals, with and without the vanilla baseline.
func TotalLines(t estimator.Totals) []Line {
	return []Line{
		{Label: "Enabled + Disabled Mods w/o Vanilla", Value: FormatMiB(t.All)},
		{Label: "Enabled + Disabled Mods w/ Vanilla", Value: FormatMiB(t.All + VanillaBytes)},
		{},
		{Label: "Enabled Mods w/o Vanilla", Value: FormatMiB(t.Enabled)},
		{Label: "Enabled Mods w/ Vanilla", Value: FormatMiB(t.Enabled + VanillaBytes)},
	}
}

// Summary is everything the closing block of a run reports.
type Summary struct {
	Enabled    []estimator.Package
	Maps       config.MapToggles
	Totals     estimator.Totals
	ConfigName string
}

// NewSummary collects the summary of a finished run.
func NewSummary(r estimator.Report, maps config.MapToggles, configName string) Summary {
	return Summary{
		Enabled:    r.EnabledPackages(),
		Maps:       maps,
		Totals:     r.Totals,
		ConfigName: configName,
	}
}

func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("\n-------------\n")
	b.WriteString("VRAM Use Estimates\n\n")
	b.WriteString("Configuration\n")
	b.WriteString("  Enabled Mods\n")
	names := make([]string, 0, len(s.Enabled))
	for _, pkg := range s.Enabled {
		names = append(names, pkg.FormattedName())
	}
	b.WriteString("    " + strings.Join(names, "\n    ") + "\n")
	b.WriteString("  GraphicsLib\n")
	fmt.Fprintf(&b, "    Normal Maps Enabled: %t\n", s.Maps.Normal)
	fmt.Fprintf(&b, "    Material Maps Enabled: %t\n", s.Maps.Material)
	fmt.Fprintf(&b, "    Surface Maps Enabled: %t\n", s.Maps.Surface)
	name := s.ConfigName
	if name == "" {
		name = config.DefaultFileName
	}
	fmt.Fprintf(&b, "    Edit '%s' to choose your GraphicsLib settings.\n\n", name)

	for _, line := range TotalLines(s.Totals) {
		if line.Label == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(padLabel(line.Label) + line.Value + "\n")
	}

	b.WriteString("\n*This is only an estimate of VRAM use and actual use may be higher or lower*\n")
	fmt.Fprintf(&b, "*Unused images in mods are counted unless they end with %q*\n", UnusedSuffix)
	return b.String()
}

// ModTotals lists every package with its image count and total, largest
// first.
func ModTotals(r estimator.Report) string {
	var b strings.Builder
	for _, res := range r.ByImpact() {
		fmt.Fprintf(&b, "\n%s (%d images)\n%s\n", res.Package.FormattedName(), len(res.Images), FormatMiB(res.TotalBytes))
	}
	return b.String()
}

func padLabel(label string) string {
	if len(label) >= LabelWidth {
		return label
	}
	return label + strings.Repeat(" ", LabelWidth-len(label))
}
