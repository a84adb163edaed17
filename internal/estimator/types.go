package estimator

import (
	"path"
	"path/filepath"
	"sort"
	"time"
)

type Category int

const (
	CategoryTexture Category = iota
	CategoryBackground
	CategoryUnused
)

func (c Category) String() string {
	switch c {
	case CategoryBackground:
		return "background"
	case CategoryUnused:
		return "unused"
	default:
		return "texture"
	}
}

// Package is one mod folder and its identity.
type Package struct {
	ID      string
	Name    string
	Version string
	Root    string
	Enabled bool
}

// FormattedName renders "name version (id)".
func (p Package) FormattedName() string {
	return p.Name + " " + p.Version + " (" + p.ID + ")"
}

// DisplayPath prefixes a package-relative path with the package folder name.
func (p Package) DisplayPath(relPath string) string {
	return path.Join(filepath.Base(p.Root), relPath)
}

// PackageFile is a regular file found under a package root.
type PackageFile struct {
	Path    string // absolute
	RelPath string // slash separated, relative to the package root
}

// ImageAsset is a decoded image and the texture size derived from it. All
// derived fields are computed by NewImageAsset and never change.
type ImageAsset struct {
	RelPath     string
	Name        string
	Width       int
	Height      int
	ChannelBits []int
	Category    Category

	TextureWidth  int
	TextureHeight int
	Multiplier    float64
	BytesUsed     int64
}

// DedupKey identifies an asset across packages.
func (a ImageAsset) DedupKey() string {
	return a.RelPath + a.Name
}

// PackageResult is the immutable outcome of scanning one package.
type PackageResult struct {
	Package    Package
	Images     []ImageAsset // every decoded image, sorted by path
	Counted    []ImageAsset // images that contribute to TotalBytes
	Exclusions Exclusions
	TotalBytes int64
}

// Totals are the deduplicated grand totals of a run.
type Totals struct {
	All     int64
	Enabled int64
}

// Report is the outcome of a run.
type Report struct {
	Packages []PackageResult
	Totals   Totals
	Elapsed  time.Duration
}

// EnabledPackages returns the enabled packages in report order.
func (r Report) EnabledPackages() []Package {
	var out []Package
	for _, res := range r.Packages {
		if res.Package.Enabled {
			out = append(out, res.Package)
		}
	}
	return out
}

// ByImpact returns the package results ordered by total bytes, largest
// first. Ties keep report order.
func (r Report) ByImpact() []PackageResult {
	out := append([]PackageResult(nil), r.Packages...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBytes > out[j].TotalBytes
	})
	return out
}

// ProgressUpdate carries counter deltas for a live progress view.
type ProgressUpdate struct {
	PackagesDelta     int
	PackagesDoneDelta int
	FilesDelta        int
	ScannedDelta      int
	ImagesDelta       int
	SkippedDelta      int
}
