package estimator

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strings"

	"vramcounter/internal/config"
	"vramcounter/internal/progress"
)

type MapKind int

const (
	MapNormal MapKind = iota
	MapMaterial
	MapSurface
)

func (k MapKind) String() string {
	switch k {
	case MapMaterial:
		return "material"
	case MapSurface:
		return "surface"
	default:
		return "normal"
	}
}

func parseMapKind(s string) (MapKind, bool) {
	switch s {
	case "normal":
		return MapNormal, true
	case "material":
		return MapMaterial, true
	case "surface":
		return MapSurface, true
	default:
		return 0, false
	}
}

// Directive names a file the rendering add-on supplies as a map of Kind.
type Directive struct {
	Kind    MapKind
	RelPath string
}

// Exclusions is the outcome of ResolveExclusions. When Found is false no
// directive table exists and nothing is excluded.
type Exclusions struct {
	Found      bool
	Source     string
	Directives []Directive
}

// Set returns the normalised paths of all directives.
func (e Exclusions) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(e.Directives))
	for _, d := range e.Directives {
		set[normalizeRelPath(d.RelPath)] = struct{}{}
	}
	return set
}

var requiredColumns = []string{"id", "type", "map", "path"}

// ResolveExclusions finds the first CSV among files whose header names the
// id, type, map and path columns and returns its directives for map kinds
// that cfg disables. Unreadable files and rows are logged and skipped.
func ResolveExclusions(files []PackageFile, cfg config.Effective, log *progress.Log) Exclusions {
	for _, f := range files {
		if !strings.HasSuffix(f.RelPath, ".csv") {
			continue
		}
		rows, err := readTable(f.Path)
		if err != nil {
			log.Printf("Unable to read %s: %v", f.RelPath, err)
			continue
		}
		if len(rows) == 0 || !containsAll(rows[0], requiredColumns) {
			continue
		}

		excl := Exclusions{Found: true, Source: f.RelPath}
		mapCol := indexOf(rows[0], "map")
		pathCol := indexOf(rows[0], "path")
		for i, row := range rows[1:] {
			if mapCol >= len(row) || pathCol >= len(row) {
				log.Printf("%s row %d: expected columns %d and %d, got %d fields", f.RelPath, i+2, mapCol+1, pathCol+1, len(row))
				continue
			}
			kind, ok := parseMapKind(row[mapCol])
			if !ok {
				continue
			}
			if mapEnabled(cfg.Maps, kind) {
				continue
			}
			excl.Directives = append(excl.Directives, Directive{Kind: kind, RelPath: strings.TrimSpace(row[pathCol])})
		}

		if cfg.ShowGfxLibDebugOutput {
			for _, d := range excl.Directives {
				log.Printf("GraphicsLib %s map excluded: %s", d.Kind, d.RelPath)
			}
		}
		return excl
	}
	return Exclusions{}
}

func mapEnabled(m config.MapToggles, k MapKind) bool {
	switch k {
	case MapMaterial:
		return m.Material
	case MapSurface:
		return m.Surface
	default:
		return m.Normal
	}
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// readTable parses a CSV leniently: rows may differ in length, blank lines
// are dropped and stray quotes are tolerated.
func readTable(p string) ([][]string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func containsAll(row []string, names []string) bool {
	for _, n := range names {
		if indexOf(row, n) < 0 {
			return false
		}
	}
	return true
}

func indexOf(row []string, name string) int {
	for i, v := range row {
		if v == name {
			return i
		}
	}
	return -1
}

// normalizeRelPath makes CSV-authored and walked paths comparable.
func normalizeRelPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return p
	}
	return path.Clean(p)
}
