package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// GraphicsLibModID is the package id of the rendering add-on whose map
// toggles drive exclusions.
const GraphicsLibModID = "shaderLib"

// DefaultFileName is the settings file looked up in the working directory.
const DefaultFileName = "config.properties"

const (
	KeyShowSkippedFiles      = "showSkippedFiles"
	KeyShowCountedFiles      = "showCountedFiles"
	KeyShowPerformance       = "showPerformance"
	KeyShowGfxLibDebugOutput = "showGfxLibDebugOutput"
	KeyNormalMapsEnabled     = "areGfxLibNormalMapsEnabled"
	KeyMaterialMapsEnabled   = "areGfxLibMaterialMapsEnabled"
	KeySurfaceMapsEnabled    = "areGfxLibSurfaceMapsEnabled"
	KeyUnusedIndicators      = "unusedIndicators"
)

var keys = []struct {
	name string
	env  string
}{
	{KeyShowSkippedFiles, "VRAM_SHOW_SKIPPED_FILES"},
	{KeyShowCountedFiles, "VRAM_SHOW_COUNTED_FILES"},
	{KeyShowPerformance, "VRAM_SHOW_PERFORMANCE"},
	{KeyShowGfxLibDebugOutput, "VRAM_SHOW_GFXLIB_DEBUG_OUTPUT"},
	{KeyNormalMapsEnabled, "VRAM_NORMAL_MAPS_ENABLED"},
	{KeyMaterialMapsEnabled, "VRAM_MATERIAL_MAPS_ENABLED"},
	{KeySurfaceMapsEnabled, "VRAM_SURFACE_MAPS_ENABLED"},
	{KeyUnusedIndicators, "VRAM_UNUSED_INDICATORS"},
}

// ErrUnresolved is returned by Resolve when the map toggles are unset and no
// way to ask for them was supplied while the add-on is enabled.
var ErrUnresolved = errors.New("graphics add-on map settings are not configured")

// Settings is the persisted run configuration. Map toggles are nil when the
// file leaves them unset.
type Settings struct {
	ShowSkippedFiles      bool
	ShowCountedFiles      bool
	ShowPerformance       bool
	ShowGfxLibDebugOutput bool

	NormalMaps   *bool
	MaterialMaps *bool
	SurfaceMaps  *bool

	// UnusedIndicators replaces the default unused-file markers when set.
	// Stored comma separated.
	UnusedIndicators []string
}

// MapToggles says which texture map kinds the rendering add-on will load.
type MapToggles struct {
	Normal   bool
	Material bool
	Surface  bool
}

// Effective is the configuration a run is executed with.
type Effective struct {
	Maps MapToggles

	ShowSkippedFiles      bool
	ShowCountedFiles      bool
	ShowPerformance       bool
	ShowGfxLibDebugOutput bool

	// UnusedIndicators is nil when the defaults apply.
	UnusedIndicators []string
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		ShowCountedFiles: true,
		ShowPerformance:  true,
	}
}

// MapsResolved reports whether all three map toggles are set.
func (s Settings) MapsResolved() bool {
	return s.NormalMaps != nil && s.MaterialMaps != nil && s.SurfaceMaps != nil
}

// Load reads settings from path. A missing file yields the defaults; a
// path ending in .toml is decoded as TOML, anything else as key=value
// properties. Environment variables override file values.
func Load(path string) (Settings, error) {
	values := map[string]string{}
	if path != "" {
		read, err := readFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Defaults(), fmt.Errorf("read config %s: %w", path, err)
		}
		if read != nil {
			values = read
		}
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k.env); ok {
			values[k.name] = v
		}
	}
	return fromValues(values), nil
}

func readFile(path string) (map[string]string, error) {
	if !isTOML(path) {
		values, err := godotenv.Read(path)
		if err != nil {
			return map[string]string{}, err
		}
		return values, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}, err
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return map[string]string{}, err
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			values[k] = strings.Join(parts, ",")
			continue
		}
		values[k] = fmt.Sprint(v)
	}
	return values, nil
}

func fromValues(values map[string]string) Settings {
	s := Defaults()
	boolOr := func(key string, def bool) bool {
		v, ok := values[key]
		if !ok {
			return def
		}
		return parseBool(v)
	}
	optional := func(key string) *bool {
		v, ok := values[key]
		if !ok {
			return nil
		}
		b := parseBool(v)
		return &b
	}

	s.ShowSkippedFiles = boolOr(KeyShowSkippedFiles, s.ShowSkippedFiles)
	s.ShowCountedFiles = boolOr(KeyShowCountedFiles, s.ShowCountedFiles)
	s.ShowPerformance = boolOr(KeyShowPerformance, s.ShowPerformance)
	s.ShowGfxLibDebugOutput = boolOr(KeyShowGfxLibDebugOutput, s.ShowGfxLibDebugOutput)
	s.NormalMaps = optional(KeyNormalMapsEnabled)
	s.MaterialMaps = optional(KeyMaterialMapsEnabled)
	s.SurfaceMaps = optional(KeySurfaceMapsEnabled)
	if v, ok := values[KeyUnusedIndicators]; ok {
		s.UnusedIndicators = splitList(v)
	}
	return s
}

// splitList splits a comma separated value, dropping empty entries. An
// all-empty value yields nil.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBool treats only a case-insensitive "true" as true.
func parseBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Save writes settings to path in the format implied by its extension.
func Save(path string, s Settings) error {
	values := s.values()
	if !isTOML(path) {
		return godotenv.Write(values, path)
	}

	raw := make(map[string]any, len(values))
	for k, v := range values {
		if k == KeyUnusedIndicators {
			raw[k] = s.UnusedIndicators
			continue
		}
		raw[k] = parseBool(v)
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s Settings) values() map[string]string {
	values := map[string]string{
		KeyShowSkippedFiles:      fmt.Sprint(s.ShowSkippedFiles),
		KeyShowCountedFiles:      fmt.Sprint(s.ShowCountedFiles),
		KeyShowPerformance:       fmt.Sprint(s.ShowPerformance),
		KeyShowGfxLibDebugOutput: fmt.Sprint(s.ShowGfxLibDebugOutput),
	}
	if s.NormalMaps != nil {
		values[KeyNormalMapsEnabled] = fmt.Sprint(*s.NormalMaps)
	}
	if s.MaterialMaps != nil {
		values[KeyMaterialMapsEnabled] = fmt.Sprint(*s.MaterialMaps)
	}
	if s.SurfaceMaps != nil {
		values[KeySurfaceMapsEnabled] = fmt.Sprint(*s.SurfaceMaps)
	}
	if len(s.UnusedIndicators) > 0 {
		values[KeyUnusedIndicators] = strings.Join(s.UnusedIndicators, ",")
	}
	return values
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
