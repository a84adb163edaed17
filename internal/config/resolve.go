package config

import "fmt"

// Prompter asks the user which map kinds the rendering add-on loads.
// initial holds the already-configured values, or true where unset.
type Prompter interface {
	PromptMaps(initial MapToggles) (MapToggles, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(initial MapToggles) (MapToggles, error)

func (f PrompterFunc) PromptMaps(initial MapToggles) (MapToggles, error) {
	return f(initial)
}

// Resolution records how the map toggles were obtained.
type Resolution int

const (
	ResolvedFromSettings Resolution = iota
	ResolvedByPrompt
	ResolvedByDefault
)

func (r Resolution) String() string {
	switch r {
	case ResolvedFromSettings:
		return "settings"
	case ResolvedByPrompt:
		return "prompt"
	default:
		return "default"
	}
}

// Resolve builds the effective configuration. Fully configured toggles are
// used as-is. Otherwise, when the add-on is enabled and p is non-nil, p is
// asked; with no prompter every map kind is assumed enabled.
func Resolve(s Settings, addonEnabled bool, p Prompter) (Effective, Resolution, error) {
	eff := Effective{
		ShowSkippedFiles:      s.ShowSkippedFiles,
		ShowCountedFiles:      s.ShowCountedFiles,
		ShowPerformance:       s.ShowPerformance,
		ShowGfxLibDebugOutput: s.ShowGfxLibDebugOutput,
		UnusedIndicators:      s.UnusedIndicators,
	}

	initial := MapToggles{
		Normal:   valueOr(s.NormalMaps, true),
		Material: valueOr(s.MaterialMaps, true),
		Surface:  valueOr(s.SurfaceMaps, true),
	}

	if s.MapsResolved() {
		eff.Maps = initial
		return eff, ResolvedFromSettings, nil
	}

	if addonEnabled && p != nil {
		maps, err := p.PromptMaps(initial)
		if err != nil {
			return eff, ResolvedByPrompt, fmt.Errorf("%w: %v", ErrUnresolved, err)
		}
		eff.Maps = maps
		return eff, ResolvedByPrompt, nil
	}

	eff.Maps = initial
	return eff, ResolvedByDefault, nil
}

// WithMaps returns a copy of s with all three toggles set from m.
func (s Settings) WithMaps(m MapToggles) Settings {
	normal, material, surface := m.Normal, m.Material, m.Surface
	s.NormalMaps = &normal
	s.MaterialMaps = &material
	s.SurfaceMaps = &surface
	return s
}

func valueOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
