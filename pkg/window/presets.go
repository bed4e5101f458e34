package window

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named clinical window.
type Preset struct {
	Name   string
	Center float64
	Width  float64
}

// Standard clinical window presets. Centers and widths follow the usual
// CT reading-room conventions.
var presets = map[string]Preset{
	"lung":        {Name: "lung", Center: -600, Width: 1500},
	"head":        {Name: "head", Center: 40, Width: 80},
	"mediastinum": {Name: "mediastinum", Center: 60, Width: 400},
	"bone":        {Name: "bone", Center: 300, Width: 1500},
	"abdomen":     {Name: "abdomen", Center: 40, Width: 350},
	"liver":       {Name: "liver", Center: 60, Width: 150},
}

// LookupPreset resolves a preset by name, case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// PresetNames lists the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params converts a preset into transform parameters.
func (p Preset) Params(halfUnitBias bool) Params {
	return Params{Center: p.Center, Width: p.Width, HalfUnitBias: halfUnitBias}
}

// String implements fmt.Stringer.
func (p Preset) String() string {
	return fmt.Sprintf("%s (C%g/W%g)", p.Name, p.Center, p.Width)
}
