package poster

import (
	"image/color"
	"slices"
	"strings"
)

// Template is one fixed poster look.
type Template struct {
	ID   string
	Name string
	From color.RGBA // gradient start at the top-left corner
	To   color.RGBA // gradient end at the bottom-right corner
	Text color.RGBA
	Mono bool // monospace face for every line
}

// Flat reports whether the template is a single fill.
func (t Template) Flat() bool { return t.From == t.To }

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

var templates = map[string]Template{ //nolint:gochecknoglobals // fixed table
	"modern": {
		ID: "modern", Name: "Modern",
		From: rgb(0x3b82f6), To: rgb(0x8b5cf6), Text: white,
	},
	"classic": {
		ID: "classic", Name: "Classic",
		From: rgb(0xfbbf24), To: rgb(0xf97316), Text: white,
	},
	"minimal": {
		ID: "minimal", Name: "Minimal",
		From: rgb(0xf3f4f6), To: rgb(0xd1d5db), Text: rgb(0x1f2937),
	},
	"neon": {
		ID: "neon", Name: "Neon",
		From: rgb(0x22d3ee), To: rgb(0xec4899), Text: white, Mono: true,
	},
	"festival": {
		ID: "festival", Name: "Festival",
		From: rgb(0x14532d), To: rgb(0x14532d), Text: rgb(0xfef3c7),
	},
}

// DefaultTemplate is used by callers that let the user omit a template.
const DefaultTemplate = "modern"

// Lookup returns the template for id. Ids match exactly.
func Lookup(id string) (Template, error) {
	t, ok := templates[id]
	if !ok {
		return Template{}, ErrUnknownTemplate
	}
	return t, nil
}

// Templates lists every template ordered by id.
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Template) int { return strings.Compare(a.ID, b.ID) })
	return out
}
