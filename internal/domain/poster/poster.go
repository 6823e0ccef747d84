// Package poster renders fixed-layout PNG result posters.
//
// Rendering is deterministic: the same result and template always produce
// the same bytes. Parsed fonts are shared; faces are created per call.
package poster

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/scoring"
)

// Canvas dimensions in pixels.
const (
	Width  = 800
	Height = 600

	margin      = 20
	minFontSize = 12
	dpi         = 72 // 1pt == 1px
)

// Spec is everything drawn on a poster.
type Spec struct {
	TemplateID    string
	EventName     string
	Participant   string
	PositionLabel string
	Points        int
}

type weight int

const (
	weightBold weight = iota
	weightMedium
)

type line struct {
	text   string
	y      int
	size   float64
	weight weight
}

func (s Spec) lines() []line {
	return []line{
		{text: "COMPETITION RESULT", y: 100, size: 48, weight: weightBold},
		{text: s.EventName, y: 180, size: 36, weight: weightMedium},
		{text: s.PositionLabel + " PLACE", y: 320, size: 72, weight: weightBold},
		{text: s.Participant, y: 420, size: 42, weight: weightBold},
		{text: strconv.Itoa(s.Points) + " Points", y: 500, size: 32, weight: weightMedium},
	}
}

// NewSpec derives the poster fields for a result. Points and the ordinal
// label come from the position, not from the stored points.
func NewSpec(r model.Result, templateID string) (Spec, error) {
	tpl, err := Lookup(templateID)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", err, templateID)
	}
	pts, err := scoring.PointsForPosition(r.Position)
	if err != nil {
		return Spec{}, err
	}
	label, err := scoring.PositionLabel(r.Position)
	if err != nil {
		return Spec{}, err
	}
	return Spec{
		TemplateID:    tpl.ID,
		EventName:     r.EventName,
		Participant:   r.Participant,
		PositionLabel: label,
		Points:        pts,
	}, nil
}

// Render draws the poster for r using templateID and returns PNG bytes.
func Render(r model.Result, templateID string) ([]byte, error) {
	spec, err := NewSpec(r, templateID)
	if err != nil {
		return nil, err
	}
	return RenderSpec(spec)
}

// RenderSpec draws an already derived spec.
func RenderSpec(s Spec) ([]byte, error) {
	tpl, err := Lookup(s.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, s.TemplateID)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	paintBackground(img, tpl)

	ink := image.NewUniform(tpl.Text)
	for _, ln := range s.lines() {
		if ln.text == "" {
			continue
		}
		f := fonts.bold
		switch {
		case tpl.Mono:
			f = fonts.mono
		case ln.weight == weightMedium:
			f = fonts.medium
		}
		if err := drawCentered(img, ink, f, ln); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode poster: %w", err)
	}
	return buf.Bytes(), nil
}

// CacheKey identifies the rendered bytes of s.
func CacheKey(s Spec) string {
	h := sha256.New()
	for _, part := range []string{s.TemplateID, s.EventName, s.Participant, s.PositionLabel, strconv.Itoa(s.Points)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return s.TemplateID + "-" + hex.EncodeToString(h.Sum(nil))
}

// paintBackground fills img with a linear gradient along the main diagonal.
// Integer arithmetic keeps the output identical across platforms.
func paintBackground(img *image.RGBA, tpl Template) {
	const den = Width*Width + Height*Height
	for y := 0; y < Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < Width; x++ {
			c := tpl.From
			if !tpl.Flat() {
				num := x*Width + y*Height
				c = color.RGBA{
					R: lerp(tpl.From.R, tpl.To.R, num, den),
					G: lerp(tpl.From.G, tpl.To.G, num, den),
					B: lerp(tpl.From.B, tpl.To.B, num, den),
					A: 0xff,
				}
			}
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func lerp(a, b uint8, num, den int) uint8 {
	return uint8(int(a) + (int(b)-int(a))*num/den)
}

func drawCentered(dst *image.RGBA, ink image.Image, f *opentype.Font, ln line) error {
	size := ln.size
	for {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFontLoad, err)
		}
		d := &font.Drawer{Dst: dst, Src: ink, Face: face}
		w := d.MeasureString(ln.text).Ceil()
		if w > Width-2*margin && size > minFontSize {
			_ = face.Close()
			size = max(minFontSize, size*float64(Width-2*margin)/float64(w))
			continue
		}
		d.Dot = fixed.P((Width-w)/2, ln.y)
		d.DrawString(ln.text)
		return face.Close()
	}
}

type fontSet struct {
	bold, medium, mono *opentype.Font
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) { //nolint:gochecknoglobals // parsed once, read-only
	var fs fontSet
	for _, src := range []struct {
		dst **opentype.Font
		ttf []byte
	}{
		{&fs.bold, gobold.TTF},
		{&fs.medium, gomedium.TTF},
		{&fs.mono, gomonobold.TTF},
	} {
		f, err := opentype.Parse(src.ttf)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFontLoad, err)
		}
		*src.dst = f
	}
	return &fs, nil
})
