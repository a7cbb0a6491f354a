package textrender

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/sfntface"
)

// Glyph is a shaped glyph positioned relative to the text origin on the
// baseline, with Y growing downward.
type Glyph struct {
	ID      glyphatlas.GlyphID
	X, Y    float64
	Advance float64

	// Cluster is the index of the first rune the glyph renders.
	Cluster int
}

// run is a maximal range of runes with one direction, [start, end).
type run struct {
	start, end int
	rtl        bool
}

// bidiRuns splits text into directional runs in visual order.
func bidiRuns(text string, runes []rune) []run {
	whole := []run{{start: 0, end: len(runes)}}

	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return whole
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return whole
	}

	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		// Pos reports rune indices, end inclusive.
		start, end := r.Pos()
		end = min(end+1, len(runes))
		if start >= end {
			continue
		}
		runs = append(runs, run{start: start, end: end, rtl: r.Direction() == bidi.RightToLeft})
	}
	if len(runs) == 0 {
		return whole
	}
	return runs
}

// detectScript returns the script of the first rune that is not a space.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// goTextFont returns the go-text font for face, parsing it once.
func (r *Renderer) goTextFont(face *sfntface.Face) (*font.Font, error) {
	if f, ok := r.fonts[face]; ok {
		return f, nil
	}
	parsed, err := font.ParseTTF(bytes.NewReader(face.Data()))
	if err != nil {
		return nil, fmt.Errorf("textrender: parse font for shaping: %w", err)
	}
	r.fonts[face] = parsed.Font
	return parsed.Font, nil
}

// Shape converts text into glyphs positioned along a single line.
// Right-to-left runs are shaped right-to-left and laid out in visual order.
//
// Results are cached per face and string; the returned slice must not be
// modified.
func (r *Renderer) Shape(face *sfntface.Face, text string) ([]Glyph, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if face == nil {
		return nil, ErrNilFace
	}
	if text == "" {
		return nil, nil
	}

	key := shapeKey{face: face, text: text}
	if glyphs, ok := r.shaped.Get(key); ok {
		return glyphs, nil
	}
	glyphs, err := r.shape(face, text)
	if err != nil {
		return nil, err
	}
	r.shaped.Put(key, glyphs)
	return glyphs, nil
}

// shape runs the shaper over every bidi run of text.
func (r *Renderer) shape(face *sfntface.Face, text string) ([]Glyph, error) {
	f, err := r.goTextFont(face)
	if err != nil {
		return nil, err
	}
	goFace := font.NewFace(f)
	size := fixed.Int26_6(face.Size() * 64)
	runes := []rune(text)

	var (
		glyphs []Glyph
		pen    float64
	)
	for _, rn := range bidiRuns(text, runes) {
		dir := di.DirectionLTR
		if rn.rtl {
			dir = di.DirectionRTL
		}
		out := r.shaper.Shape(shaping.Input{
			Text:      runes,
			RunStart:  rn.start,
			RunEnd:    rn.end,
			Direction: dir,
			Face:      goFace,
			Size:      size,
			Script:    detectScript(runes[rn.start:rn.end]),
			Language:  language.NewLanguage("en"),
		})

		for _, g := range out.Glyphs {
			adv := fixedToFloat(g.Advance)
			glyphs = append(glyphs, Glyph{
				ID:      glyphatlas.GlyphID(g.GlyphID),
				X:       pen + fixedToFloat(g.XOffset),
				Y:       -fixedToFloat(g.YOffset),
				Advance: adv,
				Cluster: g.TextIndex(),
			})
			pen += adv
		}
	}
	return glyphs, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
