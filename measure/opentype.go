package measure

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/richline/fonts"
	"github.com/ByLCY/richline/layout"
)

// Options configures an OpenType measurer. Empty font slots fall back to the
// embedded Latin Modern faces.
type Options struct {
	Size float64 // points
	DPI  float64

	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

const (
	DefaultSize = 12
	DefaultDPI  = 72
)

// OpenType measures text with golang.org/x/image faces. Widths and heights
// are in pixels at the configured size and DPI.
type OpenType struct {
	mu    sync.Mutex
	faces [4]font.Face
}

var _ layout.Measurer = (*OpenType)(nil)

// NewOpenType parses the four style faces.
func NewOpenType(opts Options) (*OpenType, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	sources := [4][]byte{opts.Regular, opts.Bold, opts.Italic, opts.BoldItalic}
	o := &OpenType{}
	for i, data := range sources {
		if len(data) == 0 {
			data = fonts.ForStyle(i&1 != 0, i&2 != 0)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("measure: parse font %d: %w", i, err)
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    opts.Size,
			DPI:     opts.DPI,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("measure: new face %d: %w", i, err)
		}
		o.faces[i] = face
	}
	return o, nil
}

func faceIndex(bold, italic bool) int {
	i := 0
	if bold {
		i |= 1
	}
	if italic {
		i |= 2
	}
	return i
}

// Measure implements layout.Measurer.
func (o *OpenType) Measure(text string, bold, italic, ignoreFirstGlyphLeftBearing bool) (float64, float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	face := o.faces[faceIndex(bold, italic)]
	width := font.MeasureString(face, text)
	if ignoreFirstGlyphLeftBearing && text != "" {
		r, _ := utf8.DecodeRuneInString(text)
		if bounds, _, ok := face.GlyphBounds(r); ok {
			width -= bounds.Min.X
		}
	}
	return toFloat(width), toFloat(face.Metrics().Height)
}

// Close releases the faces.
func (o *OpenType) Close() error {
	var first error
	for _, f := range o.faces {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
