package markup

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Tag parameters such as `[shadow=#000 2,2]` or `[bg=yellow 1.5]` have a
// small grammar of their own; it is parsed with participle.
var (
	paramLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Hex", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d*)?|\.\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Comma", Pattern: `,`},
	})

	shadowParser = participle.MustBuild[shadowParam](
		participle.Lexer(paramLexer),
		participle.Elide("Whitespace"),
	)
	backgroundParser = participle.MustBuild[backgroundParam](
		participle.Lexer(paramLexer),
		participle.Elide("Whitespace"),
	)

	imagePattern = regexp.MustCompile(`^\s*(.+?) +(\d+(?:\.\d+)?)[ ,xX]+(\d+(?:\.\d+)?)\s*$`)
)

type shadowParam struct {
	Color  string       `parser:"@(Hex | Ident)"`
	Offset *offsetParam `parser:"@@?"`
}

type offsetParam struct {
	X float64 `parser:"@Number Comma?"`
	Y float64 `parser:"@Number"`
}

type backgroundParam struct {
	Brush   string        `parser:"@(Hex | Ident)"`
	Padding *paddingParam `parser:"@@?"`
}

type paddingParam struct {
	Value float64 `parser:"@Number"`
}

// Default shadow offset when `[shadow=...]` gives only a colour.
const (
	DefaultShadowOffsetX = 1.0
	DefaultShadowOffsetY = 1.0
)

// ShadowSpec is the parsed value of a shadow tag.
type ShadowSpec struct {
	Color   color.NRGBA
	OffsetX float64
	OffsetY float64
}

// BackgroundSpec is the parsed value of a background tag. Brush is a colour
// or the id of a brush known to the renderer.
type BackgroundSpec struct {
	Brush   string
	Padding float64
}

// ImageSpec is the parsed value of an image tag.
type ImageSpec struct {
	Name   string
	Width  float64
	Height float64
}

// ParseShadow parses "<color> [dx[,] dy]".
func ParseShadow(value string) (ShadowSpec, error) {
	p, err := shadowParser.ParseString("", strings.TrimSpace(value))
	if err != nil {
		return ShadowSpec{}, fmt.Errorf("markup: invalid shadow %q: %w", value, err)
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return ShadowSpec{}, err
	}
	spec := ShadowSpec{Color: c, OffsetX: DefaultShadowOffsetX, OffsetY: DefaultShadowOffsetY}
	if p.Offset != nil {
		spec.OffsetX, spec.OffsetY = p.Offset.X, p.Offset.Y
	}
	return spec, nil
}

// ParseBackground parses "<brush> [padding]".
func ParseBackground(value string) (BackgroundSpec, error) {
	p, err := backgroundParser.ParseString("", strings.TrimSpace(value))
	if err != nil {
		return BackgroundSpec{}, fmt.Errorf("markup: invalid background %q: %w", value, err)
	}
	spec := BackgroundSpec{Brush: p.Brush}
	if p.Padding != nil {
		if p.Padding.Value < 0 {
			return BackgroundSpec{}, fmt.Errorf("markup: negative background padding %g", p.Padding.Value)
		}
		spec.Padding = p.Padding.Value
	}
	return spec, nil
}

// ParseImage parses "<name> <width><sep><height>" where sep is a space, a
// comma or x/X. The name is matched lazily so it may itself contain spaces.
func ParseImage(value string) (ImageSpec, error) {
	m := imagePattern.FindStringSubmatch(value)
	if m == nil {
		return ImageSpec{}, fmt.Errorf("markup: invalid image %q", value)
	}
	w, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return ImageSpec{}, fmt.Errorf("markup: invalid image width %q: %w", m[2], err)
	}
	h, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return ImageSpec{}, fmt.Errorf("markup: invalid image height %q: %w", m[3], err)
	}
	return ImageSpec{Name: m[1], Width: w, Height: h}, nil
}

// ParseOpacity parses a float and clamps it to [0, 1].
func ParseOpacity(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("markup: invalid opacity %q: %w", value, err)
	}
	switch {
	case math.IsNaN(v):
		return 0, fmt.Errorf("markup: invalid opacity %q", value)
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	return v, nil
}
