// Package config loads the YAML file that sets the defaults of the richline
// command: box width, wrapping, font and the initial style.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/richline/layout"
	"github.com/ByLCY/richline/markup"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// Format selects the output of the command.
type Format string

const (
	FormatANSI Format = "ansi"
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatANSI, FormatText, FormatJSON, FormatPDF}

type Config struct {
	// Width of the box in measurer units: cells for ansi/text, mm for pdf,
	// cells or pixels for json. 0 means the terminal width for ansi/text
	// output and unbounded otherwise.
	Width  float64 `yaml:"width"`
	Wrap   bool    `yaml:"wrap"`
	Markup bool    `yaml:"markup"`
	// Pad fills every ansi/text line with spaces up to Width.
	Pad bool `yaml:"pad"`
	// Margin around the PDF page content; the default is 10mm.
	Margin layout.Length `yaml:"margin"`
	// Suffix is appended where a word is broken inside; "" disables it.
	Suffix     string            `yaml:"suffix"`
	Delimiters string            `yaml:"delimiters"`
	EastAsian  bool              `yaml:"eastAsian"`
	Output     Format            `yaml:"output"`
	Font       Font              `yaml:"font"`
	Style      Style             `yaml:"style"`
	Brushes    map[string]string `yaml:"brushes"`
}

type Font struct {
	Size       layout.Length `yaml:"size"`
	DPI        float64       `yaml:"dpi"`
	Regular    string        `yaml:"regular"`
	Bold       string        `yaml:"bold"`
	Italic     string        `yaml:"italic"`
	BoldItalic string        `yaml:"boldItalic"`
}

// Style is the initial style every text starts from.
type Style struct {
	Bold       bool    `yaml:"bold"`
	Italic     bool    `yaml:"italic"`
	Opacity    float64 `yaml:"opacity"`
	Foreground string  `yaml:"foreground"`
	Underline  struct {
		Height float64 `yaml:"height"`
		Offset float64 `yaml:"offset"`
	} `yaml:"underline"`
}

func Default() Config {
	c := Config{
		Wrap:       true,
		Markup:     true,
		Suffix:     "-",
		Delimiters: " -",
		Output:     FormatANSI,
		Margin:     layout.Length{Value: 10, Unit: layout.UnitMM},
		Font: Font{
			Size: layout.Length{Value: 12, Unit: layout.UnitPT},
			DPI:  72,
		},
	}
	c.Style.Opacity = 1
	c.Style.Underline.Height = 1
	return c
}

// Load reads and validates the file at path. Missing keys keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Width < 0 || math.IsNaN(c.Width) {
		return fmt.Errorf("%w: width %v", ErrInvalid, c.Width)
	}
	if !c.ValidFormat() {
		return fmt.Errorf("%w: output %q, want one of %v", ErrInvalid, c.Output, Formats)
	}
	if c.Font.Size.Value <= 0 {
		return fmt.Errorf("%w: font.size %s", ErrInvalid, c.Font.Size)
	}
	if c.Font.DPI <= 0 {
		return fmt.Errorf("%w: font.dpi %v", ErrInvalid, c.Font.DPI)
	}
	if c.Style.Opacity < 0 || c.Style.Opacity > 1 || math.IsNaN(c.Style.Opacity) {
		return fmt.Errorf("%w: style.opacity %v", ErrInvalid, c.Style.Opacity)
	}
	if c.Style.Foreground != "" {
		if _, err := markup.ParseColor(c.Style.Foreground); err != nil {
			return fmt.Errorf("%w: style.foreground: %v", ErrInvalid, err)
		}
	}
	if strings.ContainsAny(c.Delimiters, "\r\n") {
		return fmt.Errorf("%w: delimiters cannot contain line breaks", ErrInvalid)
	}
	return nil
}

func (c Config) ValidFormat() bool {
	for _, f := range Formats {
		if c.Output == f {
			return true
		}
	}
	return false
}

// MarginMM returns the PDF margin in millimeters.
func (c Config) MarginMM() float64 {
	return c.Margin.ToMM(c.Font.DPI)
}

// FontSizePT returns the font size in points.
func (c Config) FontSizePT() float64 {
	return c.Font.Size.ToPT(c.Font.DPI)
}

// InitialStyle converts the style section to a layout style.
func (c Config) InitialStyle() (layout.Style, error) {
	s := layout.DefaultStyle()
	s.Bold = c.Style.Bold
	s.Italic = c.Style.Italic
	s.Opacity = c.Style.Opacity
	s.Underline.Height = c.Style.Underline.Height
	s.Underline.Offset = c.Style.Underline.Offset
	if c.Style.Foreground != "" {
		fg, err := markup.ParseColor(c.Style.Foreground)
		if err != nil {
			return layout.Style{}, fmt.Errorf("%w: style.foreground: %v", ErrInvalid, err)
		}
		s.Foreground = layout.ColorFrom(fg)
	}
	return s, nil
}

// BuildOptions returns the layout options described by c, measured with m.
func (c Config) BuildOptions(m layout.Measurer) (layout.BuildOptions, error) {
	style, err := c.InitialStyle()
	if err != nil {
		return layout.BuildOptions{}, err
	}
	return layout.BuildOptions{
		Measurer: m,
		MaxWidth: c.Width,
		Wrap:     c.Wrap,
		Markup:   c.Markup,
		Style:    style,
		WrapOptions: []layout.WrapOption{
			layout.WithDelimiters([]rune(c.Delimiters)...),
			layout.WithBreakSuffix(c.Suffix),
		},
	}, nil
}
