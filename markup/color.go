package markup

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses #RGB, #RGBA, #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(value string) (color.NRGBA, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("markup: empty color")
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}
	name := strings.ToLower(v)
	if name == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("markup: unknown color %q", value)
}

func parseHexColor(hex string) (color.NRGBA, error) {
	switch len(hex) {
	case 3, 4:
		// #RGB / #RGBA，每个半字节扩展为两位
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("markup: invalid hex color #%s", hex)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("markup: invalid hex color #%s: %w", hex, err)
	}
	if len(hex) == 6 {
		n = n<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}
