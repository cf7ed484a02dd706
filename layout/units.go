package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit-safe lengths for font sizes and page geometry in the config file.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // pixels, resolved against a DPI
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}}

func (u Unit) String() string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ToPT converts the length to points. Pixels and bare numbers are resolved
// against dpi; a bare number is taken as points when dpi is 0.
func (l Length) ToPT(dpi float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	case UnitPX:
		if dpi <= 0 {
			dpi = 72
		}
		return l.Value * 72 / dpi
	}
	return l.Value
}

// ToMM converts the length to millimeters.
func (l Length) ToMM(dpi float64) float64 {
	if l.Unit == UnitMM {
		return l.Value
	}
	return l.ToPT(dpi) * PtToMm
}

// ParseLength parses "12pt", "4.2mm", "16px" or a bare number.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("layout: empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("layout: invalid length %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("layout: negative length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// UnmarshalText lets lengths be written as strings in YAML.
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
