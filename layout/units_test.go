package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestLengthConversions 覆盖常见单位到 pt/mm 的转换。
func TestLengthConversions(t *testing.T) {
	cases := []struct {
		in     Length
		dpi    float64
		wantPT float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 0, 72},
		{Length{Value: 2.54, Unit: UnitCM}, 0, 72},
		{Length{Value: 12, Unit: UnitPT}, 0, 12},
		{Length{Value: 12, Unit: UnitNone}, 0, 12},
		{Length{Value: 16, Unit: UnitPX}, 96, 12},
		{Length{Value: 16, Unit: UnitPX}, 0, 16},
	}
	for _, c := range cases {
		if got := c.in.ToPT(c.dpi); math.Abs(got-c.wantPT) > 1e-3 {
			t.Fatalf("%v@%gdpi 转 pt 期望 %g，实际 %g", c.in, c.dpi, c.wantPT, got)
		}
	}
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToMM(0); got != 10 {
		t.Fatalf("10mm 转 mm 期望 10，实际 %g", got)
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(0); math.Abs(got-25.4) > 1e-3 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
}

// TestParseLength 覆盖带单位与不带单位的写法，以及非法输入。
func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"12pt":    {Value: 12, Unit: UnitPT},
		" 4.5MM ": {Value: 4.5, Unit: UnitMM},
		"16px":    {Value: 16, Unit: UnitPX},
		"1in":     {Value: 1, Unit: UnitIN},
		"11":      {Value: 11, Unit: UnitNone},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 失败: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLength(%q) = %+v，期望 %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "pt", "abc", "-1mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应当失败", bad)
		}
	}

	var l Length
	if err := l.UnmarshalText([]byte("9pt")); err != nil || l.String() != "9pt" {
		t.Fatalf("UnmarshalText 结果异常: %v %v", l, err)
	}
}
