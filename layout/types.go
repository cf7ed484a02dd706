package layout

import "image/color"

// 该文件定义样式、Run 与行结构，供 Run 构建、折行、渲染与调试 JSON 共用。

// Color 采用 0-255 的 RGBA 数值（非预乘）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// ColorFrom 把解析出的 NRGBA 转为 Color。
func ColorFrom(c color.NRGBA) *Color {
	return &Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NRGBA 实现到标准库颜色的转换，便于渲染器直接使用。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Underline 描述下划线；Brush 为空时使用前景色。
type Underline struct {
	Enabled bool    `json:"enabled"`
	Height  float64 `json:"height"`
	Offset  float64 `json:"offset"`
	Brush   string  `json:"brush,omitempty"`
}

// Background 描述背景刷与内边距，Brush 为空表示无背景。
type Background struct {
	Brush   string  `json:"brush,omitempty"`
	Padding float64 `json:"padding,omitempty"`
}

// Shadow 描述文字阴影，Color 为空表示无阴影。
type Shadow struct {
	Color   *Color  `json:"color,omitempty"`
	OffsetX float64 `json:"offsetX,omitempty"`
	OffsetY float64 `json:"offsetY,omitempty"`
}

// Style 是一段文本的完整样式。值类型：每个动作都会产生新的 Style，指针指向的颜色不会被修改。
type Style struct {
	Bold       bool       `json:"bold,omitempty"`
	Italic     bool       `json:"italic,omitempty"`
	Opacity    float64    `json:"opacity"`
	Foreground *Color     `json:"foreground,omitempty"`
	Underline  Underline  `json:"underline"`
	Background Background `json:"background"`
	Shadow     Shadow     `json:"shadow"`
}

// DefaultStyle 返回默认样式：不透明、下划线粗细 1，其余为零值。
func DefaultStyle() Style {
	return Style{
		Opacity:   1,
		Underline: Underline{Height: 1},
	}
}

// Run 是 TextRun、LineBreakRun、ImageRun 三者之一。
type Run interface {
	isRun()
}

// TextRun 是一段同样式文本。
type TextRun struct {
	Text    string `json:"text"`
	Style   Style  `json:"style"`
	ToolTip string `json:"toolTip,omitempty"`
	Action  string `json:"action,omitempty"`
}

// LineBreakRun 表示一次显式换行；Consumed 为换行符占用的字符数（\r\n 为 2）。
type LineBreakRun struct {
	Consumed int `json:"consumed"`
}

// ImageRun 表示一张行内图片，宽高使用测量器的单位。
type ImageRun struct {
	Source  string  `json:"source"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ToolTip string  `json:"toolTip,omitempty"`
	Action  string  `json:"action,omitempty"`
}

func (TextRun) isRun()      {}
func (LineBreakRun) isRun() {}
func (ImageRun) isRun()     {}

// Size 为宽高。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 是折行后的一行。
type Line struct {
	Runs            []Run `json:"-"`
	Size            Size  `json:"size"`
	Number          int   `json:"number"`
	EndsInLineBreak bool  `json:"endsInLineBreak"`
	// OriginalCharacterIndices 与行内输出字符一一对应，记录其在纯文本中的下标。
	// 折行后缀字符沿用断点前一个字符的下标。
	OriginalCharacterIndices []int `json:"originalCharacterIndices"`
}

// Text 返回该行输出的全部文本（包括折行后缀）。
func (l Line) Text() string {
	var n int
	for _, r := range l.Runs {
		if tr, ok := r.(TextRun); ok {
			n += len(tr.Text)
		}
	}
	buf := make([]byte, 0, n)
	for _, r := range l.Runs {
		if tr, ok := r.(TextRun); ok {
			buf = append(buf, tr.Text...)
		}
	}
	return string(buf)
}
