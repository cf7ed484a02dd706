package layout

// BuildOptions 配置 Build 所需的依赖，例如测量后端。
type BuildOptions struct {
	Measurer Measurer
	// MaxWidth 为最大行宽；<=0 或 +Inf 表示不限宽。
	MaxWidth float64
	Wrap     bool
	// Markup 为 false 时输入按纯文本处理。
	Markup      bool
	Style       Style
	WrapOptions []WrapOption
}

// Measurer 负责测量一段同样式文本的宽高。
// ignoreFirstGlyphLeftBearing 为 true 时结果不包含首字形的左侧空白。
type Measurer interface {
	Measure(text string, bold, italic, ignoreFirstGlyphLeftBearing bool) (width, height float64)
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, bold, italic, ignoreFirstGlyphLeftBearing bool) (float64, float64)

func (f MeasureFunc) Measure(text string, bold, italic, ignoreFirstGlyphLeftBearing bool) (float64, float64) {
	return f(text, bold, italic, ignoreFirstGlyphLeftBearing)
}
