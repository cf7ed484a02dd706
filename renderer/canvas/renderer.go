package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/richline/fonts"
	"github.com/ByLCY/richline/layout"
	"github.com/ByLCY/richline/markup"
	"github.com/ByLCY/richline/renderer"
)

const (
	defaultFontSize = 12.0 // pt
	defaultMargin   = 10.0 // mm
	// 下划线、阴影偏移与背景内边距以字号的 1/15 为单位
	styleUnitDivisor = 15.0
)

// Renderer draws layout results to PDF via github.com/tdewolff/canvas. It is
// also a layout.Measurer working in millimeters, so the same instance must
// be used for layout and rendering.
type Renderer struct {
	baseDir  string
	fontSize float64 // pt
	margin   float64 // mm
	meta     Meta

	// injected resources
	fontBlobs  map[string][]byte // by style key
	imageBlobs map[string][]byte // by unique name
	brushes    map[string]string

	fontMu  sync.Mutex
	family  *canvas.FontFamily
	fontErr error // 字体加载失败的原因，测量时无法返回，由 Render 报告
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir  string
	FontSize float64 // pt, 0 means 12pt
	Margin   float64 // mm, 0 means 10mm, negative means no margin
	// Fonts overrides the embedded faces by style key: regular, bold, italic, bolditalic.
	Fonts map[string]Resource
	// Images are addressable from [img=...] by name or as built-in:<name>.
	Images map[string]Resource
	// Brushes maps brush ids used by [bg=...] and underline to colours.
	Brushes map[string]string
	Meta    Meta
}

// Meta is written into the PDF info dictionary.
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}

// Resource can be provided either by Bytes or by Path. A Path of the form
// embed:<name> refers to a font shipped in the fonts package.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		fontSize:   opts.FontSize,
		margin:     opts.Margin,
		meta:       opts.Meta,
		fontBlobs:  map[string][]byte{},
		imageBlobs: map[string][]byte{},
		brushes:    map[string]string{},
	}
	if r.fontSize <= 0 {
		r.fontSize = defaultFontSize
	}
	if r.margin == 0 {
		r.margin = defaultMargin
	} else if r.margin < 0 {
		r.margin = 0
	}
	for name, res := range opts.Fonts {
		data, err := res.load()
		if err != nil {
			if r.fontErr == nil {
				r.fontErr = fmt.Errorf("读取字体 %s 失败: %w", name, err)
			}
			continue
		}
		if len(data) > 0 {
			r.fontBlobs[strings.ToLower(name)] = data
		}
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		// 读取失败的图片在渲染时按名称重新查找，并在那里报错
		if data, err := res.load(); err == nil && len(data) > 0 {
			r.imageBlobs[name] = data
		}
	}
	for id, c := range opts.Brushes {
		r.brushes[strings.ToLower(id)] = c
	}
	return r
}

func (res Resource) load() ([]byte, error) {
	switch {
	case len(res.Bytes) > 0:
		return res.Bytes, nil
	case strings.HasPrefix(res.Path, "embed:"):
		return fonts.Load(res.Path)
	case res.Path != "":
		return os.ReadFile(res.Path)
	}
	return nil, nil
}

// Measure 实现 layout.Measurer，宽高单位为 mm。canvas 不提供单字形左侧空白，
// ignoreFirstGlyphLeftBearing 在这里不起作用。字体无法加载时返回 (0, 0)，
// 错误由随后的 Render 返回。
func (r *Renderer) Measure(text string, bold, italic, _ bool) (float64, float64) {
	face, err := r.fontFace(bold, italic, color.Black)
	if err != nil {
		return 0, 0
	}
	return face.TextWidth(text), face.Metrics().LineHeight
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Lines) == 0 {
		return nil, fmt.Errorf("缺少可渲染的行")
	}
	if _, err := r.ensureFontFamily(); err != nil {
		return nil, fmt.Errorf("字体不可用，排版结果无效: %w", err)
	}

	width := result.Width + 2*r.margin
	height := result.Height + 2*r.margin
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	y := r.margin
	for _, line := range result.Lines {
		if err := r.drawLine(ctx, line, r.margin, y); err != nil {
			return nil, err
		}
		y += line.Size.Height
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}

// unit 是样式长度的单位（mm）。
func (r *Renderer) unit() float64 { return r.fontSize * layout.PtToMm / styleUnitDivisor }

// drawLine 逐个 Run 绘制；文本依次画背景、阴影、正文与下划线。
func (r *Renderer) drawLine(ctx *canvas.Context, line layout.Line, left, top float64) error {
	ascent := 0.0
	for _, run := range line.Runs {
		if tr, ok := run.(layout.TextRun); ok {
			face, err := r.fontFace(tr.Style.Bold, tr.Style.Italic, color.Black)
			if err != nil {
				return err
			}
			ascent = math.Max(ascent, face.Metrics().Ascent)
		}
	}
	baseline := top + ascent
	u := r.unit()

	x := left
	for _, run := range line.Runs {
		switch run := run.(type) {
		case layout.TextRun:
			w, err := r.drawText(ctx, run, x, top, baseline, line.Size.Height, u)
			if err != nil {
				return err
			}
			x += w
		case layout.ImageRun:
			if err := r.drawImage(ctx, run, x, baseline-run.Height); err != nil {
				return err
			}
			x += run.Width
		}
	}
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, run layout.TextRun, x, top, baseline, lineHeight, u float64) (float64, error) {
	style := run.Style
	fg := color.NRGBA{A: 0xff}
	if style.Foreground != nil {
		fg = style.Foreground.NRGBA()
	}
	face, err := r.fontFace(style.Bold, style.Italic, withOpacity(fg, style.Opacity))
	if err != nil {
		return 0, err
	}
	width := face.TextWidth(run.Text)

	if bg := style.Background; bg.Brush != "" {
		if c, ok := r.brush(bg.Brush); ok {
			pad := bg.Padding * u
			fillRect(ctx, withOpacity(c, style.Opacity), x-pad, top-pad, width+2*pad, lineHeight+2*pad)
		}
	}

	if sh := style.Shadow; sh.Color != nil {
		shadowFace, err := r.fontFace(style.Bold, style.Italic, withOpacity(sh.Color.NRGBA(), style.Opacity))
		if err != nil {
			return 0, err
		}
		ctx.DrawText(x+sh.OffsetX*u, baseline+sh.OffsetY*u, canvas.NewTextLine(shadowFace, run.Text, canvas.Left))
	}

	ctx.DrawText(x, baseline, canvas.NewTextLine(face, run.Text, canvas.Left))

	if ul := style.Underline; ul.Enabled && width > 0 {
		c := fg
		if ul.Brush != "" {
			if bc, ok := r.brush(ul.Brush); ok {
				c = bc
			}
		}
		thickness := math.Max(ul.Height, 0.5) * u
		fillRect(ctx, withOpacity(c, style.Opacity), x, baseline+(1.5+ul.Offset)*u, width, thickness)
	}
	return width, nil
}

// brush 先查注入的画刷，再按颜色解析。
func (r *Renderer) brush(id string) (color.NRGBA, bool) {
	value := id
	if named, ok := r.brushes[strings.ToLower(id)]; ok {
		value = named
	}
	c, err := markup.ParseColor(value)
	if err != nil {
		return color.NRGBA{}, false
	}
	return c, true
}

func fillRect(ctx *canvas.Context, c color.Color, x, y, w, h float64) {
	ctx.SetFillColor(c)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

func withOpacity(c color.NRGBA, opacity float64) color.Color {
	a := float64(c.A) / 255.0 * opacity
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, a)
}

func (r *Renderer) drawImage(ctx *canvas.Context, run layout.ImageRun, x, y float64) error {
	img, err := r.loadImage(run.Source)
	if err != nil {
		return err
	}
	width := run.Width
	if width <= 0 {
		width = float64(img.Bounds().Dx()) / 4.0
	}
	dpmm := float64(img.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(x, y, img, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
	if blob, ok := r.imageBlobs[name]; ok {
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 %s 失败: %w", name, err)
		}
		return img, nil
	}
	if name != src {
		return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
	}

	if r.baseDir == "" && !filepath.IsAbs(src) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	return img, nil
}

func (r *Renderer) fontFace(bold, italic bool, col color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(r.fontSize, col, fontStyle(bold, italic), canvas.FontNormal), nil
}

// ensureFontFamily 懒加载四种字形到同一个字体族。
func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.family != nil {
		return r.family, nil
	}
	if r.fontErr != nil {
		return nil, r.fontErr
	}
	family := canvas.NewFontFamily("richline")
	for _, key := range []string{"regular", "bold", "italic", "bolditalic"} {
		bold := strings.Contains(key, "bold")
		italic := strings.Contains(key, "italic")
		data := r.loadFontBytes(key, bold, italic)
		if err := family.LoadFont(data, 0, fontStyle(bold, italic)); err != nil {
			r.fontErr = fmt.Errorf("加载字体 %s 失败: %w", key, err)
			return nil, r.fontErr
		}
	}
	r.family = family
	return family, nil
}

func (r *Renderer) loadFontBytes(key string, bold, italic bool) []byte {
	if blob, ok := r.fontBlobs[key]; ok {
		return blob
	}
	return fonts.ForStyle(bold, italic)
}

func fontStyle(bold, italic bool) canvas.FontStyle {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	if italic {
		style |= canvas.FontItalic
	}
	return style
}
