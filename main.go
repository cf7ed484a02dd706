package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/richline/binding"
	"github.com/ByLCY/richline/config"
	"github.com/ByLCY/richline/fonts"
	"github.com/ByLCY/richline/layout"
	"github.com/ByLCY/richline/measure"
	"github.com/ByLCY/richline/renderer"
	ansirenderer "github.com/ByLCY/richline/renderer/ansi"
	canvasrenderer "github.com/ByLCY/richline/renderer/canvas"
)

type options struct {
	in         string
	configPath string
	width      float64
	noWrap     bool
	pad        bool
	plain      bool
	suffix     string
	output     string
	format     string
	measurer   string
	color      string
	debug      string
	data       string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("richline: ")

	var o options
	flag.StringVarP(&o.in, "in", "i", "", "输入文件路径，- 表示标准输入")
	flag.StringVarP(&o.configPath, "config", "c", "", "YAML 配置文件")
	flag.Float64VarP(&o.width, "width", "w", 0, "行宽；0 表示终端宽度（ansi/text）或不限宽")
	flag.BoolVar(&o.noWrap, "no-wrap", false, "只在显式换行处断行")
	flag.BoolVar(&o.pad, "pad", false, "ansi/text 输出时用空格把每行补足到行宽")
	flag.BoolVar(&o.plain, "plain", false, "不解析标记，按原文排版")
	flag.StringVar(&o.suffix, "suffix", "-", "词内强制断开时追加的后缀")
	flag.StringVarP(&o.output, "output", "o", "", "输出文件路径，默认写到标准输出")
	flag.StringVarP(&o.format, "format", "f", "", "输出格式：ansi|text|json|pdf")
	flag.StringVar(&o.measurer, "measure", "", "json 输出使用的测量方式：cells|font")
	flag.StringVar(&o.color, "color", "auto", "ansi 输出的颜色：auto|always|never")
	flag.StringVar(&o.debug, "debug", "", "排版调试 JSON 输出路径")
	flag.StringVar(&o.data, "data", "", "填充 ${path} 占位符的 JSON/YAML 数据，@file 表示从文件读取")
	flag.Parse()

	cfg, err := loadConfig(o)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	text, err := readInput(o.in, flag.Args())
	if err != nil {
		log.Fatalf("读取输入失败: %v", err)
	}
	if text, err = bind(text, o.data); err != nil {
		log.Fatalf("解析 data 失败: %v", err)
	}
	if err := run(text, cfg, o, os.Stdout); err != nil {
		log.Fatalf("排版失败: %v", err)
	}
}

// loadConfig 读取配置文件，并用显式给出的命令行参数覆盖。
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if flag.CommandLine.Changed("width") {
		cfg.Width = o.width
	}
	if o.noWrap {
		cfg.Wrap = false
	}
	if o.plain {
		cfg.Markup = false
	}
	if o.pad {
		cfg.Pad = true
	}
	if flag.CommandLine.Changed("suffix") {
		cfg.Suffix = o.suffix
	}
	if o.format != "" {
		cfg.Output = config.Format(strings.ToLower(o.format))
	}
	if cfg.Width == 0 && (cfg.Output == config.FormatANSI || cfg.Output == config.FormatText) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			cfg.Width = float64(w)
		}
	}
	return cfg, cfg.Validate()
}

func readInput(path string, args []string) (string, error) {
	switch {
	case path == "-":
		return readAll(os.Stdin)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("无法打开输入文件 %s: %w", path, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case !isatty.IsTerminal(os.Stdin.Fd()):
		return readAll(os.Stdin)
	}
	return "", fmt.Errorf("没有输入：请给出文本参数或 --in")
}

// bind 用 --data 给出的数据填充占位符。JSON 是 YAML 的子集，统一用 yaml 解码。
func bind(text, src string) (string, error) {
	if src == "" {
		return text, nil
	}
	raw := []byte(src)
	if path, ok := strings.CutPrefix(src, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return "", err
		}
	}
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return "", err
	}
	out, missing := binding.Interpolate(text, data)
	if len(missing) > 0 {
		log.Printf("以下占位符没有对应数据: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

// run 串联测量、排版与渲染。
func run(text string, cfg config.Config, o options, stdout io.Writer) error {
	m, r, err := setup(cfg, o)
	if err != nil {
		return err
	}
	if c, ok := m.(io.Closer); ok {
		defer c.Close()
	}

	buildOpts, err := cfg.BuildOptions(m)
	if err != nil {
		return err
	}
	result, err := layout.Build(text, buildOpts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if result.Degraded {
		log.Printf("标记格式有误，出错位置之后的内容按纯文本输出")
	}

	if o.debug != "" {
		if err := writeDebug(result, o.debug); err != nil {
			return err
		}
	}

	var out []byte
	if r != nil {
		out, err = r.Render(result)
	} else {
		out, err = layout.MarshalDebugJSON(result)
	}
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	return writeOutput(out, o.output, stdout)
}

// setup 按输出格式选择测量后端与渲染器。json 输出没有渲染器。
func setup(cfg config.Config, o options) (layout.Measurer, renderer.Renderer, error) {
	switch cfg.Output {
	case config.FormatPDF:
		cr := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir:  baseDir(o.in),
			FontSize: cfg.FontSizePT(),
			Margin:   pdfMargin(cfg.MarginMM()),
			Fonts: map[string]canvasrenderer.Resource{
				"regular":    {Path: cfg.Font.Regular},
				"bold":       {Path: cfg.Font.Bold},
				"italic":     {Path: cfg.Font.Italic},
				"bolditalic": {Path: cfg.Font.BoldItalic},
			},
			Brushes: cfg.Brushes,
			Meta:    canvasrenderer.Meta{Creator: "richline"},
		})
		return cr, cr, nil

	case config.FormatJSON:
		if o.measurer != "font" {
			return measure.NewCells(cfg.EastAsian), nil, nil
		}
		opts := measure.Options{Size: cfg.FontSizePT(), DPI: cfg.Font.DPI}
		slots := []struct {
			path string
			dst  *[]byte
		}{
			{cfg.Font.Regular, &opts.Regular},
			{cfg.Font.Bold, &opts.Bold},
			{cfg.Font.Italic, &opts.Italic},
			{cfg.Font.BoldItalic, &opts.BoldItalic},
		}
		for _, s := range slots {
			data, err := readFont(s.path)
			if err != nil {
				return nil, nil, err
			}
			*s.dst = data
		}
		ot, err := measure.NewOpenType(opts)
		if err != nil {
			return nil, nil, err
		}
		return ot, nil, nil
	}

	color := o.color == "always" ||
		(o.color == "auto" && cfg.Output == config.FormatANSI && o.output == "" && isTerminal(os.Stdout))
	ar := ansirenderer.New(ansirenderer.Options{
		Color:   color && cfg.Output == config.FormatANSI,
		OSC8:    color && cfg.Output == config.FormatANSI && ansirenderer.DetectOSC8Support(),
		Width:   padWidth(cfg),
		Brushes: cfg.Brushes,
	})
	return measure.NewCells(cfg.EastAsian), ar, nil
}

// padWidth 返回补齐的目标列数；不补齐或行宽不限时为 0。
func padWidth(cfg config.Config) int {
	if !cfg.Pad || cfg.Width <= 0 || math.IsInf(cfg.Width, 1) {
		return 0
	}
	return int(cfg.Width)
}

// pdfMargin 把配置中的 0 边距换成渲染器的“无边距”。
func pdfMargin(mm float64) float64 {
	if mm == 0 {
		return -1
	}
	return mm
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func readFont(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	if strings.HasPrefix(path, "embed:") {
		return fonts.Load(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

func baseDir(in string) string {
	if in == "" || in == "-" {
		return "."
	}
	return filepath.Dir(in)
}

func writeOutput(data []byte, path string, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
