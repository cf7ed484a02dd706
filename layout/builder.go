package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/richline/markup"
)

// Result 保存一次完整排版的结果。
type Result struct {
	Text   string  `json:"text"`
	Runs   []Run   `json:"-"`
	Lines  []Line  `json:"-"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Degraded 为 true 表示输入中有无法识别的标签，其后的内容按纯文本处理。
	Degraded bool `json:"degraded"`
}

// Build 依次执行分词、解析、Run 构建与折行。
func Build(text string, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}

	var (
		tokens   []markup.Token
		degraded bool
	)
	if opts.Markup {
		var ok bool
		tokens, ok = markup.TokenizeLenient(text, true)
		degraded = !ok
	} else {
		tokens = markup.PlainTokens(text, true)
	}

	actions, err := markup.ParseTokens(tokens)
	if err != nil {
		return nil, err
	}

	style := opts.Style
	if style == (Style{}) {
		style = DefaultStyle()
	}
	runs, err := BuildRuns(actions, style)
	if err != nil {
		return nil, err
	}

	lines := ParseLines(opts.Measurer, opts.MaxWidth, opts.Wrap, runs, opts.WrapOptions...).Collect()
	res := &Result{
		Text:     text,
		Runs:     runs,
		Lines:    lines,
		Degraded: degraded,
	}
	for _, l := range lines {
		res.Width = math.Max(res.Width, l.Size.Width)
		res.Height += l.Size.Height
	}
	return res, nil
}

// PlainText 返回下标空间对应的纯文本：各 TextRun 文本的拼接，换行按 Consumed 还原为
// "\n" 或 "\r\n"，图片不占字符。
func (r *Result) PlainText() string {
	var b strings.Builder
	for _, run := range r.Runs {
		switch run := run.(type) {
		case TextRun:
			b.WriteString(run.Text)
		case LineBreakRun:
			if run.Consumed == 2 {
				b.WriteString("\r\n")
			} else {
				b.WriteString(strings.Repeat("\n", run.Consumed))
			}
		}
	}
	return b.String()
}

// LineAt 返回包含纯文本下标 index 的行。
func (r *Result) LineAt(index int) (Line, bool) {
	n, _, ok := r.Locate(index)
	if !ok {
		return Line{}, false
	}
	return r.Lines[n-1], true
}

// Locate 把纯文本下标换算为行号（从 1 开始）与行内列号（从 0 开始）。
// 换行符以及因放不下而被丢弃的字符没有位置，ok 为 false。
func (r *Result) Locate(index int) (line, column int, ok bool) {
	for _, l := range r.Lines {
		idx := l.OriginalCharacterIndices
		if len(idx) == 0 || index < idx[0] || index > idx[len(idx)-1] {
			continue
		}
		for col, v := range idx {
			if v == index {
				return l.Number, col, true
			}
		}
	}
	return 0, 0, false
}
