package ansirenderer

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/muesli/reflow/padding"

	"github.com/ByLCY/richline/layout"
	"github.com/ByLCY/richline/markup"
	"github.com/ByLCY/richline/renderer"
)

const (
	osc8Start = "\x1b]8;;"
	osc8Close = "\x1b\\"
	osc8End   = "\x1b]8;;\x1b\\"
	sgrReset  = "\x1b[0m"

	// imageCell fills the cells an inline image occupies.
	imageCell = "▒"
)

// Options configures terminal output.
type Options struct {
	// Color enables SGR styling. Without it only the text is written.
	Color bool
	// OSC8 wraps runs carrying an action id in a hyperlink.
	OSC8 bool
	// Width pads every line to this many cells; 0 disables padding.
	Width int
	// Brushes maps brush ids used by [bg=...] to colours.
	Brushes map[string]string
}

// Renderer writes layout results as terminal text. Use it with a cell based
// measurer so widths line up.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

func New(opts Options) *Renderer {
	brushes := make(map[string]string, len(opts.Brushes))
	for id, c := range opts.Brushes {
		brushes[strings.ToLower(id)] = c
	}
	opts.Brushes = brushes
	return &Renderer{opts: opts}
}

// Render writes one terminal line per layout line.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var b strings.Builder
	for _, line := range result.Lines {
		s := r.renderLine(line)
		if r.opts.Width > 0 {
			s = padding.String(s, uint(r.opts.Width))
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// renderLine 写出一行。行尾悬挂的空白不计入行宽，这里也不输出，避免终端再次折行。
func (r *Renderer) renderLine(line layout.Line) string {
	var b strings.Builder
	for _, run := range trimTrailingSpace(line.Runs) {
		switch run := run.(type) {
		case layout.TextRun:
			r.writeSpan(&b, run.Text, r.SGR(run.Style), run.Action)
		case layout.ImageRun:
			cells := int(math.Max(1, math.Round(run.Width)))
			r.writeSpan(&b, strings.Repeat(imageCell, cells), "", run.Action)
		}
	}
	return b.String()
}

func trimTrailingSpace(runs []layout.Run) []layout.Run {
	out := append([]layout.Run(nil), runs...)
	for i := len(out) - 1; i >= 0; i-- {
		tr, ok := out[i].(layout.TextRun)
		if !ok {
			break
		}
		tr.Text = strings.TrimRightFunc(tr.Text, unicode.IsSpace)
		out[i] = tr
		if tr.Text != "" {
			break
		}
	}
	return out
}

func (r *Renderer) writeSpan(b *strings.Builder, text, sgr, action string) {
	if text == "" {
		return
	}
	link := r.opts.OSC8 && action != ""
	if link {
		b.WriteString(osc8Start + action + osc8Close)
	}
	if r.opts.Color && sgr != "" {
		b.WriteString("\x1b[" + sgr + "m" + text + sgrReset)
	} else {
		b.WriteString(text)
	}
	if link {
		b.WriteString(osc8End)
	}
}

// SGR returns the SGR parameters for a style, without the CSI and final m.
func (r *Renderer) SGR(s layout.Style) string {
	var sgr []string
	addIf := func(b bool, code string) {
		if b {
			sgr = append(sgr, code)
		}
	}
	addIf(s.Bold, "1")
	addIf(s.Opacity < 0.5, "2")
	addIf(s.Italic, "3")
	addIf(s.Underline.Enabled, "4")
	if s.Foreground != nil && s.Foreground.A > 0 {
		sgr = append(sgr, trueColor("38", s.Foreground.R, s.Foreground.G, s.Foreground.B))
	}
	if s.Background.Brush != "" {
		value := s.Background.Brush
		if named, ok := r.opts.Brushes[strings.ToLower(value)]; ok {
			value = named
		}
		if c, err := markup.ParseColor(value); err == nil && c.A > 0 {
			sgr = append(sgr, trueColor("48", c.R, c.G, c.B))
		}
	}
	return strings.Join(sgr, ";")
}

func trueColor(prefix string, r, g, b uint8) string {
	return prefix + ";2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
}

// DetectOSC8Support returns true if the current environment likely supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode":
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}
