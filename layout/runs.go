package layout

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/richline/markup"
)

// ErrUnknownAction 表示遇到了 Run 构建器不认识的动作类型。
var ErrUnknownAction = errors.New("layout: unknown action")

// stack 为单个样式轴保存被覆盖的旧值。
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) { s.items = append(s.items, v) }

// pop 弹出栈顶；栈为空时返回 fallback。
func (s *stack[T]) pop(fallback T) T {
	if len(s.items) == 0 {
		return fallback
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v
}

// runState 是 BuildRuns 折叠时的私有状态。
type runState struct {
	initial Style
	style   Style
	toolTip string
	action  string

	opacity    stack[float64]
	foreground stack[*Color]
	underline  stack[Underline]
	background stack[Background]
	shadow     stack[Shadow]
	toolTips   stack[string]
	actions    stack[string]

	runs []Run
	// 当前正在累积的文本
	text      strings.Builder
	textStyle Style
	textTip   string
	textAct   string
	pending   bool
}

// BuildRuns 把动作序列折叠成 Run 列表。initial 既是起始样式，也是空栈撤销时恢复的值。
func BuildRuns(actions []markup.Action, initial Style) ([]Run, error) {
	st := &runState{initial: initial, style: initial}
	for i, a := range actions {
		if err := st.apply(a); err != nil {
			return nil, fmt.Errorf("%w: action %d (%s)", err, i, a.Type)
		}
	}
	st.flushText()
	return st.runs, nil
}

func (st *runState) apply(a markup.Action) error {
	switch a.Type {
	case markup.Ignore:
		// 注释不打断文本累积
		return nil
	case markup.StringLiteralAction:
		if !st.pending {
			st.pending = true
			st.textStyle, st.textTip, st.textAct = st.style, st.toolTip, st.action
		}
		st.text.WriteString(a.Parameter)
		return nil
	}

	st.flushText()
	switch a.Type {
	case markup.LineBreakAction:
		st.runs = append(st.runs, LineBreakRun{Consumed: utf8.RuneCountInString(a.Parameter)})

	case markup.EnableBold:
		st.style.Bold = true
	case markup.RevertBold:
		st.style.Bold = st.initial.Bold
	case markup.EnableItalic:
		st.style.Italic = true
	case markup.RevertItalic:
		st.style.Italic = st.initial.Italic

	case markup.EnableUnderline:
		st.underline.push(st.style.Underline)
		st.style.Underline.Enabled = true
	case markup.RevertUnderline:
		st.style.Underline = st.underline.pop(st.initial.Underline)

	case markup.SetOpacity:
		st.opacity.push(st.style.Opacity)
		if v, err := markup.ParseOpacity(a.Parameter); err == nil {
			st.style.Opacity = v
		}
	case markup.RevertOpacity:
		st.style.Opacity = st.opacity.pop(st.initial.Opacity)

	case markup.SetForeground:
		st.foreground.push(st.style.Foreground)
		if c, err := markup.ParseColor(a.Parameter); err == nil {
			st.style.Foreground = ColorFrom(c)
		}
	case markup.RevertForeground:
		st.style.Foreground = st.foreground.pop(st.initial.Foreground)

	case markup.SetBackground:
		st.background.push(st.style.Background)
		if bg, err := markup.ParseBackground(a.Parameter); err == nil {
			st.style.Background = Background{Brush: bg.Brush, Padding: bg.Padding}
		}
	case markup.RevertBackground:
		st.style.Background = st.background.pop(st.initial.Background)

	case markup.SetShadow:
		st.shadow.push(st.style.Shadow)
		if sh, err := markup.ParseShadow(a.Parameter); err == nil {
			st.style.Shadow = Shadow{Color: ColorFrom(sh.Color), OffsetX: sh.OffsetX, OffsetY: sh.OffsetY}
		}
	case markup.RevertShadow:
		st.style.Shadow = st.shadow.pop(st.initial.Shadow)

	case markup.SetToolTip:
		st.toolTips.push(st.toolTip)
		st.toolTip = a.Parameter
	case markup.RevertToolTip:
		st.toolTip = st.toolTips.pop("")

	case markup.SetAction:
		st.actions.push(st.action)
		st.action = a.Parameter
	case markup.RevertAction:
		st.action = st.actions.pop("")

	case markup.Image:
		img, err := markup.ParseImage(a.Parameter)
		if err != nil {
			// 参数无法解析的图片直接跳过
			return nil
		}
		st.runs = append(st.runs, ImageRun{
			Source:  img.Name,
			Width:   img.Width,
			Height:  img.Height,
			ToolTip: st.toolTip,
			Action:  st.action,
		})

	default:
		return ErrUnknownAction
	}
	return nil
}

func (st *runState) flushText() {
	if !st.pending {
		return
	}
	st.runs = append(st.runs, TextRun{
		Text:    validText(st.text.String()),
		Style:   st.textStyle,
		ToolTip: st.textTip,
		Action:  st.textAct,
	})
	st.text.Reset()
	st.pending = false
}

// validText 把非法 UTF-8 字节逐个替换为 U+FFFD，与折行按 rune 切分的结果保持一致。
func validText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}
