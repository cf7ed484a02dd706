package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/richline/markup"
)

func parseRuns(t *testing.T, text string) []Run {
	t.Helper()
	actions, _, err := markup.Parse(text, true)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	runs, err := BuildRuns(actions, DefaultStyle())
	if err != nil {
		t.Fatalf("构建 Run 失败: %v", err)
	}
	return runs
}

func boldStyle() Style {
	s := DefaultStyle()
	s.Bold = true
	return s
}

func TestBuildRunsBold(t *testing.T) {
	runs := parseRuns(t, "Hello [b]World[/b]!")
	want := []Run{
		TextRun{Text: "Hello ", Style: DefaultStyle()},
		TextRun{Text: "World", Style: boldStyle()},
		TextRun{Text: "!", Style: DefaultStyle()},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsForeground(t *testing.T) {
	runs := parseRuns(t, "[fg=#FF0000]Red[/fg]after")
	red := DefaultStyle()
	red.Foreground = &Color{R: 0xff, A: 0xff}
	want := []Run{
		TextRun{Text: "Red", Style: red},
		TextRun{Text: "after", Style: DefaultStyle()},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsUnbalancedRevert(t *testing.T) {
	initial := boldStyle()
	actions, _, err := markup.Parse("x[/b]y[/fg][/o][/u][/bg][/sh][/tt][/a]z", true)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	runs, err := BuildRuns(actions, initial)
	if err != nil {
		t.Fatalf("构建 Run 失败: %v", err)
	}
	want := []Run{
		TextRun{Text: "x", Style: initial},
		TextRun{Text: "y", Style: initial},
		TextRun{Text: "z", Style: initial},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsRevertWithoutOpenRestoresDefault(t *testing.T) {
	runs := parseRuns(t, "[/b]plain")
	if diff := cmp.Diff([]Run{TextRun{Text: "plain", Style: DefaultStyle()}}, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

// TestStyleStackBalance 断言：每个样式轴上 Set 紧跟 Revert 都会回到 Set 之前的样式，
// 与其它轴的交错无关。
func TestStyleStackBalance(t *testing.T) {
	sets := map[string]string{
		"o":  "[o=0.3]",
		"fg": "[fg=blue]",
		"bg": "[bg=yellow 2]",
		"sh": "[sh=#000 2,2]",
		"u":  "[u]",
	}
	outer := "[o=0.5][fg=red][bg=#eee][sh=gray][i]"
	for name, set := range sets {
		runs := parseRuns(t, outer+"a"+set+"b[/"+name+"]c")
		if len(runs) != 3 {
			t.Fatalf("%s: 期望 3 个 Run，实际 %d", name, len(runs))
		}
		before := runs[0].(TextRun).Style
		after := runs[2].(TextRun).Style
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("%s: Revert 后样式不一致 (-before +after):\n%s", name, diff)
		}
		if cmp.Equal(before, runs[1].(TextRun).Style) {
			t.Fatalf("%s: Set 没有改变样式", name)
		}
	}
}

func TestBuildRunsNestedOpacity(t *testing.T) {
	runs := parseRuns(t, "[o=0.5]a[o=0.2]b[/o]c[/o]d")
	want := []float64{0.5, 0.2, 0.5, 1}
	for i, r := range runs {
		if got := r.(TextRun).Style.Opacity; got != want[i] {
			t.Fatalf("第 %d 个 Run 透明度期望 %g，实际 %g", i, want[i], got)
		}
	}
}

func TestBuildRunsInvalidParameterKeepsBalance(t *testing.T) {
	runs := parseRuns(t, "[fg=red]a[fg=nonsense]b[/fg]c[/fg]d")
	red := &Color{R: 0xff, A: 0xff}
	wantFG := []*Color{red, red, red, nil}
	for i, r := range runs {
		if diff := cmp.Diff(wantFG[i], r.(TextRun).Style.Foreground); diff != "" {
			t.Fatalf("第 %d 个 Run 前景色不符 (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuildRunsStyles(t *testing.T) {
	runs := parseRuns(t, "[i][u][bg=yellow 1.5][sh=black]x")
	style := runs[0].(TextRun).Style
	want := DefaultStyle()
	want.Italic = true
	want.Underline.Enabled = true
	want.Background = Background{Brush: "yellow", Padding: 1.5}
	want.Shadow = Shadow{Color: &Color{A: 0xff}, OffsetX: 1, OffsetY: 1}
	if diff := cmp.Diff(want, style); diff != "" {
		t.Fatalf("样式不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsCoalescesAcrossComments(t *testing.T) {
	runs := parseRuns(t, "ab[!note]cd")
	if diff := cmp.Diff([]Run{TextRun{Text: "abcd", Style: DefaultStyle()}}, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsToolTipActionAndImage(t *testing.T) {
	runs := parseRuns(t, "[tt=hint][a=open]x[img=icon 8x4][/a]y[/tt]z[img=broken]")
	want := []Run{
		TextRun{Text: "x", Style: DefaultStyle(), ToolTip: "hint", Action: "open"},
		ImageRun{Source: "icon", Width: 8, Height: 4, ToolTip: "hint", Action: "open"},
		TextRun{Text: "y", Style: DefaultStyle(), ToolTip: "hint"},
		TextRun{Text: "z", Style: DefaultStyle()},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsLineBreaks(t *testing.T) {
	runs := parseRuns(t, "a\r\nb\n\nc")
	want := []Run{
		TextRun{Text: "a", Style: DefaultStyle()},
		LineBreakRun{Consumed: 2},
		TextRun{Text: "b", Style: DefaultStyle()},
		LineBreakRun{Consumed: 1},
		LineBreakRun{Consumed: 1},
		TextRun{Text: "c", Style: DefaultStyle()},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("Run 不符 (-want +got):\n%s", diff)
	}
}

func TestBuildRunsDegradedInput(t *testing.T) {
	runs := parseRuns(t, "Hello [b]x[/b] [xyz] and [i]more")
	last := runs[len(runs)-1].(TextRun)
	if last.Text != " [xyz] and [i]more" || last.Style.Italic {
		t.Fatalf("降级文本不符: %+v", last)
	}
}

func TestBuildRunsUnknownAction(t *testing.T) {
	_, err := BuildRuns([]markup.Action{{Type: markup.ActionType(999)}}, DefaultStyle())
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("期望 ErrUnknownAction，实际 %v", err)
	}
}
