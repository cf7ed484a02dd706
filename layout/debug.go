package layout

import (
	"encoding/json"
	"os"
)

// debugRun 为 Run 加上 kind 字段，便于在 JSON 中区分三种 Run。
type debugRun struct {
	Kind string `json:"kind"`
	Run  Run    `json:"run"`
}

type debugLine struct {
	Line
	Text string     `json:"text"`
	Runs []debugRun `json:"runs"`
}

type debugResult struct {
	*Result
	PlainText string      `json:"plainText"`
	Runs      []debugRun  `json:"runs"`
	Lines     []debugLine `json:"lines"`
}

func runKind(r Run) string {
	switch r.(type) {
	case TextRun:
		return "text"
	case LineBreakRun:
		return "lineBreak"
	case ImageRun:
		return "image"
	}
	return "unknown"
}

func debugRuns(runs []Run) []debugRun {
	out := make([]debugRun, len(runs))
	for i, r := range runs {
		out[i] = debugRun{Kind: runKind(r), Run: r}
	}
	return out
}

// MarshalDebugJSON 将排版结果编码为带缩进的 JSON。
func MarshalDebugJSON(res *Result) ([]byte, error) {
	view := debugResult{
		Result:    res,
		PlainText: res.PlainText(),
		Runs:      debugRuns(res.Runs),
		Lines:     make([]debugLine, len(res.Lines)),
	}
	for i, l := range res.Lines {
		view.Lines[i] = debugLine{Line: l, Text: l.Text(), Runs: debugRuns(l.Runs)}
	}
	return json.MarshalIndent(view, "", "  ")
}

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := MarshalDebugJSON(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
