package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	exprPattern    = regexp.MustCompile(`\$\{([^}]+)\}`)
	segmentPattern = regexp.MustCompile(`^([^\[\]]*)((?:\[\d+\])*)$`)
	indexPattern   = regexp.MustCompile(`\[(\d+)\]`)

	// 反斜杠与 [ 都转义，分词后总能还原出原值
	valueEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`)
)

// Interpolate 将标记文本中的 ${path.to.value} 替换为 data 中的值。
// 替换进来的值会被转义，始终按纯文本排版，不会引入新的标签。
// 无法解析的占位符保持原样，并通过 missing 返回其路径。
func Interpolate(text string, data any) (out string, missing []string) {
	out = exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		if val, ok := Resolve(data, path); ok {
			return Escape(format(val))
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

// Escape 把任意文本转成字面量标记：`\` 变为 `\\`，`[` 变为 `\[`。
// 与 markup.EscapeMarkdown 不同，反斜杠也会被转义，因此值的结尾不会吞掉后面的标签。
func Escape(s string) string {
	return valueEscaper.Replace(s)
}

// Resolve 按 "a.b[0].c" 形式的路径在 JSON/YAML 解码结果中取值。
func Resolve(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		m := segmentPattern.FindStringSubmatch(segment)
		if m == nil {
			return nil, false
		}
		if m[1] != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[m[1]]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexPattern.FindAllStringSubmatch(m[2], -1) {
			i, err := strconv.Atoi(idx[1])
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || i >= len(arr) {
				return nil, false
			}
			current = arr[i]
		}
	}
	return current, true
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
