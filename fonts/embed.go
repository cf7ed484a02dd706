package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// 内置 Latin Modern Roman 四种字形，按名称索引。
var builtin = map[string][]byte{
	"lmroman10-regular":    lmroman10regular.TTF,
	"lmroman10-bold":       lmroman10bold.TTF,
	"lmroman10-italic":     lmroman10italic.TTF,
	"lmroman10-bolditalic": lmroman10bolditalic.TTF,
}

// Names 返回全部内置字体名称。
func Names() []string {
	return []string{"lmroman10-regular", "lmroman10-bold", "lmroman10-italic", "lmroman10-bolditalic"}
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmroman10-bold" 或直接 "lmroman10-bold"，可带 .otf 后缀。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(name, "embed:"), ".otf"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// ForStyle 返回与粗体、斜体组合对应的内置字体。
func ForStyle(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return lmroman10bolditalic.TTF
	case bold:
		return lmroman10bold.TTF
	case italic:
		return lmroman10italic.TTF
	}
	return lmroman10regular.TTF
}
