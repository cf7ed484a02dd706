package renderer

import "github.com/ByLCY/richline/layout"

// Renderer 将排版结果输出为最终形式，例如 PDF 或带样式的终端文本。
// Render 返回生成的字节（PDF 文件、终端转义序列等）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
