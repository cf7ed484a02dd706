package layout

import (
	"iter"
	"math"
	"unicode"
)

// Unbounded 作为 maxLineWidth 表示不限宽。<=0 同样表示不限宽。
var Unbounded = math.Inf(1)

// word 是折行的最小单位：一个分隔符字符、一段不含分隔符的文本，或一张图片。
type word struct {
	run   int // 在 runs 中的下标
	text  []rune
	start int // text[0] 在纯文本中的下标
	space bool
	image bool
}

// item 是一条不可断开的链，或一次显式换行。
type item struct {
	words []word
	brk   bool
	style Style // 换行产生空行时使用的样式
}

type metrics struct {
	width, height float64
}

// segment 是行内的一段输出，来自同一个 Run 的相邻文本会合并。
type segment struct {
	run   int
	text  []rune
	image bool
}

type lineState struct {
	segments []segment
	indices  []int
	x        float64
	trailing float64 // 行尾空白的宽度，不计入行宽
	height   float64
	measured bool
}

func (l *lineState) empty() bool { return len(l.segments) == 0 }

// LineIterator 按需产出折行结果。
//
// 只能单次遍历：Next 与 All 共享同一个游标，部分消费后再次 All 会从当前位置继续，
// 这种用法的结果未定义。需要再次遍历时请重新调用 ParseLines。
type LineIterator struct {
	m       Measurer
	max     float64
	bounded bool
	cfg     wrapConfig
	runs    []Run

	items []item
	pos   int
	done  bool

	line      lineState
	lastStyle Style
	number    int
	queue     []Line
}

// ParseLines 把 runs 折成行。wrap 为 false 或 maxLineWidth 不限宽时只在显式换行处断行。
// 文本按 rune 切分，TextRun 中的非法 UTF-8 字节在输出中变为 U+FFFD；
// BuildRuns 产生的 Run 已经做过同样的替换。
func ParseLines(m Measurer, maxLineWidth float64, wrap bool, runs []Run, opts ...WrapOption) *LineIterator {
	cfg := defaultWrapConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	it := &LineIterator{
		m:       m,
		max:     maxLineWidth,
		bounded: wrap && maxLineWidth > 0 && !math.IsInf(maxLineWidth, 1),
		cfg:     cfg,
		runs:    runs,
	}
	it.items = it.buildItems()
	return it
}

// Next 返回下一行；没有更多行时 ok 为 false。
func (it *LineIterator) Next() (Line, bool) {
	for len(it.queue) == 0 {
		switch {
		case it.pos < len(it.items):
			it.place(it.items[it.pos])
			it.pos++
		case !it.done:
			it.done = true
			if !it.line.empty() {
				it.flush(false, it.lastStyle)
			}
		default:
			return Line{}, false
		}
	}
	l := it.queue[0]
	it.queue = it.queue[1:]
	return l, true
}

// All 以 iter.Seq 的形式消费剩余的行。
func (it *LineIterator) All() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for {
			l, ok := it.Next()
			if !ok || !yield(l) {
				return
			}
		}
	}
}

// Collect 消费剩余的全部行。
func (it *LineIterator) Collect() []Line {
	var lines []Line
	for l := range it.All() {
		lines = append(lines, l)
	}
	return lines
}

// buildItems 把 runs 切成链。不限宽时每个文本 Run 整体作为一个词。
func (it *LineIterator) buildItems() []item {
	var (
		items []item
		chain []word
		index int
	)
	style := DefaultStyle()
	for _, r := range it.runs {
		if tr, ok := r.(TextRun); ok {
			style = tr.Style
			break
		}
	}
	it.lastStyle = style
	closeChain := func() {
		if len(chain) > 0 {
			items = append(items, item{words: chain})
			chain = nil
		}
	}

	for i, r := range it.runs {
		switch r := r.(type) {
		case TextRun:
			style = r.Style
			runes := []rune(r.Text)
			if !it.bounded {
				if len(runes) > 0 {
					items = append(items, item{words: []word{{run: i, text: runes, start: index}}})
				}
				index += len(runes)
				continue
			}
			spanStart := -1
			for j, c := range runes {
				if !it.cfg.isDelimiter(c) {
					if spanStart < 0 {
						spanStart = j
					}
					continue
				}
				if spanStart >= 0 {
					// 不同样式的相邻文本之间没有断点
					chain = append(chain, word{run: i, text: runes[spanStart:j], start: index + spanStart})
					spanStart = -1
				}
				w := word{run: i, text: runes[j : j+1], start: index + j}
				if unicode.IsSpace(c) {
					w.space = true
					closeChain()
					items = append(items, item{words: []word{w}})
					continue
				}
				// 连字符等留在前一个词的末尾，其后可以断行
				chain = append(chain, w)
				closeChain()
			}
			if spanStart >= 0 {
				chain = append(chain, word{run: i, text: runes[spanStart:], start: index + spanStart})
			}
			index += len(runes)

		case LineBreakRun:
			closeChain()
			items = append(items, item{brk: true, style: style})
			index += r.Consumed

		case ImageRun:
			closeChain()
			items = append(items, item{words: []word{{run: i, start: index, image: true}}})
		}
	}
	closeChain()
	return items
}

func (it *LineIterator) place(itm item) {
	if itm.brk {
		it.flush(true, itm.style)
		return
	}
	if !it.bounded {
		for _, w := range itm.words {
			it.appendWord(w, it.measureWord(w, !it.line.measured))
		}
		return
	}
	it.placeChain(itm.words)
}

func (it *LineIterator) placeChain(words []word) {
	// 空白不参与折行判断，行尾放不下时悬挂在行尾，其宽度不计入行宽
	if len(words) == 1 && words[0].space {
		it.appendWord(words[0], it.measureWord(words[0], !it.line.measured))
		return
	}
	if ms, ok := it.chainFits(words); ok {
		it.appendChain(words, ms)
		return
	}
	if !it.line.empty() {
		it.flush(false, it.lastStyle)
		if ms, ok := it.chainFits(words); ok {
			it.appendChain(words, ms)
			return
		}
	}
	// 链比整行还宽：逐词放置
	for _, w := range words {
		if !it.placeWord(w) {
			return
		}
	}
}

func (it *LineIterator) chainFits(words []word) ([]metrics, bool) {
	ms := make([]metrics, len(words))
	total := 0.0
	for i, w := range words {
		ms[i] = it.measureWord(w, i == 0 && !it.line.measured)
		total += ms[i].width
	}
	return ms, it.line.x+total <= it.max
}

func (it *LineIterator) appendChain(words []word, ms []metrics) {
	for i, w := range words {
		it.appendWord(w, ms[i])
	}
}

// placeWord 放置单个词，返回 false 表示该链余下的内容被放弃。
func (it *LineIterator) placeWord(w word) bool {
	m := it.measureWord(w, !it.line.measured)
	if it.line.x+m.width <= it.max {
		it.appendWord(w, m)
		return true
	}
	if !it.line.empty() {
		it.flush(false, it.lastStyle)
		m = it.measureWord(w, true)
		if m.width <= it.max {
			it.appendWord(w, m)
			return true
		}
	}
	if w.image || w.space {
		// 图片无法拆分，独占一行并溢出
		it.appendWord(w, m)
		return true
	}
	return it.packChars(w)
}

// packChars 按字符装箱，强制断开处追加后缀。空行连一个字符加后缀都放不下时返回 false。
func (it *LineIterator) packChars(w word) bool {
	style := it.styleOf(w.run)
	suffix := []rune(it.cfg.breakSuffix)
	suffixWidth := 0.0
	if len(suffix) > 0 {
		suffixWidth, _ = it.m.Measure(it.cfg.breakSuffix, style.Bold, style.Italic, false)
	}

	rest := w
	for len(rest.text) > 0 {
		whole := it.measureWord(rest, !it.line.measured)
		if it.line.x+whole.width <= it.max {
			it.appendWord(rest, whole)
			return true
		}

		n := 0
		var head metrics
		for n < len(rest.text) {
			candidate := word{run: rest.run, text: rest.text[:n+1], start: rest.start}
			cm := it.measureWord(candidate, !it.line.measured)
			if it.line.x+cm.width+suffixWidth > it.max {
				break
			}
			head = cm
			n++
		}
		if n == 0 {
			if it.line.empty() {
				return false
			}
			it.flush(false, it.lastStyle)
			continue
		}

		it.appendWord(word{run: rest.run, text: rest.text[:n], start: rest.start}, head)
		if len(suffix) > 0 {
			last := it.line.indices[len(it.line.indices)-1]
			it.appendSuffix(rest.run, suffix, last, suffixWidth)
		}
		it.flush(false, it.lastStyle)
		rest = word{run: rest.run, text: rest.text[n:], start: rest.start + n}
	}
	return true
}

func (it *LineIterator) styleOf(run int) Style {
	if tr, ok := it.runs[run].(TextRun); ok {
		return tr.Style
	}
	return it.lastStyle
}

func (it *LineIterator) measureWord(w word, ignoreBearing bool) metrics {
	if w.image {
		img := it.runs[w.run].(ImageRun)
		return metrics{width: img.Width, height: img.Height}
	}
	style := it.styleOf(w.run)
	width, height := it.m.Measure(string(w.text), style.Bold, style.Italic, ignoreBearing)
	return metrics{width: width, height: height}
}

func (it *LineIterator) appendWord(w word, m metrics) {
	l := &it.line
	if w.image {
		l.segments = append(l.segments, segment{run: w.run, image: true})
	} else {
		it.appendText(w.run, w.text)
		for i := range w.text {
			l.indices = append(l.indices, w.start+i)
		}
		it.lastStyle = it.styleOf(w.run)
	}
	if w.space {
		l.trailing += m.width
	} else {
		l.trailing = 0
	}
	l.x += m.width
	l.height = math.Max(l.height, m.height)
	l.measured = true
}

func (it *LineIterator) appendSuffix(run int, suffix []rune, index int, width float64) {
	it.appendText(run, suffix)
	for range suffix {
		it.line.indices = append(it.line.indices, index)
	}
	it.line.x += width
	it.line.trailing = 0
}

func (it *LineIterator) appendText(run int, text []rune) {
	l := &it.line
	if n := len(l.segments); n > 0 && !l.segments[n-1].image && l.segments[n-1].run == run {
		l.segments[n-1].text = append(l.segments[n-1].text, text...)
		return
	}
	l.segments = append(l.segments, segment{run: run, text: append([]rune(nil), text...)})
}

// flush 输出当前行。显式换行时即使是空行也会输出，此时放一个使用 style 的空 TextRun。
func (it *LineIterator) flush(endsInLineBreak bool, style Style) {
	l := it.line
	it.line = lineState{}
	if l.empty() && !endsInLineBreak {
		return
	}

	out := Line{
		EndsInLineBreak:          endsInLineBreak,
		OriginalCharacterIndices: l.indices,
	}
	if out.OriginalCharacterIndices == nil {
		out.OriginalCharacterIndices = []int{}
	}
	if l.empty() {
		_, h := it.m.Measure("", style.Bold, style.Italic, true)
		out.Runs = []Run{TextRun{Style: style}}
		out.Size = Size{Height: h}
	} else {
		out.Runs = make([]Run, 0, len(l.segments))
		for _, seg := range l.segments {
			if seg.image {
				out.Runs = append(out.Runs, it.runs[seg.run])
				continue
			}
			tr := it.runs[seg.run].(TextRun)
			tr.Text = string(seg.text)
			out.Runs = append(out.Runs, tr)
		}
		out.Size = Size{Width: l.x - l.trailing, Height: l.height}
	}
	it.number++
	out.Number = it.number
	it.queue = append(it.queue, out)
}
