package markup

import (
	"regexp"
	"strings"
)

const (
	escapeChar = '\\'
	openChar   = '['
)

var lineBreakPattern = regexp.MustCompile(`\r\n|\r|\n`)

// Tokenize scans text into tokens. Literal text becomes StringValue tokens
// (split around LineBreak tokens when tokenizeLineBreaks is set) and tags are
// recognised with TokenDefinitions. Scanning stops at the first InvalidToken.
func Tokenize(text string, tokenizeLineBreaks bool) []Token {
	var tokens []Token
	pos := 0
	for pos < len(text) {
		end := scanLiteral(text, pos)
		if end > pos {
			tokens = appendLiteral(tokens, text, pos, end, StringValue, tokenizeLineBreaks)
		}
		pos = end
		if pos >= len(text) {
			break
		}
		var ok bool
		tokens, pos, ok = scanTag(tokens, text, pos)
		if !ok {
			break
		}
	}
	return tokens
}

// TryTokenize tokenizes text and reports whether the markup was well formed,
// that is whether no InvalidToken was produced.
func TryTokenize(text string, tokenizeLineBreaks bool) (bool, []Token) {
	tokens := Tokenize(text, tokenizeLineBreaks)
	for _, tok := range tokens {
		if tok.Type == InvalidToken {
			return false, tokens
		}
	}
	return true, tokens
}

// TokenizeLenient tokenizes text and, when a tag is malformed, keeps the
// tokens before that tag and turns everything from the tag's opening bracket
// on into raw StringLiteral text. ok is false when recovery happened.
func TokenizeLenient(text string, tokenizeLineBreaks bool) (tokens []Token, ok bool) {
	ok, tokens = TryTokenize(text, tokenizeLineBreaks)
	if ok {
		return tokens, true
	}
	return Recover(tokens, tokenizeLineBreaks), false
}

// Recover truncates tokens at the tag that produced the first InvalidToken and
// appends the raw remainder of the input as literal text.
func Recover(tokens []Token, tokenizeLineBreaks bool) []Token {
	bad := -1
	for i, tok := range tokens {
		if tok.Type == InvalidToken {
			bad = i
			break
		}
	}
	if bad < 0 {
		return tokens
	}
	cut := bad
	for j := bad - 1; j >= 0; j-- {
		if tokens[j].Type == OpenTag {
			cut = j
			break
		}
		if tokens[j].Type == CloseTag || isText(tokens[j].Type) {
			break
		}
	}
	raw := tokens[cut].Remaining
	out := append([]Token(nil), tokens[:cut]...)
	return appendLiteral(out, raw, 0, len(raw), StringLiteral, tokenizeLineBreaks)
}

// PlainTokens returns the tokens of text taken verbatim, without any tag or
// escape processing.
func PlainTokens(text string, tokenizeLineBreaks bool) []Token {
	return appendLiteral(nil, text, 0, len(text), StringLiteral, tokenizeLineBreaks)
}

func isText(t TokenType) bool {
	return t == StringValue || t == StringLiteral || t == LineBreak
}

// scanLiteral returns the offset of the first unescaped open bracket at or
// after pos, or len(text).
func scanLiteral(text string, pos int) int {
	i := pos
	for i < len(text) {
		switch text[i] {
		case escapeChar:
			if i+1 < len(text) && (text[i+1] == openChar || text[i+1] == escapeChar) {
				i += 2
				continue
			}
			i++
		case openChar:
			return i
		default:
			i++
		}
	}
	return i
}

// unescape resolves \[ and \\ in a literal span. A lone backslash stays.
func unescape(raw string) string {
	if strings.IndexByte(raw, escapeChar) < 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == escapeChar && i+1 < len(raw) && (raw[i+1] == openChar || raw[i+1] == escapeChar) {
			b.WriteByte(raw[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// appendLiteral emits text[start:end] as typ tokens, optionally split around
// line breaks. StringValue pieces are unescaped, StringLiteral pieces are not.
func appendLiteral(tokens []Token, text string, start, end int, typ TokenType, splitBreaks bool) []Token {
	emit := func(from, to int) {
		if from >= to {
			return
		}
		value := text[from:to]
		if typ == StringValue {
			value = unescape(value)
		}
		tokens = append(tokens, Token{Type: typ, Value: value, Remaining: text[from:]})
	}
	if !splitBreaks {
		emit(start, end)
		return tokens
	}
	cursor := start
	for _, loc := range lineBreakPattern.FindAllStringIndex(text[start:end], -1) {
		from, to := start+loc[0], start+loc[1]
		emit(cursor, from)
		tokens = append(tokens, Token{Type: LineBreak, Value: text[from:to], Remaining: text[from:]})
		cursor = to
	}
	emit(cursor, end)
	return tokens
}

// scanTag reads one bracketed tag starting at pos. It returns false after
// emitting an InvalidToken.
func scanTag(tokens []Token, text string, pos int) ([]Token, int, bool) {
	for pos < len(text) {
		prev := None
		if len(tokens) > 0 {
			prev = tokens[len(tokens)-1].Type
		}
		matched := false
		for _, def := range TokenDefinitions {
			if !def.allows(prev) {
				continue
			}
			value, n, ok := def.match(text[pos:])
			if !ok {
				continue
			}
			tokens = append(tokens, Token{Type: def.Type, Value: value, Remaining: text[pos:]})
			pos += n
			matched = true
			break
		}
		if !matched {
			return append(tokens, Token{Type: InvalidToken, Value: text[pos:], Remaining: text[pos:]}), len(text), false
		}
		if tokens[len(tokens)-1].Type == CloseTag {
			return tokens, pos, true
		}
	}
	// unterminated tag
	return append(tokens, Token{Type: InvalidToken}), len(text), false
}
