package layout

// WrapOption configures ParseLines.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	delimiters  []rune
	breakSuffix string
}

func defaultWrapConfig() wrapConfig {
	return wrapConfig{
		delimiters:  []rune{' ', '-'},
		breakSuffix: "-",
	}
}

// WithDelimiters replaces the word delimiters. Whitespace delimiters hang at
// the end of a line; any other delimiter stays attached to the word before it.
func WithDelimiters(delims ...rune) WrapOption {
	return func(cfg *wrapConfig) {
		cfg.delimiters = append([]rune(nil), delims...)
	}
}

// WithBreakSuffix sets the text appended when a word is split between
// characters. An empty suffix disables it.
func WithBreakSuffix(suffix string) WrapOption {
	return func(cfg *wrapConfig) {
		cfg.breakSuffix = suffix
	}
}

func (c wrapConfig) isDelimiter(r rune) bool {
	for _, d := range c.delimiters {
		if d == r {
			return true
		}
	}
	return false
}
