package markup

import (
	"errors"
	"fmt"
)

// ErrGrammar reports a token stream that no ActionDefinition accepts. The
// tokenizer never produces one, so seeing it means the two tables disagree.
var ErrGrammar = errors.New("markup: token sequence matches no action")

// ParseTokens reduces tokens to actions. At every step the first definition
// whose token sequence prefixes the remaining tokens wins.
func ParseTokens(tokens []Token) ([]Action, error) {
	actions := make([]Action, 0, len(tokens))
	for pos := 0; pos < len(tokens); {
		def, ok := matchDefinition(tokens[pos:])
		if !ok {
			return nil, fmt.Errorf("%w: at token %d (%s %q)", ErrGrammar, pos, tokens[pos].Type, tokens[pos].Value)
		}
		if def.Type != Ignore {
			action := Action{Type: def.Type}
			if def.Param >= 0 {
				action.Parameter = tokens[pos+def.Param].Value
			}
			actions = append(actions, action)
		}
		pos += len(def.Tokens)
	}
	return actions, nil
}

// Parse tokenizes and parses text in one go, degrading malformed tags to
// literal text. ok is false when such a degradation happened.
func Parse(text string, tokenizeLineBreaks bool) (actions []Action, ok bool, err error) {
	tokens, ok := TokenizeLenient(text, tokenizeLineBreaks)
	actions, err = ParseTokens(tokens)
	return actions, ok, err
}

func matchDefinition(tokens []Token) (ActionDefinition, bool) {
	for _, def := range ActionDefinitions {
		if len(def.Tokens) > len(tokens) {
			continue
		}
		matched := true
		for i, typ := range def.Tokens {
			if tokens[i].Type != typ {
				matched = false
				break
			}
		}
		if matched {
			return def, true
		}
	}
	return ActionDefinition{}, false
}
