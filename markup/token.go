package markup

import (
	"fmt"
	"regexp"
)

// TokenType identifies the lexical class of a Token.
type TokenType int

// None stands for "no previous token" inside PrecededBy/NotPrecededBy sets.
const None TokenType = -1

const (
	InvalidToken TokenType = iota
	OpenTag
	CloseTag
	BoldOpen
	BoldClose
	ItalicOpen
	ItalicClose
	UnderlineOpen
	UnderlineClose
	OpacityOpen
	OpacityValue
	OpacityClose
	ForegroundOpen
	ForegroundValue
	ForegroundClose
	BackgroundOpen
	BackgroundValue
	BackgroundClose
	ShadowOpen
	ShadowValue
	ShadowClose
	ImageOpen
	ImageValue
	ToolTipOpen
	ToolTipValue
	ToolTipClose
	ActionOpen
	ActionValue
	ActionClose
	Comment
	StringValue
	StringLiteral
	LineBreak
)

var tokenTypeNames = [...]string{
	InvalidToken:    "InvalidToken",
	OpenTag:         "OpenTag",
	CloseTag:        "CloseTag",
	BoldOpen:        "BoldOpen",
	BoldClose:       "BoldClose",
	ItalicOpen:      "ItalicOpen",
	ItalicClose:     "ItalicClose",
	UnderlineOpen:   "UnderlineOpen",
	UnderlineClose:  "UnderlineClose",
	OpacityOpen:     "OpacityOpen",
	OpacityValue:    "OpacityValue",
	OpacityClose:    "OpacityClose",
	ForegroundOpen:  "ForegroundOpen",
	ForegroundValue: "ForegroundValue",
	ForegroundClose: "ForegroundClose",
	BackgroundOpen:  "BackgroundOpen",
	BackgroundValue: "BackgroundValue",
	BackgroundClose: "BackgroundClose",
	ShadowOpen:      "ShadowOpen",
	ShadowValue:     "ShadowValue",
	ShadowClose:     "ShadowClose",
	ImageOpen:       "ImageOpen",
	ImageValue:      "ImageValue",
	ToolTipOpen:     "ToolTipOpen",
	ToolTipValue:    "ToolTipValue",
	ToolTipClose:    "ToolTipClose",
	ActionOpen:      "ActionOpen",
	ActionValue:     "ActionValue",
	ActionClose:     "ActionClose",
	Comment:         "Comment",
	StringValue:     "StringValue",
	StringLiteral:   "StringLiteral",
	LineBreak:       "LineBreak",
}

// String returns the name of the token type.
func (t TokenType) String() string {
	if t == None {
		return "None"
	}
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit of the markup language.
type Token struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
	// Remaining is the raw input from the first byte of this token to the end
	// of the text. Error recovery uses it to re-label unparsed input.
	Remaining string `json:"-"`
}

// TokenDefinition associates a TokenType with the pattern that recognises it
// in tag mode and the context in which the pattern is allowed.
type TokenDefinition struct {
	Type TokenType
	// Pattern is anchored at the cursor. Capture group 1, when present, is the
	// token value; otherwise the whole match is.
	Pattern *regexp.Regexp
	// Lookahead, when set, must match the text right after Pattern. It is not
	// consumed.
	Lookahead *regexp.Regexp
	// PrecededBy lists the token types allowed right before this token; None
	// means start of input. An empty list accepts anything.
	PrecededBy    []TokenType
	NotPrecededBy []TokenType
}

func (d TokenDefinition) allows(prev TokenType) bool {
	for _, t := range d.NotPrecededBy {
		if t == prev {
			return false
		}
	}
	if len(d.PrecededBy) == 0 {
		return true
	}
	for _, t := range d.PrecededBy {
		if t == prev {
			return true
		}
	}
	return false
}

// match reports the token value and the number of bytes consumed at the
// start of s.
func (d TokenDefinition) match(s string) (value string, n int, ok bool) {
	loc := d.Pattern.FindStringSubmatchIndex(s)
	if loc == nil || loc[1] == 0 {
		return "", 0, false
	}
	if d.Lookahead != nil && !d.Lookahead.MatchString(s[loc[1]:]) {
		return "", 0, false
	}
	value = s[:loc[1]]
	if len(loc) >= 4 && loc[2] >= 0 {
		value = s[loc[2]:loc[3]]
	}
	return value, loc[1], true
}

var (
	closeAhead = regexp.MustCompile(`^\]`)
	valueBody  = regexp.MustCompile(`^[^\]]+`)

	// afterLiteral are the tokens after which tag mode may open a new tag.
	afterLiteral = []TokenType{None, StringValue, StringLiteral, LineBreak, CloseTag}
	tagStart     = []TokenType{OpenTag}
)

func switchTag(typ TokenType, aliases string) TokenDefinition {
	return TokenDefinition{
		Type:       typ,
		Pattern:    regexp.MustCompile(`(?i)^(` + aliases + `)`),
		Lookahead:  closeAhead,
		PrecededBy: tagStart,
	}
}

func closingTag(typ TokenType, aliases string) TokenDefinition {
	return TokenDefinition{
		Type:       typ,
		Pattern:    regexp.MustCompile(`(?i)^[/\\](` + aliases + `)`),
		Lookahead:  closeAhead,
		PrecededBy: tagStart,
	}
}

func valuedTag(typ TokenType, aliases string) TokenDefinition {
	return TokenDefinition{
		Type:       typ,
		Pattern:    regexp.MustCompile(`(?i)^(` + aliases + `)=`),
		PrecededBy: tagStart,
	}
}

func tagValue(typ, after TokenType) TokenDefinition {
	return TokenDefinition{
		Type:       typ,
		Pattern:    valueBody,
		PrecededBy: []TokenType{after},
	}
}

const (
	boldAliases       = `bold|b`
	italicAliases     = `italic|i`
	underlineAliases  = `underline|u`
	opacityAliases    = `opacity|o`
	foregroundAliases = `foreground|fg|color`
	backgroundAliases = `background|bg`
	shadowAliases     = `shadow|sh`
	imageAliases      = `image|img`
	toolTipAliases    = `tooltip|tt`
	actionAliases     = `action|a`
)

// TokenDefinitions is the tag-mode table, in priority order.
var TokenDefinitions = []TokenDefinition{
	{Type: OpenTag, Pattern: regexp.MustCompile(`^\[`), PrecededBy: afterLiteral},
	{
		Type:    CloseTag,
		Pattern: regexp.MustCompile(`^\]`),
		PrecededBy: []TokenType{
			BoldOpen, BoldClose, ItalicOpen, ItalicClose, UnderlineOpen, UnderlineClose,
			OpacityValue, OpacityClose, ForegroundValue, ForegroundClose,
			BackgroundValue, BackgroundClose, ShadowValue, ShadowClose,
			ImageValue, ToolTipValue, ToolTipClose, ActionValue, ActionClose, Comment,
		},
		NotPrecededBy: []TokenType{OpenTag},
	},
	{Type: Comment, Pattern: regexp.MustCompile(`^![^\]]*`), PrecededBy: tagStart},

	closingTag(BoldClose, boldAliases),
	closingTag(ItalicClose, italicAliases),
	closingTag(UnderlineClose, underlineAliases),
	closingTag(OpacityClose, opacityAliases),
	closingTag(ForegroundClose, foregroundAliases),
	closingTag(BackgroundClose, backgroundAliases),
	closingTag(ShadowClose, shadowAliases),
	closingTag(ToolTipClose, toolTipAliases),
	closingTag(ActionClose, actionAliases),

	switchTag(BoldOpen, boldAliases),
	switchTag(ItalicOpen, italicAliases),
	switchTag(UnderlineOpen, underlineAliases),

	valuedTag(OpacityOpen, opacityAliases),
	valuedTag(ForegroundOpen, foregroundAliases),
	valuedTag(BackgroundOpen, backgroundAliases),
	valuedTag(ShadowOpen, shadowAliases),
	valuedTag(ImageOpen, imageAliases),
	valuedTag(ToolTipOpen, toolTipAliases),
	valuedTag(ActionOpen, actionAliases),

	tagValue(OpacityValue, OpacityOpen),
	tagValue(ForegroundValue, ForegroundOpen),
	tagValue(BackgroundValue, BackgroundOpen),
	tagValue(ShadowValue, ShadowOpen),
	tagValue(ImageValue, ImageOpen),
	tagValue(ToolTipValue, ToolTipOpen),
	tagValue(ActionValue, ActionOpen),
}
