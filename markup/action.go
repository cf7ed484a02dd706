package markup

import "fmt"

// ActionType is the semantic instruction derived from a token sequence.
type ActionType int

const (
	Ignore ActionType = iota
	StringLiteralAction
	LineBreakAction
	EnableBold
	RevertBold
	EnableItalic
	RevertItalic
	EnableUnderline
	RevertUnderline
	SetOpacity
	RevertOpacity
	SetForeground
	RevertForeground
	SetBackground
	RevertBackground
	SetShadow
	RevertShadow
	Image
	SetToolTip
	RevertToolTip
	SetAction
	RevertAction
)

var actionTypeNames = [...]string{
	Ignore:              "Ignore",
	StringLiteralAction: "StringLiteral",
	LineBreakAction:     "LineBreak",
	EnableBold:          "EnableBold",
	RevertBold:          "RevertBold",
	EnableItalic:        "EnableItalic",
	RevertItalic:        "RevertItalic",
	EnableUnderline:     "EnableUnderline",
	RevertUnderline:     "RevertUnderline",
	SetOpacity:          "SetOpacity",
	RevertOpacity:       "RevertOpacity",
	SetForeground:       "SetForeground",
	RevertForeground:    "RevertForeground",
	SetBackground:       "SetBackground",
	RevertBackground:    "RevertBackground",
	SetShadow:           "SetShadow",
	RevertShadow:        "RevertShadow",
	Image:               "Image",
	SetToolTip:          "SetToolTip",
	RevertToolTip:       "RevertToolTip",
	SetAction:           "SetAction",
	RevertAction:        "RevertAction",
}

func (a ActionType) String() string {
	if a >= 0 && int(a) < len(actionTypeNames) {
		return actionTypeNames[a]
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// Action is one instruction for the run builder.
type Action struct {
	Type      ActionType `json:"type"`
	Parameter string     `json:"parameter,omitempty"`
}

// ActionDefinition reduces an exact token sequence to an action. Param is the
// index of the token carrying the action parameter, or -1.
type ActionDefinition struct {
	Tokens []TokenType
	Type   ActionType
	Param  int
}

func tag(typ ActionType, inner TokenType) ActionDefinition {
	return ActionDefinition{Tokens: []TokenType{OpenTag, inner, CloseTag}, Type: typ, Param: -1}
}

func valued(typ ActionType, open, value TokenType) ActionDefinition {
	return ActionDefinition{Tokens: []TokenType{OpenTag, open, value, CloseTag}, Type: typ, Param: 2}
}

// ActionDefinitions is the parser table, in priority order.
var ActionDefinitions = []ActionDefinition{
	{Tokens: []TokenType{StringValue}, Type: StringLiteralAction, Param: 0},
	{Tokens: []TokenType{StringLiteral}, Type: StringLiteralAction, Param: 0},
	{Tokens: []TokenType{LineBreak}, Type: LineBreakAction, Param: 0},

	tag(EnableBold, BoldOpen),
	tag(RevertBold, BoldClose),
	tag(EnableItalic, ItalicOpen),
	tag(RevertItalic, ItalicClose),
	tag(EnableUnderline, UnderlineOpen),
	tag(RevertUnderline, UnderlineClose),

	valued(SetOpacity, OpacityOpen, OpacityValue),
	tag(RevertOpacity, OpacityClose),
	valued(SetForeground, ForegroundOpen, ForegroundValue),
	tag(RevertForeground, ForegroundClose),
	valued(SetBackground, BackgroundOpen, BackgroundValue),
	tag(RevertBackground, BackgroundClose),
	valued(SetShadow, ShadowOpen, ShadowValue),
	tag(RevertShadow, ShadowClose),
	valued(Image, ImageOpen, ImageValue),
	valued(SetToolTip, ToolTipOpen, ToolTipValue),
	tag(RevertToolTip, ToolTipClose),
	valued(SetAction, ActionOpen, ActionValue),
	tag(RevertAction, ActionClose),

	tag(Ignore, Comment),
}
