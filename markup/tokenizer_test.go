package markup_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ByLCY/richline/markup"
)

var ignoreRemaining = cmpopts.IgnoreFields(markup.Token{}, "Remaining")

func TestTokenizeBoldTag(t *testing.T) {
	got := markup.Tokenize("Hello [b]World[/b]!", true)
	want := []markup.Token{
		{Type: markup.StringValue, Value: "Hello "},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldOpen, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: "World"},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldClose, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: "!"},
	}
	if diff := cmp.Diff(want, got, ignoreRemaining); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeValuedTags(t *testing.T) {
	got := markup.Tokenize(`[fg=#FF0000]Red[\fg][img=logo 16x8]`, true)
	want := []markup.Token{
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.ForegroundOpen, Value: "fg"},
		{Type: markup.ForegroundValue, Value: "#FF0000"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: "Red"},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.ForegroundClose, Value: "fg"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.ImageOpen, Value: "img"},
		{Type: markup.ImageValue, Value: "logo 16x8"},
		{Type: markup.CloseTag, Value: "]"},
	}
	if diff := cmp.Diff(want, got, ignoreRemaining); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeAliasesNeedLookahead(t *testing.T) {
	// "b" must not swallow the first letter of "bg=".
	got := markup.Tokenize("[bg=yellow]x[/bg][BOLD]y", false)
	types := make([]markup.TokenType, len(got))
	for i, tok := range got {
		types[i] = tok.Type
	}
	want := []markup.TokenType{
		markup.OpenTag, markup.BackgroundOpen, markup.BackgroundValue, markup.CloseTag,
		markup.StringValue,
		markup.OpenTag, markup.BackgroundClose, markup.CloseTag,
		markup.OpenTag, markup.BoldOpen, markup.CloseTag,
		markup.StringValue,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeEscapes(t *testing.T) {
	got := markup.Tokenize(`a\[b] c\\d \e`, false)
	if len(got) != 1 {
		t.Fatalf("expected a single literal token, got %+v", got)
	}
	if got[0].Type != markup.StringValue || got[0].Value != `a[b] c\d \e` {
		t.Fatalf("unexpected literal %s %q", got[0].Type, got[0].Value)
	}
}

func TestTokenizeLineBreaks(t *testing.T) {
	got := markup.Tokenize("one\r\ntwo\rthree\n", true)
	want := []markup.Token{
		{Type: markup.StringValue, Value: "one"},
		{Type: markup.LineBreak, Value: "\r\n"},
		{Type: markup.StringValue, Value: "two"},
		{Type: markup.LineBreak, Value: "\r"},
		{Type: markup.StringValue, Value: "three"},
		{Type: markup.LineBreak, Value: "\n"},
	}
	if diff := cmp.Diff(want, got, ignoreRemaining); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}

	kept := markup.Tokenize("one\ntwo", false)
	if len(kept) != 1 || kept[0].Value != "one\ntwo" {
		t.Fatalf("line breaks must stay literal when not tokenized, got %+v", kept)
	}
}

func TestTokenRemainingPointsIntoInput(t *testing.T) {
	got := markup.Tokenize("ab[i]cd", false)
	if got[1].Type != markup.OpenTag || got[1].Remaining != "[i]cd" {
		t.Fatalf("unexpected open tag %+v", got[1])
	}
	if got[4].Remaining != "cd" {
		t.Fatalf("unexpected remaining for trailing literal: %q", got[4].Remaining)
	}
}

func TestTryTokenizeInvalidTag(t *testing.T) {
	cases := []string{
		"Hello [xyz] world",
		"[]",
		"[b",
		"[fg=red",
		"open [",
	}
	for _, input := range cases {
		ok, tokens := markup.TryTokenize(input, true)
		if ok {
			t.Errorf("TryTokenize(%q) succeeded, tokens %+v", input, tokens)
			continue
		}
		if last := tokens[len(tokens)-1]; last.Type != markup.InvalidToken {
			t.Errorf("TryTokenize(%q) must end with InvalidToken, got %s", input, last.Type)
		}
	}
}

func TestTokenizeLenientDegradesInvalidTag(t *testing.T) {
	tokens, ok := markup.TokenizeLenient("Hi [b]there[/b] [xyz] and [i]more", true)
	if ok {
		t.Fatalf("expected degradation")
	}
	want := []markup.Token{
		{Type: markup.StringValue, Value: "Hi "},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldOpen, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: "there"},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldClose, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: " "},
		{Type: markup.StringLiteral, Value: "[xyz] and [i]more"},
	}
	if diff := cmp.Diff(want, tokens, ignoreRemaining); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeLenientKeepsLineBreaksInRecoveredText(t *testing.T) {
	tokens, ok := markup.TokenizeLenient("a[fg=red\nb", true)
	if ok {
		t.Fatalf("expected degradation")
	}
	want := []markup.Token{
		{Type: markup.StringValue, Value: "a"},
		{Type: markup.StringLiteral, Value: "[fg=red"},
		{Type: markup.LineBreak, Value: "\n"},
		{Type: markup.StringLiteral, Value: "b"},
	}
	if diff := cmp.Diff(want, tokens, ignoreRemaining); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainTokensSkipMarkup(t *testing.T) {
	tokens := markup.PlainTokens(`[b]x\[`, false)
	if len(tokens) != 1 || tokens[0].Type != markup.StringLiteral || tokens[0].Value != `[b]x\[` {
		t.Fatalf("unexpected plain tokens %+v", tokens)
	}
}

func TestCommentTag(t *testing.T) {
	ok, tokens := markup.TryTokenize("a[! note ]b", false)
	if !ok {
		t.Fatalf("comment tag rejected: %+v", tokens)
	}
	if tokens[2].Type != markup.Comment || tokens[2].Value != "! note " {
		t.Fatalf("unexpected comment token %+v", tokens[2])
	}
}
