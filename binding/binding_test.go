package binding

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/richline/markup"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	var data any
	if err := yaml.Unmarshal([]byte(src), &data); err != nil {
		t.Fatalf("解码数据失败: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `
user:
  name: Ada
  tags: [admin, "[b]root[/b]"]
score: 12.5
`)
	got, missing := Interpolate("Hi [b]${user.name}[/b] ${user.tags[1]} ${score} ${user.age}", data)
	want := `Hi [b]Ada[/b] \[b]root\[/b] 12.5 ${user.age}`
	if got != want {
		t.Fatalf("Interpolate = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"user.age"}, missing); diff != "" {
		t.Fatalf("missing 不符 (-want +got):\n%s", diff)
	}

	// 替换进来的标签只作为文本出现
	ok, tokens := markup.TryTokenize(got, true)
	if !ok {
		t.Fatalf("插值结果应能正常分词")
	}
	bold := 0
	for _, tok := range tokens {
		if tok.Type == markup.BoldOpen {
			bold++
		}
	}
	if bold != 1 {
		t.Fatalf("数据中的标签不应生效，BoldOpen 数量 %d", bold)
	}
}

func TestInterpolateNoData(t *testing.T) {
	got, missing := Interpolate("keep ${x}", nil)
	if got != "keep ${x}" || len(missing) != 1 {
		t.Fatalf("无数据时应保持原样: %q %v", got, missing)
	}
}

func TestResolve(t *testing.T) {
	data := decode(t, `{"a": {"b": [[1, 2], [3]]}, "n": null}`)
	cases := []struct {
		path string
		want any
		ok   bool
	}{
		{"a.b[0][1]", 2, true},
		{"a.b[1][0]", 3, true},
		{"a.b[2]", nil, false},
		{"a.c", nil, false},
		{"n", nil, true},
		{"a.b.x", nil, false},
		{"a[", nil, false},
	}
	for _, c := range cases {
		got, ok := Resolve(data, c.path)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("Resolve(%q) = %v, %v; want %v, %v", c.path, got, ok, c.want, c.ok)
		}
	}
}

func TestInterpolateBackslashes(t *testing.T) {
	data := map[string]any{"dir": `C:\tmp\`, "pair": `a\\b`}
	got, missing := Interpolate("${dir}[b]bold[/b] ${pair}", data)
	if len(missing) != 0 {
		t.Fatalf("不应有缺失: %v", missing)
	}
	ok, tokens := markup.TryTokenize(got, true)
	if !ok {
		t.Fatalf("插值结果应能正常分词: %q", got)
	}
	want := []markup.Token{
		{Type: markup.StringValue, Value: `C:\tmp\`},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldOpen, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: "bold"},
		{Type: markup.OpenTag, Value: "["},
		{Type: markup.BoldClose, Value: "b"},
		{Type: markup.CloseTag, Value: "]"},
		{Type: markup.StringValue, Value: ` a\\b`},
	}
	if diff := cmp.Diff(want, tokens, cmpopts.IgnoreFields(markup.Token{}, "Remaining")); diff != "" {
		t.Fatalf("分词结果不符 (-want +got):\n%s", diff)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `\`, `\\`, `a\[b`, `[b]x[/b]`, `end\`, `\\[`} {
		ok, tokens := markup.TryTokenize(Escape(s), false)
		if !ok {
			t.Fatalf("Escape(%q) 无法分词", s)
		}
		var got strings.Builder
		for _, tok := range tokens {
			got.WriteString(tok.Value)
		}
		if got.String() != s {
			t.Errorf("Escape(%q) 往返后为 %q", s, got.String())
		}
	}
}
