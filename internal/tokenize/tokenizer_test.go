package tokenize

import (
	"reflect"
	"testing"
)

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"simple words", "Hello World", []string{"hello", "world"}},
		{"punctuation becomes space", "quick-reply, v2.0!", []string{"quick", "reply", "v2", "0"}},
		{"collapses whitespace", "  a \t b \n c  ", []string{"a", "b", "c"}},
		{"digits kept", "mailbox 42", []string{"mailbox", "42"}},
		{"cjk kept whole", "如何使用AI邮件分析", []string{"如何使用ai邮件分析"}},
		{"cjk split by punctuation", "邮件，归档。设置", []string{"邮件", "归档", "设置"}},
		{"mixed latin and cjk with spaces", "设置 inbox 规则", []string{"设置", "inbox", "规则"}},
		{"emoji and symbols dropped", "hi 🙂 there!", []string{"hi", "there"}},
		{"only noise", "!!! ???", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !equalTokens(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"如何使用AI邮件分析",
		"  mixed 内容 with   spaces  ",
	}
	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize(%q) not deterministic: %v then %v", in, first, second)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    []string
	}{
		{
			"drops stop words and short tokens",
			"The quick guide",
			"how to use it",
			[]string{"quick", "guide", "how", "use"},
		},
		{
			"drops purely numeric tokens",
			"Release 2024",
			"version 12345 shipped",
			[]string{"release", "version", "shipped"},
		},
		{
			"keeps first occurrence order with duplicates",
			"archive rules",
			"archive old mail",
			[]string{"archive", "rules", "archive", "old", "mail"},
		},
		{
			"cjk keywords survive",
			"项目邮件自动归档",
			"",
			[]string{"项目邮件自动归档"},
		},
		{
			// Two-rune CJK tokens fall to the length rule even when they are
			// meaningful words; a known precision limitation.
			"short cjk tokens dropped",
			"",
			"这是 一个 归档功能",
			[]string{"归档功能"},
		},
		{"empty", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.title, tt.content)
			if !equalTokens(got, tt.want) {
				t.Errorf("ExtractKeywords(%q, %q) = %v, want %v", tt.title, tt.content, got, tt.want)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "and", "的", "了"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"archive", "邮件"} {
		if IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = true, want false", w)
		}
	}
}
