package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := map[string]string{
		"plain":       "plain",
		"a_b":         `a\_b`,
		"*bold*":      `\*bold\*`,
		"`code`":      "\\`code\\`",
		"[link":       `\[link`,
		"کیف *چرمی*":  `کیف \*چرمی\*`,
		"":            "",
		"no specials": "no specials",
	}
	for in, want := range cases {
		if got := EscapeMarkdown(in); got != want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}
