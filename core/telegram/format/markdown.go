package format

import "strings"

const mdV1Specials = "_*`["

// EscapeMarkdown escapes Telegram MarkdownV1 special characters in text.
func EscapeMarkdown(text string) string {
	return escape(text, mdV1Specials)
}

func escape(text, specials string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 && strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
