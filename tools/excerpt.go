package tools

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jonwraymond/uslegal/record"
)

// ExcerptLength is the number of characters of opinion text shown per result.
const ExcerptLength = 1500

// Excerpt returns the first ExcerptLength characters of an opinion's text,
// preferring plain text over HTML, with "..." appended when truncated.
// HTML is reduced to its text content.
func Excerpt(t record.OpinionText) string {
	body := t.Plain
	if body == "" {
		body = htmlText(t.HTMLBody())
	}
	if body == "" {
		return ""
	}

	runes := []rune(body)
	if len(runes) <= ExcerptLength {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}

// htmlText returns the text nodes of an HTML fragment with whitespace runs
// collapsed. Script and style contents are skipped.
func htmlText(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(tag []byte) bool {
	s := string(tag)
	return s == "script" || s == "style"
}
