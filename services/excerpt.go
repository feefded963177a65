package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const excerptEllipsis = "..."

// DeriveExcerpt strips markup from content and cuts the visible text to at
// most length runes, appending an ellipsis when something was cut.
// Text inside script and style elements is never part of an excerpt.
func DeriveExcerpt(content string, length int) string {
	text := strings.Join(strings.Fields(plainText(content)), " ")
	if length <= 0 || utf8.RuneCountInString(text) <= length {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:length]), " ") + excerptEllipsis
}

func plainText(content string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the text so far is all we get
			return b.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextElement(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextElement(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextElement(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
