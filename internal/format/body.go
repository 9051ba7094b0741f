// Package format prepares email bodies for terminal display.
package format

import (
	"log"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var htmlTagPattern = regexp.MustCompile(
	`(?i)<(html|body|div|p|br|a|span|table|tr|td|b|i|strong|em|ul|ol|li|h[1-6]|blockquote|img)(\s[^>]*)?/?>`,
)

// IsHTML reports whether body looks like an HTML fragment.
func IsHTML(body string) bool {
	return htmlTagPattern.MatchString(body)
}

// BodyText returns body ready for display. HTML bodies are converted to
// Markdown; plain text is returned unchanged. If conversion fails the
// raw body is returned.
func BodyText(body string) string {
	if !IsHTML(body) {
		return body
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(body)
	if err != nil {
		log.Printf("converting html body: %v", err)
		return body
	}
	return strings.TrimSpace(text)
}
