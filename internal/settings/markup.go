package settings

import (
	"regexp"
	"strings"
)

// The escaper avoids numeric entities so the #large# rule cannot match
// inside an escaped character.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

type markupRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var markupRules = []markupRule{
	{regexp.MustCompile(`\*(.*?)\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`~(.*?)~`), "<em>${1}</em>"},
	{regexp.MustCompile(`\$(.*?)\$`), `<span style="color: var(--color-primary)">${1}</span>`},
	{regexp.MustCompile(`#(.*?)#`), `<span style="font-size: 1.5em">${1}</span>`},
}

// RenderMarkup turns the header mini-markup into HTML. Input is escaped
// first; *bold*, ~italic~, $accent$ and #large# spans never cross a line.
func RenderMarkup(text string) string {
	if text == "" {
		return ""
	}
	out := htmlEscaper.Replace(text)
	for _, rule := range markupRules {
		out = rule.pattern.ReplaceAllString(out, rule.replacement)
	}
	return strings.ReplaceAll(out, "\n", "<br />")
}
