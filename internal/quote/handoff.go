package quote

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// HandoffLink builds a messaging deep link carrying message as prefilled
// text. Only the transport encoding changes; the decoded text equals the
// input exactly. Spaces become %20 because some messaging apps render '+'
// literally.
func HandoffLink(baseURL, phone, message string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse handoff base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("handoff base url %q must be absolute", baseURL)
	}

	if digits := phoneDigits(phone); digits != "" {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + digits
	}

	u.RawQuery = "text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return u.String(), nil
}

func phoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
