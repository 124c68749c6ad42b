package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MinTitleLength is the shortest title accepted from user input.
const MinTitleLength = 2

var ErrTitleTooShort = errors.New("title must be at least 2 characters")

var titleEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// NormalizeTitle trims raw input, enforces MinTitleLength and escapes markup
// characters. An empty result is returned as "" with ErrTitleTooShort.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return "", ErrTitleTooShort
	}
	return titleEscaper.Replace(title), nil
}
