package models

import (
	"strings"
	"unicode/utf8"
)

// ExcerptLength is the number of characters kept from content in an excerpt
const ExcerptLength = 150

// Slugify derives a URL-safe identifier from a title: lowercase, every run of
// characters outside [a-z0-9] collapsed to one hyphen, no leading or
// trailing hyphen.
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Excerpt returns the first ExcerptLength characters of content followed by
// "..." when content is longer, otherwise content unchanged.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:ExcerptLength]) + "..."
}
