package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Web Development", "web-development"},
		{"punctuation runs", "Hello,  World!!", "hello-world"},
		{"leading and trailing", "  --Cloud & DevOps--  ", "cloud-devops"},
		{"digits kept", "Top 10 Tips for 2024", "top-10-tips-for-2024"},
		{"accents dropped", "Café Crème", "caf-cr-me"},
		{"only symbols", "!!!", ""},
		{"already slug", "mobile-apps", "mobile-apps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	titles := []string{
		"Web Development", "  Spaces  ", "UPPER lower", "a--b__c", "-x-", "Ünïcödé Title",
		"Announcing: v2.0 (beta)!", "100% Fun", "tabs\tand\nnewlines", "émoji 🚀 launch",
	}

	for _, title := range titles {
		slug := Slugify(title)

		assert.Equal(t, slug, Slugify(slug), "idempotent for %q", title)
		assert.Equal(t, strings.ToLower(slug), slug)
		assert.False(t, strings.HasPrefix(slug, "-"), "leading hyphen in %q", slug)
		assert.False(t, strings.HasSuffix(slug, "-"), "trailing hyphen in %q", slug)
		assert.NotContains(t, slug, "--")
		for _, r := range slug {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "unexpected %q in %q", r, slug)
		}
	}
}

func TestExcerpt(t *testing.T) {
	short := strings.Repeat("a", ExcerptLength)
	assert.Equal(t, short, Excerpt(short))
	assert.Equal(t, "", Excerpt(""))

	long := strings.Repeat("b", ExcerptLength) + "tail"
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("b", ExcerptLength)+"...", got)
	assert.Len(t, got, 153)

	// multi-byte content is cut on characters, not bytes
	accented := strings.Repeat("é", ExcerptLength+1)
	assert.Equal(t, ExcerptLength+3, utf8.RuneCountInString(Excerpt(accented)))
}
