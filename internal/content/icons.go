package content

// DefaultIcon is shown for services without a dedicated glyph
const DefaultIcon = "briefcase"

// serviceIcons maps service slugs to icon identifiers
var serviceIcons = map[string]string{
	"web-development":      "code",
	"mobile-development":   "smartphone",
	"mobile-apps":          "smartphone",
	"ui-ux-design":         "palette",
	"graphic-design":       "pen-tool",
	"branding":             "award",
	"digital-marketing":    "trending-up",
	"seo":                  "search",
	"cloud-solutions":      "cloud",
	"cloud-hosting":        "server",
	"it-consulting":        "lightbulb",
	"cybersecurity":        "shield",
	"data-analytics":       "bar-chart",
	"software-development": "cpu",
	"e-commerce":           "shopping-cart",
	"training":             "graduation-cap",
}

// IconFor returns the icon for a service slug, DefaultIcon when unmapped
func IconFor(slug string) string {
	if icon, ok := serviceIcons[slug]; ok {
		return icon
	}
	return DefaultIcon
}
