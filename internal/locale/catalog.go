package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var bundled embed.FS

// Catalog holds translated interface strings per locale
type Catalog struct {
	fallback string
	messages map[string]map[string]string
}

// LoadCatalog reads <locale>.yaml files at the root of fsys. Lookups that
// miss in a locale fall back to the fallback locale, then to the key.
func LoadCatalog(fsys fs.FS, fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read message catalogs: %w", err)
	}

	c := &Catalog{fallback: fallback, messages: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}

		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		var msgs map[string]string
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		c.messages[strings.TrimSuffix(e.Name(), ".yaml")] = msgs
	}

	if _, ok := c.messages[fallback]; !ok {
		return nil, fmt.Errorf("no message catalog for fallback locale %q", fallback)
	}
	return c, nil
}

// BundledCatalog loads the catalogs compiled into the binary
func BundledCatalog(fallback string) (*Catalog, error) {
	sub, err := fs.Sub(bundled, "messages")
	if err != nil {
		return nil, err
	}
	return LoadCatalog(sub, fallback)
}

// T returns the message for key in locale
func (c *Catalog) T(locale, key string) string {
	if msg, ok := c.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.fallback][key]; ok {
		return msg
	}
	return key
}

// Has reports whether a catalog exists for locale
func (c *Catalog) Has(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}
