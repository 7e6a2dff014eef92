package locale

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCatalog(t *testing.T) {
	c, err := BundledCatalog("en")
	require.NoError(t, err)

	assert.True(t, c.Has("en"))
	assert.True(t, c.Has("fr"))
	assert.Equal(t, "Services", c.T("en", "nav.services"))
	assert.Equal(t, "Carrières", c.T("fr", "nav.careers"))
	assert.Equal(t, "All rights reserved.", c.T("fr", "footer.rights"), "missing key falls back to en")
	assert.Equal(t, "Home", c.T("de", "nav.home"), "unknown locale falls back to en")
	assert.Equal(t, "no.such.key", c.T("en", "no.such.key"))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(fstest.MapFS{"fr.yaml": {Data: []byte("a: b\n")}}, "en")
	assert.Error(t, err)

	_, err = LoadCatalog(fstest.MapFS{"en.yaml": {Data: []byte("a: [unclosed\n")}}, "en")
	assert.Error(t, err)

	c, err := LoadCatalog(fstest.MapFS{
		"en.yaml":   {Data: []byte("greeting: Hello\n")},
		"notes.txt": {Data: []byte("ignored")},
	}, "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", c.T("en", "greeting"))
}
