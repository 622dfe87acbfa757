package geoip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlag(t *testing.T) {
	assert.Equal(t, "🇯🇵", Flag("JP"))
	assert.Equal(t, "🇩🇪", Flag("de"))
	assert.Equal(t, "🌐", Flag(""))
	assert.Equal(t, "🌐", Flag("USA"))
	assert.Equal(t, "🌐", Flag("1A"))
}

func TestCountryWithoutDatabase(t *testing.T) {
	Close()
	_, err := Country("1.1.1.1")
	assert.Error(t, err)
}

func TestInitMissingFile(t *testing.T) {
	err := Init(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}
