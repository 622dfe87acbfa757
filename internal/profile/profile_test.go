package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestClashIsStable(t *testing.T) {
	assert.True(t, strings.HasPrefix(Clash(), "mode: rule\n"))
	assert.Equal(t, Clash(), Clash())
}

func TestClashIsValidYAML(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(Clash()), &doc))
	assert.Contains(t, doc, "proxy-groups")
	assert.Contains(t, doc, "rules")
	assert.Equal(t, 12345, doc["mixed-port"])
}

func TestWriteIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mihomo", "config.yaml")

	wrote, err := WriteIfMissing(path, false)
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Clash(), string(data))

	require.NoError(t, os.WriteFile(path, []byte("mode: global\n"), 0o644))
	wrote, err = WriteIfMissing(path, false)
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mode: global\n", string(data))

	wrote, err = WriteIfMissing(path, true)
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Clash(), string(data))
}
