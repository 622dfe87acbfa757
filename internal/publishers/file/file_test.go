package file

import (
	"os"
	"path/filepath"
	"testing"

	"akasha/internal/proxy"
	"akasha/internal/publishers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sub.txt")

	p, err := publishers.Get("file")
	require.NoError(t, err)

	proxies := []proxy.Proxy{{
		Kind:   proxy.KindTrojan,
		Trojan: &proxy.Trojan{Name: "a", Server: "example.com", Port: 443, Password: "pw"},
	}}
	require.NoError(t, p.Publish(proxies, map[string]interface{}{"path": path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trojan://pw@example.com:443?security=tls#a\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilePublisherRequiresPath(t *testing.T) {
	err := (&Publisher{}).Publish(nil, map[string]interface{}{})
	assert.Error(t, err)
}
