package metrics

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"akasha/internal/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorClassifiesFailures(t *testing.T) {
	c := New()
	c.RecordSuccess(proxy.KindHysteria2)
	c.RecordSuccess(proxy.KindTrojan)
	c.RecordFailure(&proxy.RenderError{Kind: proxy.KindHysteria2, Err: proxy.ErrInvalidPorts})
	c.RecordFailure(&proxy.RenderError{Kind: proxy.KindHysteria2, Err: proxy.ErrMissingPort})
	c.RecordFailure(&proxy.RenderError{Kind: proxy.KindVLESS, Err: proxy.ErrInvalidPort})
	c.RecordFailure(errors.New("boom"))

	assert.Equal(t, 2, c.Successes())
	assert.Equal(t, map[string]int{
		"Malformed Ports": 1,
		"Missing Port":    1,
		"Invalid Port":    1,
		"Unknown":         1,
	}, c.Failures())
}

func TestCollectorConcurrentRecords(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordSuccess(proxy.KindShadowsocks)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Successes())
}

func TestPrintReport(t *testing.T) {
	c := New()
	c.RecordSuccess(proxy.KindHysteria2)
	c.RecordFailure(proxy.ErrInvalidPorts)
	c.RecordUnsupported([]string{"vmess", "vmess", "snell"})

	var out bytes.Buffer
	c.PrintReport(&out)

	report := out.String()
	assert.Contains(t, report, "RENDER REPORT")
	assert.Contains(t, report, "hysteria2:")
	assert.Contains(t, report, "Malformed Ports:")
	assert.Contains(t, report, "vmess:")
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.RecordSuccess(proxy.KindHysteria2)
	c.RecordSuccess(proxy.KindHysteria2)
	c.RecordFailure(proxy.ErrMissingPort)
	c.RecordUnsupported([]string{"vmess"})

	path := filepath.Join(t.TempDir(), "akasha.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `akasha_links_rendered_total{kind="hysteria2"} 2`)
	assert.Contains(t, text, `akasha_render_failures_total{reason="Missing Port"} 1`)
	assert.Contains(t, text, `akasha_proxies_unsupported_total{type="vmess"} 1`)
}
