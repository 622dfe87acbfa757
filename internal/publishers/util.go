package publishers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"akasha/internal/geoip"
	"akasha/internal/logger"
	"akasha/internal/metrics"
	"akasha/internal/proxy"
)

// GenerateSubscriptionPayload renders proxies into a newline separated link
// list. Duplicates (same Hash) keep their first occurrence. Descriptors that
// fail to render are logged and left out. Outcomes are recorded into the
// "_metrics" collector when one is passed.
func GenerateSubscriptionPayload(proxies []proxy.Proxy, config map[string]interface{}) (string, error) {
	useFlag, _ := config["flag"].(bool)
	useBase64, _ := config["base64"].(bool)
	stats, _ := config["_metrics"].(*metrics.Collector)

	seen := make(map[string]struct{}, len(proxies))
	lines := make([]string, 0, len(proxies))
	for _, p := range proxies {
		hash := p.Hash()
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}

		if useFlag {
			p = withFlag(p)
		}

		link, err := p.Render(nil)
		if err != nil {
			logger.Log.Debugf("⚠️ Publisher dropped proxy %q: %v", p.Name(), err)
			if stats != nil {
				stats.RecordFailure(err)
			}
			continue
		}
		if stats != nil {
			stats.RecordSuccess(p.Kind)
		}
		lines = append(lines, link)
	}

	if len(lines) == 0 && len(proxies) > 0 {
		return "", fmt.Errorf("none of %d proxies could be rendered", len(proxies))
	}

	finalText := strings.Join(lines, "\n")
	if useBase64 {
		return base64.StdEncoding.EncodeToString([]byte(finalText)), nil
	}
	return finalText, nil
}

// withFlag prefixes the name with a country flag when the server is an IP
// literal the GeoIP database knows about.
func withFlag(p proxy.Proxy) proxy.Proxy {
	country, err := geoip.Country(p.Server())
	if err != nil || country == "" {
		return p
	}
	return p.WithName(fmt.Sprintf("%s %s", geoip.Flag(country), p.Name()))
}
