package proxy

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the result of decoding a subscription document.
type Document struct {
	Proxies []Proxy
	// Unsupported lists the "type" of every entry that was skipped.
	Unsupported []string
}

// Decode reads the proxies list of a Clash/mihomo YAML document. Entries of
// unknown types are skipped and reported, any other malformed entry fails
// the whole document.
func Decode(data []byte) (*Document, error) {
	var raw struct {
		Proxies []yaml.Node `yaml:"proxies"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse subscription yaml: %w", err)
	}

	doc := &Document{Proxies: make([]Proxy, 0, len(raw.Proxies))}
	for i := range raw.Proxies {
		var p Proxy
		err := raw.Proxies[i].Decode(&p)
		var unsupported *UnsupportedError
		switch {
		case errors.As(err, &unsupported):
			doc.Unsupported = append(doc.Unsupported, unsupported.Type)
		case err != nil:
			return nil, fmt.Errorf("proxy #%d (line %d): %w", i, raw.Proxies[i].Line, err)
		default:
			doc.Proxies = append(doc.Proxies, p)
		}
	}
	return doc, nil
}
