package proxy

import (
	"fmt"
)

// Hysteria2 describes one hysteria2 server as it appears in a mihomo
// proxies list.
type Hysteria2 struct {
	Name           string   `yaml:"name"`
	Password       string   `yaml:"password"`
	Server         string   `yaml:"server"`
	Port           *uint16  `yaml:"port"`
	Ports          *string  `yaml:"ports"` // port hopping, e.g. "443,20000-30000"
	SNI            *string  `yaml:"sni"`
	Up             *string  `yaml:"up"`
	Down           *string  `yaml:"down"`
	ALPN           []string `yaml:"alpn"`
	Fingerprint    *string  `yaml:"fingerprint"`
	Obfs           *string  `yaml:"obfs"`
	ObfsPassword   *string  `yaml:"obfs-password"`
	SkipCertVerify *bool    `yaml:"skip-cert-verify"`
}

// Render returns the hysteria2:// share link. When Port is unset a port is
// drawn from Ports using rng (nil means the process-wide source), so links
// rendered from the same descriptor may differ in the port only.
func (h Hysteria2) Render(rng Rand) (string, error) {
	name := escapeName(h.Name)

	port, err := resolvePort(h.Port, h.Ports, rng)
	if err != nil {
		return "", &RenderError{Kind: KindHysteria2, Name: h.Name, Err: err}
	}

	var insecure *string
	if h.SkipCertVerify != nil {
		v := encodeBool(*h.SkipCertVerify)
		insecure = &v
	}
	var alpn *string
	if h.ALPN != nil {
		v := encodeALPN(h.ALPN)
		alpn = &v
	}

	query := joinQuery(
		optional(h.SNI, param("sni")),
		optional(h.Obfs, param("obfs")),
		optional(h.ObfsPassword, param("obfs-password")),
		optional(alpn, param("alpn")),
		optional(insecure, param("insecure")),
		optional(h.Fingerprint, param("pinSHA256")),
		optional(h.Up, param("up")),
		optional(h.Down, param("down")),
	)

	return fmt.Sprintf("hysteria2://%s@%s:%d%s#%s", h.Password, h.Server, port, query, name), nil
}
