package proxy

import (
	"fmt"
)

// Trojan describes one trojan server.
type Trojan struct {
	Name           string   `yaml:"name"`
	Server         string   `yaml:"server"`
	Port           uint16   `yaml:"port"`
	Password       string   `yaml:"password"`
	SNI            string   `yaml:"sni"`
	ALPN           []string `yaml:"alpn"`
	SkipCertVerify bool     `yaml:"skip-cert-verify"`
	Fingerprint    string   `yaml:"client-fingerprint"`

	Transport `yaml:",inline"`
}

// Render returns the trojan:// share link.
func (t Trojan) Render(_ Rand) (string, error) {
	if err := requirePort(KindTrojan, t.Name, t.Port); err != nil {
		return "", err
	}

	fragments := []string{
		param("security")("tls"),
		nonEmpty(t.SNI, param("sni")),
		nonEmpty(encodeALPN(t.ALPN), param("alpn")),
		nonEmpty(t.Fingerprint, param("fp")),
	}
	if t.SkipCertVerify {
		fragments = append(fragments, param("allowInsecure")("1"))
	}
	fragments = append(fragments, t.Transport.fragments()...)

	return fmt.Sprintf("trojan://%s@%s:%d%s#%s",
		t.Password, t.Server, t.Port, joinQuery(fragments...), escapeName(t.Name)), nil
}
