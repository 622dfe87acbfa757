package proxy

import (
	"fmt"
)

// VLESS describes one vless server, with optional TLS or REALITY.
type VLESS struct {
	Name           string          `yaml:"name"`
	Server         string          `yaml:"server"`
	Port           uint16          `yaml:"port"`
	UUID           string          `yaml:"uuid"`
	Flow           string          `yaml:"flow"`
	TLS            bool            `yaml:"tls"`
	ServerName     string          `yaml:"servername"`
	ALPN           []string        `yaml:"alpn"`
	SkipCertVerify bool            `yaml:"skip-cert-verify"`
	Fingerprint    string          `yaml:"client-fingerprint"`
	Reality        *RealityOptions `yaml:"reality-opts"`

	Transport `yaml:",inline"`
}

func (v VLESS) security() string {
	switch {
	case v.Reality != nil:
		return "reality"
	case v.TLS:
		return "tls"
	default:
		return "none"
	}
}

// Render returns the vless:// share link.
func (v VLESS) Render(_ Rand) (string, error) {
	if err := requirePort(KindVLESS, v.Name, v.Port); err != nil {
		return "", err
	}

	security := v.security()
	fragments := []string{
		param("encryption")("none"),
		nonEmpty(v.Flow, param("flow")),
		param("security")(security),
	}
	if security != "none" {
		fragments = append(fragments,
			nonEmpty(v.ServerName, param("sni")),
			nonEmpty(encodeALPN(v.ALPN), param("alpn")),
			nonEmpty(v.Fingerprint, param("fp")),
		)
	}
	if v.Reality != nil {
		fragments = append(fragments,
			nonEmpty(v.Reality.PublicKey, param("pbk")),
			nonEmpty(v.Reality.ShortID, param("sid")),
		)
	}
	if v.SkipCertVerify {
		fragments = append(fragments, param("allowInsecure")("1"))
	}
	fragments = append(fragments, v.Transport.fragments()...)

	return fmt.Sprintf("vless://%s@%s:%d%s#%s",
		v.UUID, v.Server, v.Port, joinQuery(fragments...), escapeName(v.Name)), nil
}
