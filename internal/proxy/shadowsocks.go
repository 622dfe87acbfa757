package proxy

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PluginOptions are mihomo's plugin-opts for obfs and v2ray-plugin.
type PluginOptions struct {
	Mode string `yaml:"mode"`
	Host string `yaml:"host"`
	Path string `yaml:"path"`
	TLS  bool   `yaml:"tls"`
}

// Shadowsocks describes one shadowsocks server.
type Shadowsocks struct {
	Name       string         `yaml:"name"`
	Server     string         `yaml:"server"`
	Port       uint16         `yaml:"port"`
	Cipher     string         `yaml:"cipher"`
	Password   string         `yaml:"password"`
	Plugin     string         `yaml:"plugin"`
	PluginOpts *PluginOptions `yaml:"plugin-opts"`
}

// plugin builds the SIP003 plugin argument, e.g.
// "obfs-local;obfs=http;obfs-host=example.com".
func (s Shadowsocks) plugin() string {
	opts := s.PluginOpts
	if opts == nil {
		opts = &PluginOptions{}
	}
	var parts []string
	switch s.Plugin {
	case "":
		return ""
	case "obfs":
		parts = append(parts, "obfs-local")
		if opts.Mode != "" {
			parts = append(parts, "obfs="+opts.Mode)
		}
		if opts.Host != "" {
			parts = append(parts, "obfs-host="+opts.Host)
		}
	case "v2ray-plugin":
		parts = append(parts, "v2ray-plugin")
		if opts.Mode != "" {
			parts = append(parts, "mode="+opts.Mode)
		}
		if opts.Host != "" {
			parts = append(parts, "host="+opts.Host)
		}
		if opts.Path != "" {
			parts = append(parts, "path="+opts.Path)
		}
		if opts.TLS {
			parts = append(parts, "tls")
		}
	default:
		parts = append(parts, s.Plugin)
	}
	return strings.Join(parts, ";")
}

// Render returns a SIP002 ss:// share link. The userinfo is
// base64url(cipher:password) without padding.
func (s Shadowsocks) Render(_ Rand) (string, error) {
	if err := requirePort(KindShadowsocks, s.Name, s.Port); err != nil {
		return "", err
	}

	userinfo := base64.RawURLEncoding.EncodeToString([]byte(s.Cipher + ":" + s.Password))
	query := joinQuery(nonEmpty(s.plugin(), escaped(param("plugin"))))

	return fmt.Sprintf("ss://%s@%s:%d%s#%s",
		userinfo, s.Server, s.Port, query, escapeName(s.Name)), nil
}
