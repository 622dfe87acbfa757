// Package proxy turns mihomo-style proxy descriptors into share links.
//
// Each supported protocol has its own descriptor type with a Render method.
// Proxy is the closed union over them, decoded from a proxies list entry by
// its "type" key.
package proxy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind names a supported protocol. The value is the link scheme.
type Kind string

const (
	KindHysteria2   Kind = "hysteria2"
	KindTrojan      Kind = "trojan"
	KindVLESS       Kind = "vless"
	KindShadowsocks Kind = "ss"
)

// kinds maps every accepted "type" value to its Kind.
var kinds = map[string]Kind{
	"hysteria2":   KindHysteria2,
	"hy2":         KindHysteria2,
	"trojan":      KindTrojan,
	"vless":       KindVLESS,
	"ss":          KindShadowsocks,
	"shadowsocks": KindShadowsocks,
}

// RenderError reports why one descriptor could not be rendered.
type RenderError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UnsupportedError is returned when decoding a proxy of an unknown type.
type UnsupportedError struct {
	Type string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported proxy type %q", e.Type)
}

// Proxy holds exactly one descriptor, the one matching Kind.
type Proxy struct {
	Kind        Kind
	Hysteria2   *Hysteria2
	Trojan      *Trojan
	VLESS       *VLESS
	Shadowsocks *Shadowsocks
}

// UnmarshalYAML decodes a proxies entry into the variant named by "type".
func (p *Proxy) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	kind, ok := kinds[head.Type]
	if !ok {
		return &UnsupportedError{Type: head.Type}
	}

	out := Proxy{Kind: kind}
	var target interface{}
	switch kind {
	case KindHysteria2:
		out.Hysteria2 = &Hysteria2{}
		target = out.Hysteria2
	case KindTrojan:
		out.Trojan = &Trojan{}
		target = out.Trojan
	case KindVLESS:
		out.VLESS = &VLESS{}
		target = out.VLESS
	case KindShadowsocks:
		out.Shadowsocks = &Shadowsocks{}
		target = out.Shadowsocks
	}
	if err := node.Decode(target); err != nil {
		return fmt.Errorf("decode %s proxy: %w", kind, err)
	}
	*p = out
	return nil
}

// Render dispatches to the variant's Render. rng is only consulted by
// protocols with port hopping; nil selects the process-wide source.
func (p Proxy) Render(rng Rand) (string, error) {
	switch {
	case p.Kind == KindHysteria2 && p.Hysteria2 != nil:
		return p.Hysteria2.Render(rng)
	case p.Kind == KindTrojan && p.Trojan != nil:
		return p.Trojan.Render(rng)
	case p.Kind == KindVLESS && p.VLESS != nil:
		return p.VLESS.Render(rng)
	case p.Kind == KindShadowsocks && p.Shadowsocks != nil:
		return p.Shadowsocks.Render(rng)
	}
	return "", fmt.Errorf("proxy of kind %q has no descriptor", p.Kind)
}

// Name returns the display name.
func (p Proxy) Name() string {
	switch {
	case p.Hysteria2 != nil:
		return p.Hysteria2.Name
	case p.Trojan != nil:
		return p.Trojan.Name
	case p.VLESS != nil:
		return p.VLESS.Name
	case p.Shadowsocks != nil:
		return p.Shadowsocks.Name
	}
	return ""
}

// Server returns the server host or IP.
func (p Proxy) Server() string {
	switch {
	case p.Hysteria2 != nil:
		return p.Hysteria2.Server
	case p.Trojan != nil:
		return p.Trojan.Server
	case p.VLESS != nil:
		return p.VLESS.Server
	case p.Shadowsocks != nil:
		return p.Shadowsocks.Server
	}
	return ""
}

// WithName returns a copy of p with the display name replaced. p itself is
// left untouched.
func (p Proxy) WithName(name string) Proxy {
	switch {
	case p.Hysteria2 != nil:
		h := *p.Hysteria2
		h.Name = name
		p.Hysteria2 = &h
	case p.Trojan != nil:
		t := *p.Trojan
		t.Name = name
		p.Trojan = &t
	case p.VLESS != nil:
		v := *p.VLESS
		v.Name = name
		p.VLESS = &v
	case p.Shadowsocks != nil:
		s := *p.Shadowsocks
		s.Name = name
		p.Shadowsocks = &s
	}
	return p
}
