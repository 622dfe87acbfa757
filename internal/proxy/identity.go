package proxy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Hash identifies the endpoint a descriptor connects to. The display name is
// excluded, so the same server listed under two names hashes equal.
func (p Proxy) Hash() string {
	var parts []string
	parts = append(parts, string(p.Kind), strings.ToLower(p.Server()))

	switch {
	case p.Hysteria2 != nil:
		h := p.Hysteria2
		parts = append(parts, portKey(h.Port, h.Ports), h.Password, deref(h.Obfs), deref(h.ObfsPassword), deref(h.SNI))
	case p.Trojan != nil:
		t := p.Trojan
		parts = append(parts, fmt.Sprintf("%d", t.Port), t.Password, t.SNI, transportKey(t.Transport))
	case p.VLESS != nil:
		v := p.VLESS
		parts = append(parts, fmt.Sprintf("%d", v.Port), uuidKey(v.UUID), v.Flow, v.security(), v.ServerName, transportKey(v.Transport))
		if v.Reality != nil {
			parts = append(parts, v.Reality.PublicKey, v.Reality.ShortID)
		}
	case p.Shadowsocks != nil:
		s := p.Shadowsocks
		parts = append(parts, fmt.Sprintf("%d", s.Port), strings.ToLower(s.Cipher), s.Password, s.plugin())
	}

	signature := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(hash[:])
}

// portKey normalises a port or ports expression. A fixed port wins, as it
// does at render time.
func portKey(port *uint16, ports *string) string {
	if port != nil {
		return fmt.Sprintf("%d", *port)
	}
	if ports == nil {
		return ""
	}
	items := strings.Split(strings.ReplaceAll(*ports, "/", ","), ",")
	sort.Strings(items)
	return strings.Join(items, ",")
}

func transportKey(t Transport) string {
	// Network: empty implies "tcp"
	network := strings.ToLower(t.Network)
	if network == "" {
		network = "tcp"
	}
	key := []string{network}
	if t.WSOpts != nil {
		key = append(key, t.WSOpts.Path, t.WSOpts.Headers["Host"])
	}
	if t.GRPC != nil {
		key = append(key, t.GRPC.ServiceName)
	}
	return strings.Join(key, ";")
}

// uuidKey returns the canonical form of id so that case and brace variants
// of the same UUID match. Non-UUID ids are kept verbatim.
func uuidKey(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
