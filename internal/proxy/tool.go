package proxy

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// param curries a query key. The returned func renders "name=value"
// without escaping the value.
func param(name string) func(string) string {
	return func(value string) string {
		return name + "=" + value
	}
}

// optional applies enc to v, or yields "" when v is absent.
func optional(v *string, enc func(string) string) string {
	if v == nil {
		return ""
	}
	return enc(*v)
}

// nonEmpty treats "" as absent. Used by protocols whose YAML form has no
// distinction between missing and empty.
func nonEmpty(v string, enc func(string) string) string {
	if v == "" {
		return ""
	}
	return enc(v)
}

// escaped wraps enc so the value is query-escaped first.
func escaped(enc func(string) string) func(string) string {
	return func(value string) string {
		return enc(url.QueryEscape(value))
	}
}

// encodeALPN joins protocol identifiers with a comma, as hysteria2, v2rayN
// and mihomo links expect.
func encodeALPN(alpn []string) string {
	return strings.Join(alpn, ",")
}

// encodeBool renders a flag as the literal 0 or 1.
func encodeBool(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}

// escapeName percent-encodes every byte that is not an ASCII letter or digit.
// The output is safe anywhere in a URI and decodes back with url.PathUnescape.
func escapeName(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlphanumeric(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isAlphanumeric(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// joinQuery drops empty fragments and joins the rest with '&'. The '?'
// separator is only emitted when something remains.
func joinQuery(fragments ...string) string {
	params := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			params = append(params, f)
		}
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}
