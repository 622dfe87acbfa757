package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// UserinfoHeader is the response header subscription providers use to
// report account usage.
const UserinfoHeader = "subscription-userinfo"

// SubscriptionUserinfo carries the usage counters of a subscription account.
// Traffic is in bytes, Expire is a Unix timestamp (0 = never).
type SubscriptionUserinfo struct {
	Upload   int64 `json:"upload" yaml:"upload"`
	Download int64 `json:"download" yaml:"download"`
	Total    int64 `json:"total" yaml:"total"`
	Expire   int64 `json:"expire" yaml:"expire"`
}

// ParseUserinfo parses a header value such as
// "upload=1; download=2; total=3; expire=4". Keys may come in any order,
// unknown keys and empty segments are ignored.
func ParseUserinfo(header string) (SubscriptionUserinfo, error) {
	var info SubscriptionUserinfo
	for _, segment := range strings.Split(header, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			return SubscriptionUserinfo{}, fmt.Errorf("invalid userinfo segment %q", segment)
		}

		var field *int64
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "upload":
			field = &info.Upload
		case "download":
			field = &info.Download
		case "total":
			field = &info.Total
		case "expire":
			field = &info.Expire
		default:
			continue
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			// Some providers send floats for traffic counters.
			f, ferr := strconv.ParseFloat(value, 64)
			if ferr != nil {
				return SubscriptionUserinfo{}, fmt.Errorf("invalid userinfo %s: %w", key, err)
			}
			// float64(math.MaxInt64) rounds up to 2^63, which no longer fits.
			if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
				return SubscriptionUserinfo{}, fmt.Errorf("invalid userinfo %s: %q out of range", key, value)
			}
			n = int64(f)
		}
		*field = n
	}
	return info, nil
}

// String renders the canonical header value.
func (u SubscriptionUserinfo) String() string {
	return fmt.Sprintf("upload=%d; download=%d; total=%d; expire=%d", u.Upload, u.Download, u.Total, u.Expire)
}

// Used is upload plus download.
func (u SubscriptionUserinfo) Used() int64 {
	return u.Upload + u.Download
}

// Remaining is the traffic left, or 0 for accounts without a quota.
func (u SubscriptionUserinfo) Remaining() int64 {
	if u.Total <= 0 {
		return 0
	}
	if left := u.Total - u.Used(); left > 0 {
		return left
	}
	return 0
}

// ExpiresAt returns the expiry time and false when the account never expires.
func (u SubscriptionUserinfo) ExpiresAt() (time.Time, bool) {
	if u.Expire <= 0 {
		return time.Time{}, false
	}
	return time.Unix(u.Expire, 0), true
}
