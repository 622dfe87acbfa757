package geoip

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
	gocache "github.com/patrickmn/go-cache"
)

var (
	countryReader *geoip2.Reader
	mu            sync.RWMutex

	// Subscriptions repeat servers a lot; lookups are memoized per reader.
	lookups = gocache.New(gocache.NoExpiration, 0)
)

// Init opens the country MMDB. Calling it again replaces the reader.
func Init(countryPath string) error {
	reader, err := geoip2.Open(countryPath)
	if err != nil {
		return fmt.Errorf("failed to open Country DB at %s: %w", countryPath, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if countryReader != nil {
		countryReader.Close()
	}
	countryReader = reader
	lookups.Flush()
	return nil
}

// Country returns the ISO code for an IP literal. Hostnames are not resolved.
func Country(host string) (string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if countryReader == nil {
		return "", fmt.Errorf("geoip database not initialized")
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	if ip == nil {
		return "", fmt.Errorf("not an ip: %s", host)
	}
	key := ip.String()
	if code, ok := lookups.Get(key); ok {
		return code.(string), nil
	}
	c, err := countryReader.Country(ip)
	if err != nil {
		return "", err
	}
	lookups.SetDefault(key, c.Country.IsoCode)
	return c.Country.IsoCode, nil
}

// Flag returns the regional indicator pair for a two-letter country code,
// or a globe for anything else.
func Flag(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌐"
	}
	countryCode = strings.ToUpper(countryCode)
	if countryCode[0] < 'A' || countryCode[0] > 'Z' || countryCode[1] < 'A' || countryCode[1] > 'Z' {
		return "🌐"
	}
	return string(rune(countryCode[0])+127397) + string(rune(countryCode[1])+127397)
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if countryReader != nil {
		countryReader.Close()
		countryReader = nil
	}
	lookups.Flush()
}
