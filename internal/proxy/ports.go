package proxy

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var (
	// ErrMissingPort is returned when a descriptor has neither port nor ports.
	ErrMissingPort = errors.New("must provide `port` or `ports`")
	// ErrInvalidPorts is returned for a ports expression that does not parse
	// or expands to no candidates.
	ErrInvalidPorts = errors.New("invalid `ports` option")
	// ErrInvalidPort is returned when a required port is zero.
	ErrInvalidPort = errors.New("invalid `port` option")
)

// Rand is the random source used to pick a port out of a ports expression.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// orGlobal returns rng, or the process-wide source when rng is nil.
func orGlobal(rng Rand) Rand {
	if rng == nil {
		return globalRand{}
	}
	return rng
}

// PortRange is an inclusive range of ports. A single port has First == Last.
type PortRange struct {
	First uint16
	Last  uint16
}

func (r PortRange) len() int {
	if r.Last < r.First {
		return 0
	}
	return int(r.Last) - int(r.First) + 1
}

// PortSet is the flattened candidate pool of a ports expression, kept as
// ranges so wide hopping ranges are never materialised.
type PortSet []PortRange

// ParsePorts parses a ports expression such as "443,8443-8450/9000".
// Items are separated by ',' or '/'; an item containing '-' is an inclusive
// range split at its first '-'. Whitespace is not tolerated. An inverted
// range contributes no candidates, but the whole set must not be empty.
func ParsePorts(expr string) (PortSet, error) {
	items := strings.Split(strings.ReplaceAll(expr, "/", ","), ",")
	set := make(PortSet, 0, len(items))
	for _, item := range items {
		if pos := strings.IndexByte(item, '-'); pos >= 0 {
			first, err := parsePort(item[:pos])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPorts, expr, err)
			}
			last, err := parsePort(item[pos+1:])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPorts, expr, err)
			}
			set = append(set, PortRange{First: first, Last: last})
			continue
		}
		port, err := parsePort(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPorts, expr, err)
		}
		set = append(set, PortRange{First: port, Last: port})
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: %q expands to no ports", ErrInvalidPorts, expr)
	}
	return set, nil
}

// parsePort accepts an unsigned decimal with at most one leading '+'.
func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

// Len is the number of candidates, counting duplicates.
func (s PortSet) Len() int {
	total := 0
	for _, r := range s {
		total += r.len()
	}
	return total
}

// At returns the i-th candidate of the flattened pool.
func (s PortSet) At(i int) uint16 {
	for _, r := range s {
		n := r.len()
		if i < n {
			return r.First + uint16(i)
		}
		i -= n
	}
	panic(fmt.Sprintf("proxy: port index out of range [%d] with length %d", i, s.Len()))
}

// Contains reports whether port is one of the candidates.
func (s PortSet) Contains(port uint16) bool {
	for _, r := range s {
		if r.First <= port && port <= r.Last {
			return true
		}
	}
	return false
}

// Pick selects one candidate uniformly at random.
func (s PortSet) Pick(rng Rand) uint16 {
	return s.At(orGlobal(rng).IntN(s.Len()))
}

// resolvePort returns port when set, otherwise a random candidate of ports.
func resolvePort(port *uint16, ports *string, rng Rand) (uint16, error) {
	if port != nil {
		return *port, nil
	}
	if ports == nil {
		return 0, ErrMissingPort
	}
	set, err := ParsePorts(*ports)
	if err != nil {
		return 0, err
	}
	return set.Pick(rng), nil
}
