package proxy

import (
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// seqRand returns the queued values in order and records every bound.
type seqRand struct {
	values []int
	bounds []int
}

func (r *seqRand) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func linkPort(t *testing.T, link string) uint16 {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	port, err := strconv.ParseUint(u.Port(), 10, 16)
	require.NoError(t, err)
	return uint16(port)
}

func TestHysteria2Render(t *testing.T) {
	tests := []struct {
		name string
		h    Hysteria2
		want string
	}{
		{
			name: "sni and insecure",
			h: Hysteria2{
				Name:           "A B",
				Password:       "pw",
				Server:         "1.2.3.4",
				Port:           ptr[uint16](443),
				SNI:            ptr("x.com"),
				SkipCertVerify: ptr(true),
			},
			want: "hysteria2://pw@1.2.3.4:443?sni=x.com&insecure=1#A%20B",
		},
		{
			name: "no optional fields",
			h:    Hysteria2{Name: "n", Password: "pw", Server: "h", Port: ptr[uint16](1)},
			want: "hysteria2://pw@h:1#n",
		},
		{
			name: "every field in fixed order",
			h: Hysteria2{
				Name:           "n",
				Password:       "pw",
				Server:         "h.example",
				Port:           ptr[uint16](8443),
				SNI:            ptr("s"),
				Up:             ptr("100"),
				Down:           ptr("200"),
				ALPN:           []string{"h3", "h2"},
				Fingerprint:    ptr("fp"),
				Obfs:           ptr("salamander"),
				ObfsPassword:   ptr("op"),
				SkipCertVerify: ptr(false),
			},
			want: "hysteria2://pw@h.example:8443?sni=s&obfs=salamander&obfs-password=op&alpn=h3,h2&insecure=0&pinSHA256=fp&up=100&down=200#n",
		},
		{
			name: "port wins over ports",
			h: Hysteria2{
				Name:     "n",
				Password: "pw",
				Server:   "h",
				Port:     ptr[uint16](443),
				Ports:    ptr("1000-2000"),
			},
			want: "hysteria2://pw@h:443#n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.h.Render(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHysteria2RenderIsStableWithFixedPort(t *testing.T) {
	h := Hysteria2{Name: "stable", Password: "pw", Server: "h", Port: ptr[uint16](443), Ports: ptr("1-65535")}
	first, err := h.Render(nil)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := h.Render(nil)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestHysteria2RenderPicksFromPorts(t *testing.T) {
	h := Hysteria2{Name: "hop", Password: "pw", Server: "h", Ports: ptr("8080-8082,9000")}

	rng := &seqRand{values: []int{0, 1, 2, 3}}
	var got []uint16
	for i := 0; i < 4; i++ {
		link, err := h.Render(rng)
		require.NoError(t, err)
		got = append(got, linkPort(t, link))
	}
	assert.Equal(t, []uint16{8080, 8081, 8082, 9000}, got)
	assert.Equal(t, []int{4, 4, 4, 4}, rng.bounds)
}

func TestHysteria2RenderVariesOnlyInPort(t *testing.T) {
	h := Hysteria2{Name: "hop", Password: "pw", Server: "h", Ports: ptr("100-101"), SNI: ptr("s")}
	rng := intNRand{rand.New(rand.NewSource(1))}

	seen := map[uint16]bool{}
	for i := 0; i < 200; i++ {
		link, err := h.Render(rng)
		require.NoError(t, err)
		port := linkPort(t, link)
		require.Contains(t, []uint16{100, 101}, port)
		seen[port] = true
		assert.Equal(t, "hysteria2://pw@h:"+strconv.Itoa(int(port))+"?sni=s#hop", link)
	}
	assert.Len(t, seen, 2)
}

func TestHysteria2RenderSlashSeparatedPorts(t *testing.T) {
	h := Hysteria2{Name: "n", Password: "pw", Server: "h", Ports: ptr("8000/8001")}
	link, err := h.Render(&seqRand{values: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, uint16(8001), linkPort(t, link))
}

func TestHysteria2RenderPortErrors(t *testing.T) {
	tests := []struct {
		name  string
		ports *string
		want  error
	}{
		{name: "neither port nor ports", ports: nil, want: ErrMissingPort},
		{name: "not a number", ports: ptr("abc"), want: ErrInvalidPorts},
		{name: "empty", ports: ptr(""), want: ErrInvalidPorts},
		{name: "bad range end", ports: ptr("1-x"), want: ErrInvalidPorts},
		{name: "out of range", ports: ptr("70000"), want: ErrInvalidPorts},
		{name: "whitespace", ports: ptr(" 443"), want: ErrInvalidPorts},
		{name: "inverted range only", ports: ptr("5-3"), want: ErrInvalidPorts},
		{name: "trailing separator", ports: ptr("443,"), want: ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hysteria2{Name: "bad", Password: "pw", Server: "h", Ports: tt.ports}
			link, err := h.Render(nil)
			require.Error(t, err)
			assert.Empty(t, link)
			assert.ErrorIs(t, err, tt.want)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, KindHysteria2, renderErr.Kind)
			assert.Equal(t, "bad", renderErr.Name)
		})
	}
}

func TestHysteria2NameRoundTrip(t *testing.T) {
	safe := regexp.MustCompile(`^[A-Za-z0-9%]*$`)
	names := []string{
		"A B",
		"日本 🇯🇵 Tokyo",
		"a/b?c#d&e=f%g+h",
		"tab\tand\nnewline",
		"",
	}

	for _, name := range names {
		h := Hysteria2{Name: name, Password: "pw", Server: "h", Port: ptr[uint16](443)}
		link, err := h.Render(nil)
		require.NoError(t, err)

		fragment := link[strings.Index(link, "#")+1:]
		assert.Regexp(t, safe, fragment)
		decoded, err := url.PathUnescape(fragment)
		require.NoError(t, err)
		assert.Equal(t, name, decoded)
	}
}

func TestHysteria2AbsentFieldsAreOmitted(t *testing.T) {
	h := Hysteria2{Name: "n", Password: "pw", Server: "h", Port: ptr[uint16](443), Obfs: ptr("salamander")}
	link, err := h.Render(nil)
	require.NoError(t, err)

	assert.Contains(t, link, "?obfs=salamander#")
	for _, key := range []string{"sni=", "obfs-password=", "alpn=", "insecure=", "pinSHA256=", "up=", "down="} {
		assert.NotContains(t, link, key)
	}
}

// intNRand adapts math/rand's *rand.Rand to the Rand interface.
type intNRand struct{ *rand.Rand }

func (r intNRand) IntN(n int) int { return r.Intn(n) }
