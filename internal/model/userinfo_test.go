package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserinfo(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   SubscriptionUserinfo
	}{
		{
			name:   "canonical",
			header: "upload=1; download=2; total=3; expire=4",
			want:   SubscriptionUserinfo{Upload: 1, Download: 2, Total: 3, Expire: 4},
		},
		{
			name:   "any order without spaces",
			header: "total=10737418240;expire=1700000000;download=5;upload=6",
			want:   SubscriptionUserinfo{Upload: 6, Download: 5, Total: 10737418240, Expire: 1700000000},
		},
		{
			name:   "unknown keys and trailing separator",
			header: "upload=1; plan=pro; download=2;",
			want:   SubscriptionUserinfo{Upload: 1, Download: 2},
		},
		{
			name:   "empty expire",
			header: "upload=0; download=0; total=100; expire=",
			want:   SubscriptionUserinfo{Total: 100},
		},
		{
			name:   "float counters",
			header: "upload=1.5e3; download=2; total=3",
			want:   SubscriptionUserinfo{Upload: 1500, Download: 2, Total: 3},
		},
		{
			name:   "largest counter",
			header: "total=9223372036854775807",
			want:   SubscriptionUserinfo{Total: math.MaxInt64},
		},
		{
			name:   "beyond 32 bits",
			header: "total=1125899906842624",
			want:   SubscriptionUserinfo{Total: 1 << 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserinfo(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUserinfoErrors(t *testing.T) {
	for _, header := range []string{
		"upload",
		"upload=abc",
		"total=1; download=x",
		"upload=99999999999999999999; total=1",
		"upload=9223372036854775808",
		"upload=1e30",
		"upload=NaN",
		"download=Inf",
		"download=-Inf",
	} {
		_, err := ParseUserinfo(header)
		assert.Error(t, err, header)
	}
}

func TestUserinfoStringRoundTrip(t *testing.T) {
	info := SubscriptionUserinfo{Upload: 11, Download: 22, Total: 1 << 40, Expire: 1893456000}
	assert.Equal(t, "upload=11; download=22; total=1099511627776; expire=1893456000", info.String())

	parsed, err := ParseUserinfo(info.String())
	require.NoError(t, err)
	assert.Equal(t, info, parsed)
}

func TestUserinfoRemaining(t *testing.T) {
	assert.Equal(t, int64(70), SubscriptionUserinfo{Upload: 10, Download: 20, Total: 100}.Remaining())
	assert.Equal(t, int64(0), SubscriptionUserinfo{Upload: 80, Download: 30, Total: 100}.Remaining())
	assert.Equal(t, int64(0), SubscriptionUserinfo{Upload: 1}.Remaining())
	assert.Equal(t, int64(30), SubscriptionUserinfo{Upload: 10, Download: 20}.Used())
}

func TestUserinfoExpiresAt(t *testing.T) {
	_, ok := SubscriptionUserinfo{}.ExpiresAt()
	assert.False(t, ok)

	at, ok := SubscriptionUserinfo{Expire: 1700000000}.ExpiresAt()
	assert.True(t, ok)
	assert.True(t, at.Equal(time.Unix(1700000000, 0)))
}
