package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	const size = 100

	tests := []struct {
		header string
		want   ByteRange
	}{
		{"bytes=10-19", ByteRange{10, 19}},
		{"bytes=10-", ByteRange{10, 99}},
		{"bytes=0-0", ByteRange{0, 0}},
		{"bytes=0-99", ByteRange{0, 99}},
		{"bytes=99-", ByteRange{99, 99}},
		{"Bytes= 5 - 9 ", ByteRange{5, 9}},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.header, size)
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestParseRangeNotSatisfiable(t *testing.T) {
	for _, h := range []string{
		"bytes=100-",
		"bytes=150-160",
		"bytes=20-10",
		"bytes=90-100",
		"bytes=0-99999999999999999999999",
		"bytes=99999999999999999999999-",
	} {
		_, err := ParseRange(h, 100)
		assert.ErrorIs(t, err, ErrRangeNotSatisfiable, h)
	}

	_, err := ParseRange("bytes=0-", 0)
	assert.ErrorIs(t, err, ErrRangeNotSatisfiable)
}

func TestParseRangeUnparsable(t *testing.T) {
	for _, h := range []string{
		"bytes=0-99,200-299",
		"bytes=-500",
		"bytes=abc-",
		"bytes=1-x",
		"bytes=+1-5",
		"bytes=5",
		"items=0-5",
		"bytes",
		"",
	} {
		_, err := ParseRange(h, 1000)
		assert.ErrorIs(t, err, ErrUnparsableRange, h)
	}
}

func TestByteRangeHelpers(t *testing.T) {
	r := ByteRange{Start: 10, End: 19}
	assert.Equal(t, int64(10), r.Length())
	assert.Equal(t, "bytes 10-19/50", r.ContentRange(50))

	assert.Equal(t, ByteRange{0, 49}, FullRange(50))
	assert.Equal(t, int64(0), FullRange(0).Length())
}
