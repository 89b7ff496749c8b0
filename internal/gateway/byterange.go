package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteRange is an inclusive span of a file's bytes.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes in the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the range for a 206 Content-Range header.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// FullRange covers the whole file. For an empty file its Length is zero.
func FullRange(size int64) ByteRange {
	return ByteRange{Start: 0, End: size - 1}
}

// ParseRange parses a single "bytes=<start>-[<end>]" header against a file of
// the given size. An omitted end means end of file.
//
// Anything that is not a single range with an explicit start (multi-range
// lists, suffix ranges, other units, garbage) yields ErrUnparsableRange.
// A well-formed range that does not fit the file yields
// ErrRangeNotSatisfiable; it is never clamped.
func ParseRange(header string, size int64) (ByteRange, error) {
	const unit = "bytes="

	if len(header) < len(unit) || !strings.EqualFold(header[:len(unit)], unit) {
		return ByteRange{}, fmt.Errorf("%w: %q", ErrUnparsableRange, header)
	}
	spec := strings.TrimSpace(header[len(unit):])
	if strings.Contains(spec, ",") {
		return ByteRange{}, fmt.Errorf("%w: multiple ranges in %q", ErrUnparsableRange, header)
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return ByteRange{}, fmt.Errorf("%w: %q", ErrUnparsableRange, header)
	}

	start, err := parseOffset(strings.TrimSpace(startStr))
	if err != nil {
		return ByteRange{}, fmt.Errorf("%w: %q", err, header)
	}

	end := size - 1
	if endStr = strings.TrimSpace(endStr); endStr != "" {
		if end, err = parseOffset(endStr); err != nil {
			return ByteRange{}, fmt.Errorf("%w: %q", err, header)
		}
	}

	if start >= size || start > end || end > size-1 {
		return ByteRange{}, fmt.Errorf("%w: %d-%d of %d", ErrRangeNotSatisfiable, start, end, size)
	}

	return ByteRange{Start: start, End: end}, nil
}

// parseOffset accepts only plain decimal digits. A digit string too large for
// int64 is still a well-formed offset, just one past any real file.
func parseOffset(s string) (int64, error) {
	if s == "" {
		return 0, ErrUnparsableRange
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrUnparsableRange
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrRangeNotSatisfiable
	}
	return n, nil
}
