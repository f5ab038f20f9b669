package core

// streaming.go holds the reader wrappers applied to an input file before it
// is split into lines:
//
//   - BOMSkippingReader: drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) written by
//     spreadsheet tools, so the first header cell still matches "name"
//   - CountingReader: tracks bytes read for the load log line
//
// Invalid UTF-8 is repaired per line by sanitizeLine once the line has been
// cut; '\n' never occurs inside a multi-byte sequence, so no state has to be
// carried between reads.

import (
	"io"
	"unicode/utf8"
)

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	head    []byte // bytes read while probing for the BOM that were not a BOM
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call probes three bytes for the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		var probe [3]byte
		n, err := io.ReadFull(r.reader, probe[:])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if n == 3 && probe[0] == 0xEF && probe[1] == 0xBB && probe[2] == 0xBF {
			r.head = nil
		} else {
			r.head = append([]byte(nil), probe[:n]...)
		}
	}

	if len(r.head) > 0 {
		n := copy(p, r.head)
		r.head = r.head[n:]
		return n, nil
	}

	return r.reader.Read(p)
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// WrapInput applies BOM skipping and byte counting to a raw input stream.
// The BOM must be stripped before anything inspects the header line.
func WrapInput(r io.Reader) *CountingReader {
	return NewCountingReader(NewBOMSkippingReader(r))
}

// sanitizeLine replaces each invalid UTF-8 byte with '?'.
// Valid lines (the common case) are returned unchanged without allocating.
func sanitizeLine(line string) string {
	if utf8.ValidString(line) {
		return line
	}

	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, line[i:i+size]...)
		i += size
	}
	return string(out)
}
