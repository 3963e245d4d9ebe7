package transcode

// stream.go provides the reader stack an import runs through. Each wrapper
// handles one artifact of files exported from spreadsheet tools without
// loading the input whole:
//
//   - bomReader skips a UTF-8 BOM (0xEF 0xBB 0xBF) at the start of input
//   - sanitizeReader replaces invalid UTF-8 bytes with '?'
//   - CountingReader tracks bytes read for progress reporting
//
// WrapReader applies all three in the required order.

import (
	"io"
	"unicode/utf8"
)

// bomReader skips the UTF-8 byte order mark, if present, on the first read.
type bomReader struct {
	r       io.Reader
	checked bool
	buf     [3]byte
	held    []byte
}

// SkipBOM wraps r so a leading UTF-8 BOM is not seen by consumers.
func SkipBOM(r io.Reader) io.Reader {
	return &bomReader{r: r}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		n, err := io.ReadFull(b.r, b.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n == 0 {
			return 0, err
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 3 && b.buf[0] == 0xEF && b.buf[1] == 0xBB && b.buf[2] == 0xBF {
			// BOM found; drop it.
			b.held = nil
		} else {
			b.held = b.buf[:n]
		}
	}
	if len(b.held) > 0 {
		n := copy(p, b.held)
		b.held = b.held[n:]
		return n, nil
	}
	return b.r.Read(p)
}

// sanitizeReader replaces invalid UTF-8 bytes with '?' on the fly. A
// multi-byte sequence split across reads is held back until the next read
// completes it, so valid runes are never mangled at buffer boundaries.
type sanitizeReader struct {
	r       io.Reader
	pending []byte
}

// Sanitize wraps r so consumers only ever see valid UTF-8.
func Sanitize(r io.Reader) io.Reader {
	return &sanitizeReader{
		r:       r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *sanitizeReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(s.pending) >= len(p) {
		// Destination too small to hold the held-back bytes plus any new
		// data; hand them over as-is so nothing is lost.
		n := copy(p, s.pending)
		s.pending = append(s.pending[:0], s.pending[n:]...)
		return n, nil
	}

	offset := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	if allASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

// allASCII is the fast path; most delimited files are plain ASCII.
func allASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of usable bytes.
// When not at EOF, an incomplete trailing sequence moves to pending.
func (s *sanitizeReader) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTail(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if !atEOF && seqLen(data[read]) > len(data)-read {
			// The sequence runs past the end of this read; hold its bytes
			// until the next read completes it.
			s.pending = append(s.pending, data[read:]...)
			return write
		}
		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output the same length as the input, which
			// an in-place rewrite requires.
			data[write] = '?'
			write++
			read++
		} else {
			copy(data[write:], data[read:read+size])
			write += size
			read += size
		}
	}
	return write
}

// incompleteTail returns how many bytes at the end of data begin a
// multi-byte sequence that has not finished.
func incompleteTail(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < seqLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// seqLen returns the expected byte length of a UTF-8 sequence whose first
// byte is b, or 0 for a continuation byte.
func seqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// CountingReader tracks bytes read so imports can report progress while
// streaming. Total may be zero when the input size is unknown.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
	Total     int64
}

// NewCountingReader wraps r with byte counting against an optional total.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{r: r, Total: total}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// Percent returns the read progress as 0-100, or 0 when Total is unknown.
func (c *CountingReader) Percent() int {
	if c.Total <= 0 {
		return 0
	}
	return int(c.BytesRead * 100 / c.Total)
}

// WrapReader applies the full import stack: BOM skipping first, then UTF-8
// sanitizing, then byte counting over everything.
func WrapReader(r io.Reader, total int64) *CountingReader {
	return NewCountingReader(Sanitize(SkipBOM(r)), total)
}
