package transcode

// scanner.go parses delimited text into records of raw fields, one record
// at a time, without ever holding the whole input.
//
// The grammar is the comma/double-quote convention the exporter emits:
// fields separated by ',', optionally enclosed in '"' when they contain
// the delimiter, quotes, or newlines, with interior quotes doubled. Both
// LF and CRLF terminate records, and the final record may omit its
// terminator. A blank line is a record holding a single empty unquoted
// field, which is how the exporter renders a width-one row whose only
// cell is empty.

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/ledgerport/ledgerport/internal/table"
)

const scannerBufferSize = 4096

// Scanner reads one record of fields per Scan call. Unquoted fields are
// trimmed of surrounding whitespace; quoted fields keep their content
// exactly, with the Quoted flag set so destinations can tell the text
// "42.5" from the number 42.5.
type Scanner struct {
	r    *bufio.Reader
	line int
	done bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:    bufio.NewReaderSize(r, scannerBufferSize),
		line: 1,
	}
}

// Line returns the 1-based line number the scanner will read next.
func (s *Scanner) Line() int {
	return s.line
}

// Scan returns the next record. It returns io.EOF when no records remain,
// a *ParseError for malformed text, and the underlying read error
// otherwise.
func (s *Scanner) Scan() ([]table.Field, error) {
	if s.done {
		return nil, io.EOF
	}
	return s.scanRecord()
}

// scanRecord reads one physical record.
func (s *Scanner) scanRecord() ([]table.Field, error) {
	var (
		fields      []table.Field
		buf         []byte
		inQuotes    bool // inside an open quoted section
		fieldQuoted bool // current field was quote-enclosed
		closed      bool // quoted field closed, awaiting delimiter
		col         int  // 1-based column on the current line
	)

	flush := func() {
		v := string(buf)
		if !fieldQuoted {
			v = strings.TrimSpace(v)
		}
		fields = append(fields, table.Field{Value: v, Quoted: fieldQuoted})
		buf = buf[:0]
		fieldQuoted = false
		closed = false
	}

	blank := func() bool {
		return len(fields) == 0 && len(buf) == 0 && !fieldQuoted
	}

	for {
		b, err := s.r.ReadByte()
		if err == io.EOF {
			s.done = true
			if inQuotes {
				return nil, &ParseError{Line: s.line, Column: col, Err: ErrUnterminatedQuote}
			}
			if blank() {
				return nil, io.EOF
			}
			// Input ended without a terminator; flush the last field.
			flush()
			return fields, nil
		}
		if err != nil {
			return nil, err
		}
		col++

		if inQuotes {
			switch b {
			case '"':
				next, err := s.r.ReadByte()
				if err == nil && next == '"' {
					// Doubled quote is a literal quote.
					buf = append(buf, '"')
					col++
					continue
				}
				if err == nil {
					if uerr := s.r.UnreadByte(); uerr != nil {
						return nil, uerr
					}
				} else if err != io.EOF {
					return nil, err
				}
				inQuotes = false
				closed = true
			case '\n':
				// Embedded newline is content, but still a source line.
				buf = append(buf, b)
				s.line++
				col = 0
			default:
				buf = append(buf, b)
			}
			continue
		}

		switch b {
		case ',':
			flush()
		case '\n':
			s.line++
			flush()
			return fields, nil
		case '\r':
			next, err := s.r.ReadByte()
			if err == nil && next != '\n' {
				if uerr := s.r.UnreadByte(); uerr != nil {
					return nil, uerr
				}
			} else if err != nil && err != io.EOF {
				return nil, err
			}
			s.line++
			flush()
			return fields, nil
		case '"':
			if closed || len(bytes.TrimSpace(buf)) > 0 {
				return nil, &ParseError{Line: s.line, Column: col, Err: ErrBareQuote}
			}
			// Whitespace before an opening quote falls to the trim rule.
			buf = buf[:0]
			inQuotes = true
			fieldQuoted = true
		default:
			if closed {
				if b == ' ' || b == '\t' {
					// Trailing whitespace after a closing quote.
					continue
				}
				return nil, &ParseError{Line: s.line, Column: col, Err: ErrBareQuote}
			}
			buf = append(buf, b)
		}
	}
}
