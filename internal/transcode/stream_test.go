package transcode

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSkipBOM(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "input with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b")...),
			want:  "a,b",
		},
		{
			name:  "input without BOM",
			input: []byte("a,b"),
			want:  "a,b",
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  "",
		},
		{
			name:  "only BOM",
			input: []byte{0xEF, 0xBB, 0xBF},
			want:  "",
		},
		{
			name:  "partial BOM kept",
			input: []byte{0xEF, 0xBB, 'a'},
			want:  string([]byte{0xEF, 0xBB, 'a'}),
		},
		{
			name:  "input shorter than BOM",
			input: []byte{'a', 'b'},
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(SkipBOM(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "valid ASCII",
			input: []byte("a,b,c"),
			want:  "a,b,c",
		},
		{
			name:  "valid multibyte",
			input: []byte("café,€100"),
			want:  "café,€100",
		},
		{
			name:  "invalid byte replaced",
			input: []byte{'a', 0x80, 'b'},
			want:  "a?b",
		},
		{
			name:  "truncated sequence at EOF replaced",
			input: []byte{'a', 0xE2, 0x82},
			want:  "a??",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(Sanitize(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// chunkReader returns its chunks one Read at a time, so tests can place a
// read boundary exactly where they want it.
type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n == len(c.chunks[0]) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = c.chunks[0][n:]
	}
	return n, nil
}

// A multibyte rune split across read boundaries must survive intact,
// whichever side of the boundary most of it lands on.
func TestSanitizeSplitRune(t *testing.T) {
	euro := []byte("€") // 0xE2 0x82 0xAC
	for split := 1; split < len(euro); split++ {
		r := &chunkReader{chunks: [][]byte{
			append([]byte("xy"), euro[:split]...),
			euro[split:],
		}}
		got, err := io.ReadAll(Sanitize(r))
		if err != nil {
			t.Fatalf("split %d: ReadAll() error = %v", split, err)
		}
		if string(got) != "xy€" {
			t.Errorf("split %d: got %q, want %q", split, got, "xy€")
		}
	}
}

// A destination buffer smaller than the held-back tail must still receive
// every byte, never silently drop the part that did not fit.
func TestSanitizeSmallDestinationKeepsHeldBytes(t *testing.T) {
	euro := []byte("€")
	r := &chunkReader{chunks: [][]byte{
		append([]byte("xy"), euro[:2]...), // two bytes of the rune end the first read
		euro[2:],
	}}
	s := Sanitize(r)

	big := make([]byte, 16)
	n, err := s.Read(big)
	if err != nil || string(big[:n]) != "xy" {
		t.Fatalf("first Read() = %q, %v; want %q, nil", big[:n], err, "xy")
	}

	// Drain the rest one byte at a time. The two held bytes come through
	// as-is; the final continuation byte arrives alone and is replaced.
	var rest []byte
	one := make([]byte, 1)
	for {
		n, err := s.Read(one)
		rest = append(rest, one[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
	want := []byte{euro[0], euro[1], '?'}
	if !bytes.Equal(rest, want) {
		t.Errorf("remaining bytes = %q, want %q", rest, want)
	}
}

func TestCountingReader(t *testing.T) {
	input := strings.Repeat("x", 1000)
	cr := NewCountingReader(strings.NewReader(input), 1000)

	buf := make([]byte, 250)
	if _, err := io.ReadFull(cr, buf); err != nil {
		t.Fatalf("ReadFull() error = %v", err)
	}
	if cr.Percent() != 25 {
		t.Errorf("Percent() after 250 bytes = %d, want 25", cr.Percent())
	}

	if _, err := io.Copy(io.Discard, cr); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if cr.BytesRead != 1000 {
		t.Errorf("BytesRead = %d, want 1000", cr.BytesRead)
	}
	if cr.Percent() != 100 {
		t.Errorf("Percent() at end = %d, want 100", cr.Percent())
	}
}

func TestCountingReaderUnknownTotal(t *testing.T) {
	cr := NewCountingReader(strings.NewReader("abc"), 0)
	if _, err := io.Copy(io.Discard, cr); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if cr.Percent() != 0 {
		t.Errorf("Percent() with unknown total = %d, want 0", cr.Percent())
	}
}

func TestWrapReaderStack(t *testing.T) {
	// BOM, then an invalid byte, then normal content.
	input := append([]byte{0xEF, 0xBB, 0xBF}, 'a', 0x80, 'b')
	cr := WrapReader(bytes.NewReader(input), int64(len(input)))

	got, err := io.ReadAll(cr)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "a?b" {
		t.Errorf("got %q, want %q", got, "a?b")
	}
	if cr.BytesRead == 0 {
		t.Error("BytesRead = 0, want > 0")
	}
}
