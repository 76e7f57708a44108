package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tt := []struct {
		desc    string
		input   string
		want    string
		wantErr bool
	}{
		{
			desc:  "plain ascii passes through",
			input: "Hello, world",
			want:  "Hello, world",
		},
		{
			desc:  "tab fill pads to next multiple of four",
			input: "Tab fill\x09tab",
			want:  "Tab fill    tab",
		},
		{
			desc:  "tab fill from an unaligned column",
			input: "ab\x09cd",
			want:  "ab  cd",
		},
		{
			desc:  "kill line clears everything emitted so far",
			input: "This will be entirely deleted\x15Not this",
			want:  "Not this",
		},
		{
			desc:  "kill line via 0x18 behaves the same as 0x15",
			input: "discarded\x18kept",
			want:  "kept",
		},
		{
			desc:  "DEL pops the last emitted byte",
			input: "abcd\x7Fe",
			want:  "abce",
		},
		{
			desc:  "raw CRLF passes through as CRLF",
			input: "line one\r\nline two",
			want:  "line one\r\nline two",
		},
		{
			desc:  "lone CR with no following LF is dropped",
			input: "a\rb",
			want:  "ab",
		},
		{
			desc:  "transparent percent-CRLF continuation is elided",
			input: "abc%\r\ndef",
			want:  "abcdef",
		},
		{
			desc:  "percent escape decodes a hex byte",
			input: "Gandalf%2F0001111111",
			want:  "Gandalf/0001111111",
		},
		{
			desc:  "percent escape can carry a literal percent sign",
			input: "100%25 done",
			want:  "100% done",
		},
		{
			desc:  "high bit is stripped before interpretation",
			input: "Strip top bits: \xC1\xD3\xC3\xC9\xC9",
			want:  "Strip top bits: ASCII",
		},
		{
			desc:    "unescaped slash is a syntax error",
			input:   "bad/input",
			wantErr: true,
		},
		{
			desc:    "truncated percent escape is an error",
			input:   "abc%2",
			wantErr: true,
		},
		{
			desc:    "invalid hex digits are an error",
			input:   "abc%ZZ",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Decode([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tt := []string{
		"",
		"plain text with spaces",
		"no control bytes or delimiters here",
	}

	for _, in := range tt {
		encoded := Encode([]byte(in))
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, in, decoded)
	}
}

func TestEncodeEscapesReservedBytes(t *testing.T) {
	got := string(Encode([]byte{'/', '%', 0x00, 0x7F}))
	assert.Equal(t, "%2F%25%00\x7F", got)
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte("Hello%2Fworld"))
	f.Add([]byte("tab\x09here"))
	f.Add([]byte("kill\x15line"))
	f.Add([]byte("abc%\r\ndef"))

	f.Fuzz(func(t *testing.T, in []byte) {
		// Decode must never panic, and must either return a value or an
		// error, never loop forever.
		_, _ = Decode(in)
	})
}
