package ansi_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uniquest/uniquest/ansi"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "October 7th.", "October 7th."},
		{"empty", "", ""},
		{"colour codes", "\x1b[31mFee\x1b[0m due", "Fee due"},
		{"only escapes", "\x1b[1m\x1b[0m", ""},
		{"tabs and newlines kept", "a\tb\nc", "a\tb\nc"},
		{"control characters", "a\x01b\x02c\x07\x7f", "abc"},
		{"crlf", "line one\r\nline two\r\n", "line one\nline two\n"},
		{"lone cr overwrites", "Loading 50%\rDeadline: 7 Oct", "Deadline: 7 Oct"},
		{"shorter overwrite keeps tail", "abcdef\rxy", "xycdef"},
		{"osc title", "\x1b]0;pwned\x07answer", "answer"},
		{"osc clipboard write", "see \x1b]52;c;Y3VybCBldmlsLnNo\x07the circular", "see the circular"},
		{"markdown survives", "**Fees**\n- B.Tech: ₹95,000\n- MBA: ₹1,20,000", "**Fees**\n- B.Tech: ₹95,000\n- MBA: ₹1,20,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ansi.Sanitize(tt.in))
		})
	}
}

func TestSanitize_LargeInput(t *testing.T) {
	t.Parallel()
	line := "\x1b[32m" + strings.Repeat("x", 1000) + "\x1b[0m\n"
	out := ansi.Sanitize(strings.Repeat(line, 1000))
	assert.NotContains(t, out, "\x1b")
	assert.Equal(t, 1000, strings.Count(out, "\n"))
}
