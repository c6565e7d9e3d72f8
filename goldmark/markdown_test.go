package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/goldmark"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force colour output so styled spans produce escape codes.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := uniquest.DefaultTheme()

	t.Run("blank input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
		assert.Equal(t, "", goldmark.Render(" \n ", 80, theme))
	})

	t.Run("plain answer", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "October 7th.", strings.TrimRight(stripANSI(goldmark.Render("October 7th.", 80, theme)), " "))
	})

	t.Run("heading is styled", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("# Fees", 80, theme)
		paragraph := goldmark.Render("Fees", 80, theme)
		assert.Equal(t, "Fees", strings.TrimSpace(stripANSI(heading)))
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("emphasis and code keep their text", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("pay **before** the *7th* via `ERP` or ~~cash~~", 80, theme))
		assert.Contains(t, out, "pay before the 7th via ERP or cash")
	})

	t.Run("paragraphs are separated by a blank line", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("first\n\nsecond", 80, theme))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "first", strings.TrimSpace(lines[0]))
		assert.Empty(t, strings.TrimSpace(lines[1]))
		assert.Equal(t, "second", strings.TrimSpace(lines[2]))
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		out := stripANSI(goldmark.Render(long, 30, theme))
		lines := strings.Split(out, "\n")
		assert.Greater(t, len(lines), 1)
		for _, l := range lines {
			assert.LessOrEqual(t, lipgloss.Width(l), 30)
		}
	})

	t.Run("bullet and ordered lists", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("- one\n- two\n\n3. three\n4. four", 80, theme))
		assert.Contains(t, out, "• one")
		assert.Contains(t, out, "• two")
		assert.Contains(t, out, "3. three")
		assert.Contains(t, out, "4. four")
	})

	t.Run("nested list is indented", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("- outer\n  - inner", 80, theme))
		assert.Contains(t, out, "• outer")
		assert.Contains(t, out, "  • inner")
	})

	t.Run("list continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		lines := strings.Split(stripANSI(goldmark.Render(src, 30, theme)), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, l := range lines[1:] {
			if strings.TrimSpace(l) != "" {
				assert.True(t, strings.HasPrefix(l, "  "), "continuation line should be indented: %q", l)
			}
		}
	})

	t.Run("task list", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("- [x] fee paid\n- [ ] form signed", 80, theme))
		assert.Contains(t, out, "[x] fee paid")
		assert.Contains(t, out, "[ ] form signed")
	})

	t.Run("fenced code keeps lines and language", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("```sql\nSELECT * FROM fees WHERE due < now()\n```", 20, theme))
		assert.Contains(t, out, "sql")
		assert.Contains(t, out, "│ SELECT * FROM fees WHERE due < now()")
	})

	t.Run("indented code block", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("paragraph\n\n    indented code", 80, theme))
		assert.Contains(t, out, "│ indented code")
	})

	t.Run("blockquote", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("> quoted rule", 80, theme))
		assert.Equal(t, "▎ quoted rule", strings.TrimRight(out, " "))
	})

	t.Run("table columns are aligned", func(t *testing.T) {
		t.Parallel()
		src := "| Programme | Fee |\n|---|--:|\n| B.Tech | 95000 |\n| MBA | 120000 |"
		out := stripANSI(goldmark.Render(src, 80, theme))
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Programme │    Fee", lines[0])
		assert.Equal(t, "──────────┼───────", lines[1])
		assert.Equal(t, "B.Tech    │  95000", lines[2])
		assert.Equal(t, "MBA       │ 120000", lines[3])
	})

	t.Run("link shows destination", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("[portal](https://erp.example.edu)", 80, theme))
		assert.Contains(t, out, "portal (https://erp.example.edu)")
	})

	t.Run("autolink is not duplicated", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("see https://erp.example.edu", 80, theme))
		assert.Equal(t, 1, strings.Count(out, "erp.example.edu"))
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render("above\n\n---\n\nbelow", 80, theme))
		assert.Contains(t, out, "above")
		assert.Contains(t, out, "───")
		assert.Contains(t, out, "below")
	})

	t.Run("width zero uses the default", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.Render(strings.Repeat("a ", 60), 0, theme))
		for _, l := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(l), goldmark.DefaultWidth)
		}
	})
}

func TestRenderer_Reusable(t *testing.T) {
	t.Parallel()
	r := goldmark.New(uniquest.DefaultTheme())
	a := r.Render("**one**", 40)
	b := r.Render("**one**", 40)
	assert.Equal(t, a, b)
}
