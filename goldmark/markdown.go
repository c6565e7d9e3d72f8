// Package goldmark renders answer markdown to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// GitHub-flavoured extensions are enabled because answers drafted from
// circulars and fee schedules routinely contain tables.
package goldmark

import "github.com/uniquest/uniquest"

// DefaultWidth is used when the caller does not know the terminal width.
const DefaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks and
// tables are rendered without reflow.
func Render(source string, width int, theme uniquest.Theme) string {
	return New(theme).Render(source, width)
}
