package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/goldmark"
)

const assistantLabel = "UniQuest"

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders an answer as markdown followed by its confidence and
// cited sources. The source list collapses to a one-line summary.
type AnswerBlock struct {
	msg       uniquest.AssistantMessage
	md        *goldmark.Renderer
	styles    Styles
	collapsed bool

	// Rendered markdown keyed by width; answers never change once settled.
	cache map[int]string
}

// NewAnswerBlock creates an AnswerBlock.
func NewAnswerBlock(msg uniquest.AssistantMessage, md *goldmark.Renderer, styles Styles) *AnswerBlock {
	return &AnswerBlock{msg: msg, md: md, styles: styles, cache: make(map[int]string)}
}

// Collapsible reports whether the block has sources to fold away.
func (b *AnswerBlock) Collapsible() bool { return len(b.msg.Sources) > 0 }

// Collapsed reports whether the source list is folded.
func (b *AnswerBlock) Collapsed() bool { return b.collapsed }

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok && b.Collapsible() {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	var out strings.Builder
	out.WriteString(b.styles.Assistant.Render(assistantLabel))
	out.WriteString("\n")
	out.WriteString(b.body(width))

	if c := b.msg.Confidence; c != nil {
		out.WriteString("\n")
		out.WriteString(b.styles.Muted.Render(fmt.Sprintf("Confidence: %.0f%%", *c*100)))
	}

	if len(b.msg.Sources) == 0 {
		return out.String()
	}
	out.WriteString("\n")
	if b.collapsed {
		out.WriteString(b.styles.Muted.Render(fmt.Sprintf("▸ %d sources", len(b.msg.Sources))))
		return out.String()
	}
	out.WriteString(b.styles.Muted.Render("SOURCES:"))
	for _, s := range b.msg.Sources {
		out.WriteString("\n")
		out.WriteString(b.sourceLine(s, width))
	}
	return out.String()
}

func (b *AnswerBlock) body(width int) string {
	if r, ok := b.cache[width]; ok {
		return r
	}
	r := b.md.Render(b.msg.Content, width)
	b.cache[width] = r
	return r
}

// sourceLine renders one citation on a single line, truncating the title
// so the score stays visible.
func (b *AnswerBlock) sourceLine(s uniquest.SourceDocument, width int) string {
	title := s.Title
	if title == "" {
		title = s.DocID
	}
	score := fmt.Sprintf(" %.2f", s.Score)
	const bullet = "  • "
	room := width - runewidth.StringWidth(bullet) - runewidth.StringWidth(score)
	if room < 8 {
		room = 8
	}
	title = runewidth.Truncate(title, room, "…")
	return bullet + b.styles.Source.Render(title) + b.styles.Muted.Render(score)
}
