package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/uniquest/uniquest"
)

var (
	_ MessageBlock = (*NoticeBlock)(nil)
	_ MessageBlock = (*DocumentsBlock)(nil)
	_ MessageBlock = (*WelcomeBlock)(nil)
)

// NoticeBlock shows the outcome of a local command such as an upload.
type NoticeBlock struct {
	status uniquest.Status
	text   string
	styles Styles
}

// NewNoticeBlock creates a NoticeBlock.
func NewNoticeBlock(status uniquest.Status, text string, styles Styles) *NoticeBlock {
	return &NoticeBlock{status: status, text: text, styles: styles}
}

func (b *NoticeBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *NoticeBlock) View(width int) string {
	style := b.styles.Muted
	switch b.status {
	case uniquest.StatusSuccess:
		style = b.styles.Success
	case uniquest.StatusError:
		style = b.styles.Error
	}
	return lipgloss.NewStyle().Width(width).Render(style.Render(b.text))
}

// DocumentsBlock lists the user's uploaded documents.
type DocumentsBlock struct {
	docs   []uniquest.Document
	styles Styles
}

// NewDocumentsBlock creates a DocumentsBlock.
func NewDocumentsBlock(docs []uniquest.Document, styles Styles) *DocumentsBlock {
	return &DocumentsBlock{docs: docs, styles: styles}
}

func (b *DocumentsBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *DocumentsBlock) View(width int) string {
	var out strings.Builder
	out.WriteString(b.styles.Accent.Render("My Documents"))
	if len(b.docs) == 0 {
		out.WriteString("\n")
		out.WriteString(b.styles.Muted.Render("You have not uploaded any documents."))
		return out.String()
	}
	for _, d := range b.docs {
		title := d.Title
		if title == "" {
			title = d.DocID
		}
		meta := ""
		if d.Dept != "" {
			meta = " · " + d.Dept
		}
		room := max(width-runewidth.StringWidth("  • ")-runewidth.StringWidth(meta), 8)
		out.WriteString("\n  • ")
		out.WriteString(b.styles.Source.Render(runewidth.Truncate(title, room, "…")))
		out.WriteString(b.styles.Muted.Render(meta))
	}
	out.WriteString("\n")
	out.WriteString(b.styles.Muted.Render(fmt.Sprintf("%d document(s)", len(b.docs))))
	return out.String()
}

// WelcomeBlock is shown while the transcript is empty.
type WelcomeBlock struct {
	styles Styles
}

// NewWelcomeBlock creates a WelcomeBlock.
func NewWelcomeBlock(styles Styles) *WelcomeBlock {
	return &WelcomeBlock{styles: styles}
}

func (b *WelcomeBlock) Update(tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *WelcomeBlock) View(width int) string {
	body := "Ask me anything about admissions, scholarships, or campus life. " +
		"I'm here to provide instant answers from official documents."
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return center.Render(b.styles.Title.Render("Welcome to UniQuest")) + "\n\n" +
		center.Render(b.styles.Muted.Render(body))
}
