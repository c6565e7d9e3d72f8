package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/goldmark"
)

var _ tea.Model = Model{}

// Config wires the model to its collaborators. Controller is required;
// a nil Uploader or Library disables the matching slash command.
type Config struct {
	Controller *uniquest.Controller
	Uploader   *uniquest.Uploader
	Library    *uniquest.Library
	// ReadFile loads a file named by /upload.
	ReadFile func(path string) (uniquest.File, error)
	Theme    uniquest.Theme
}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the question input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the status line while a request is in flight.
	Spinner spinner.Model

	cfg    Config
	styles Styles
	md     *goldmark.Renderer

	blocks     []MessageBlock
	blockFocus int // index of focused answer with sources (-1 = none)

	running bool // chat turn in flight
	busy    bool // slash command in flight
	cancel  context.CancelFunc
	err     error
	ready   bool
}

// New creates a Model.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about our university..."
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Focus()

	styles := NewStyles(cfg.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent))

	m := Model{
		Input:      ti,
		Spinner:    sp,
		cfg:        cfg,
		styles:     styles,
		md:         goldmark.New(cfg.Theme),
		blockFocus: -1,
	}
	m.Input.SetValue(cfg.Controller.Draft())
	return m
}

// Running reports whether a chat turn is waiting for its answer.
func (m Model) Running() bool { return m.running }

// Busy reports whether a slash command is in progress.
func (m Model) Busy() bool { return m.busy }

// Err returns the last local error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case TurnSettledMsg:
		m.running = false
		m.cancel = nil
		m = m.appendBlock(m.assistantBlock(msg.Message))
		return m, m.Input.Focus()

	case UploadDoneMsg:
		m.busy = false
		m.cancel = nil
		m = m.appendBlock(NewNoticeBlock(msg.Status, msg.Message, m.styles))
		return m, m.Input.Focus()

	case DocumentsMsg:
		m.busy = false
		m.cancel = nil
		if msg.Err != nil {
			m = m.appendBlock(NewNoticeBlock(uniquest.StatusError, uniquest.ErrorText(msg.Err), m.styles))
			// Keep showing the last list that loaded.
			if m.cfg.Library != nil {
				if prev := m.cfg.Library.Documents(); len(prev) > 0 {
					m = m.appendBlock(NewDocumentsBlock(prev, m.styles))
				}
			}
		} else {
			m = m.appendBlock(NewDocumentsBlock(msg.Documents, m.styles))
		}
		return m, m.Input.Focus()
	}

	// Viewport always receives remaining messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.inFlight() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) inFlight() bool { return m.running || m.busy }

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderTranscript()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.inFlight() {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.inFlight() {
			return m, nil
		}
		text := m.Input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			return m.runCommand(strings.TrimSpace(text))
		}
		return m.submit(text)

	case tea.KeyTab:
		if m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		m = m.cycleFocusPrev()
		return m, nil
	}

	if m.inFlight() {
		return m, nil
	}

	// Forward non-character keys to the viewport as well so PgUp/PgDn
	// scroll while typing.
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	m.cfg.Controller.SetDraft(m.Input.Value())
	return m, tea.Batch(cmds...)
}

// submit starts a chat turn. The question is visible and the input cleared
// before the request goes out.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	turn, err := m.cfg.Controller.Begin(ctx, text)
	if err != nil {
		cancel()
		if errors.Is(err, uniquest.ErrUnauthenticated) {
			m.err = err
		}
		return m, nil
	}

	m.err = nil
	m.Input.SetValue("")
	m.Input.Blur()
	m.cancel = cancel
	m.running = true
	m = m.appendBlock(NewUserMessageBlock(text, m.styles))

	return m, tea.Batch(runTurn(ctx, cancel, turn), m.Spinner.Tick)
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	m.Input.SetValue("")
	m.cfg.Controller.SetDraft("")
	m.err = nil

	switch name {
	case "/upload":
		if m.cfg.Uploader == nil || m.cfg.ReadFile == nil {
			return m.appendBlock(NewNoticeBlock(uniquest.StatusError, "Uploads are not available.", m.styles)), nil
		}
		if arg == "" {
			return m.appendBlock(NewNoticeBlock(uniquest.StatusError, "Usage: /upload <file.pdf>", m.styles)), nil
		}
		if m.cfg.Uploader.Pending() {
			return m.appendBlock(NewNoticeBlock(uniquest.StatusError, uniquest.UploadBusyText, m.styles)), nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.busy = true
		m.Input.Blur()
		return m, tea.Batch(runUpload(ctx, cancel, m.cfg.Uploader, m.cfg.ReadFile, arg), m.Spinner.Tick)

	case "/docs":
		if m.cfg.Library == nil {
			return m.appendBlock(NewNoticeBlock(uniquest.StatusError, "Document listing is not available.", m.styles)), nil
		}
		if m.cfg.Library.Loading() {
			return m.appendBlock(NewNoticeBlock(uniquest.StatusError, documentsLoadingText, m.styles)), nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.busy = true
		m.Input.Blur()
		return m, tea.Batch(runRefresh(ctx, cancel, m.cfg.Library), m.Spinner.Tick)

	case "/help":
		return m.appendBlock(NewNoticeBlock(uniquest.StatusIdle, helpText, m.styles)), nil

	default:
		return m.appendBlock(NewNoticeBlock(uniquest.StatusError, fmt.Sprintf("Unknown command %s. Type /help for a list.", name), m.styles)), nil
	}
}

const documentsLoadingText = "Your documents are still loading."

const helpText = `/upload <file.pdf>  upload a document
/docs               list your documents
/help               show this help
Tab                 fold or unfold the sources of the focused answer
Shift+Tab           focus the previous answer with sources
Ctrl+C              cancel a request, or quit`

func (m Model) appendBlock(b MessageBlock) Model {
	m.blocks = append(m.blocks, b)
	m = m.updateBlockFocus()
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) assistantBlock(msg uniquest.AssistantMessage) MessageBlock {
	if msg.Failed {
		return NewErrorBlock(msg.Content, m.styles)
	}
	return NewAnswerBlock(msg, m.md, m.styles)
}

// renderTranscript creates blocks for messages already in the controller,
// e.g. a turn submitted with `uniquest chat -q`.
func (m Model) renderTranscript() Model {
	for _, msg := range m.cfg.Controller.Transcript() {
		switch msg := msg.(type) {
		case uniquest.UserMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case uniquest.AssistantMessage:
			m.blocks = append(m.blocks, m.assistantBlock(msg))
		}
	}
	return m.updateBlockFocus()
}

func (m Model) renderContent() string {
	width := m.Viewport.Width
	var parts []string
	if len(m.cfg.Controller.Transcript()) == 0 {
		parts = append(parts, NewWelcomeBlock(m.styles).View(width))
	}
	for i, block := range m.blocks {
		view := block.View(width)
		if i == m.blockFocus {
			view = m.styles.Accent.Render("▍") + view
		}
		parts = append(parts, view)
	}
	return strings.Join(parts, "\n\n")
}

// updateBlockFocus focuses the last answer that has sources.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if isCollapsible(m.blocks[i]) {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous answer with sources,
// wrapping around.
func (m Model) cycleFocusPrev() Model {
	if len(m.blocks) == 0 {
		return m
	}
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if isCollapsible(m.blocks[idx]) {
			m.blockFocus = idx
			if m.ready {
				m.Viewport.SetContent(m.renderContent())
			}
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func isCollapsible(b MessageBlock) bool {
	ab, ok := b.(*AnswerBlock)
	return ok && ab.Collapsible()
}

func (m Model) statusLine() string {
	switch {
	case m.running:
		return m.Spinner.View() + m.styles.Muted.Render(" Thinking... (Ctrl+C to cancel)")
	case m.busy:
		return m.Spinner.View() + m.styles.Muted.Render(" Working... (Ctrl+C to cancel)")
	case m.err != nil:
		if errors.Is(m.err, uniquest.ErrUnauthenticated) {
			return m.styles.Error.Render("You are not signed in. Configure a token and restart.")
		}
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return m.styles.Muted.Render("Enter to send, /help for commands, Ctrl+C to quit")
}

// runTurn settles turn off the update loop.
func runTurn(ctx context.Context, cancel context.CancelFunc, turn *uniquest.Turn) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		return TurnSettledMsg{Message: turn.Run(ctx)}
	}
}

func runUpload(ctx context.Context, cancel context.CancelFunc, u *uniquest.Uploader, read func(string) (uniquest.File, error), path string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		f, err := read(path)
		if err != nil {
			if errors.Is(err, uniquest.ErrFileTooLarge) {
				return UploadDoneMsg{Status: uniquest.StatusError, Message: uniquest.FileTooLargeText}
			}
			return UploadDoneMsg{Status: uniquest.StatusError, Message: fmt.Sprintf("Could not read %s.", path)}
		}
		if err := u.Select(f); err != nil || !u.CanSubmit() {
			return UploadDoneMsg{Status: uniquest.StatusError, Message: uniquest.UploadBusyText}
		}
		if _, err := u.Submit(ctx); errors.Is(err, uniquest.ErrBusy) {
			return UploadDoneMsg{Status: uniquest.StatusError, Message: uniquest.UploadBusyText}
		}
		status, msg := u.Status()
		return UploadDoneMsg{Status: status, Message: msg}
	}
}

func runRefresh(ctx context.Context, cancel context.CancelFunc, lib *uniquest.Library) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		docs, err := lib.Refresh(ctx)
		return DocumentsMsg{Documents: docs, Err: err}
	}
}
