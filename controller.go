package uniquest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultTurnTimeout bounds a single request to the answer service.
const DefaultTurnTimeout = 60 * time.Second

// Controller owns the transcript of one chat session and drives one
// question/answer exchange at a time.
//
// Every accepted question gets exactly one AssistantMessage appended after
// it, either the service's answer or an error description. Submissions made
// while a turn is outstanding are rejected with ErrBusy.
type Controller struct {
	answers  AnswerService
	identity Identity
	timeout  time.Duration
	logger   *slog.Logger

	sessionOnce sync.Once
	session     Session

	mu         sync.Mutex
	transcript []Message
	pending    bool
	draft      string
	status     Status
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout sets the per-turn request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a Controller that asks answers and authenticates
// through identity.
func NewController(answers AnswerService, identity Identity, opts ...Option) *Controller {
	c := &Controller{
		answers:  answers,
		identity: identity,
		timeout:  DefaultTurnTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SessionID returns the session identifier, generating it on first use.
func (c *Controller) SessionID() string {
	c.sessionOnce.Do(func() {
		c.session = NewSession()
	})
	return c.session.ID
}

// Transcript returns a copy of the messages exchanged so far.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Pending reports whether a turn is waiting for its answer.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Status returns the state of the most recent turn.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Draft returns the unsent input.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the unsent input.
func (c *Controller) SetDraft(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = s
}

// Begin starts a turn. It appends the user's message, clears the draft and
// marks the controller pending before any network I/O happens. The returned
// Turn must be Run to settle it.
//
// Begin is a no-op returning ErrValidation for blank text, ErrUnauthenticated
// when no user is signed in and ErrBusy while another turn is pending.
func (c *Controller) Begin(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrValidation
	}
	// Resolve the user before taking the lock; identity lookups may block.
	user, err := c.identity.CurrentUser(ctx)
	if err != nil || user == nil || user.ID == "" {
		c.logger.Debug("turn refused: no identity", "err", err)
		return nil, ErrUnauthenticated
	}
	sessionID := c.SessionID()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return nil, ErrBusy
	}
	c.transcript = append(c.transcript, UserMessage{Content: text, Timestamp: time.Now()})
	c.draft = ""
	c.pending = true
	c.status = StatusPending
	c.logger.Debug("turn started", "session", sessionID, "user", user.ID)

	return &Turn{
		c:         c,
		text:      text,
		userID:    user.ID,
		sessionID: sessionID,
	}, nil
}

// Submit begins a turn and runs it to completion.
func (c *Controller) Submit(ctx context.Context, text string) (AssistantMessage, error) {
	t, err := c.Begin(ctx, text)
	if err != nil {
		return AssistantMessage{}, err
	}
	return t.Run(ctx), nil
}

// settle appends the assistant message and clears pending.
func (c *Controller) settle(msg AssistantMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, msg)
	c.pending = false
	if msg.Failed {
		c.status = StatusError
	} else {
		c.status = StatusSuccess
	}
}

// Turn is an accepted question waiting for its answer.
type Turn struct {
	c         *Controller
	text      string
	userID    string
	sessionID string

	once   sync.Once
	result AssistantMessage
}

// Text returns the question as submitted.
func (t *Turn) Text() string { return t.text }

// Run sends the question and settles the turn. Failures are converted into
// an assistant message rather than returned. Calling Run again returns the
// settled message without sending anything.
func (t *Turn) Run(ctx context.Context) AssistantMessage {
	t.once.Do(func() {
		t.result = t.exchange(ctx)
		t.c.settle(t.result)
	})
	return t.result
}

func (t *Turn) exchange(ctx context.Context) AssistantMessage {
	c := t.c
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	ans, err := t.ask(ctx)
	if err != nil {
		c.logger.Warn("turn failed", "session", t.sessionID, "elapsed", time.Since(start), "err", err)
		return AssistantMessage{
			Content:   ErrorText(err),
			Failed:    true,
			Timestamp: time.Now(),
		}
	}
	c.logger.Debug("turn answered", "session", t.sessionID, "elapsed", time.Since(start), "sources", len(ans.Sources))
	return AssistantMessage{
		Content:    ans.Text,
		Sources:    ans.Sources,
		Confidence: ans.Confidence,
		Timestamp:  time.Now(),
	}
}

func (t *Turn) ask(ctx context.Context) (*Answer, error) {
	token, err := t.c.identity.Token(ctx)
	if err != nil {
		return nil, err
	}
	ans, err := t.c.answers.Ask(ctx, Question{
		Text:      t.text,
		UserID:    t.userID,
		SessionID: t.sessionID,
		Token:     token,
	})
	if err != nil {
		return nil, err
	}
	if ans == nil {
		return nil, ErrMalformedResponse
	}
	return ans, nil
}

// IsRefusal reports whether err came from Begin refusing to start a turn.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrBusy)
}
