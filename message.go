package uniquest

import "time"

// Message is a sealed interface representing a transcript entry.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
}

// UserMessage is a question typed by the user.
type UserMessage struct {
	Content   string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// AssistantMessage answers exactly one UserMessage. Failed is set when the
// content is an error surfaced in place of an answer; such messages carry no
// sources or confidence.
type AssistantMessage struct {
	Content    string
	Sources    []SourceDocument
	Confidence *float64
	Failed     bool
	Timestamp  time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// SourceDocument is a citation returned alongside an answer. It references a
// chunk of an ingested document and is never modified by the client.
type SourceDocument struct {
	DocID   string
	ChunkID string
	Title   string
	Text    string
	Score   float64
}

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
