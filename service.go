package uniquest

import (
	"context"
	"time"
)

// Question is one turn sent to the answer service.
type Question struct {
	Text      string
	UserID    string
	SessionID string
	Token     string
}

// Answer is the answer service's reply. Confidence is nil when the service
// did not report one.
type Answer struct {
	Text       string
	Sources    []SourceDocument
	Confidence *float64
}

// AnswerService generates an answer for a question.
type AnswerService interface {
	Ask(ctx context.Context, q Question) (*Answer, error)
}

// File is a document selected for upload.
type File struct {
	Name string
	Data []byte
}

// Upload carries a file plus the metadata the ingestion service indexes it
// under.
type Upload struct {
	File          File
	Title         string
	Dept          string
	Uploader      string
	EffectiveDate time.Time
	DocumentType  string
	Language      string
	Token         string
}

// IngestResult is the ingestion service's reply.
type IngestResult struct {
	DocID         string
	ChunksCreated int
}

// IngestService splits an uploaded document into retrievable chunks.
type IngestService interface {
	Ingest(ctx context.Context, u Upload) (*IngestResult, error)
}

// Document is an ingested document as listed by the backend.
type Document struct {
	DocID         string
	Title         string
	Uploader      string
	Dept          string
	DocumentType  string
	Language      string
	EffectiveDate string
}

// DocumentFilter scopes a document listing. An empty Uploader lists every
// document the token may see.
type DocumentFilter struct {
	Uploader string
	Token    string
}

// DocumentService lists ingested documents.
type DocumentService interface {
	ListDocuments(ctx context.Context, f DocumentFilter) ([]Document, error)
}

// Overview is the backend's activity summary.
type Overview struct {
	TotalDocuments int
	TotalUsers     int
	TotalSessions  int
	TotalTickets   int

	DocumentsByType       map[string]int
	DocumentsByDepartment map[string]int
	UsersByChannel        map[string]int
}

// AnalyticsService reports backend activity.
type AnalyticsService interface {
	Overview(ctx context.Context, token string) (*Overview, error)
}
