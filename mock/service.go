// Package mock provides test doubles for uniquest interfaces using function fields.
package mock

import (
	"context"

	"github.com/uniquest/uniquest"
)

// Interface compliance checks.
var (
	_ uniquest.AnswerService    = (*AnswerService)(nil)
	_ uniquest.IngestService    = (*IngestService)(nil)
	_ uniquest.DocumentService  = (*DocumentService)(nil)
	_ uniquest.AnalyticsService = (*AnalyticsService)(nil)
)

// AnswerService is a test double for uniquest.AnswerService.
// Set AskFn before calling Ask.
type AnswerService struct {
	AskFn func(ctx context.Context, q uniquest.Question) (*uniquest.Answer, error)
}

// Ask delegates to AskFn.
func (s *AnswerService) Ask(ctx context.Context, q uniquest.Question) (*uniquest.Answer, error) {
	return s.AskFn(ctx, q)
}

// IngestService is a test double for uniquest.IngestService.
// Set IngestFn before calling Ingest.
type IngestService struct {
	IngestFn func(ctx context.Context, u uniquest.Upload) (*uniquest.IngestResult, error)
}

// Ingest delegates to IngestFn.
func (s *IngestService) Ingest(ctx context.Context, u uniquest.Upload) (*uniquest.IngestResult, error) {
	return s.IngestFn(ctx, u)
}

// DocumentService is a test double for uniquest.DocumentService.
// Set ListDocumentsFn before calling ListDocuments.
type DocumentService struct {
	ListDocumentsFn func(ctx context.Context, f uniquest.DocumentFilter) ([]uniquest.Document, error)
}

// ListDocuments delegates to ListDocumentsFn.
func (s *DocumentService) ListDocuments(ctx context.Context, f uniquest.DocumentFilter) ([]uniquest.Document, error) {
	return s.ListDocumentsFn(ctx, f)
}

// AnalyticsService is a test double for uniquest.AnalyticsService.
// Set OverviewFn before calling Overview.
type AnalyticsService struct {
	OverviewFn func(ctx context.Context, token string) (*uniquest.Overview, error)
}

// Overview delegates to OverviewFn.
func (s *AnalyticsService) Overview(ctx context.Context, token string) (*uniquest.Overview, error) {
	return s.OverviewFn(ctx, token)
}
