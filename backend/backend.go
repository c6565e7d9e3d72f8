// Package backend implements the uniquest service interfaces against the
// UniQuest HTTP API.
//
// Requests that carry user input are sent as multipart forms, listings and
// analytics are plain GETs. Every request is authorized with the bearer token
// supplied by the caller; the client never caches credentials.
package backend

import "encoding/json"

const (
	queryPath     = "/api/v1/query/"
	ingestPath    = "/api/v1/ingest/"
	documentsPath = "/api/v1/admin/documents"
	analyticsPath = "/api/v1/admin/analytics/overview"

	// effectiveDateLayout is ISO-8601 in UTC with millisecond precision.
	effectiveDateLayout = "2006-01-02T15:04:05.000Z"
)

// apiAnswer is the body returned by the query endpoint. Answer is a pointer
// so a reply without it can be told apart from an empty answer.
type apiAnswer struct {
	Answer          *string             `json:"answer"`
	SourceDocuments []apiSourceDocument `json:"source_documents"`
	Confidence      *float64            `json:"confidence"`
}

type apiSourceDocument struct {
	DocID   string  `json:"doc_id"`
	ChunkID string  `json:"chunk_id"`
	Title   string  `json:"title"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

type apiIngestResult struct {
	ChunksCreated *int   `json:"chunks_created"`
	DocID         string `json:"doc_id"`
}

type apiDocumentList struct {
	Documents []apiDocument `json:"documents"`
}

type apiDocument struct {
	DocID         string `json:"doc_id"`
	Title         string `json:"title"`
	Uploader      string `json:"uploader"`
	Dept          string `json:"dept"`
	DocumentType  string `json:"document_type"`
	Language      string `json:"language"`
	EffectiveDate string `json:"effective_date"`
}

type apiAnalytics struct {
	Overview *struct {
		TotalDocuments int `json:"total_documents"`
		TotalUsers     int `json:"total_users"`
		TotalSessions  int `json:"total_sessions"`
		TotalTickets   int `json:"total_tickets"`
	} `json:"overview"`
	DocumentAnalytics struct {
		ByType       map[string]int `json:"by_type"`
		ByDepartment map[string]int `json:"by_department"`
	} `json:"document_analytics"`
	UserAnalytics struct {
		ByChannel map[string]int `json:"by_channel"`
	} `json:"user_analytics"`
}

// apiErrorResponse covers the error shapes the API produces: a plain string
// detail, an object with a message, or a list of validation errors.
type apiErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
