package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/ansi"
)

// Interface compliance checks.
var (
	_ uniquest.AnswerService    = (*Client)(nil)
	_ uniquest.IngestService    = (*Client)(nil)
	_ uniquest.DocumentService  = (*Client)(nil)
	_ uniquest.AnalyticsService = (*Client)(nil)
)

// Client talks to the UniQuest backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask sends a question to the query endpoint.
func (c *Client) Ask(ctx context.Context, q uniquest.Question) (*uniquest.Answer, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, contentType, err := buildForm(map[string]string{
		"text":       q.Text,
		"user_id":    q.UserID,
		"session_id": q.SessionID,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	var reply apiAnswer
	if err := c.do(ctx, http.MethodPost, queryPath, q.Token, contentType, body, &reply); err != nil {
		return nil, err
	}
	if reply.Answer == nil {
		return nil, fmt.Errorf("backend: answer missing: %w", uniquest.ErrMalformedResponse)
	}

	ans := &uniquest.Answer{
		Text:       ansi.Sanitize(*reply.Answer),
		Confidence: reply.Confidence,
	}
	if len(reply.SourceDocuments) > 0 {
		ans.Sources = make([]uniquest.SourceDocument, len(reply.SourceDocuments))
		for i, s := range reply.SourceDocuments {
			ans.Sources[i] = uniquest.SourceDocument{
				DocID:   s.DocID,
				ChunkID: s.ChunkID,
				Title:   ansi.Sanitize(s.Title),
				Text:    ansi.Sanitize(s.Text),
				Score:   s.Score,
			}
		}
	}
	return ans, nil
}

// Ingest uploads a document with its metadata.
func (c *Client) Ingest(ctx context.Context, up uniquest.Upload) (*uniquest.IngestResult, error) {
	if err := up.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, contentType, err := buildForm(map[string]string{
		"title":          up.Title,
		"dept":           up.Dept,
		"uploader":       up.Uploader,
		"effective_date": up.EffectiveDate.UTC().Format(effectiveDateLayout),
		"document_type":  up.DocumentType,
		"language":       up.Language,
	}, &up.File)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	var reply apiIngestResult
	if err := c.do(ctx, http.MethodPost, ingestPath, up.Token, contentType, body, &reply); err != nil {
		return nil, err
	}
	if reply.ChunksCreated == nil {
		return nil, fmt.Errorf("backend: chunks_created missing: %w", uniquest.ErrMalformedResponse)
	}
	return &uniquest.IngestResult{DocID: reply.DocID, ChunksCreated: *reply.ChunksCreated}, nil
}

// ListDocuments fetches the document registry, narrowed to one uploader
// when the filter names one.
func (c *Client) ListDocuments(ctx context.Context, f uniquest.DocumentFilter) ([]uniquest.Document, error) {
	path := documentsPath
	if f.Uploader != "" {
		path += "?" + url.Values{"uploader": {f.Uploader}}.Encode()
	}

	var reply apiDocumentList
	if err := c.do(ctx, http.MethodGet, path, f.Token, "", nil, &reply); err != nil {
		return nil, err
	}
	docs := make([]uniquest.Document, len(reply.Documents))
	for i, d := range reply.Documents {
		doc := uniquest.Document(d)
		doc.Title = ansi.Sanitize(doc.Title)
		doc.Dept = ansi.Sanitize(doc.Dept)
		doc.DocumentType = ansi.Sanitize(doc.DocumentType)
		docs[i] = doc
	}
	return docs, nil
}

// Overview fetches the analytics overview.
func (c *Client) Overview(ctx context.Context, token string) (*uniquest.Overview, error) {
	var reply apiAnalytics
	if err := c.do(ctx, http.MethodGet, analyticsPath, token, "", nil, &reply); err != nil {
		return nil, err
	}
	if reply.Overview == nil {
		return nil, fmt.Errorf("backend: overview missing: %w", uniquest.ErrMalformedResponse)
	}
	return &uniquest.Overview{
		TotalDocuments:        reply.Overview.TotalDocuments,
		TotalUsers:            reply.Overview.TotalUsers,
		TotalSessions:         reply.Overview.TotalSessions,
		TotalTickets:          reply.Overview.TotalTickets,
		DocumentsByType:       reply.DocumentAnalytics.ByType,
		DocumentsByDepartment: reply.DocumentAnalytics.ByDepartment,
		UsersByChannel:        reply.UserAnalytics.ByChannel,
	}, nil
}

// do performs one request and decodes a successful JSON reply into out.
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: %w: %v", uniquest.ErrMalformedResponse, err)
	}
	return nil
}

// buildForm encodes fields, and optionally a file under the "file" field,
// as multipart/form-data.
func buildForm(fields map[string]string, file *uniquest.File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: %w", &uniquest.ServiceError{StatusCode: resp.StatusCode})
	}
	return fmt.Errorf("backend: %w", &uniquest.ServiceError{
		StatusCode: resp.StatusCode,
		Detail:     ansi.Sanitize(parseDetail(body)),
	})
}

// parseDetail extracts a human-readable message from an error body. It
// returns "" when the body carries none.
func parseDetail(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || len(apiErr.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(apiErr.Detail, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(apiErr.Detail, &obj); err == nil {
		return obj.Message
	}

	// Request validation failures: [{"loc": [...], "msg": "...", ...}].
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(apiErr.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// IsServiceError reports whether err carries a backend reply with the given
// status code.
func IsServiceError(err error, status int) bool {
	var se *uniquest.ServiceError
	return errors.As(err, &se) && se.StatusCode == status
}
