package uniquest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"time"
)

// UploadDefaults are the metadata fields the client fills in on the user's
// behalf.
type UploadDefaults struct {
	Dept         string
	DocumentType string
	Language     string
}

// DefaultUploadDefaults returns the metadata used when nothing is configured.
func DefaultUploadDefaults() UploadDefaults {
	return UploadDefaults{
		Dept:         "General",
		DocumentType: "User Upload",
		Language:     "en",
	}
}

// Status messages reported by the Uploader.
const (
	NoSelectionText    = "Please select a file and ensure you are logged in."
	UploadFailedText   = "Failed to upload document."
	FileTooLargeText   = "The file is larger than the 50MB upload limit."
	UploadSucceededFmt = "Successfully uploaded %q. Chunks created: %d."
	UploadBusyText     = "An upload is already in progress."
)

var pdfSuffix = regexp.MustCompile(`(?i)\.pdf$`)

// TitleFromFilename derives a document title from a file name by dropping a
// trailing ".pdf" extension.
func TitleFromFilename(name string) string {
	return pdfSuffix.ReplaceAllString(name, "")
}

// Uploader drives the one-shot document ingestion flow. It keeps only the
// outcome of the latest upload; there is no history.
type Uploader struct {
	ingest   IngestService
	identity Identity
	defaults UploadDefaults
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	file    *File
	pending bool
	status  Status
	message string
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithUploadDefaults overrides the metadata defaults.
func WithUploadDefaults(d UploadDefaults) UploaderOption {
	return func(u *Uploader) { u.defaults = d }
}

// WithUploadTimeout sets the request timeout. Zero or negative disables it.
func WithUploadTimeout(d time.Duration) UploaderOption {
	return func(u *Uploader) { u.timeout = d }
}

// WithUploadLogger sets the logger.
func WithUploadLogger(l *slog.Logger) UploaderOption {
	return func(u *Uploader) { u.logger = l }
}

// WithClock sets the time source used for the effective date.
func WithClock(now func() time.Time) UploaderOption {
	return func(u *Uploader) { u.now = now }
}

// NewUploader creates an Uploader.
func NewUploader(ingest IngestService, identity Identity, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		ingest:   ingest,
		identity: identity,
		defaults: DefaultUploadDefaults(),
		timeout:  5 * time.Minute,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Select replaces the selected file and resets the status to idle. The
// selection cannot change while an upload is in flight.
func (u *Uploader) Select(f File) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending {
		return ErrBusy
	}
	u.file = &f
	u.status = StatusIdle
	u.message = ""
	return nil
}

// Selected returns the selected file, if any.
func (u *Uploader) Selected() (File, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.file == nil {
		return File{}, false
	}
	return *u.file, true
}

// CanSubmit reports whether Submit would send a request.
func (u *Uploader) CanSubmit() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.file != nil && !u.pending
}

// Pending reports whether an upload is in flight.
func (u *Uploader) Pending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending
}

// Status returns the upload status and its message.
func (u *Uploader) Status() (Status, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status, u.message
}

// Submit uploads the selected file. The returned error is nil on success;
// on failure the same outcome is also visible through Status.
//
// The pending flag is claimed before the identity lookup so that at most one
// submission is ever in flight.
func (u *Uploader) Submit(ctx context.Context) (*IngestResult, error) {
	u.mu.Lock()
	if u.pending {
		u.mu.Unlock()
		return nil, ErrBusy
	}
	file := u.file
	if file == nil {
		u.status = StatusError
		u.message = NoSelectionText
		u.mu.Unlock()
		return nil, ErrNoFile
	}
	u.pending = true
	u.status = StatusPending
	u.message = ""
	u.mu.Unlock()

	user, err := u.identity.CurrentUser(ctx)
	if err != nil || user == nil || user.ID == "" {
		u.finish(StatusError, NoSelectionText)
		return nil, ErrUnauthenticated
	}

	res, err := u.send(ctx, *file, user.ID)
	if err != nil {
		u.logger.Warn("upload failed", "file", file.Name, "err", err)
		msg := errorText(err, UploadFailedText)
		if errors.Is(err, ErrFileTooLarge) {
			msg = FileTooLargeText
		}
		u.finish(StatusError, msg)
		return nil, err
	}
	u.logger.Info("upload complete", "file", file.Name, "chunks", res.ChunksCreated)

	u.mu.Lock()
	if u.file == file {
		u.file = nil
	}
	u.mu.Unlock()
	u.finish(StatusSuccess, fmt.Sprintf(UploadSucceededFmt, file.Name, res.ChunksCreated))
	return res, nil
}

func (u *Uploader) send(ctx context.Context, f File, uploader string) (*IngestResult, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	token, err := u.identity.Token(ctx)
	if err != nil {
		return nil, err
	}
	up := Upload{
		File:          f,
		Title:         TitleFromFilename(f.Name),
		Dept:          u.defaults.Dept,
		Uploader:      uploader,
		EffectiveDate: u.now().UTC(),
		DocumentType:  u.defaults.DocumentType,
		Language:      u.defaults.Language,
		Token:         token,
	}
	if err := up.Validate(); err != nil {
		return nil, err
	}
	res, err := u.ingest.Ingest(ctx, up)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrMalformedResponse
	}
	return res, nil
}

func (u *Uploader) finish(s Status, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = false
	u.status = s
	u.message = msg
}
