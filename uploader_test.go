package uniquest_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/mock"
)

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"handbook.pdf":    "handbook",
		"Fees.PDF":        "Fees",
		"notes.Pdf":       "notes",
		"archive.pdf.zip": "archive.pdf.zip",
		"plain":           "plain",
		"report.pdf.pdf":  "report.pdf",
		"pdf":             "pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, uniquest.TitleFromFilename(in), in)
	}
}

func TestUploader_Submit(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 8, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	t.Run("success fills metadata and clears the selection", func(t *testing.T) {
		t.Parallel()
		var got uniquest.Upload
		ingest := &mock.IngestService{
			IngestFn: func(_ context.Context, up uniquest.Upload) (*uniquest.IngestResult, error) {
				got = up
				return &uniquest.IngestResult{ChunksCreated: 12, DocID: "doc_9"}, nil
			},
		}
		u := uniquest.NewUploader(ingest, mock.SignedIn("user_1", "tok"), uniquest.WithClock(func() time.Time { return fixed }))
		require.NoError(t, u.Select(uniquest.File{Name: "Handbook.PDF", Data: []byte("%PDF-1.4")}))
		assert.True(t, u.CanSubmit())

		res, err := u.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, res.ChunksCreated)

		assert.Equal(t, "Handbook", got.Title)
		assert.Equal(t, "General", got.Dept)
		assert.Equal(t, "user_1", got.Uploader)
		assert.Equal(t, "User Upload", got.DocumentType)
		assert.Equal(t, "en", got.Language)
		assert.Equal(t, "tok", got.Token)
		assert.Equal(t, time.UTC, got.EffectiveDate.Location())
		assert.True(t, fixed.Equal(got.EffectiveDate))

		status, msg := u.Status()
		assert.Equal(t, uniquest.StatusSuccess, status)
		assert.Equal(t, `Successfully uploaded "Handbook.PDF". Chunks created: 12.`, msg)
		_, selected := u.Selected()
		assert.False(t, selected)
		assert.False(t, u.Pending())
	})

	t.Run("configured defaults override metadata", func(t *testing.T) {
		t.Parallel()
		var got uniquest.Upload
		ingest := &mock.IngestService{
			IngestFn: func(_ context.Context, up uniquest.Upload) (*uniquest.IngestResult, error) {
				got = up
				return &uniquest.IngestResult{}, nil
			},
		}
		u := uniquest.NewUploader(ingest, mock.SignedIn("user_1", "tok"), uniquest.WithUploadDefaults(uniquest.UploadDefaults{
			Dept: "Finance", DocumentType: "Circular", Language: "hi",
		}))
		require.NoError(t, u.Select(uniquest.File{Name: "fees.pdf", Data: []byte("x")}))
		_, err := u.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Finance", got.Dept)
		assert.Equal(t, "Circular", got.DocumentType)
		assert.Equal(t, "hi", got.Language)
	})

	t.Run("no file", func(t *testing.T) {
		t.Parallel()
		u := uniquest.NewUploader(&mock.IngestService{}, mock.SignedIn("user_1", "tok"))
		_, err := u.Submit(context.Background())
		assert.ErrorIs(t, err, uniquest.ErrNoFile)
		status, msg := u.Status()
		assert.Equal(t, uniquest.StatusError, status)
		assert.Equal(t, uniquest.NoSelectionText, msg)
	})

	t.Run("no user", func(t *testing.T) {
		t.Parallel()
		u := uniquest.NewUploader(&mock.IngestService{}, mock.SignedOut())
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf", Data: []byte("x")}))
		_, err := u.Submit(context.Background())
		assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)
		_, msg := u.Status()
		assert.Equal(t, uniquest.NoSelectionText, msg)
		_, selected := u.Selected()
		assert.True(t, selected)
	})

	t.Run("service detail is shown", func(t *testing.T) {
		t.Parallel()
		ingest := &mock.IngestService{
			IngestFn: func(context.Context, uniquest.Upload) (*uniquest.IngestResult, error) {
				return nil, &uniquest.ServiceError{StatusCode: 422, Detail: "Only PDF files are supported"}
			},
		}
		u := uniquest.NewUploader(ingest, mock.SignedIn("user_1", "tok"))
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf", Data: []byte("x")}))
		_, err := u.Submit(context.Background())
		require.Error(t, err)
		status, msg := u.Status()
		assert.Equal(t, uniquest.StatusError, status)
		assert.Equal(t, "Only PDF files are supported", msg)
		assert.False(t, u.Pending())
		_, selected := u.Selected()
		assert.True(t, selected)
	})

	t.Run("failure without detail", func(t *testing.T) {
		t.Parallel()
		ingest := &mock.IngestService{
			IngestFn: func(context.Context, uniquest.Upload) (*uniquest.IngestResult, error) {
				return nil, uniquest.ErrMalformedResponse
			},
		}
		u := uniquest.NewUploader(ingest, mock.SignedIn("user_1", "tok"))
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf", Data: []byte("x")}))
		_, err := u.Submit(context.Background())
		require.Error(t, err)
		_, msg := u.Status()
		assert.Equal(t, uniquest.UploadFailedText, msg)
	})

	t.Run("oversized file never reaches the service", func(t *testing.T) {
		t.Parallel()
		u := uniquest.NewUploader(&mock.IngestService{}, mock.SignedIn("user_1", "tok"))
		require.NoError(t, u.Select(uniquest.File{Name: "big.pdf", Data: make([]byte, uniquest.MaxUploadSize+1)}))
		_, err := u.Submit(context.Background())
		assert.ErrorIs(t, err, uniquest.ErrFileTooLarge)
		_, msg := u.Status()
		assert.Equal(t, uniquest.FileTooLargeText, msg)
	})

	t.Run("select resets the status", func(t *testing.T) {
		t.Parallel()
		u := uniquest.NewUploader(&mock.IngestService{}, mock.SignedIn("user_1", "tok"))
		_, _ = u.Submit(context.Background())
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf"}))
		status, msg := u.Status()
		assert.Equal(t, uniquest.StatusIdle, status)
		assert.Empty(t, msg)
	})

	t.Run("busy while pending", func(t *testing.T) {
		t.Parallel()
		entered := make(chan struct{})
		release := make(chan struct{})
		ingest := &mock.IngestService{
			IngestFn: func(context.Context, uniquest.Upload) (*uniquest.IngestResult, error) {
				close(entered)
				<-release
				return &uniquest.IngestResult{ChunksCreated: 1}, nil
			},
		}
		u := uniquest.NewUploader(ingest, mock.SignedIn("user_1", "tok"))
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf", Data: []byte("x")}))

		done := make(chan error, 1)
		go func() {
			_, err := u.Submit(context.Background())
			done <- err
		}()
		<-entered
		assert.True(t, u.Pending())
		assert.False(t, u.CanSubmit())
		_, err := u.Submit(context.Background())
		assert.ErrorIs(t, err, uniquest.ErrBusy)
		assert.ErrorIs(t, u.Select(uniquest.File{Name: "b.pdf", Data: []byte("y")}), uniquest.ErrBusy)

		close(release)
		require.NoError(t, <-done)
		assert.False(t, u.Pending())
		_, selected := u.Selected()
		assert.False(t, selected)
	})

	t.Run("identity lookup holds the pending slot", func(t *testing.T) {
		t.Parallel()
		lookup := make(chan struct{})
		release := make(chan struct{})
		var lookups atomic.Int32
		identity := &mock.Identity{
			CurrentUserFn: func(context.Context) (*uniquest.User, error) {
				if lookups.Add(1) == 1 {
					close(lookup)
					<-release
					return nil, errors.New("session expired")
				}
				return &uniquest.User{ID: "user_1"}, nil
			},
		}
		var active, peak, ingested atomic.Int32
		ingest := &mock.IngestService{
			IngestFn: func(context.Context, uniquest.Upload) (*uniquest.IngestResult, error) {
				n := active.Add(1)
				defer active.Add(-1)
				if n > peak.Load() {
					peak.Store(n)
				}
				ingested.Add(1)
				return &uniquest.IngestResult{ChunksCreated: 1}, nil
			},
		}
		u := uniquest.NewUploader(ingest, identity)
		require.NoError(t, u.Select(uniquest.File{Name: "a.pdf", Data: []byte("x")}))

		done := make(chan error, 1)
		go func() {
			_, err := u.Submit(context.Background())
			done <- err
		}()
		<-lookup
		assert.True(t, u.Pending())
		_, err := u.Submit(context.Background())
		assert.ErrorIs(t, err, uniquest.ErrBusy)

		close(release)
		assert.ErrorIs(t, <-done, uniquest.ErrUnauthenticated)
		assert.False(t, u.Pending())
		assert.Zero(t, ingested.Load())

		_, err = u.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), ingested.Load())
		assert.Equal(t, int32(1), peak.Load())
	})
}
