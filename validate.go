package uniquest

import (
	"fmt"
	"strings"
)

// MaxUploadSize is the largest file the ingestion service accepts.
const MaxUploadSize = 50 << 20

// Validate checks universal constraints on a Question.
// Service implementations may apply additional validation.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty: %w", ErrValidation)
	}
	if q.UserID == "" {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if q.SessionID == "" {
		return fmt.Errorf("session id is required: %w", ErrValidation)
	}
	return nil
}

// Validate checks universal constraints on an Upload.
func (u Upload) Validate() error {
	if u.File.Name == "" {
		return ErrNoFile
	}
	if len(u.File.Data) > MaxUploadSize {
		return fmt.Errorf("%s is %d bytes, limit is %d: %w", u.File.Name, len(u.File.Data), MaxUploadSize, ErrFileTooLarge)
	}
	if u.Uploader == "" {
		return fmt.Errorf("uploader is required: %w", ErrValidation)
	}
	if u.Title == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	return nil
}
