package uniquest

import (
	"context"
	"sync"
)

// Library lists the documents the current user uploaded.
type Library struct {
	docs     DocumentService
	identity Identity

	mu      sync.Mutex
	items   []Document
	loading bool
}

// NewLibrary creates a Library.
func NewLibrary(docs DocumentService, identity Identity) *Library {
	return &Library{docs: docs, identity: identity}
}

// Refresh reloads the user's documents. Without a signed-in user the list is
// emptied and no request is made.
//
// The listing is requested with an uploader filter, and the reply is
// filtered again locally so records belonging to other users never show up
// even if the backend ignores the filter.
func (l *Library) Refresh(ctx context.Context) ([]Document, error) {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	docs, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		return nil, err
	}
	l.items = docs
	return docs, nil
}

func (l *Library) fetch(ctx context.Context) ([]Document, error) {
	user, err := l.identity.CurrentUser(ctx)
	if err != nil || user == nil || user.ID == "" {
		return nil, nil
	}
	token, err := l.identity.Token(ctx)
	if err != nil {
		return nil, err
	}
	all, err := l.docs.ListDocuments(ctx, DocumentFilter{Uploader: user.ID, Token: token})
	if err != nil {
		return nil, err
	}
	return FilterByUploader(all, user.ID), nil
}

// Documents returns the documents from the last successful Refresh. A failed
// Refresh leaves them untouched.
func (l *Library) Documents() []Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Document, len(l.items))
	copy(out, l.items)
	return out
}

// Loading reports whether a Refresh is in progress.
func (l *Library) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// FilterByUploader returns the documents whose uploader is userID, in their
// original order.
func FilterByUploader(docs []Document, userID string) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.Uploader == userID {
			out = append(out, d)
		}
	}
	return out
}
