// Package store persists the financial document as a single versioned
// record. Writes are whole-document with an optimistic version check, so
// concurrent mutations fail fast instead of silently losing data.
package store

import (
	"context"

	"github.com/grana-app/backend/internal/model"
)

// Store loads and saves the single user document.
type Store interface {
	// Load returns the current document, or apperror.ErrNotFound when the
	// store is empty.
	Load(ctx context.Context) (*model.Document, error)

	// Save writes the document whole. The document's Version must match
	// the stored one or apperror.ErrVersionConflict is returned; on
	// success the document's Version is advanced.
	Save(ctx context.Context, doc *model.Document) error
}
