// Package service implements the business logic layer for the grana
// backend. Every operation works read-modify-write against the single
// financial document: load, transform, advance gamification, save once.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grana-app/backend/internal/gamification"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/datetime"
)

// DocumentStore defines the contract for document persistence.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}

// base carries the store and clock shared by all services.
type base struct {
	store DocumentStore
	clock func() time.Time
}

func newBase(store DocumentStore) base {
	return base{store: store}
}

func (b base) now() time.Time {
	if b.clock != nil {
		return b.clock()
	}
	return time.Now().UTC()
}

func (b base) load(ctx context.Context) (*model.Document, error) {
	doc, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return doc, nil
}

// mutate loads the document, applies fn and saves the result. A user
// mutation counts as one gamification interaction, folded into the same
// save. fn returning an error aborts without saving.
func (b base) mutate(ctx context.Context, fn func(doc *model.Document) error) (*model.Document, error) {
	doc, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := fn(doc); err != nil {
		return nil, err
	}

	if doc.Settings.GamificationEnabled {
		gamification.Advance(&doc.Gamification, b.now())
	}

	if err := b.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

// inMonth reports whether the date falls in the YYYY-MM month filter.
// An empty filter matches everything.
func inMonth(d datetime.Date, month string) bool {
	return month == "" || d.MonthKey() == month
}
