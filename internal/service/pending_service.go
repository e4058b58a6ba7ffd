package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

// PendingService reviews imported transactions. An imported row sits in
// the pending queue without balance impact until the user resolves it;
// resolution is the single point where imports hit balances.
type PendingService struct {
	base
}

func NewPendingService(store DocumentStore) *PendingService {
	return &PendingService{base: newBase(store)}
}

type ResolveInput struct {
	Description   string           `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	CategoryID    string           `json:"categoryId"`
	AssetID       string           `json:"assetId"`
	TargetAssetID string           `json:"targetAssetId"`
	// IsInternal marks a movement between own accounts: the transaction
	// becomes a transfer under the internal category.
	IsInternal bool `json:"isInternal"`
}

// List returns transactions still waiting for categorization, oldest
// first.
func (s *PendingService) List(ctx context.Context) ([]model.Transaction, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0)
	for _, tx := range doc.Transactions {
		if tx.CategoryID == model.CategoryIDPending {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

// Resolve assigns a category (or marks the movement internal), flips the
// transaction to realized and applies its balance impact exactly once.
func (s *PendingService) Resolve(ctx context.Context, id string, input ResolveInput) (*model.Transaction, error) {
	if err := validateResolve(input); err != nil {
		return nil, err
	}

	var resolved model.Transaction
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		tx := doc.FindTransaction(id)
		if tx == nil {
			return apperror.NotFound("transaction")
		}
		if tx.CategoryID != model.CategoryIDPending {
			return apperror.Conflict("transaction is already resolved")
		}

		now := s.now()
		if input.Description != "" {
			tx.Description = input.Description
		}
		if input.Amount != nil {
			tx.Amount = *input.Amount
		}
		if input.AssetID != "" {
			tx.AssetID = input.AssetID
		}

		if input.IsInternal {
			if input.TargetAssetID == tx.AssetID {
				return apperror.ValidationError("targetAssetId", "internal movement needs two different assets")
			}
			tx.Type = model.TransactionTypeTransfer
			tx.CategoryID = model.CategoryIDInternal
			tx.TargetAssetID = input.TargetAssetID
			tx.IsInternal = true
		} else {
			tx.CategoryID = input.CategoryID
		}

		tx.Status = model.TransactionStatusRealized
		tx.UpdatedAt = now

		applyImpact(ctx, doc, *tx, now)
		learnMapping(doc, *tx)
		resolved = *tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func validateResolve(input ResolveInput) error {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return apperror.ValidationError("amount", "amount must be positive")
	}
	if input.IsInternal {
		if input.TargetAssetID == "" {
			return apperror.ValidationError("targetAssetId", "internal movement needs a target asset")
		}
		if input.TargetAssetID == input.AssetID && input.AssetID != "" {
			return apperror.ValidationError("targetAssetId", "internal movement needs two different assets")
		}
		return nil
	}
	if input.CategoryID == "" || input.CategoryID == model.CategoryIDPending {
		return apperror.ValidationError("categoryId", "category is required")
	}
	return nil
}
