package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/ledger"
	"github.com/grana-app/backend/internal/logger"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/datetime"
)

// TransactionService handles manual transaction entries. Balance impact
// is applied on create, reverted and reapplied on edit and reverted on
// delete, always through the ledger package.
type TransactionService struct {
	base
}

func NewTransactionService(store DocumentStore) *TransactionService {
	return &TransactionService{base: newBase(store)}
}

type TransactionInput struct {
	Description   string                `json:"description"`
	Amount        decimal.Decimal       `json:"amount"`
	Date          datetime.Date         `json:"date"`
	Type          model.TransactionType `json:"type"`
	CategoryID    string                `json:"categoryId"`
	AssetID       string                `json:"assetId"`
	TargetAssetID string                `json:"targetAssetId"`
	Notes         string                `json:"notes"`
}

// List returns transactions, optionally filtered to a YYYY-MM month,
// newest first.
func (s *TransactionService) List(ctx context.Context, month string) ([]model.Transaction, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(doc.Transactions))
	for _, tx := range doc.Transactions {
		if inMonth(tx.Date, month) {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Create records a realized transaction and applies its balance impact.
func (s *TransactionService) Create(ctx context.Context, input TransactionInput) (*model.Transaction, error) {
	if err := validateTransaction(input); err != nil {
		return nil, err
	}

	var created model.Transaction
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		now := s.now()
		created = model.Transaction{
			ID:            model.NewID(),
			Date:          input.Date,
			Description:   input.Description,
			Amount:        input.Amount,
			Type:          input.Type,
			CategoryID:    input.CategoryID,
			AssetID:       input.AssetID,
			TargetAssetID: input.TargetAssetID,
			Status:        model.TransactionStatusRealized,
			Notes:         input.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		applyImpact(ctx, doc, created, now)
		learnMapping(doc, created)
		doc.Transactions = append(doc.Transactions, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update edits a transaction: the old impact is reverted, then the new
// one applied.
func (s *TransactionService) Update(ctx context.Context, id string, input TransactionInput) (*model.Transaction, error) {
	if err := validateTransaction(input); err != nil {
		return nil, err
	}

	var updated model.Transaction
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		tx := doc.FindTransaction(id)
		if tx == nil {
			return apperror.NotFound("transaction")
		}

		now := s.now()
		if tx.Status == model.TransactionStatusRealized {
			ledger.Revert(doc, *tx, now)
		}

		tx.Date = input.Date
		tx.Description = input.Description
		tx.Amount = input.Amount
		tx.Type = input.Type
		tx.CategoryID = input.CategoryID
		tx.AssetID = input.AssetID
		tx.TargetAssetID = input.TargetAssetID
		tx.Notes = input.Notes
		tx.UpdatedAt = now

		if tx.Status == model.TransactionStatusRealized {
			applyImpact(ctx, doc, *tx, now)
		}
		learnMapping(doc, *tx)
		updated = *tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a transaction, reverting its impact when it had been
// applied.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.Transactions {
			if doc.Transactions[i].ID != id {
				continue
			}
			tx := doc.Transactions[i]
			if tx.Status == model.TransactionStatusRealized {
				ledger.Revert(doc, tx, s.now())
			}
			doc.Transactions = append(doc.Transactions[:i], doc.Transactions[i+1:]...)
			return nil
		}
		return apperror.NotFound("transaction")
	})
	return err
}

func validateTransaction(input TransactionInput) error {
	if input.Description == "" {
		return apperror.ValidationError("description", "description is required")
	}
	if !input.Amount.IsPositive() {
		return apperror.ValidationError("amount", "amount must be positive")
	}
	if input.Date.IsZero() {
		return apperror.ValidationError("date", "date is required")
	}
	if input.AssetID == "" {
		return apperror.ValidationError("assetId", "asset is required")
	}

	switch input.Type {
	case model.TransactionTypeIncome, model.TransactionTypeExpense:
		if input.CategoryID == "" {
			return apperror.ValidationError("categoryId", "category is required")
		}
		if input.TargetAssetID != "" {
			return apperror.ValidationError("targetAssetId", "only transfers take a target asset")
		}
	case model.TransactionTypeTransfer:
		if input.TargetAssetID == "" {
			return apperror.ValidationError("targetAssetId", "transfer needs a target asset")
		}
		if input.TargetAssetID == input.AssetID {
			return apperror.ValidationError("targetAssetId", "transfer needs two different assets")
		}
	default:
		return apperror.ValidationError("type", "type must be income, expense or transfer")
	}
	return nil
}

// applyImpact routes through the ledger and warns when nothing moved
// because a referenced asset is gone. A dangling asset id is a soft
// failure, never an abort.
func applyImpact(ctx context.Context, doc *model.Document, tx model.Transaction, now time.Time) {
	if !ledger.Apply(doc, tx, now) && tx.AssetID != "" {
		logger.FromContext(ctx).Warn("transaction impact skipped, asset missing",
			"transactionId", tx.ID, "assetId", tx.AssetID)
	}
}

// learnMapping remembers which category the user picked for a
// description so future imports can inherit it.
func learnMapping(doc *model.Document, tx model.Transaction) {
	if tx.Type == model.TransactionTypeTransfer {
		return
	}
	if tx.CategoryID == "" || tx.CategoryID == model.CategoryIDPending || tx.CategoryID == model.CategoryIDInternal {
		return
	}
	if doc.Settings.CategoryMappings == nil {
		doc.Settings.CategoryMappings = map[string]string{}
	}
	doc.Settings.CategoryMappings[tx.Description] = tx.CategoryID
}
