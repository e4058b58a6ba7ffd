package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/logger"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/datetime"
)

// PlanningService manages planned incomes and expenses: the monthly
// forecast, realization into transactions and the recurrence rollover.
type PlanningService struct {
	base
}

func NewPlanningService(store DocumentStore) *PlanningService {
	return &PlanningService{base: newBase(store)}
}

type PlannedItemInput struct {
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Date        datetime.Date    `json:"date"`
	CategoryID  string           `json:"categoryId"`
	AssetID     string           `json:"assetId"`
	Recurrence  model.Recurrence `json:"recurrence"`
}

type RealizeInput struct {
	// Amount overrides the planned amount when the realized value
	// differs from the forecast. Nil keeps the planned amount.
	Amount *decimal.Decimal `json:"amount"`
}

// List returns planned items of one kind. With a month filter, one-off
// items must fall in that month; recurring items are always listed.
func (s *PlanningService) List(ctx context.Context, typ model.TransactionType, month string) ([]model.PlannedItem, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	items := *doc.PlannedList(typ)
	out := make([]model.PlannedItem, 0, len(items))
	for _, item := range items {
		if item.Recurrence != model.RecurrenceNone || inMonth(item.Date, month) {
			out = append(out, item)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

func (s *PlanningService) Create(ctx context.Context, typ model.TransactionType, input PlannedItemInput) (*model.PlannedItem, error) {
	if err := validatePlannedItem(typ, input); err != nil {
		return nil, err
	}

	var created model.PlannedItem
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		created = model.PlannedItem{
			ID:          model.NewID(),
			Description: input.Description,
			Amount:      input.Amount,
			Date:        input.Date,
			Type:        typ,
			CategoryID:  input.CategoryID,
			AssetID:     input.AssetID,
			Recurrence:  recurrenceOrNone(input.Recurrence),
			CreatedAt:   s.now(),
		}
		list := doc.PlannedList(typ)
		*list = append(*list, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PlanningService) Update(ctx context.Context, typ model.TransactionType, id string, input PlannedItemInput) (*model.PlannedItem, error) {
	if err := validatePlannedItem(typ, input); err != nil {
		return nil, err
	}

	var updated model.PlannedItem
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		item := findPlanned(doc, typ, id)
		if item == nil {
			return apperror.NotFound("planned item")
		}

		item.Description = input.Description
		item.Amount = input.Amount
		item.Date = input.Date
		item.CategoryID = input.CategoryID
		item.AssetID = input.AssetID
		item.Recurrence = recurrenceOrNone(input.Recurrence)
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a planned item. Forecasts never touched balances, so
// there is nothing to revert.
func (s *PlanningService) Delete(ctx context.Context, typ model.TransactionType, id string) error {
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		list := doc.PlannedList(typ)
		for i := range *list {
			if (*list)[i].ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return apperror.NotFound("planned item")
	})
	return err
}

// Realize converts a planned item into a realized transaction dated
// today, applies its balance impact and marks the item realized, all in
// one save. Realizing twice conflicts.
func (s *PlanningService) Realize(ctx context.Context, typ model.TransactionType, id string, input RealizeInput) (*model.Transaction, error) {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, apperror.ValidationError("amount", "realized amount must be positive")
	}

	var created model.Transaction
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		item := findPlanned(doc, typ, id)
		if item == nil {
			return apperror.NotFound("planned item")
		}
		if item.IsRealized {
			return apperror.AlreadyRealized(item.Description)
		}

		amount := item.Amount
		if input.Amount != nil {
			amount = *input.Amount
		}

		now := s.now()
		created = model.Transaction{
			ID:            model.NewID(),
			Date:          datetime.DateOf(now),
			Description:   item.Description,
			Amount:        amount,
			Type:          item.Type,
			CategoryID:    item.CategoryID,
			AssetID:       item.AssetID,
			Status:        model.TransactionStatusRealized,
			PlannedItemID: item.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		applyImpact(ctx, doc, created, now)
		doc.Transactions = append(doc.Transactions, created)

		item.IsRealized = true
		item.RealizedAmount = &amount
		item.RealizedDate = &now
		item.RealizedTransactionID = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RollRecurring appends the next occurrence of every realized recurring
// item whose next date is due. Runs from the scheduler; idempotent
// within a cycle because an existing copy at the next date blocks a new
// one. Returns how many items were created.
func (s *PlanningService) RollRecurring(ctx context.Context) (int, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	today := datetime.DateOf(s.now())
	created := 0

	for _, typ := range []model.TransactionType{model.TransactionTypeIncome, model.TransactionTypeExpense} {
		list := doc.PlannedList(typ)
		// Iterate a snapshot; appends must not extend the loop.
		items := *list
		for _, item := range items {
			if item.Recurrence == model.RecurrenceNone || !item.IsRealized {
				continue
			}

			next := nextOccurrence(item.Date, item.Recurrence)
			if next.After(today.Time) || hasCopyAt(*list, item.Description, next) {
				continue
			}

			rolled := item
			rolled.ID = model.NewID()
			rolled.Date = next
			rolled.IsRealized = false
			rolled.RealizedAmount = nil
			rolled.RealizedDate = nil
			rolled.RealizedTransactionID = ""
			rolled.CreatedAt = s.now()
			*list = append(*list, rolled)
			created++

			logger.FromContext(ctx).Info("rolled recurring planned item",
				"description", item.Description, "next", next.String())
		}
	}

	if created == 0 {
		return 0, nil
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, fmt.Errorf("saving document: %w", err)
	}
	return created, nil
}

func validatePlannedItem(typ model.TransactionType, input PlannedItemInput) error {
	if typ != model.TransactionTypeIncome && typ != model.TransactionTypeExpense {
		return apperror.ValidationError("type", "planned items are income or expense")
	}
	if input.Description == "" {
		return apperror.ValidationError("description", "description is required")
	}
	if !input.Amount.IsPositive() {
		return apperror.ValidationError("amount", "amount must be positive")
	}
	if input.Date.IsZero() {
		return apperror.ValidationError("date", "date is required")
	}
	if input.CategoryID == "" {
		return apperror.ValidationError("categoryId", "category is required")
	}
	if input.AssetID == "" {
		return apperror.ValidationError("assetId", "asset is required")
	}
	switch input.Recurrence {
	case "", model.RecurrenceNone, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly, model.RecurrenceYearly:
		return nil
	default:
		return apperror.ValidationError("recurrence", "recurrence must be none, daily, weekly, monthly or yearly")
	}
}

func recurrenceOrNone(r model.Recurrence) model.Recurrence {
	if r == "" {
		return model.RecurrenceNone
	}
	return r
}

func findPlanned(doc *model.Document, typ model.TransactionType, id string) *model.PlannedItem {
	list := doc.PlannedList(typ)
	for i := range *list {
		if (*list)[i].ID == id {
			return &(*list)[i]
		}
	}
	return nil
}

func nextOccurrence(d datetime.Date, r model.Recurrence) datetime.Date {
	switch r {
	case model.RecurrenceDaily:
		return d.AddRecurrence(1, 0, 0)
	case model.RecurrenceWeekly:
		return d.AddRecurrence(7, 0, 0)
	case model.RecurrenceMonthly:
		return d.AddRecurrence(0, 1, 0)
	case model.RecurrenceYearly:
		return d.AddRecurrence(0, 0, 1)
	default:
		return d
	}
}

func hasCopyAt(items []model.PlannedItem, description string, date datetime.Date) bool {
	for _, item := range items {
		if item.Description == description && item.Date.Equal(date.Time) {
			return true
		}
	}
	return false
}
