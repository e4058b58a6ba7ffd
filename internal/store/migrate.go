package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/gamification"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/currency"
	"github.com/grana-app/backend/pkg/datetime"
)

// Legacy export shape: planned items and transactions carry a free-form
// category name instead of an id, and nothing is linked to an asset.
type legacyDocument struct {
	PlannedIncomes  []legacyPlanned          `json:"plannedIncomes"`
	PlannedExpenses []legacyPlanned          `json:"plannedExpenses"`
	Transactions    []legacyTransaction      `json:"transactions"`
	Gamification    *model.GamificationState `json:"gamificationState"`
}

type legacyPlanned struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        datetime.Date   `json:"date"`
	Category    string          `json:"category"`
	Recurrence  string          `json:"recurrence"`
	IsRealized  bool            `json:"isRealized"`
}

type legacyTransaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        datetime.Date   `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
}

// Seed builds a fresh document: default pt-BR categories, a starting
// "Carteira" cash asset and a zeroed gamification state.
func Seed(now time.Time) *model.Document {
	return &model.Document{
		PlannedIncomes:  []model.PlannedItem{},
		PlannedExpenses: []model.PlannedItem{},
		Transactions:    []model.Transaction{},
		Assets: []model.Asset{{
			ID:          model.NewID(),
			Name:        "Carteira",
			Amount:      decimal.Zero,
			Type:        model.AssetClassCash,
			AssetType:   model.AssetKindAsset,
			Liquidity:   model.LiquidityHigh,
			IsActive:    true,
			LastUpdated: now,
		}},
		Gamification: gamification.NewState(),
		Settings: model.UserSettings{
			Currency:            string(currency.DefaultCurrency),
			Categories:          model.DefaultCategories(now),
			CategoryMappings:    map[string]string{},
			GamificationEnabled: true,
		},
	}
}

// FromLegacy converts a legacy JSON export into a current document.
// Category names become category ids as-is, falling back to the default
// salary or others category; transactions are linked to the pending asset
// and marked realized since their balance impact predates the export.
func FromLegacy(raw []byte, now time.Time) (*model.Document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("decoding legacy export: %w", err)
	}

	doc := Seed(now)

	for _, p := range legacy.PlannedIncomes {
		doc.PlannedIncomes = append(doc.PlannedIncomes,
			migratePlanned(p, model.TransactionTypeIncome, model.CategoryIDDefaultSalary, now))
	}
	for _, p := range legacy.PlannedExpenses {
		doc.PlannedExpenses = append(doc.PlannedExpenses,
			migratePlanned(p, model.TransactionTypeExpense, model.CategoryIDDefaultOthers, now))
	}

	for _, t := range legacy.Transactions {
		typ := model.TransactionType(t.Type)
		if typ != model.TransactionTypeIncome && typ != model.TransactionTypeTransfer {
			typ = model.TransactionTypeExpense
		}

		fallback := model.CategoryIDDefaultOthers
		if typ == model.TransactionTypeIncome {
			fallback = model.CategoryIDDefaultSalary
		}

		doc.Transactions = append(doc.Transactions, model.Transaction{
			ID:          idOrNew(t.ID),
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount.Abs(),
			Type:        typ,
			CategoryID:  categoryOr(t.Category, fallback),
			AssetID:     model.AssetIDPending,
			Status:      model.TransactionStatusRealized,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if legacy.Gamification != nil {
		doc.Gamification = *legacy.Gamification
		if doc.Gamification.CurrentLevel < gamification.MinLevel {
			doc.Gamification.CurrentLevel = gamification.MinLevel
		}
		doc.Gamification.CityState = gamification.CityFor(doc.Gamification.CurrentLevel)
	}

	return doc, nil
}

func migratePlanned(p legacyPlanned, typ model.TransactionType, fallback string, now time.Time) model.PlannedItem {
	rec := model.Recurrence(p.Recurrence)
	switch rec {
	case model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly, model.RecurrenceYearly:
	default:
		rec = model.RecurrenceNone
	}

	return model.PlannedItem{
		ID:          idOrNew(p.ID),
		Description: p.Description,
		Amount:      p.Amount.Abs(),
		Date:        p.Date,
		Type:        typ,
		CategoryID:  categoryOr(p.Category, fallback),
		AssetID:     model.AssetIDPending,
		Recurrence:  rec,
		IsRealized:  p.IsRealized,
		CreatedAt:   now,
	}
}

func categoryOr(category, fallback string) string {
	if category != "" {
		return category
	}
	return fallback
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return model.NewID()
}
