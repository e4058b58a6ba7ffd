package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/model"
)

// DashboardService aggregates the document into the numbers the
// dashboard shows.
type DashboardService struct {
	base
}

func NewDashboardService(store DocumentStore) *DashboardService {
	return &DashboardService{base: newBase(store)}
}

type DashboardSummary struct {
	Month string `json:"month,omitempty"`

	PlannedIncome  decimal.Decimal `json:"plannedIncome"`
	PlannedExpense decimal.Decimal `json:"plannedExpense"`
	PlannedBalance decimal.Decimal `json:"plannedBalance"`

	RealizedIncome  decimal.Decimal `json:"realizedIncome"`
	RealizedExpense decimal.Decimal `json:"realizedExpense"`

	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`

	PendingCount int `json:"pendingCount"`

	Gamification model.GamificationState `json:"gamification"`
}

// Summary computes the dashboard for one month (or everything when month
// is empty). Recurring planned items always count, matching the planning
// list filter.
func (s *DashboardService) Summary(ctx context.Context, month string) (*DashboardSummary, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sum := &DashboardSummary{Month: month, Gamification: doc.Gamification}

	for _, item := range doc.PlannedIncomes {
		if item.Recurrence != model.RecurrenceNone || inMonth(item.Date, month) {
			sum.PlannedIncome = sum.PlannedIncome.Add(item.Amount)
		}
	}
	for _, item := range doc.PlannedExpenses {
		if item.Recurrence != model.RecurrenceNone || inMonth(item.Date, month) {
			sum.PlannedExpense = sum.PlannedExpense.Add(item.Amount)
		}
	}
	sum.PlannedBalance = sum.PlannedIncome.Sub(sum.PlannedExpense)

	for _, tx := range doc.Transactions {
		if tx.CategoryID == model.CategoryIDPending {
			sum.PendingCount++
		}
		if tx.Status != model.TransactionStatusRealized || !inMonth(tx.Date, month) {
			continue
		}
		switch tx.Type {
		case model.TransactionTypeIncome:
			sum.RealizedIncome = sum.RealizedIncome.Add(tx.Amount)
		case model.TransactionTypeExpense:
			sum.RealizedExpense = sum.RealizedExpense.Add(tx.Amount)
		}
	}

	for _, a := range doc.Assets {
		if !a.IsActive {
			continue
		}
		if a.AssetType == model.AssetKindLiability {
			sum.TotalLiabilities = sum.TotalLiabilities.Add(a.Amount.Abs())
		} else {
			sum.TotalAssets = sum.TotalAssets.Add(a.Amount)
		}
	}
	sum.NetWorth = sum.TotalAssets.Sub(sum.TotalLiabilities)

	return sum, nil
}

// Gamification returns the current streak, level and city state.
func (s *DashboardService) Gamification(ctx context.Context) (*model.GamificationState, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	st := doc.Gamification
	return &st, nil
}
