package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/store"
	"github.com/grana-app/backend/pkg/datetime"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testDoc builds a document with two assets, a liability, a card, the
// default categories and gamification switched off so balance assertions
// stay exact.
func testDoc() *model.Document {
	return &model.Document{
		Assets: []model.Asset{
			{ID: "checking", Name: "Conta Corrente", Amount: dec("1000"), Type: model.AssetClassBank, AssetType: model.AssetKindAsset, Liquidity: model.LiquidityHigh, IsActive: true},
			{ID: "savings", Name: "Poupança", Amount: dec("5000"), Type: model.AssetClassInvestment, AssetType: model.AssetKindAsset, Liquidity: model.LiquidityHigh, IsActive: true},
			{ID: "card", Name: "Cartão", Amount: dec("-200"), Type: model.AssetClassCreditCard, AssetType: model.AssetKindLiability, Liquidity: model.LiquidityHigh, IsActive: true},
		},
		Settings: model.UserSettings{
			Currency: "BRL",
			Categories: []model.Category{
				{ID: "cat-salary", Name: "Salário", Type: model.CategoryTypeIncome, IsDefault: true},
				{ID: "cat-food", Name: "Alimentação", Type: model.CategoryTypeExpense, IsDefault: true},
				{ID: "cat-fun", Name: "Lazer", Type: model.CategoryTypeExpense},
			},
			CategoryMappings: map[string]string{},
		},
	}
}

// seedStore saves the document into a fresh memory store.
func seedStore(t *testing.T, doc *model.Document) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), doc))
	return st
}

func loadDoc(t *testing.T, st *store.MemoryStore) *model.Document {
	t.Helper()
	doc, err := st.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func assetAmount(t *testing.T, st *store.MemoryStore, id string) decimal.Decimal {
	t.Helper()
	a := loadDoc(t, st).FindAsset(id)
	require.NotNil(t, a, "asset %s", id)
	return a.Amount
}

func day(s string) datetime.Date {
	d, err := datetime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
