package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/datetime"
)

func newDoc() *model.Document {
	return &model.Document{
		Assets: []model.Asset{
			{ID: "checking", Name: "Conta Corrente", Amount: decimal.NewFromInt(1000), AssetType: model.AssetKindAsset, IsActive: true},
			{ID: "savings", Name: "Poupança", Amount: decimal.NewFromInt(5000), AssetType: model.AssetKindAsset, IsActive: true},
			{ID: "card", Name: "Cartão", Amount: decimal.NewFromInt(-800), AssetType: model.AssetKindLiability, IsActive: true},
		},
	}
}

func tx(typ model.TransactionType, amount int64, assetID, targetID string) model.Transaction {
	return model.Transaction{
		ID:            model.NewID(),
		Date:          datetime.NewDate(2024, time.March, 10),
		Amount:        decimal.NewFromInt(amount),
		Type:          typ,
		AssetID:       assetID,
		TargetAssetID: targetID,
	}
}

func balance(t *testing.T, doc *model.Document, id string) string {
	t.Helper()
	a := doc.FindAsset(id)
	if a == nil {
		t.Fatalf("asset %s not found", id)
	}
	return a.Amount.String()
}

func TestApply(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		tx      model.Transaction
		want    map[string]string
		changed bool
	}{
		{
			name:    "income adds to asset",
			tx:      tx(model.TransactionTypeIncome, 300, "checking", ""),
			want:    map[string]string{"checking": "1300"},
			changed: true,
		},
		{
			name:    "expense subtracts from asset",
			tx:      tx(model.TransactionTypeExpense, 300, "checking", ""),
			want:    map[string]string{"checking": "700"},
			changed: true,
		},
		{
			name:    "expense on liability pays down debt",
			tx:      tx(model.TransactionTypeExpense, 300, "card", ""),
			want:    map[string]string{"card": "-500"},
			changed: true,
		},
		{
			name:    "income on liability adds",
			tx:      tx(model.TransactionTypeIncome, 100, "card", ""),
			want:    map[string]string{"card": "-700"},
			changed: true,
		},
		{
			name:    "transfer moves between assets",
			tx:      tx(model.TransactionTypeTransfer, 250, "checking", "savings"),
			want:    map[string]string{"checking": "750", "savings": "5250"},
			changed: true,
		},
		{
			name:    "missing asset is a no-op",
			tx:      tx(model.TransactionTypeExpense, 300, "gone", ""),
			want:    map[string]string{"checking": "1000", "savings": "5000", "card": "-800"},
			changed: false,
		},
		{
			name:    "empty asset id is a no-op",
			tx:      tx(model.TransactionTypeIncome, 300, "", ""),
			want:    map[string]string{"checking": "1000"},
			changed: false,
		},
		{
			name:    "transfer with missing target still debits source",
			tx:      tx(model.TransactionTypeTransfer, 100, "checking", "gone"),
			want:    map[string]string{"checking": "900"},
			changed: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := newDoc()
			changed := Apply(doc, tt.tx, now)

			assert.Equal(t, tt.changed, changed)
			for id, want := range tt.want {
				assert.Equal(t, want, balance(t, doc, id), "asset %s", id)
			}
		})
	}
}

func TestRevertUndoesApply(t *testing.T) {
	t.Parallel()

	now := time.Now()

	txs := []model.Transaction{
		tx(model.TransactionTypeIncome, 300, "checking", ""),
		tx(model.TransactionTypeExpense, 120, "savings", ""),
		tx(model.TransactionTypeExpense, 450, "card", ""),
		tx(model.TransactionTypeTransfer, 250, "checking", "savings"),
	}

	for _, transaction := range txs {
		transaction := transaction
		t.Run(string(transaction.Type), func(t *testing.T) {
			t.Parallel()

			doc := newDoc()
			Apply(doc, transaction, now)
			Revert(doc, transaction, now)

			assert.Equal(t, "1000", balance(t, doc, "checking"))
			assert.Equal(t, "5000", balance(t, doc, "savings"))
			assert.Equal(t, "-800", balance(t, doc, "card"))
		})
	}
}

func TestApplyUpdatesLastUpdated(t *testing.T) {
	t.Parallel()

	doc := newDoc()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	Apply(doc, tx(model.TransactionTypeIncome, 50, "checking", ""), now)

	assert.Equal(t, now, doc.FindAsset("checking").LastUpdated)
	assert.True(t, doc.FindAsset("savings").LastUpdated.IsZero())
}

func TestApplyDecimalPrecision(t *testing.T) {
	t.Parallel()

	doc := newDoc()
	transaction := tx(model.TransactionTypeExpense, 0, "checking", "")
	transaction.Amount = decimal.RequireFromString("0.1")

	for i := 0; i < 3; i++ {
		Apply(doc, transaction, time.Now())
	}

	assert.Equal(t, "999.7", balance(t, doc, "checking"))
}
