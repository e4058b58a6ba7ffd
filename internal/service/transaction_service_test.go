package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

func TestTransactionService_Create_AppliesImpact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        TransactionInput
		wantChecking string
		wantCard     string
	}{
		{
			name: "expense debits asset",
			input: TransactionInput{
				Description: "Mercado", Amount: dec("150"), Date: day("2025-03-10"),
				Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
			},
			wantChecking: "850",
			wantCard:     "-200",
		},
		{
			name: "income credits asset",
			input: TransactionInput{
				Description: "Salário", Amount: dec("3000"), Date: day("2025-03-05"),
				Type: model.TransactionTypeIncome, CategoryID: "cat-salary", AssetID: "checking",
			},
			wantChecking: "4000",
			wantCard:     "-200",
		},
		{
			name: "expense on liability grows the debt toward zero",
			input: TransactionInput{
				Description: "Lanche", Amount: dec("50"), Date: day("2025-03-10"),
				Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "card",
			},
			wantChecking: "1000",
			wantCard:     "-150",
		},
		{
			name: "transfer moves between assets",
			input: TransactionInput{
				Description: "Aporte", Amount: dec("500"), Date: day("2025-03-12"),
				Type: model.TransactionTypeTransfer, AssetID: "checking", TargetAssetID: "savings",
			},
			wantChecking: "500",
			wantCard:     "-200",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := seedStore(t, testDoc())
			svc := NewTransactionService(st)
			svc.clock = fixedClock

			created, err := svc.Create(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, model.TransactionStatusRealized, created.Status)
			assert.Equal(t, testNow, created.CreatedAt)

			assert.True(t, assetAmount(t, st, "checking").Equal(dec(tt.wantChecking)),
				"checking = %s", assetAmount(t, st, "checking"))
			assert.True(t, assetAmount(t, st, "card").Equal(dec(tt.wantCard)),
				"card = %s", assetAmount(t, st, "card"))
		})
	}
}

func TestTransactionService_Create_Validation(t *testing.T) {
	t.Parallel()

	valid := TransactionInput{
		Description: "Mercado", Amount: dec("150"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
	}

	tests := []struct {
		name      string
		mutate    func(*TransactionInput)
		wantField string
	}{
		{"missing description", func(in *TransactionInput) { in.Description = "" }, "description"},
		{"zero amount", func(in *TransactionInput) { in.Amount = dec("0") }, "amount"},
		{"negative amount", func(in *TransactionInput) { in.Amount = dec("-5") }, "amount"},
		{"missing asset", func(in *TransactionInput) { in.AssetID = "" }, "assetId"},
		{"missing category", func(in *TransactionInput) { in.CategoryID = "" }, "categoryId"},
		{"unknown type", func(in *TransactionInput) { in.Type = "loan" }, "type"},
		{"transfer without target", func(in *TransactionInput) {
			in.Type = model.TransactionTypeTransfer
			in.TargetAssetID = ""
		}, "targetAssetId"},
		{"transfer to same asset", func(in *TransactionInput) {
			in.Type = model.TransactionTypeTransfer
			in.TargetAssetID = in.AssetID
		}, "targetAssetId"},
		{"target asset on an expense", func(in *TransactionInput) {
			in.TargetAssetID = "savings"
		}, "targetAssetId"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewTransactionService(seedStore(t, testDoc()))
			input := valid
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestTransactionService_Update_RevertsThenApplies(t *testing.T) {
	t.Parallel()

	st := seedStore(t, testDoc())
	svc := NewTransactionService(st)
	svc.clock = fixedClock

	created, err := svc.Create(context.Background(), TransactionInput{
		Description: "Mercado", Amount: dec("150"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
	})
	require.NoError(t, err)
	require.True(t, assetAmount(t, st, "checking").Equal(dec("850")))

	// Move the expense to another asset with a new amount. The old
	// impact must come back before the new one lands.
	updated, err := svc.Update(context.Background(), created.ID, TransactionInput{
		Description: "Mercado", Amount: dec("200"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "savings",
	})
	require.NoError(t, err)
	assert.Equal(t, "savings", updated.AssetID)

	assert.True(t, assetAmount(t, st, "checking").Equal(dec("1000")))
	assert.True(t, assetAmount(t, st, "savings").Equal(dec("4800")))
}

func TestTransactionService_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewTransactionService(seedStore(t, testDoc()))
	_, err := svc.Update(context.Background(), "missing", TransactionInput{
		Description: "x", Amount: dec("1"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTransactionService_Delete_RevertsImpact(t *testing.T) {
	t.Parallel()

	st := seedStore(t, testDoc())
	svc := NewTransactionService(st)
	svc.clock = fixedClock

	created, err := svc.Create(context.Background(), TransactionInput{
		Description: "Salário", Amount: dec("3000"), Date: day("2025-03-05"),
		Type: model.TransactionTypeIncome, CategoryID: "cat-salary", AssetID: "checking",
	})
	require.NoError(t, err)
	require.True(t, assetAmount(t, st, "checking").Equal(dec("4000")))

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	assert.True(t, assetAmount(t, st, "checking").Equal(dec("1000")))
	assert.Empty(t, loadDoc(t, st).Transactions)
}

func TestTransactionService_Delete_SkipsRevertForUnrealized(t *testing.T) {
	t.Parallel()

	doc := testDoc()
	doc.Transactions = []model.Transaction{{
		ID: "tx-1", Description: "importado", Amount: dec("80"), Date: day("2025-03-01"),
		Type: model.TransactionTypeExpense, CategoryID: model.CategoryIDPending,
		AssetID: "checking", Status: model.TransactionStatusUnplanned,
	}}
	st := seedStore(t, doc)
	svc := NewTransactionService(st)
	svc.clock = fixedClock

	require.NoError(t, svc.Delete(context.Background(), "tx-1"))

	// The pending row never touched the balance, so deleting it must
	// not either.
	assert.True(t, assetAmount(t, st, "checking").Equal(dec("1000")))
}

func TestTransactionService_List_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	doc := testDoc()
	doc.Transactions = []model.Transaction{
		{ID: "a", Date: day("2025-03-01"), Description: "primeiro", Amount: dec("1"), Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking"},
		{ID: "b", Date: day("2025-03-20"), Description: "último", Amount: dec("1"), Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking"},
		{ID: "c", Date: day("2025-02-28"), Description: "mês anterior", Amount: dec("1"), Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking"},
	}
	svc := NewTransactionService(seedStore(t, doc))

	got, err := svc.List(context.Background(), "2025-03")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionService_Create_LearnsMapping(t *testing.T) {
	t.Parallel()

	st := seedStore(t, testDoc())
	svc := NewTransactionService(st)
	svc.clock = fixedClock

	_, err := svc.Create(context.Background(), TransactionInput{
		Description: "Padaria do Zé", Amount: dec("25"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
	})
	require.NoError(t, err)

	assert.Equal(t, "cat-food", loadDoc(t, st).Settings.CategoryMappings["Padaria do Zé"])
}

func TestTransactionService_Mutation_AdvancesGamification(t *testing.T) {
	t.Parallel()

	doc := testDoc()
	doc.Settings.GamificationEnabled = true
	st := seedStore(t, doc)
	svc := NewTransactionService(st)
	svc.clock = fixedClock

	_, err := svc.Create(context.Background(), TransactionInput{
		Description: "Mercado", Amount: dec("10"), Date: day("2025-03-10"),
		Type: model.TransactionTypeExpense, CategoryID: "cat-food", AssetID: "checking",
	})
	require.NoError(t, err)

	got := loadDoc(t, st).Gamification
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 1, got.TotalInteractions)
	assert.Equal(t, testNow, got.LastInteraction)
}
