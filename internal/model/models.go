package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/pkg/datetime"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusPlanned   TransactionStatus = "planned"
	TransactionStatusRealized  TransactionStatus = "realized"
	TransactionStatusUnplanned TransactionStatus = "unplanned"
)

// Sentinel ids used by the import pipeline and the legacy migration.
const (
	CategoryIDPending  = "pending"
	CategoryIDInternal = "internal"
	AssetIDPending     = "pending-asset"

	CategoryIDDefaultSalary = "default-salary"
	CategoryIDDefaultOthers = "default-others"
)

type Transaction struct {
	ID              string            `json:"id"`
	Date            datetime.Date     `json:"date"`
	Description     string            `json:"description"`
	Amount          decimal.Decimal   `json:"amount"`
	Type            TransactionType   `json:"type"`
	CategoryID      string            `json:"categoryId"`
	AssetID         string            `json:"assetId"`
	TargetAssetID   string            `json:"targetAssetId,omitempty"`
	Status          TransactionStatus `json:"status"`
	PlannedItemID   string            `json:"plannedItemId,omitempty"`
	NubankID        string            `json:"nubankId,omitempty"`
	TransactionHash string            `json:"transactionHash,omitempty"`
	IsInternal      bool              `json:"isInternal,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// PlannedItem is a forecast entry. Items live in either the planned income
// or the planned expense list of the document; Type records which.
type PlannedItem struct {
	ID                    string           `json:"id"`
	Description           string           `json:"description"`
	Amount                decimal.Decimal  `json:"amount"`
	Date                  datetime.Date    `json:"date"`
	Type                  TransactionType  `json:"type"`
	CategoryID            string           `json:"categoryId"`
	AssetID               string           `json:"assetId"`
	Recurrence            Recurrence       `json:"recurrence"`
	IsRealized            bool             `json:"isRealized"`
	RealizedAmount        *decimal.Decimal `json:"realizedAmount,omitempty"`
	RealizedDate          *time.Time       `json:"realizedDate,omitempty"`
	RealizedTransactionID string           `json:"realizedTransactionId,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
}

type AssetKind string

const (
	AssetKindAsset     AssetKind = "asset"
	AssetKindLiability AssetKind = "liability"
)

type AssetClass string

const (
	AssetClassCash       AssetClass = "cash"
	AssetClassBank       AssetClass = "bank"
	AssetClassCreditCard AssetClass = "credit_card"
	AssetClassInvestment AssetClass = "investment"
	AssetClassProperty   AssetClass = "property"
	AssetClassVehicle    AssetClass = "vehicle"
	AssetClassLoan       AssetClass = "loan"
	AssetClassOther      AssetClass = "other"
)

type Liquidity string

const (
	LiquidityHigh Liquidity = "high"
	LiquidityLow  Liquidity = "low"
)

// Asset is an account or holding. Liabilities carry a negative amount.
type Asset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Type        AssetClass      `json:"type"`
	AssetType   AssetKind       `json:"assetType"`
	Liquidity   Liquidity       `json:"liquidity"`
	Notes       string          `json:"notes,omitempty"`
	IsActive    bool            `json:"isActive"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type Essentiality string

const (
	Essential    Essentiality = "essential"
	NonEssential Essentiality = "non-essential"
)

type Category struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Essential Essentiality `json:"essential"`
	Color     string       `json:"color"`
	IsDefault bool         `json:"isDefault"`
	CreatedAt time.Time    `json:"createdAt"`
}

type CityState struct {
	Buildings  int `json:"buildings"`
	Population int `json:"population"`
	Happiness  int `json:"happiness"`
}

type GamificationState struct {
	CurrentLevel      int       `json:"currentLevel"`
	Streak            int       `json:"streak"`
	TotalInteractions int       `json:"totalInteractions"`
	LastInteraction   time.Time `json:"lastInteraction"`
	CityState         CityState `json:"cityState"`
}

type UserSettings struct {
	Currency            string            `json:"currency"`
	Categories          []Category        `json:"categories"`
	CategoryMappings    map[string]string `json:"categoryMappings"`
	GamificationEnabled bool              `json:"gamificationEnabled"`
}

// Document is the whole financial state of a user, persisted as a single
// versioned record. Version is persistence bookkeeping, not part of the
// wire format.
type Document struct {
	PlannedIncomes  []PlannedItem     `json:"plannedIncomes"`
	PlannedExpenses []PlannedItem     `json:"plannedExpenses"`
	Transactions    []Transaction     `json:"transactions"`
	Assets          []Asset           `json:"assets"`
	Gamification    GamificationState `json:"gamificationState"`
	Settings        UserSettings      `json:"userSettings"`

	Version int64 `json:"-"`
}

func (d *Document) FindTransaction(id string) *Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return &d.Transactions[i]
		}
	}
	return nil
}

func (d *Document) FindAsset(id string) *Asset {
	for i := range d.Assets {
		if d.Assets[i].ID == id {
			return &d.Assets[i]
		}
	}
	return nil
}

func (d *Document) FindCategory(id string) *Category {
	for i := range d.Settings.Categories {
		if d.Settings.Categories[i].ID == id {
			return &d.Settings.Categories[i]
		}
	}
	return nil
}

func (d *Document) PlannedList(t TransactionType) *[]PlannedItem {
	if t == TransactionTypeIncome {
		return &d.PlannedIncomes
	}
	return &d.PlannedExpenses
}

func NewID() string {
	return uuid.NewString()
}

type defaultCategory struct {
	id        string
	name      string
	typ       CategoryType
	essential Essentiality
	color     string
}

// Fixed ids for the two categories the legacy migration falls back to.
var defaultCategories = []defaultCategory{
	{CategoryIDDefaultSalary, "Salário", CategoryTypeIncome, Essential, "#22c55e"},
	{"", "Renda Extra", CategoryTypeIncome, NonEssential, "#16a34a"},
	{"", "Investimentos", CategoryTypeIncome, NonEssential, "#15803d"},
	{"", "Moradia", CategoryTypeExpense, Essential, "#ef4444"},
	{"", "Alimentação", CategoryTypeExpense, Essential, "#f97316"},
	{"", "Transporte", CategoryTypeExpense, Essential, "#eab308"},
	{"", "Saúde", CategoryTypeExpense, Essential, "#ec4899"},
	{"", "Educação", CategoryTypeExpense, Essential, "#8b5cf6"},
	{"", "Contas e Serviços", CategoryTypeExpense, Essential, "#06b6d4"},
	{"", "Mercado", CategoryTypeExpense, Essential, "#f59e0b"},
	{"", "Lazer", CategoryTypeExpense, NonEssential, "#a855f7"},
	{"", "Restaurantes", CategoryTypeExpense, NonEssential, "#fb7185"},
	{"", "Compras", CategoryTypeExpense, NonEssential, "#38bdf8"},
	{"", "Viagens", CategoryTypeExpense, NonEssential, "#34d399"},
	{"", "Assinaturas", CategoryTypeExpense, NonEssential, "#818cf8"},
	{"", "Presentes", CategoryTypeExpense, NonEssential, "#f472b6"},
	{CategoryIDDefaultOthers, "Outros Gastos", CategoryTypeExpense, NonEssential, "#94a3b8"},
}

// DefaultCategories returns the pt-BR category seed for new documents.
func DefaultCategories(now time.Time) []Category {
	out := make([]Category, 0, len(defaultCategories))
	for _, c := range defaultCategories {
		id := c.id
		if id == "" {
			id = NewID()
		}
		out = append(out, Category{
			ID:        id,
			Name:      c.name,
			Type:      c.typ,
			Essential: c.essential,
			Color:     c.color,
			IsDefault: true,
			CreatedAt: now,
		})
	}
	return out
}
