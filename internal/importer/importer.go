// Package importer parses bank and credit card CSV statements into
// transactions. Parsed rows are normalized, deduplicated against already
// imported transactions and categorized by fuzzy matching learned
// description mappings. The importer never touches asset balances.
package importer

import (
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/currency"
	"github.com/grana-app/backend/pkg/datetime"
)

// Dialect selects the statement layout.
type Dialect string

const (
	DialectBank       Dialect = "bank"
	DialectCreditCard Dialect = "credit_card"
)

// ErrFormat reports a statement whose header cannot be understood.
// Nothing is imported in that case.
var ErrFormat = errors.New("unrecognized statement format")

// Options configure one import run.
type Options struct {
	Dialect  Dialect
	AssetID  string
	Existing []model.Transaction // already imported, for dedup
	Mappings map[string]string   // learned description -> category id
	Now      time.Time
}

// Result is the outcome of one import run.
type Result struct {
	Transactions []model.Transaction `json:"transactions"`
	Imported     int                 `json:"imported"`
	Duplicates   int                 `json:"duplicates"`
	Skipped      int                 `json:"skipped"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// Header aliases per dialect. Matching is case-insensitive on trimmed
// header cells.
var (
	bankDateAliases   = []string{"data"}
	bankAmountAliases = []string{"valor"}
	bankIDAliases     = []string{"identificador"}
	bankDescAliases   = []string{"descrição", "descricao"}

	cardDateAliases   = []string{"date", "data"}
	cardTitleAliases  = []string{"title", "descrição", "descricao", "description"}
	cardAmountAliases = []string{"amount", "valor"}
)

type columns struct {
	date   int
	amount int
	desc   int
	id     int // -1 when the statement has no identifier column
}

// Parse runs the import pipeline over raw CSV text.
func Parse(raw string, opts Options) (*Result, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: no data rows", ErrFormat)
	}

	cols, err := resolveColumns(records[0], opts.Dialect)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	seen := seenKeys(opts.Existing)

	// Credit card expenses on the same day sharing a first word are
	// combined into one annotated transaction. Refunds never group.
	groups := map[string]int{} // group key -> index into res.Transactions
	counts := map[string]int{}

	for i, record := range records[1:] {
		rowIndex := i + 1
		row, ok := extractRow(record, cols)
		if !ok {
			continue // blank line
		}

		if row.dateStr == "" || row.desc == "" || row.valueStr == "" {
			res.skip("row %d: missing required fields", rowIndex)
			continue
		}

		hash := contentHash(row.dateStr, row.desc, row.valueStr)
		id := row.id
		if opts.Dialect == DialectCreditCard {
			id = fmt.Sprintf("%s_%d", shortHash(hash), rowIndex)
		}

		if seen[hash] || (id != "" && seen[id]) {
			res.Duplicates++
			continue
		}
		seen[hash] = true
		if id != "" {
			seen[id] = true
		}

		date, err := datetime.ParseStatementDate(row.dateStr)
		if err != nil {
			res.skip("row %d: %v", rowIndex, err)
			continue
		}

		amount, err := currency.ParseAmount(row.valueStr)
		if err != nil {
			res.skip("row %d: %v", rowIndex, err)
			continue
		}
		if amount.IsZero() {
			res.skip("row %d: zero amount", rowIndex)
			continue
		}

		categoryID := model.CategoryIDPending
		if matched, ok := BestMatch(row.desc, opts.Mappings); ok {
			categoryID = matched
		}

		tx := model.Transaction{
			ID:          model.NewID(),
			Date:        date,
			Description: row.desc,
			Type:        signType(opts.Dialect, amount),
			Amount:      amount.Abs(),
			CategoryID:  categoryID,
			AssetID:     opts.AssetID,
			// Stays unplanned until resolution applies the balance
			// impact; realized status means the impact has landed.
			Status:          model.TransactionStatusUnplanned,
			TransactionHash: hash,
			CreatedAt:       opts.Now,
			UpdatedAt:       opts.Now,
		}
		if opts.Dialect == DialectBank {
			tx.NubankID = row.id
		} else {
			tx.NubankID = id
		}

		if opts.Dialect == DialectCreditCard && tx.Type == model.TransactionTypeExpense {
			key := groupKey(date, row.desc)
			if at, ok := groups[key]; ok {
				merged := &res.Transactions[at]
				merged.Amount = merged.Amount.Add(tx.Amount)
				counts[key]++
				merged.Description = fmt.Sprintf("%s (%dx)", firstDescription(merged.Description), counts[key])
				continue
			}
			groups[key] = len(res.Transactions)
			counts[key] = 1
		}

		res.Transactions = append(res.Transactions, tx)
	}

	res.Imported = len(res.Transactions)
	return res, nil
}

type row struct {
	dateStr  string
	desc     string
	valueStr string
	id       string
}

func extractRow(record []string, cols columns) (row, bool) {
	blank := true
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			blank = false
			break
		}
	}
	if blank {
		return row{}, false
	}

	return row{
		dateStr:  field(record, cols.date),
		desc:     field(record, cols.desc),
		valueStr: field(record, cols.amount),
		id:       field(record, cols.id),
	}, true
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func resolveColumns(header []string, dialect Dialect) (columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}

	find := func(aliases []string) int {
		for i, h := range norm {
			for _, a := range aliases {
				if h == a {
					return i
				}
			}
		}
		return -1
	}

	var cols columns
	switch dialect {
	case DialectBank:
		cols = columns{
			date:   find(bankDateAliases),
			amount: find(bankAmountAliases),
			desc:   find(bankDescAliases),
			id:     find(bankIDAliases),
		}
	case DialectCreditCard:
		cols = columns{
			date:   find(cardDateAliases),
			amount: find(cardAmountAliases),
			desc:   find(cardTitleAliases),
			id:     -1,
		}
	default:
		return columns{}, fmt.Errorf("%w: unknown dialect %q", ErrFormat, dialect)
	}

	if cols.date < 0 || cols.amount < 0 || cols.desc < 0 {
		return columns{}, fmt.Errorf("%w: missing required columns", ErrFormat)
	}
	// Bank statements carry an id column; only the card dialect goes
	// without one.
	if dialect == DialectBank && cols.id < 0 {
		return columns{}, fmt.Errorf("%w: missing required columns", ErrFormat)
	}
	return cols, nil
}

// signType maps the statement sign convention to a transaction type. Bank
// statements list credits positive; card statements list charges positive
// and refunds negative.
func signType(dialect Dialect, amount decimal.Decimal) model.TransactionType {
	positive := amount.IsPositive()
	if dialect == DialectCreditCard {
		positive = !positive
	}
	if positive {
		return model.TransactionTypeIncome
	}
	return model.TransactionTypeExpense
}

// contentHash fingerprints a row by its raw date, description and amount
// strings, base64 encoded and stripped to alphanumerics.
func contentHash(dateStr, desc, valueStr string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(dateStr + "-" + desc + "-" + valueStr))
	var b strings.Builder
	for _, r := range enc {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func shortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

func groupKey(date datetime.Date, desc string) string {
	first := strings.ToLower(strings.Fields(desc)[0])
	return date.String() + "-" + first
}

func firstDescription(desc string) string {
	if i := strings.LastIndex(desc, " ("); i > 0 && strings.HasSuffix(desc, "x)") {
		return desc[:i]
	}
	return desc
}

func seenKeys(existing []model.Transaction) map[string]bool {
	seen := make(map[string]bool, len(existing)*2)
	for _, tx := range existing {
		if tx.NubankID != "" {
			seen[tx.NubankID] = true
		}
		if tx.TransactionHash != "" {
			seen[tx.TransactionHash] = true
		}
	}
	return seen
}

func (r *Result) skip(format string, args ...any) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
