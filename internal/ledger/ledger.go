// Package ledger applies and reverts the balance impact of transactions on
// assets. Every balance mutation in the application goes through this
// package so that apply and revert stay exact inverses of each other.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/model"
)

// Apply mutates asset balances with the impact of tx. Assets the
// transaction references but that do not exist are left untouched.
// Reports whether any balance changed.
func Apply(doc *model.Document, tx model.Transaction, now time.Time) bool {
	return shift(doc, tx, now, false)
}

// Revert undoes a previously applied transaction. Revert(Apply(tx)) leaves
// balances unchanged.
func Revert(doc *model.Document, tx model.Transaction, now time.Time) bool {
	return shift(doc, tx, now, true)
}

func shift(doc *model.Document, tx model.Transaction, now time.Time, invert bool) bool {
	switch tx.Type {
	case model.TransactionTypeTransfer:
		out := tx.Amount
		if invert {
			out = out.Neg()
		}
		changed := adjust(doc, tx.AssetID, out.Neg(), now)
		changed = adjust(doc, tx.TargetAssetID, out, now) || changed
		return changed
	default:
		delta := impactDelta(doc, tx)
		if invert {
			delta = delta.Neg()
		}
		return adjust(doc, tx.AssetID, delta, now)
	}
}

// impactDelta is the signed change the transaction makes to its asset.
// Income adds and expense subtracts, except that an expense paid on a
// liability account increases the (negative) balance toward zero, i.e.
// paying down debt.
func impactDelta(doc *model.Document, tx model.Transaction) decimal.Decimal {
	if tx.Type == model.TransactionTypeIncome {
		return tx.Amount
	}

	if a := doc.FindAsset(tx.AssetID); a != nil && a.AssetType == model.AssetKindLiability {
		return tx.Amount
	}
	return tx.Amount.Neg()
}

func adjust(doc *model.Document, assetID string, delta decimal.Decimal, now time.Time) bool {
	if assetID == "" || delta.IsZero() {
		return false
	}
	a := doc.FindAsset(assetID)
	if a == nil {
		return false
	}
	a.Amount = a.Amount.Add(delta)
	a.LastUpdated = now
	return true
}
