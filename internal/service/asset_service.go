package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

// AssetService manages the patrimônio: accounts, holdings and debts.
// Liabilities are stored with a negative amount; the sign is normalized
// on every write.
type AssetService struct {
	base
}

func NewAssetService(store DocumentStore) *AssetService {
	return &AssetService{base: newBase(store)}
}

type AssetInput struct {
	Name      string           `json:"name"`
	Amount    decimal.Decimal  `json:"amount"`
	Type      model.AssetClass `json:"type"`
	AssetType model.AssetKind  `json:"assetType"`
	Liquidity model.Liquidity  `json:"liquidity"`
	Notes     string           `json:"notes"`
}

// List returns assets, active only unless includeInactive is set.
func (s *AssetService) List(ctx context.Context, includeInactive bool) ([]model.Asset, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Asset, 0, len(doc.Assets))
	for _, a := range doc.Assets {
		if a.IsActive || includeInactive {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *AssetService) Create(ctx context.Context, input AssetInput) (*model.Asset, error) {
	if err := validateAsset(input); err != nil {
		return nil, err
	}

	var created model.Asset
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		created = model.Asset{
			ID:          model.NewID(),
			Name:        input.Name,
			Amount:      normalizeAmount(input),
			Type:        input.Type,
			AssetType:   input.AssetType,
			Liquidity:   liquidityOrHigh(input.Liquidity),
			Notes:       input.Notes,
			IsActive:    true,
			LastUpdated: s.now(),
		}
		doc.Assets = append(doc.Assets, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update edits an asset, including direct balance adjustments.
func (s *AssetService) Update(ctx context.Context, id string, input AssetInput) (*model.Asset, error) {
	if err := validateAsset(input); err != nil {
		return nil, err
	}

	var updated model.Asset
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		a := doc.FindAsset(id)
		if a == nil {
			return apperror.NotFound("asset")
		}

		a.Name = input.Name
		a.Amount = normalizeAmount(input)
		a.Type = input.Type
		a.AssetType = input.AssetType
		a.Liquidity = liquidityOrHigh(input.Liquidity)
		a.Notes = input.Notes
		a.LastUpdated = s.now()
		updated = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an asset nothing references; a referenced asset is
// deactivated instead so history stays reconstructible. Reports whether
// the asset was deactivated rather than removed.
func (s *AssetService) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	_, err = s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.Assets {
			if doc.Assets[i].ID != id {
				continue
			}

			if assetInUse(doc, id) {
				doc.Assets[i].IsActive = false
				doc.Assets[i].LastUpdated = s.now()
				deactivated = true
				return nil
			}

			doc.Assets = append(doc.Assets[:i], doc.Assets[i+1:]...)
			return nil
		}
		return apperror.NotFound("asset")
	})
	return deactivated, err
}

func assetInUse(doc *model.Document, id string) bool {
	for _, tx := range doc.Transactions {
		if tx.AssetID == id || tx.TargetAssetID == id {
			return true
		}
	}
	for _, item := range doc.PlannedIncomes {
		if item.AssetID == id {
			return true
		}
	}
	for _, item := range doc.PlannedExpenses {
		if item.AssetID == id {
			return true
		}
	}
	return false
}

func validateAsset(input AssetInput) error {
	if input.Name == "" {
		return apperror.ValidationError("name", "name is required")
	}
	if input.AssetType != model.AssetKindAsset && input.AssetType != model.AssetKindLiability {
		return apperror.ValidationError("assetType", "assetType must be asset or liability")
	}
	switch input.Type {
	case model.AssetClassCash, model.AssetClassBank, model.AssetClassCreditCard,
		model.AssetClassInvestment, model.AssetClassProperty, model.AssetClassVehicle,
		model.AssetClassLoan, model.AssetClassOther:
		return nil
	default:
		return apperror.ValidationError("type", "unknown asset type")
	}
}

// normalizeAmount forces liabilities negative regardless of the sign the
// caller sent.
func normalizeAmount(input AssetInput) decimal.Decimal {
	if input.AssetType == model.AssetKindLiability {
		return input.Amount.Abs().Neg()
	}
	return input.Amount
}

func liquidityOrHigh(l model.Liquidity) model.Liquidity {
	if l == model.LiquidityLow {
		return l
	}
	return model.LiquidityHigh
}
