package service

import (
	"context"
	"errors"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/importer"
	"github.com/grana-app/backend/internal/logger"
	"github.com/grana-app/backend/internal/model"
)

// ImportService runs CSV statement imports. Parsed rows are appended in
// one save; balances stay untouched until each row is resolved.
type ImportService struct {
	base
}

func NewImportService(store DocumentStore) *ImportService {
	return &ImportService{base: newBase(store)}
}

type ImportInput struct {
	ImportType string `json:"importType"` // bank or credit_card
	AssetID    string `json:"assetId"`
	CSV        string `json:"csv"`
}

// requiredClass maps each statement dialect to the asset class it can be
// imported into.
var requiredClass = map[importer.Dialect]model.AssetClass{
	importer.DialectBank:       model.AssetClassBank,
	importer.DialectCreditCard: model.AssetClassCreditCard,
}

func (s *ImportService) Import(ctx context.Context, input ImportInput) (*importer.Result, error) {
	dialect := importer.Dialect(input.ImportType)
	class, ok := requiredClass[dialect]
	if !ok {
		return nil, apperror.ValidationError("importType", "importType must be bank or credit_card")
	}
	if input.AssetID == "" {
		return nil, apperror.ValidationError("assetId", "asset is required")
	}
	if input.CSV == "" {
		return nil, apperror.ValidationError("csv", "statement content is required")
	}

	var result *importer.Result
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		asset := doc.FindAsset(input.AssetID)
		if asset == nil || !asset.IsActive {
			return apperror.NotFound("asset")
		}
		if asset.Type != class {
			return apperror.ValidationError("assetId", "asset type does not match the statement type")
		}

		res, err := importer.Parse(input.CSV, importer.Options{
			Dialect:  dialect,
			AssetID:  input.AssetID,
			Existing: doc.Transactions,
			Mappings: doc.Settings.CategoryMappings,
			Now:      s.now(),
		})
		if errors.Is(err, importer.ErrFormat) {
			return apperror.BadRequest(err.Error())
		}
		if err != nil {
			return err
		}

		log := logger.FromContext(ctx)
		for _, w := range res.Warnings {
			log.Warn("import row skipped", "reason", w)
		}
		log.Info("statement imported",
			"type", input.ImportType,
			"imported", res.Imported,
			"duplicates", res.Duplicates,
			"skipped", res.Skipped)

		doc.Transactions = append(doc.Transactions, res.Transactions...)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
