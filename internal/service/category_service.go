package service

import (
	"context"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
)

// CategoryService manages the user's category list. Defaults and
// referenced categories cannot be deleted.
type CategoryService struct {
	base
}

func NewCategoryService(store DocumentStore) *CategoryService {
	return &CategoryService{base: newBase(store)}
}

type CategoryInput struct {
	Name      string             `json:"name"`
	Type      model.CategoryType `json:"type"`
	Essential model.Essentiality `json:"essential"`
	Color     string             `json:"color"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Settings.Categories, nil
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	var created model.Category
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		for _, c := range doc.Settings.Categories {
			if c.Name == input.Name && c.Type == input.Type {
				return apperror.Conflict("a category with this name already exists")
			}
		}

		created = model.Category{
			ID:        model.NewID(),
			Name:      input.Name,
			Type:      input.Type,
			Essential: essentialOrNot(input.Essential),
			Color:     input.Color,
			CreatedAt: s.now(),
		}
		doc.Settings.Categories = append(doc.Settings.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (*model.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	var updated model.Category
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		c := doc.FindCategory(id)
		if c == nil {
			return apperror.NotFound("category")
		}

		c.Name = input.Name
		c.Type = input.Type
		c.Essential = essentialOrNot(input.Essential)
		c.Color = input.Color
		updated = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a category. Default categories and categories any
// transaction or planned item still points at are protected.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.Settings.Categories {
			c := doc.Settings.Categories[i]
			if c.ID != id {
				continue
			}
			if c.IsDefault {
				return apperror.Conflict("default categories cannot be deleted")
			}
			if categoryInUse(doc, id) {
				return apperror.InUse("category")
			}

			doc.Settings.Categories = append(doc.Settings.Categories[:i], doc.Settings.Categories[i+1:]...)
			removeMappingsTo(doc, id)
			return nil
		}
		return apperror.NotFound("category")
	})
	return err
}

func categoryInUse(doc *model.Document, id string) bool {
	for _, tx := range doc.Transactions {
		if tx.CategoryID == id {
			return true
		}
	}
	for _, item := range doc.PlannedIncomes {
		if item.CategoryID == id {
			return true
		}
	}
	for _, item := range doc.PlannedExpenses {
		if item.CategoryID == id {
			return true
		}
	}
	return false
}

// removeMappingsTo drops learned description mappings that point at a
// deleted category, so imports stop inheriting it.
func removeMappingsTo(doc *model.Document, id string) {
	for desc, mapped := range doc.Settings.CategoryMappings {
		if mapped == id {
			delete(doc.Settings.CategoryMappings, desc)
		}
	}
}

func validateCategory(input CategoryInput) error {
	if input.Name == "" {
		return apperror.ValidationError("name", "name is required")
	}
	if input.Type != model.CategoryTypeIncome && input.Type != model.CategoryTypeExpense {
		return apperror.ValidationError("type", "type must be income or expense")
	}
	return nil
}

func essentialOrNot(e model.Essentiality) model.Essentiality {
	if e == model.Essential {
		return e
	}
	return model.NonEssential
}
