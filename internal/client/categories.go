package client

import (
	"context"
	"net/http"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/resource"
)

// Category labels expenses. Icon and color are optional display hints.
type Category struct {
	ID          string
	Name        string
	Icon        *string
	Color       *string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func parseCategory(r resource.Resource) (Category, error) {
	var category Category
	var err error

	category.ID = r.ID

	if category.Name, err = stringAttr(r, "name"); err != nil {
		return Category{}, err
	}
	if category.Icon, err = optionalStringAttr(r, "icon"); err != nil {
		return Category{}, err
	}
	if category.Color, err = optionalStringAttr(r, "color"); err != nil {
		return Category{}, err
	}
	if category.CreatedByID, err = stringAttr(r, "created_by_id"); err != nil {
		return Category{}, err
	}
	if category.CreatedAt, err = timeAttr(r, "created_at"); err != nil {
		return Category{}, err
	}
	if category.UpdatedAt, err = timeAttr(r, "updated_at"); err != nil {
		return Category{}, err
	}

	return category, nil
}

// CategoryParams are the editable fields of a category.
type CategoryParams struct {
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	CreatedByID string  `json:"created_by_id,omitempty"`
}

// CategoryService manages expense categories.
type CategoryService struct {
	c *Client
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	if hit, ok := cached[[]Category](s.c, "categories"); ok {
		return hit, nil
	}

	var page resource.Page
	if err := s.c.do(ctx, http.MethodGet, "/categories", nil, nil, &page); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(page.Data))
	for _, r := range page.Data {
		category, err := parseCategory(r)
		if err != nil {
			s.c.log.Warn().Err(err).Str("id", r.ID).Msg("skipping malformed category resource")
			continue
		}

		categories = append(categories, category)
	}

	s.c.cache.Set("categories", categories)
	return categories, nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id string) (Category, error) {
	key := "categories/" + id
	if hit, ok := cached[Category](s.c, key); ok {
		return hit, nil
	}

	var doc resource.Document
	if err := s.c.do(ctx, http.MethodGet, "/categories/"+id, nil, nil, &doc); err != nil {
		return Category{}, err
	}

	category, err := parseCategory(doc.Data)
	if err != nil {
		return Category{}, err
	}

	s.c.cache.Set(key, category)
	return category, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, params CategoryParams) (Category, error) {
	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPost, "/categories", nil, params, &doc); err != nil {
		return Category{}, err
	}

	s.c.cache.Invalidate("categories*")
	return parseCategory(doc.Data)
}

// Update changes a category.
func (s *CategoryService) Update(ctx context.Context, id string, params CategoryParams) (Category, error) {
	var doc resource.Document
	if err := s.c.do(ctx, http.MethodPut, "/categories/"+id, nil, params, &doc); err != nil {
		return Category{}, err
	}

	s.c.cache.Invalidate("categories*")
	return parseCategory(doc.Data)
}

// Delete removes a category. Expenses keep working without one.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil, nil); err != nil {
		return err
	}

	s.c.cache.Invalidate("categories*")
	s.c.cache.Invalidate("expenses*")
	return nil
}
