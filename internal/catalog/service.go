// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"
)

// SweetInput carries the caller-provided fields for creating or updating
// a sweet.
type SweetInput struct {
	Title         string
	Description   string
	PriceCents    int64
	InStock       bool
	CategoryIDs   []int64
	IngredientIDs []int64
}

// ListQuery describes one page of a sweet listing. Page is 1-based; values
// below 1 are treated as 1.
type ListQuery struct {
	Page          int
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
}

// Service implements catalog operations on top of the repositories.
// Mutations on sweets are restricted to their owner.
type Service struct {
	sweets      SweetRepository
	categories  CategoryRepository
	ingredients IngredientRepository
	logger      *slog.Logger
}

// NewService creates a catalog service.
func NewService(sweets SweetRepository, categories CategoryRepository, ingredients IngredientRepository) (*Service, error) {
	return NewServiceWithLogger(sweets, categories, ingredients, slog.Default())
}

// NewServiceWithLogger creates a catalog service with an explicit logger.
func NewServiceWithLogger(sweets SweetRepository, categories CategoryRepository, ingredients IngredientRepository, logger *slog.Logger) (*Service, error) {
	if sweets == nil {
		return nil, oops.Code("CATALOG_INIT_FAILED").Errorf("sweet repository is required")
	}
	if categories == nil {
		return nil, oops.Code("CATALOG_INIT_FAILED").Errorf("category repository is required")
	}
	if ingredients == nil {
		return nil, oops.Code("CATALOG_INIT_FAILED").Errorf("ingredient repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sweets: sweets, categories: categories, ingredients: ingredients, logger: logger}, nil
}

func validateSweetInput(input SweetInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return oops.Code("CATALOG_INVALID_SWEET").Errorf("title is required")
	}
	if input.PriceCents < 0 {
		return oops.Code("CATALOG_INVALID_SWEET").Wrap(ErrInvalidPrice)
	}
	return nil
}

// CreateSweet adds a sweet owned by ownerID and tags it with the given
// categories and ingredients.
func (s *Service) CreateSweet(ctx context.Context, ownerID int64, input SweetInput) (*Sweet, error) {
	if err := validateSweetInput(input); err != nil {
		SweetWrites.WithLabelValues("create", StatusError).Inc()
		return nil, err
	}

	sweet := &Sweet{
		Title:       input.Title,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		InStock:     input.InStock,
		OwnerID:     ownerID,
	}
	if err := s.sweets.Insert(ctx, sweet); err != nil {
		SweetWrites.WithLabelValues("create", StatusError).Inc()
		return nil, oops.Code("CATALOG_CREATE_FAILED").With("owner_id", ownerID).Wrap(err)
	}

	if err := s.tagSweet(ctx, sweet.ID, input); err != nil {
		SweetWrites.WithLabelValues("create", StatusError).Inc()
		return nil, err
	}

	created, err := s.sweets.FindByID(ctx, sweet.ID)
	if err != nil {
		SweetWrites.WithLabelValues("create", StatusError).Inc()
		return nil, oops.Code("CATALOG_CREATE_FAILED").With("sweet_id", sweet.ID).Wrap(err)
	}

	SweetWrites.WithLabelValues("create", StatusSuccess).Inc()
	s.logger.Info("sweet created", "sweet_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// UpdateSweet replaces the fields and tags of a sweet. Only the owner may
// update it.
func (s *Service) UpdateSweet(ctx context.Context, callerID, sweetID int64, input SweetInput) (*Sweet, error) {
	if err := validateSweetInput(input); err != nil {
		SweetWrites.WithLabelValues("update", StatusError).Inc()
		return nil, err
	}

	sweet, err := s.loadOwned(ctx, callerID, sweetID, "update")
	if err != nil {
		return nil, err
	}

	sweet.Title = input.Title
	sweet.Description = input.Description
	sweet.PriceCents = input.PriceCents
	sweet.InStock = input.InStock
	if err := s.sweets.Update(ctx, sweet); err != nil {
		SweetWrites.WithLabelValues("update", StatusError).Inc()
		return nil, oops.Code("CATALOG_UPDATE_FAILED").With("sweet_id", sweetID).Wrap(err)
	}

	if err := s.tagSweet(ctx, sweetID, input); err != nil {
		SweetWrites.WithLabelValues("update", StatusError).Inc()
		return nil, err
	}

	updated, err := s.sweets.FindByID(ctx, sweetID)
	if err != nil {
		SweetWrites.WithLabelValues("update", StatusError).Inc()
		return nil, oops.Code("CATALOG_UPDATE_FAILED").With("sweet_id", sweetID).Wrap(err)
	}

	SweetWrites.WithLabelValues("update", StatusSuccess).Inc()
	s.logger.Info("sweet updated", "sweet_id", sweetID, "owner_id", callerID)
	return updated, nil
}

// DeleteSweet removes a sweet. Only the owner may delete it.
func (s *Service) DeleteSweet(ctx context.Context, callerID, sweetID int64) error {
	if _, err := s.loadOwned(ctx, callerID, sweetID, "delete"); err != nil {
		return err
	}

	if err := s.sweets.Delete(ctx, sweetID); err != nil {
		SweetWrites.WithLabelValues("delete", StatusError).Inc()
		return oops.Code("CATALOG_DELETE_FAILED").With("sweet_id", sweetID).Wrap(err)
	}

	SweetWrites.WithLabelValues("delete", StatusSuccess).Inc()
	s.logger.Info("sweet deleted", "sweet_id", sweetID, "owner_id", callerID)
	return nil
}

// GetSweet returns one sweet with its tags.
func (s *Service) GetSweet(ctx context.Context, id int64) (*Sweet, error) {
	sweet, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CATALOG_NOT_FOUND").With("sweet_id", id).Wrap(ErrNotFound)
		}
		return nil, oops.Code("CATALOG_GET_FAILED").With("sweet_id", id).Wrap(err)
	}
	return sweet, nil
}

// ListSweets returns one page of sweets matching the query, newest first,
// along with the total match count.
func (s *Service) ListSweets(ctx context.Context, query ListQuery) (*Page, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := Filter{
		Search:        query.Search,
		MinPriceCents: query.MinPriceCents,
		MaxPriceCents: query.MaxPriceCents,
		Limit:         DefaultPageSize,
		Offset:        (page - 1) * DefaultPageSize,
	}

	total, err := s.sweets.Count(ctx, filter)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "count sweets").Wrap(err)
	}
	items, err := s.sweets.List(ctx, filter)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "list sweets").Wrap(err)
	}

	Listings.Inc()
	return &Page{Items: items, Total: total, Page: page, PageSize: DefaultPageSize}, nil
}

// CreateCategory adds a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("CATALOG_INVALID_CATEGORY").Errorf("name is required")
	}
	category := &Category{Name: name}
	if err := s.categories.Insert(ctx, category); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, oops.Code("CATALOG_DUPLICATE_NAME").With("name", name).Wrap(ErrDuplicateName)
		}
		return nil, oops.Code("CATALOG_CREATE_FAILED").With("name", name).Wrap(err)
	}
	s.logger.Info("category created", "category_id", category.ID, "name", name)
	return category, nil
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CATALOG_NOT_FOUND").With("category_id", id).Wrap(ErrNotFound)
		}
		return nil, oops.Code("CATALOG_GET_FAILED").With("category_id", id).Wrap(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "list categories").Wrap(err)
	}
	return categories, nil
}

// CreateIngredient adds an ingredient with a unique name.
func (s *Service) CreateIngredient(ctx context.Context, name string) (*Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("CATALOG_INVALID_INGREDIENT").Errorf("name is required")
	}
	ingredient := &Ingredient{Name: name}
	if err := s.ingredients.Insert(ctx, ingredient); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, oops.Code("CATALOG_DUPLICATE_NAME").With("name", name).Wrap(ErrDuplicateName)
		}
		return nil, oops.Code("CATALOG_CREATE_FAILED").With("name", name).Wrap(err)
	}
	s.logger.Info("ingredient created", "ingredient_id", ingredient.ID, "name", name)
	return ingredient, nil
}

// GetIngredient returns one ingredient.
func (s *Service) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	ingredient, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CATALOG_NOT_FOUND").With("ingredient_id", id).Wrap(ErrNotFound)
		}
		return nil, oops.Code("CATALOG_GET_FAILED").With("ingredient_id", id).Wrap(err)
	}
	return ingredient, nil
}

// ListIngredients returns all ingredients.
func (s *Service) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "list ingredients").Wrap(err)
	}
	return ingredients, nil
}

// loadOwned fetches a sweet and verifies callerID owns it.
func (s *Service) loadOwned(ctx context.Context, callerID, sweetID int64, operation string) (*Sweet, error) {
	sweet, err := s.sweets.FindByID(ctx, sweetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			SweetWrites.WithLabelValues(operation, StatusNotFound).Inc()
			return nil, oops.Code("CATALOG_NOT_FOUND").With("sweet_id", sweetID).Wrap(ErrNotFound)
		}
		SweetWrites.WithLabelValues(operation, StatusError).Inc()
		return nil, oops.Code("CATALOG_GET_FAILED").With("sweet_id", sweetID).Wrap(err)
	}
	if sweet.OwnerID != callerID {
		SweetWrites.WithLabelValues(operation, StatusDenied).Inc()
		return nil, oops.Code("CATALOG_NOT_OWNER").
			With("sweet_id", sweetID).
			With("owner_id", sweet.OwnerID).
			With("caller_id", callerID).
			Wrap(ErrNotOwner)
	}
	return sweet, nil
}

// tagSweet replaces the category and ingredient tags on a sweet.
func (s *Service) tagSweet(ctx context.Context, sweetID int64, input SweetInput) error {
	if err := s.sweets.SetCategories(ctx, sweetID, input.CategoryIDs); err != nil {
		return oops.Code("CATALOG_TAG_FAILED").With("sweet_id", sweetID).With("operation", "set categories").Wrap(err)
	}
	if err := s.sweets.SetIngredients(ctx, sweetID, input.IngredientIDs); err != nil {
		return oops.Code("CATALOG_TAG_FAILED").With("sweet_id", sweetID).With("operation", "set ingredients").Wrap(err)
	}
	return nil
}
