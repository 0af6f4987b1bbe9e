// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package catalog

import (
	"context"
	"time"
)

// DefaultPageSize is the number of sweets per listing page.
const DefaultPageSize = 10

// Sweet is a catalog entry owned by the user who created it.
type Sweet struct {
	ID          int64
	Title       string
	Description string
	PriceCents  int64
	InStock     bool
	OwnerID     int64
	Categories  []Category
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is a named grouping sweets can be tagged with.
type Category struct {
	ID   int64
	Name string
}

// Ingredient is a named component sweets can be tagged with.
type Ingredient struct {
	ID   int64
	Name string
}

// Filter narrows a sweet listing. Zero values mean "no constraint".
// MaxPriceCents is exclusive: a filter of [100, 200) matches 100 but
// not 200.
type Filter struct {
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	Limit         int
	Offset        int
}

// Page is one page of a sweet listing.
type Page struct {
	Items    []Sweet
	Total    int64
	Page     int
	PageSize int
}

// SweetRepository persists sweets and their category/ingredient tags.
type SweetRepository interface {
	Insert(ctx context.Context, sweet *Sweet) error
	Update(ctx context.Context, sweet *Sweet) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Sweet, error)
	List(ctx context.Context, filter Filter) ([]Sweet, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	SetCategories(ctx context.Context, sweetID int64, categoryIDs []int64) error
	SetIngredients(ctx context.Context, sweetID int64, ingredientIDs []int64) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Insert(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}

// IngredientRepository persists ingredients.
type IngredientRepository interface {
	Insert(ctx context.Context, ingredient *Ingredient) error
	FindByID(ctx context.Context, id int64) (*Ingredient, error)
	List(ctx context.Context) ([]Ingredient, error)
}
