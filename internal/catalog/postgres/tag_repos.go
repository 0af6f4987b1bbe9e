// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/candystore/candystore/internal/catalog"
)

// CategoryRepository implements catalog.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool poolIface
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool poolIface) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Insert persists a category. The unique constraint on name is
// authoritative for duplicates.
func (r *CategoryRepository) Insert(ctx context.Context, category *catalog.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`,
		category.Name,
	).Scan(&category.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CATALOG_DUPLICATE_NAME").
				With("name", category.Name).
				Wrap(catalog.ErrDuplicateName)
		}
		return oops.Code("CATEGORY_INSERT_FAILED").
			With("operation", "insert category").
			With("name", category.Name).
			Wrap(err)
	}
	return nil
}

// FindByID returns one category.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var category catalog.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&category.ID, &category.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATEGORY_NOT_FOUND").With("id", id).Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATEGORY_QUERY_FAILED").
			With("operation", "get category by id").
			With("id", id).
			Wrap(err)
	}
	return &category, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, oops.Code("CATEGORY_QUERY_FAILED").With("operation", "list categories").Wrap(err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var category catalog.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, oops.Code("CATEGORY_QUERY_FAILED").With("operation", "scan category row").Wrap(err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATEGORY_QUERY_FAILED").With("operation", "iterate categories").Wrap(err)
	}
	return categories, nil
}

// IngredientRepository implements catalog.IngredientRepository using PostgreSQL.
type IngredientRepository struct {
	pool poolIface
}

// NewIngredientRepository creates a new IngredientRepository.
func NewIngredientRepository(pool poolIface) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// Insert persists an ingredient. The unique constraint on name is
// authoritative for duplicates.
func (r *IngredientRepository) Insert(ctx context.Context, ingredient *catalog.Ingredient) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ingredients (name) VALUES ($1) RETURNING id`,
		ingredient.Name,
	).Scan(&ingredient.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CATALOG_DUPLICATE_NAME").
				With("name", ingredient.Name).
				Wrap(catalog.ErrDuplicateName)
		}
		return oops.Code("INGREDIENT_INSERT_FAILED").
			With("operation", "insert ingredient").
			With("name", ingredient.Name).
			Wrap(err)
	}
	return nil
}

// FindByID returns one ingredient.
func (r *IngredientRepository) FindByID(ctx context.Context, id int64) (*catalog.Ingredient, error) {
	var ingredient catalog.Ingredient
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM ingredients WHERE id = $1`, id,
	).Scan(&ingredient.ID, &ingredient.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("INGREDIENT_NOT_FOUND").With("id", id).Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("INGREDIENT_QUERY_FAILED").
			With("operation", "get ingredient by id").
			With("id", id).
			Wrap(err)
	}
	return &ingredient, nil
}

// List returns all ingredients ordered by name.
func (r *IngredientRepository) List(ctx context.Context) ([]catalog.Ingredient, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, oops.Code("INGREDIENT_QUERY_FAILED").With("operation", "list ingredients").Wrap(err)
	}
	defer rows.Close()

	var ingredients []catalog.Ingredient
	for rows.Next() {
		var ingredient catalog.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.Name); err != nil {
			return nil, oops.Code("INGREDIENT_QUERY_FAILED").With("operation", "scan ingredient row").Wrap(err)
		}
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("INGREDIENT_QUERY_FAILED").With("operation", "iterate ingredients").Wrap(err)
	}
	return ingredients, nil
}
