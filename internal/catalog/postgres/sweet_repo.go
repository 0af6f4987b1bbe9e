// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/candystore/candystore/internal/catalog"
)

// SweetRepository implements catalog.SweetRepository using PostgreSQL.
type SweetRepository struct {
	pool poolIface
}

// NewSweetRepository creates a new SweetRepository.
func NewSweetRepository(pool poolIface) *SweetRepository {
	return &SweetRepository{pool: pool}
}

// Insert persists a sweet and assigns its generated id and timestamps.
func (r *SweetRepository) Insert(ctx context.Context, sweet *catalog.Sweet) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sweets (title, description, price_cents, in_stock, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		sweet.Title, sweet.Description, sweet.PriceCents, sweet.InStock, sweet.OwnerID,
	).Scan(&sweet.ID, &sweet.CreatedAt, &sweet.UpdatedAt)
	if err != nil {
		return oops.Code("SWEET_INSERT_FAILED").
			With("operation", "insert sweet").
			With("owner_id", sweet.OwnerID).
			Wrap(err)
	}
	return nil
}

// Update rewrites the mutable fields of a sweet.
func (r *SweetRepository) Update(ctx context.Context, sweet *catalog.Sweet) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE sweets
		 SET title = $1, description = $2, price_cents = $3, in_stock = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING updated_at`,
		sweet.Title, sweet.Description, sweet.PriceCents, sweet.InStock, sweet.ID,
	).Scan(&sweet.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("SWEET_NOT_FOUND").With("sweet_id", sweet.ID).Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return oops.Code("SWEET_UPDATE_FAILED").
			With("operation", "update sweet").
			With("sweet_id", sweet.ID).
			Wrap(err)
	}
	return nil
}

// Delete removes a sweet. Join rows cascade at the schema level.
func (r *SweetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return oops.Code("SWEET_DELETE_FAILED").
			With("operation", "delete sweet").
			With("sweet_id", id).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("SWEET_NOT_FOUND").With("sweet_id", id).Wrap(catalog.ErrNotFound)
	}
	return nil
}

// FindByID returns a sweet with its category and ingredient tags.
func (r *SweetRepository) FindByID(ctx context.Context, id int64) (*catalog.Sweet, error) {
	var sweet catalog.Sweet
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, price_cents, in_stock, owner_id, created_at, updated_at
		 FROM sweets
		 WHERE id = $1`,
		id,
	).Scan(&sweet.ID, &sweet.Title, &sweet.Description, &sweet.PriceCents,
		&sweet.InStock, &sweet.OwnerID, &sweet.CreatedAt, &sweet.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SWEET_NOT_FOUND").With("sweet_id", id).Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SWEET_QUERY_FAILED").
			With("operation", "get sweet by id").
			With("sweet_id", id).
			Wrap(err)
	}

	sweets := []catalog.Sweet{sweet}
	if err := r.loadTags(ctx, sweets); err != nil {
		return nil, err
	}
	return &sweets[0], nil
}

// filterClauses builds the WHERE conditions and arguments for a filter.
func filterClauses(filter catalog.Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		// The search term is not escaped: % and _ act as ILIKE wildcards.
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.MinPriceCents != nil {
		args = append(args, *filter.MinPriceCents)
		conditions = append(conditions, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if filter.MaxPriceCents != nil {
		// Upper bound is exclusive.
		args = append(args, *filter.MaxPriceCents)
		conditions = append(conditions, fmt.Sprintf("price_cents < $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns sweets matching the filter, newest first, with tags loaded.
func (r *SweetRepository) List(ctx context.Context, filter catalog.Filter) ([]catalog.Sweet, error) {
	where, args := filterClauses(filter)

	query := `SELECT id, title, description, price_cents, in_stock, owner_id, created_at, updated_at
		 FROM sweets` + where + " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("SWEET_QUERY_FAILED").With("operation", "list sweets").Wrap(err)
	}
	defer rows.Close()

	var sweets []catalog.Sweet
	for rows.Next() {
		var sweet catalog.Sweet
		if err := rows.Scan(&sweet.ID, &sweet.Title, &sweet.Description, &sweet.PriceCents,
			&sweet.InStock, &sweet.OwnerID, &sweet.CreatedAt, &sweet.UpdatedAt); err != nil {
			return nil, oops.Code("SWEET_QUERY_FAILED").With("operation", "scan sweet row").Wrap(err)
		}
		sweets = append(sweets, sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SWEET_QUERY_FAILED").With("operation", "iterate sweets").Wrap(err)
	}

	if err := r.loadTags(ctx, sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// Count returns the number of sweets matching the filter, ignoring paging.
func (r *SweetRepository) Count(ctx context.Context, filter catalog.Filter) (int64, error) {
	where, args := filterClauses(filter)

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sweets`+where, args...).Scan(&count)
	if err != nil {
		return 0, oops.Code("SWEET_QUERY_FAILED").With("operation", "count sweets").Wrap(err)
	}
	return count, nil
}

// SetCategories replaces the category tags on a sweet.
func (r *SweetRepository) SetCategories(ctx context.Context, sweetID int64, categoryIDs []int64) error {
	return r.replaceTags(ctx, sweetID, categoryIDs, "sweet_categories", "category_id")
}

// SetIngredients replaces the ingredient tags on a sweet.
func (r *SweetRepository) SetIngredients(ctx context.Context, sweetID int64, ingredientIDs []int64) error {
	return r.replaceTags(ctx, sweetID, ingredientIDs, "sweet_ingredients", "ingredient_id")
}

func (r *SweetRepository) replaceTags(ctx context.Context, sweetID int64, ids []int64, table, column string) error {
	//nolint:gosec // table and column are compile-time constants, not user input
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE sweet_id = $1", table)
	if _, err := r.pool.Exec(ctx, deleteQuery, sweetID); err != nil {
		return oops.Code("SWEET_TAG_FAILED").
			With("operation", "clear tags").
			With("sweet_id", sweetID).
			Wrap(err)
	}

	//nolint:gosec // table and column are compile-time constants, not user input
	insertQuery := fmt.Sprintf("INSERT INTO %s (sweet_id, %s) VALUES ($1, $2)", table, column)
	for _, id := range ids {
		if _, err := r.pool.Exec(ctx, insertQuery, sweetID, id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return oops.Code("SWEET_TAG_UNKNOWN").
					With("sweet_id", sweetID).
					With("tag_id", id).
					Wrap(catalog.ErrNotFound)
			}
			return oops.Code("SWEET_TAG_FAILED").
				With("operation", "insert tag").
				With("sweet_id", sweetID).
				Wrap(err)
		}
	}
	return nil
}

// loadTags fills Categories and Ingredients for the given sweets in place.
func (r *SweetRepository) loadTags(ctx context.Context, sweets []catalog.Sweet) error {
	if len(sweets) == 0 {
		return nil
	}

	ids := make([]int64, len(sweets))
	index := make(map[int64]*catalog.Sweet, len(sweets))
	for i := range sweets {
		ids[i] = sweets[i].ID
		index[sweets[i].ID] = &sweets[i]
	}

	rows, err := r.pool.Query(ctx,
		`SELECT sc.sweet_id, c.id, c.name
		 FROM sweet_categories sc
		 JOIN categories c ON c.id = sc.category_id
		 WHERE sc.sweet_id = ANY($1)
		 ORDER BY c.name`,
		ids)
	if err != nil {
		return oops.Code("SWEET_QUERY_FAILED").With("operation", "load categories").Wrap(err)
	}
	defer rows.Close()
	for rows.Next() {
		var sweetID int64
		var category catalog.Category
		if err := rows.Scan(&sweetID, &category.ID, &category.Name); err != nil {
			return oops.Code("SWEET_QUERY_FAILED").With("operation", "scan category row").Wrap(err)
		}
		index[sweetID].Categories = append(index[sweetID].Categories, category)
	}
	if err := rows.Err(); err != nil {
		return oops.Code("SWEET_QUERY_FAILED").With("operation", "iterate categories").Wrap(err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT si.sweet_id, i.id, i.name
		 FROM sweet_ingredients si
		 JOIN ingredients i ON i.id = si.ingredient_id
		 WHERE si.sweet_id = ANY($1)
		 ORDER BY i.name`,
		ids)
	if err != nil {
		return oops.Code("SWEET_QUERY_FAILED").With("operation", "load ingredients").Wrap(err)
	}
	defer rows.Close()
	for rows.Next() {
		var sweetID int64
		var ingredient catalog.Ingredient
		if err := rows.Scan(&sweetID, &ingredient.ID, &ingredient.Name); err != nil {
			return oops.Code("SWEET_QUERY_FAILED").With("operation", "scan ingredient row").Wrap(err)
		}
		index[sweetID].Ingredients = append(index[sweetID].Ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return oops.Code("SWEET_QUERY_FAILED").With("operation", "iterate ingredients").Wrap(err)
	}
	return nil
}
