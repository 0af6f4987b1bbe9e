// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

// Package mocks provides testify mocks for catalog repositories.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/candystore/candystore/internal/catalog"
)

// MockSweetRepository is a mock implementation of catalog.SweetRepository.
type MockSweetRepository struct {
	mock.Mock
}

// NewMockSweetRepository creates a mock tied to the test lifecycle.
func NewMockSweetRepository(t *testing.T) *MockSweetRepository {
	m := &MockSweetRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSweetRepository) Insert(ctx context.Context, sweet *catalog.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) Update(ctx context.Context, sweet *catalog.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSweetRepository) FindByID(ctx context.Context, id int64) (*catalog.Sweet, error) {
	args := m.Called(ctx, id)
	if sweet, ok := args.Get(0).(*catalog.Sweet); ok {
		return sweet, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSweetRepository) List(ctx context.Context, filter catalog.Filter) ([]catalog.Sweet, error) {
	args := m.Called(ctx, filter)
	if sweets, ok := args.Get(0).([]catalog.Sweet); ok {
		return sweets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSweetRepository) Count(ctx context.Context, filter catalog.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSweetRepository) SetCategories(ctx context.Context, sweetID int64, categoryIDs []int64) error {
	args := m.Called(ctx, sweetID, categoryIDs)
	return args.Error(0)
}

func (m *MockSweetRepository) SetIngredients(ctx context.Context, sweetID int64, ingredientIDs []int64) error {
	args := m.Called(ctx, sweetID, ingredientIDs)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

// NewMockCategoryRepository creates a mock tied to the test lifecycle.
func NewMockCategoryRepository(t *testing.T) *MockCategoryRepository {
	m := &MockCategoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCategoryRepository) Insert(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if category, ok := args.Get(0).(*catalog.Category); ok {
		return category, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if categories, ok := args.Get(0).([]catalog.Category); ok {
		return categories, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIngredientRepository is a mock implementation of catalog.IngredientRepository.
type MockIngredientRepository struct {
	mock.Mock
}

// NewMockIngredientRepository creates a mock tied to the test lifecycle.
func NewMockIngredientRepository(t *testing.T) *MockIngredientRepository {
	m := &MockIngredientRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIngredientRepository) Insert(ctx context.Context, ingredient *catalog.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) FindByID(ctx context.Context, id int64) (*catalog.Ingredient, error) {
	args := m.Called(ctx, id)
	if ingredient, ok := args.Get(0).(*catalog.Ingredient); ok {
		return ingredient, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIngredientRepository) List(ctx context.Context) ([]catalog.Ingredient, error) {
	args := m.Called(ctx)
	if ingredients, ok := args.Get(0).([]catalog.Ingredient); ok {
		return ingredients, args.Error(1)
	}
	return nil, args.Error(1)
}
