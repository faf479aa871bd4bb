package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"boty-storefront/internal/model"
)

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) FindActiveAdminByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) List(ctx context.Context, q model.ProductQuery) ([]model.Product, int, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Int(1), args.Error(2)
}

func (m *mockProducts) Get(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) Update(ctx context.Context, id string, req model.UpdateProductRequest, updatedBy string) (model.Product, error) {
	args := m.Called(ctx, id, req, updatedBy)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProducts) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *mockProducts) GetActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(model.Product), args.Error(1)
}
