// Package service implements business rules on top of the data store:
// transaction and category management, reporting, and export.
package service

import (
	"context"

	"tally/internal/model"
)

// Store is the persistence interface the services depend on. It is
// implemented by storage.JSONStore.
type Store interface {
	Load(ctx context.Context) (*model.Dataset, error)
	Save(ctx context.Context, ds *model.Dataset) error

	CreateTransaction(ctx context.Context, txn model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, cat model.Category) error
	GetCategory(ctx context.Context, name string, catType model.CategoryType) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, name string, catType model.CategoryType) error
}
