package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/common"
	"tally/internal/model"
)

// TransactionService handles create/update/delete and queries over
// transactions, enforcing that every transaction references an existing
// category of matching type.
type TransactionService struct {
	store Store
}

// NewTransactionService creates a transaction service.
func NewTransactionService(store Store) *TransactionService {
	return &TransactionService{store: store}
}

// ListFilter narrows a transaction listing. Zero values mean "no filter".
type ListFilter struct {
	From     time.Time
	To       time.Time
	Category string
	Type     model.TransactionType
}

// Create records a new transaction. The category must already exist with a
// type matching the transaction type.
func (s *TransactionService) Create(ctx context.Context, amount decimal.Decimal, description, category string, txType model.TransactionType, date time.Time) (*model.Transaction, error) {
	cat, err := s.store.GetCategory(ctx, category, model.CategoryType(txType))
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, common.NewUserError(
			fmt.Sprintf("category %q does not exist for type %s", category, txType),
			common.ErrIntegrityViolation)
	}

	txn := model.NewTransaction(amount, description, category, txType, date)
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Get returns a transaction by ID.
func (s *TransactionService) Get(ctx context.Context, id string) (*model.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// List returns transactions matching the filter, newest first.
func (s *TransactionService) List(ctx context.Context, filter ListFilter) ([]model.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		if filter.Category != "" && txn.Category != filter.Category {
			continue
		}
		if !filter.From.IsZero() && txn.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && txn.Date.After(filter.To) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered, nil
}

// Update replaces an existing transaction. The repository refreshes the
// updated_at timestamp and re-checks the category reference.
func (s *TransactionService) Update(ctx context.Context, txn model.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}
	return s.store.UpdateTransaction(ctx, txn)
}

// Delete removes a transaction by ID.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// Totals returns the income and expense sums over all transactions.
func (s *TransactionService) Totals(ctx context.Context) (income, expenses decimal.Decimal, err error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	income = decimal.Zero
	expenses = decimal.Zero
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			income = income.Add(txn.Amount)
		case model.TypeExpense:
			expenses = expenses.Add(txn.Amount)
		}
	}
	return income, expenses, nil
}
