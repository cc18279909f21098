package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tally/internal/common"
)

// TransactionType indicates whether a transaction is income or expense.
type TransactionType string

const (
	// TypeIncome represents money coming in.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense represents money going out.
	TypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether the type is a known enum value.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// MaxDescriptionLength bounds transaction descriptions.
const MaxDescriptionLength = 200

// Transaction represents a single recorded income or expense.
type Transaction struct {
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewTransaction builds a transaction with a generated ID and audit timestamps.
func NewTransaction(amount decimal.Decimal, description, category string, txType TransactionType, date time.Time) Transaction {
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	return Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: description,
		Category:    category,
		Type:        txType,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks field constraints and returns a validation error
// describing the first problem found.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction ID is required", common.ErrValidation)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrValidation)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", common.ErrValidation)
	}
	if len(strings.TrimSpace(t.Description)) > MaxDescriptionLength {
		return fmt.Errorf("%w: description must be %d characters or less", common.ErrValidation, MaxDescriptionLength)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", common.ErrValidation)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", common.ErrValidation)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	return nil
}
