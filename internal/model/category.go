package model

import (
	"fmt"
	"strings"
	"time"

	"tally/internal/common"
)

// CategoryType indicates whether a category applies to income or expense transactions.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "INCOME"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid reports whether the type is a known enum value.
func (c CategoryType) IsValid() bool {
	return c == CategoryTypeIncome || c == CategoryTypeExpense
}

// Matches reports whether a transaction of the given type may use this category.
func (c CategoryType) Matches(t TransactionType) bool {
	return string(c) == string(t)
}

// MaxCategoryNameLength bounds category names.
const MaxCategoryNameLength = 50

// Category represents a named bucket for transactions. Names are unique
// within a type; default categories cannot be deleted.
type Category struct {
	CreatedAt time.Time    `json:"created_at"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	IsDefault bool         `json:"is_default"`
}

// NewCategory builds a category with its creation timestamp set.
func NewCategory(name string, catType CategoryType, isDefault bool) Category {
	return Category{
		Name:      name,
		Type:      catType,
		IsDefault: isDefault,
		CreatedAt: time.Now(),
	}
}

// Validate checks field constraints.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", common.ErrValidation)
	}
	if len(strings.TrimSpace(c.Name)) > MaxCategoryNameLength {
		return fmt.Errorf("%w: category name must be %d characters or less", common.ErrValidation, MaxCategoryNameLength)
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: category type must be INCOME or EXPENSE", common.ErrValidation)
	}
	return nil
}

// DefaultCategories returns the categories seeded into a fresh dataset.
func DefaultCategories() []Category {
	names := []struct {
		name    string
		catType CategoryType
	}{
		{"Food & Dining", CategoryTypeExpense},
		{"Transportation", CategoryTypeExpense},
		{"Shopping", CategoryTypeExpense},
		{"Entertainment", CategoryTypeExpense},
		{"Bills & Utilities", CategoryTypeExpense},
		{"Healthcare", CategoryTypeExpense},
		{"Education", CategoryTypeExpense},
		{"Travel", CategoryTypeExpense},
		{"Personal Care", CategoryTypeExpense},
		{"Other Expenses", CategoryTypeExpense},
		{"Salary", CategoryTypeIncome},
		{"Freelance", CategoryTypeIncome},
		{"Investment", CategoryTypeIncome},
		{"Gift", CategoryTypeIncome},
		{"Other Income", CategoryTypeIncome},
	}

	categories := make([]Category, 0, len(names))
	for _, n := range names {
		categories = append(categories, NewCategory(n.name, n.catType, true))
	}
	return categories
}
