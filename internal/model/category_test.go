package model

import (
	"errors"
	"strings"
	"testing"

	"tally/internal/common"
)

func TestCategoryValidate(t *testing.T) {
	cat := NewCategory("Groceries", CategoryTypeExpense, false)
	if err := cat.Validate(); err != nil {
		t.Errorf("expected valid category, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Category)
	}{
		{"blank name", func(c *Category) { c.Name = "  " }},
		{"name too long", func(c *Category) { c.Name = strings.Repeat("x", MaxCategoryNameLength+1) }},
		{"bad type", func(c *Category) { c.Type = "SAVINGS" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := NewCategory("Groceries", CategoryTypeExpense, false)
			tt.mutate(&cat)
			if err := cat.Validate(); !errors.Is(err, common.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCategoryTypeMatches(t *testing.T) {
	if !CategoryTypeExpense.Matches(TypeExpense) {
		t.Error("expense category should match expense transaction")
	}
	if CategoryTypeExpense.Matches(TypeIncome) {
		t.Error("expense category should not match income transaction")
	}
	if !CategoryTypeIncome.Matches(TypeIncome) {
		t.Error("income category should match income transaction")
	}
}

func TestDefaultCategories(t *testing.T) {
	defaults := DefaultCategories()
	if len(defaults) != 15 {
		t.Fatalf("expected 15 default categories, got %d", len(defaults))
	}

	expense, income := 0, 0
	for _, cat := range defaults {
		if !cat.IsDefault {
			t.Errorf("category %s should be marked default", cat.Name)
		}
		if err := cat.Validate(); err != nil {
			t.Errorf("default category %s is invalid: %v", cat.Name, err)
		}
		switch cat.Type {
		case CategoryTypeExpense:
			expense++
		case CategoryTypeIncome:
			income++
		}
	}
	if expense != 10 || income != 5 {
		t.Errorf("expected 10 expense and 5 income defaults, got %d and %d", expense, income)
	}
}
