package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

func validDataset() *model.Dataset {
	cat := model.NewCategory("Food & Dining", model.CategoryTypeExpense, true)
	txn := model.NewTransaction(decimal.NewFromFloat(25.50), "lunch", "Food & Dining", model.TypeExpense, time.Now())
	return &model.Dataset{
		SchemaVersion: CurrentSchemaVersion,
		Transactions:  []model.Transaction{txn},
		Categories:    []model.Category{cat},
		Settings:      model.DefaultSettings(),
	}
}

func hasViolation(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestCheckIntegrityValidDataset(t *testing.T) {
	if violations := CheckIntegrity(validDataset()); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestCheckIntegrityDuplicateID(t *testing.T) {
	ds := validDataset()
	ds.Transactions = append(ds.Transactions, ds.Transactions[0])

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationDuplicateID) {
		t.Fatalf("expected duplicate_id violation, got %v", violations)
	}
}

func TestCheckIntegrityOrphanedCategory(t *testing.T) {
	ds := validDataset()
	ds.Transactions[0].Category = "Nonexistent"

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationOrphanedCategory) {
		t.Fatalf("expected orphaned_category violation, got %v", violations)
	}
}

func TestCheckIntegrityTypeMismatchIsOrphaned(t *testing.T) {
	ds := validDataset()
	ds.Categories = append(ds.Categories, model.NewCategory("Salary", model.CategoryTypeIncome, true))
	ds.Transactions[0].Category = "Salary" // expense transaction, income category

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationOrphanedCategory) {
		t.Fatalf("expected orphaned_category violation, got %v", violations)
	}
}

func TestCheckIntegrityMissingFields(t *testing.T) {
	ds := validDataset()
	ds.Transactions[0].ID = ""
	ds.Transactions[0].Description = ""
	ds.Transactions[0].Date = time.Time{}

	violations := CheckIntegrity(ds)
	count := 0
	for _, v := range violations {
		if v.Kind == ViolationMissingField {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 missing_field violations, got %d: %v", count, violations)
	}
}

func TestCheckIntegrityMalformedEnum(t *testing.T) {
	ds := validDataset()
	ds.Transactions[0].Type = "TRANSFER"

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationMalformedEnum) {
		t.Fatalf("expected malformed_enum violation, got %v", violations)
	}
}

func TestCheckIntegrityNonPositiveAmount(t *testing.T) {
	ds := validDataset()
	ds.Transactions[0].Amount = decimal.NewFromFloat(-5.00)

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationBadAmount) {
		t.Fatalf("expected non_positive_amount violation, got %v", violations)
	}

	ds.Transactions[0].Amount = decimal.Zero
	violations = CheckIntegrity(ds)
	if !hasViolation(violations, ViolationBadAmount) {
		t.Fatalf("expected non_positive_amount violation for zero, got %v", violations)
	}
}

func TestCheckIntegrityDuplicateCategory(t *testing.T) {
	ds := validDataset()
	ds.Categories = append(ds.Categories, ds.Categories[0])

	violations := CheckIntegrity(ds)
	if !hasViolation(violations, ViolationDuplicateCategory) {
		t.Fatalf("expected duplicate_category violation, got %v", violations)
	}
}

func TestCheckIntegrityNilDataset(t *testing.T) {
	violations := CheckIntegrity(nil)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation for nil dataset, got %d", len(violations))
	}
}

func TestCheckIntegrityDoesNotMutate(t *testing.T) {
	ds := validDataset()
	before := len(ds.Transactions)
	_ = CheckIntegrity(ds)
	if len(ds.Transactions) != before {
		t.Error("CheckIntegrity mutated the dataset")
	}
}
