package storage

import (
	"fmt"
	"strings"

	"tally/internal/common"
	"tally/internal/model"
)

// ViolationKind classifies an integrity violation.
type ViolationKind string

// Violation kinds reported by CheckIntegrity.
const (
	ViolationDuplicateID       ViolationKind = "duplicate_id"
	ViolationDuplicateCategory ViolationKind = "duplicate_category"
	ViolationOrphanedCategory  ViolationKind = "orphaned_category"
	ViolationMissingField      ViolationKind = "missing_field"
	ViolationMalformedEnum     ViolationKind = "malformed_enum"
	ViolationBadAmount         ViolationKind = "non_positive_amount"
)

// Violation describes one detected inconsistency in a dataset.
type Violation struct {
	Kind    ViolationKind
	Entity  string
	ID      string
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Entity, v.ID, v.Message)
}

// Field constraints are a fixed table per record type rather than dynamic
// checks, so every violation maps to an explicit kind.
var transactionChecks = []struct {
	ok    func(*model.Transaction) bool
	field string
	kind  ViolationKind
	msg   string
}{
	{func(t *model.Transaction) bool { return t.ID != "" }, "id", ViolationMissingField, "missing id"},
	{func(t *model.Transaction) bool { return strings.TrimSpace(t.Description) != "" }, "description", ViolationMissingField, "missing description"},
	{func(t *model.Transaction) bool { return strings.TrimSpace(t.Category) != "" }, "category", ViolationMissingField, "missing category"},
	{func(t *model.Transaction) bool { return !t.Date.IsZero() }, "date", ViolationMissingField, "missing date"},
	{func(t *model.Transaction) bool { return t.Type.IsValid() }, "type", ViolationMalformedEnum, "type must be INCOME or EXPENSE"},
	{func(t *model.Transaction) bool { return t.Amount.IsPositive() }, "amount", ViolationBadAmount, "amount must be greater than zero"},
}

var categoryChecks = []struct {
	ok    func(*model.Category) bool
	field string
	kind  ViolationKind
	msg   string
}{
	{func(c *model.Category) bool { return strings.TrimSpace(c.Name) != "" }, "name", ViolationMissingField, "missing name"},
	{func(c *model.Category) bool { return c.Type.IsValid() }, "type", ViolationMalformedEnum, "type must be INCOME or EXPENSE"},
}

// CheckIntegrity validates referential and structural consistency of a
// dataset. It returns all violations found, never an error, and does not
// mutate the dataset.
func CheckIntegrity(ds *model.Dataset) []Violation {
	if ds == nil {
		return []Violation{{
			Kind:    ViolationMissingField,
			Entity:  "dataset",
			Message: "dataset is nil",
		}}
	}

	var violations []Violation

	categoryNames := make(map[string]bool, len(ds.Categories))
	for i := range ds.Categories {
		cat := &ds.Categories[i]

		for _, check := range categoryChecks {
			if !check.ok(cat) {
				violations = append(violations, Violation{
					Kind:    check.kind,
					Entity:  "category",
					ID:      cat.Name,
					Field:   check.field,
					Message: check.msg,
				})
			}
		}

		key := string(cat.Type) + "/" + cat.Name
		if categoryNames[key] {
			violations = append(violations, Violation{
				Kind:    ViolationDuplicateCategory,
				Entity:  "category",
				ID:      cat.Name,
				Field:   "name",
				Message: fmt.Sprintf("duplicate category name %q for type %s", cat.Name, cat.Type),
			})
		}
		categoryNames[key] = true
	}

	seenIDs := make(map[string]bool, len(ds.Transactions))
	for i := range ds.Transactions {
		txn := &ds.Transactions[i]

		for _, check := range transactionChecks {
			if !check.ok(txn) {
				violations = append(violations, Violation{
					Kind:    check.kind,
					Entity:  "transaction",
					ID:      txn.ID,
					Field:   check.field,
					Message: check.msg,
				})
			}
		}

		if txn.ID != "" {
			if seenIDs[txn.ID] {
				violations = append(violations, Violation{
					Kind:    ViolationDuplicateID,
					Entity:  "transaction",
					ID:      txn.ID,
					Field:   "id",
					Message: fmt.Sprintf("duplicate transaction ID %s", txn.ID),
				})
			}
			seenIDs[txn.ID] = true
		}

		// Orphan detection only makes sense when the reference itself
		// is well-formed.
		if txn.Type.IsValid() && strings.TrimSpace(txn.Category) != "" {
			if !categoryNames[string(txn.Type)+"/"+txn.Category] {
				violations = append(violations, Violation{
					Kind:    ViolationOrphanedCategory,
					Entity:  "transaction",
					ID:      txn.ID,
					Field:   "category",
					Message: fmt.Sprintf("references nonexistent category %q of type %s", txn.Category, txn.Type),
				})
			}
		}
	}

	return violations
}

// integrityError folds a violation list into a single integrity error.
func integrityError(violations []Violation) error {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Errorf("%w: %d problem(s): %s",
		common.ErrIntegrityViolation, len(violations), strings.Join(msgs, "; "))
}
