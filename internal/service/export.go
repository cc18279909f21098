package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ExportService writes transaction data in exchange formats.
type ExportService struct {
	transactions *TransactionService
}

// NewExportService creates an export service.
func NewExportService(transactions *TransactionService) *ExportService {
	return &ExportService{transactions: transactions}
}

var csvHeader = []string{"id", "date", "type", "category", "description", "amount"}

// ExportCSV writes transactions matching the filter as CSV, newest first,
// and returns the number of records written.
func (s *ExportService) ExportCSV(ctx context.Context, w io.Writer, filter ListFilter) (int, error) {
	txns, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, txn := range txns {
		record := []string{
			txn.ID,
			txn.Date.Format(time.RFC3339),
			string(txn.Type),
			txn.Category,
			txn.Description,
			txn.Amount.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return i, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(txns), fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return len(txns), nil
}
