package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	transactions := NewTransactionService(newTestStore(t))

	older := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	_, err := transactions.Create(ctx, decimal.RequireFromString("25.50"), "lunch", "Food & Dining", model.TypeExpense, older)
	require.NoError(t, err)
	income, err := transactions.Create(ctx, decimal.NewFromInt(3000), "paycheck", "Salary", model.TypeIncome, newer)
	require.NoError(t, err)

	var buf bytes.Buffer
	count, err := NewExportService(transactions).ExportCSV(ctx, &buf, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "date", "type", "category", "description", "amount"}, records[0])

	// Newest first.
	assert.Equal(t, income.ID, records[1][0])
	assert.Equal(t, "INCOME", records[1][2])
	assert.Equal(t, "3000.00", records[1][5])

	assert.Equal(t, "lunch", records[2][4])
	assert.Equal(t, "25.50", records[2][5])
	assert.Equal(t, older.Format(time.RFC3339), records[2][1])
}

func TestExportCSVFiltered(t *testing.T) {
	ctx := context.Background()
	transactions := NewTransactionService(newTestStore(t))

	_, err := transactions.Create(ctx, decimal.NewFromInt(20), "lunch", "Food & Dining", model.TypeExpense, time.Now())
	require.NoError(t, err)
	_, err = transactions.Create(ctx, decimal.NewFromInt(3000), "paycheck", "Salary", model.TypeIncome, time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	count, err := NewExportService(transactions).ExportCSV(ctx, &buf, ListFilter{Type: model.TypeExpense})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "EXPENSE", records[1][2])
}

func TestExportCSVEmpty(t *testing.T) {
	ctx := context.Background()
	transactions := NewTransactionService(newTestStore(t))

	var buf bytes.Buffer
	count, err := NewExportService(transactions).ExportCSV(ctx, &buf, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
