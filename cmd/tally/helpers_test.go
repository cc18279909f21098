package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    model.TransactionType
		wantErr bool
	}{
		{"income", model.TypeIncome, false},
		{"INCOME", model.TypeIncome, false},
		{"  Expense ", model.TypeExpense, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parseTransactionType(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount(" 25.50 ")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("25.50")))

	_, err = parseAmount("0")
	assert.Error(t, err)
	_, err = parseAmount("-5")
	assert.Error(t, err)
	_, err = parseAmount("abc")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), date)

	now, err := parseDate("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Second)

	_, err = parseDate("15/01/2026")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$25.50", formatAmount(decimal.RequireFromString("25.5"), "USD"))
	assert.Equal(t, "€100.00", formatAmount(decimal.NewFromInt(100), "EUR"))
	// Currencies without a symbol keep the code, separated.
	assert.Equal(t, "CHF 12.00", formatAmount(decimal.NewFromInt(12), "CHF"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.0 KB", formatFileSize(1024))
	assert.Equal(t, "1.5 MB", formatFileSize(1536*1024))
}
