package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"tally/internal/config"
	"tally/internal/model"
	"tally/internal/storage"
)

// initStore creates the JSON store at the configured data path.
func initStore() (*storage.JSONStore, error) {
	dataPath := viper.GetString("data.path")
	if dataPath == "" {
		dataPath = "$HOME/.local/share/tally/tally.json"
	}
	dataPath = config.ExpandPath(dataPath)

	return storage.NewJSONStore(dataPath)
}

// parseTransactionType accepts income/expense in any case.
func parseTransactionType(s string) (model.TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(model.TypeIncome):
		return model.TypeIncome, nil
	case string(model.TypeExpense):
		return model.TypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q: must be income or expense", s)
	}
}

// parseAmount parses a positive decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero, got %s", amount)
	}
	return amount, nil
}

// parseDate accepts YYYY-MM-DD dates; empty means now.
func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return date, nil
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// formatAmount renders a decimal with the dataset currency. Currencies
// without a known symbol fall back to the code with a space.
func formatAmount(amount decimal.Decimal, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%s", symbol, amount.StringFixed(2))
	}
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
