package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/model"
)

// ReportService aggregates transactions into summary, category, and
// monthly views.
type ReportService struct {
	transactions *TransactionService
}

// NewReportService creates a report service.
func NewReportService(transactions *TransactionService) *ReportService {
	return &ReportService{transactions: transactions}
}

// SummaryReport holds overall totals for a period.
type SummaryReport struct {
	From           time.Time
	To             time.Time
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	NetBalance     decimal.Decimal
	AverageIncome  decimal.Decimal
	AverageExpense decimal.Decimal
	IncomeCount    int
	ExpenseCount   int
	TotalCount     int
}

// Summary computes income/expense totals over the given period. Zero
// From/To mean an unbounded range.
func (s *ReportService) Summary(ctx context.Context, from, to time.Time) (*SummaryReport, error) {
	txns, err := s.transactions.List(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	report := &SummaryReport{
		From:          from,
		To:            to,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalCount:    len(txns),
	}

	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			report.TotalIncome = report.TotalIncome.Add(txn.Amount)
			report.IncomeCount++
		case model.TypeExpense:
			report.TotalExpenses = report.TotalExpenses.Add(txn.Amount)
			report.ExpenseCount++
		}
	}

	report.NetBalance = report.TotalIncome.Sub(report.TotalExpenses)
	if report.IncomeCount > 0 {
		report.AverageIncome = report.TotalIncome.Div(decimal.NewFromInt(int64(report.IncomeCount))).Round(2)
	}
	if report.ExpenseCount > 0 {
		report.AverageExpense = report.TotalExpenses.Div(decimal.NewFromInt(int64(report.ExpenseCount))).Round(2)
	}

	return report, nil
}

// CategoryBreakdown holds per-category totals for one transaction type.
type CategoryBreakdown struct {
	Category   string
	Total      decimal.Decimal
	Average    decimal.Decimal
	Percentage decimal.Decimal
	Count      int
}

// ByCategory aggregates transactions of one type per category, sorted by
// total descending. Percentages are of the type's grand total.
func (s *ReportService) ByCategory(ctx context.Context, txType model.TransactionType) ([]CategoryBreakdown, error) {
	txns, err := s.transactions.List(ctx, ListFilter{Type: txType})
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategoryBreakdown)
	grand := decimal.Zero
	for _, txn := range txns {
		entry, ok := totals[txn.Category]
		if !ok {
			entry = &CategoryBreakdown{Category: txn.Category, Total: decimal.Zero}
			totals[txn.Category] = entry
		}
		entry.Total = entry.Total.Add(txn.Amount)
		entry.Count++
		grand = grand.Add(txn.Amount)
	}

	breakdown := make([]CategoryBreakdown, 0, len(totals))
	hundred := decimal.NewFromInt(100)
	for _, entry := range totals {
		if grand.IsPositive() {
			entry.Percentage = entry.Total.Div(grand).Mul(hundred).Round(1)
		}
		entry.Average = entry.Total.Div(decimal.NewFromInt(int64(entry.Count))).Round(2)
		breakdown = append(breakdown, *entry)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Total.GreaterThan(breakdown[j].Total)
	})
	return breakdown, nil
}

// MonthlyRow holds one month's totals in a yearly report.
type MonthlyRow struct {
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
	Count    int
}

// Monthly returns per-month totals for a calendar year.
func (s *ReportService) Monthly(ctx context.Context, year int) ([]MonthlyRow, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.Local)

	txns, err := s.transactions.List(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyRow, 12)
	for i := range rows {
		rows[i] = MonthlyRow{
			Month:    time.Month(i + 1),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}

	for _, txn := range txns {
		row := &rows[int(txn.Date.Month())-1]
		switch txn.Type {
		case model.TypeIncome:
			row.Income = row.Income.Add(txn.Amount)
		case model.TypeExpense:
			row.Expenses = row.Expenses.Add(txn.Amount)
		}
		row.Count++
	}

	for i := range rows {
		rows[i].Net = rows[i].Income.Sub(rows[i].Expenses)
	}
	return rows, nil
}
