package core

import (
	"math"
	"sort"
	"time"
)

type (
	// Totals is the income/expense/net summary over a transaction list.
	Totals struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	// CategoryShare is one slice of the expense breakdown. Percent is the
	// group's share of total expenses rounded to the nearest integer.
	CategoryShare struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Percent  int     `json:"percent"`
	}

	// MonthPoint is one month of the cash-flow series, keyed on the
	// transaction date (not createdAt).
	MonthPoint struct {
		Month    string  `json:"month"` // "Jan" .. "Dec"
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}
)

// Summarize derives income, expense and net totals from a transaction list.
func Summarize(transactions []Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Type {
		case Income:
			t.Income += tx.Amount
		case Expenses:
			t.Expenses += tx.Amount
		}
	}
	t.Net = t.Income - t.Expenses
	return t
}

// TopByAmount returns the n largest transactions of the given type,
// ordered by amount descending. The input slice is not modified.
func TopByAmount(transactions []Transaction, typ TransactionType, n int) []Transaction {
	filtered := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Type == typ {
			filtered = append(filtered, tx)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Amount > filtered[j].Amount
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	return filtered
}

// Recent returns the first n transactions of an already createdAt-descending
// list, as provided by the store.
func Recent(transactions []Transaction, n int) []Transaction {
	if len(transactions) > n {
		transactions = transactions[:n]
	}
	out := make([]Transaction, len(transactions))
	copy(out, transactions)
	return out
}

// CategoryBreakdown groups expenses by category and computes each group's
// share of total expenses. With no expenses every share is 0 percent.
// Groups are ordered by amount descending for stable presentation.
func CategoryBreakdown(transactions []Transaction) []CategoryShare {
	sums := make(map[string]float64)
	var total float64
	var order []string
	for _, tx := range transactions {
		if tx.Type != Expenses {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Amount
		total += tx.Amount
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		pct := 0
		if total > 0 {
			pct = int(math.Round(sums[cat] / total * 100))
		}
		shares = append(shares, CategoryShare{Category: cat, Amount: sums[cat], Percent: pct})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares
}

// TopExpenseCategory returns the largest expense group, or ok=false when
// there are no expenses at all.
func TopExpenseCategory(transactions []Transaction) (CategoryShare, bool) {
	shares := CategoryBreakdown(transactions)
	if len(shares) == 0 {
		return CategoryShare{}, false
	}
	return shares[0], true
}

// MonthlySeries groups transactions by the calendar month of their date and
// sums income and expenses per month. Months are emitted in Jan-Dec order
// regardless of input order; months with no activity in either series are
// omitted. Transactions with an unparseable date are skipped.
func MonthlySeries(transactions []Transaction) []MonthPoint {
	type sums struct{ income, expenses float64 }
	byMonth := make(map[time.Month]sums)
	for _, tx := range transactions {
		m := tx.Month()
		if m == 0 {
			continue
		}
		s := byMonth[m]
		switch tx.Type {
		case Income:
			s.income += tx.Amount
		case Expenses:
			s.expenses += tx.Amount
		}
		byMonth[m] = s
	}

	var series []MonthPoint
	for m := time.January; m <= time.December; m++ {
		s, ok := byMonth[m]
		if !ok || (s.income == 0 && s.expenses == 0) {
			continue
		}
		series = append(series, MonthPoint{
			Month:    m.String()[:3],
			Income:   s.income,
			Expenses: s.expenses,
		})
	}
	return series
}
