package core

import (
	"testing"
	"time"
)

func tx(typ TransactionType, category string, amount float64, date string) Transaction {
	return Transaction{
		UserID:   "u1",
		Type:     typ,
		Category: category,
		Amount:   amount,
		Date:     date,
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]Transaction{
		tx(Income, "Salary", 100, "2025-01-01"),
		tx(Expenses, "Groceries", 40, "2025-01-02"),
	})
	if got.Income != 100 || got.Expenses != 40 || got.Net != 60 {
		t.Fatalf("totals = %+v", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.Income != 0 || got.Expenses != 0 || got.Net != 0 {
		t.Fatalf("totals over empty list = %+v", got)
	}
}

func TestTopByAmount(t *testing.T) {
	list := []Transaction{
		tx(Expenses, "Rent", 500, "2025-01-01"),
		tx(Income, "Salary", 1000, "2025-01-01"),
		tx(Expenses, "Groceries", 120, "2025-01-02"),
		tx(Expenses, "Transportation", 300, "2025-01-03"),
		tx(Expenses, "Entertainment", 80, "2025-01-04"),
	}
	top := TopByAmount(list, Expenses, 3)
	if len(top) != 3 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].Category != "Rent" || top[1].Category != "Transportation" || top[2].Category != "Groceries" {
		t.Fatalf("order = %s, %s, %s", top[0].Category, top[1].Category, top[2].Category)
	}
	// fewer matches than n
	if got := TopByAmount(list, Income, 3); len(got) != 1 {
		t.Fatalf("income top = %d entries", len(got))
	}
}

func TestRecentDoesNotAliasInput(t *testing.T) {
	list := []Transaction{
		tx(Income, "Salary", 1, "2025-01-01"),
		tx(Income, "Bonus", 2, "2025-01-02"),
		tx(Income, "Other", 3, "2025-01-03"),
	}
	recent := Recent(list, 2)
	if len(recent) != 2 {
		t.Fatalf("len = %d", len(recent))
	}
	recent[0].Category = "mutated"
	if list[0].Category != "Salary" {
		t.Fatal("Recent must copy, not alias")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	shares := CategoryBreakdown([]Transaction{
		tx(Expenses, "Food", 60, "2025-01-01"),
		tx(Expenses, "Transport", 40, "2025-01-02"),
		tx(Income, "Salary", 999, "2025-01-03"), // ignored
	})
	if len(shares) != 2 {
		t.Fatalf("groups = %d", len(shares))
	}
	if shares[0].Category != "Food" || shares[0].Percent != 60 {
		t.Fatalf("first share = %+v", shares[0])
	}
	if shares[1].Category != "Transport" || shares[1].Percent != 40 {
		t.Fatalf("second share = %+v", shares[1])
	}
	if shares[0].Percent+shares[1].Percent != 100 {
		t.Fatalf("percentages should sum to 100")
	}
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	shares := CategoryBreakdown([]Transaction{
		tx(Expenses, "Food", 0, "2025-01-01"),
		tx(Expenses, "Transport", 0, "2025-01-02"),
	})
	for _, s := range shares {
		if s.Percent != 0 {
			t.Fatalf("zero expenses must yield 0%%, got %+v", s)
		}
	}
}

func TestTopExpenseCategory(t *testing.T) {
	if _, ok := TopExpenseCategory([]Transaction{tx(Income, "Salary", 10, "2025-01-01")}); ok {
		t.Fatal("no expenses should report ok=false")
	}
	share, ok := TopExpenseCategory([]Transaction{
		tx(Expenses, "Food", 10, "2025-01-01"),
		tx(Expenses, "Rent", 90, "2025-01-01"),
	})
	if !ok || share.Category != "Rent" {
		t.Fatalf("top = %+v ok=%v", share, ok)
	}
}

func TestMonthlySeries(t *testing.T) {
	series := MonthlySeries([]Transaction{
		tx(Expenses, "Food", 30, "2025-03-10"),
		tx(Income, "Salary", 100, "2025-01-05"),
		tx(Income, "Bonus", 50, "2025-03-01"),
		// February absent entirely: must be omitted
	})
	if len(series) != 2 {
		t.Fatalf("series = %+v", series)
	}
	if series[0].Month != "Jan" || series[0].Income != 100 {
		t.Fatalf("first point = %+v", series[0])
	}
	if series[1].Month != "Mar" || series[1].Income != 50 || series[1].Expenses != 30 {
		t.Fatalf("second point = %+v", series[1])
	}
}

func TestMonthlySeriesOrderIndependentOfInput(t *testing.T) {
	series := MonthlySeries([]Transaction{
		tx(Income, "A", 1, "2025-12-01"),
		tx(Income, "B", 1, "2025-02-01"),
		tx(Income, "C", 1, "2025-08-01"),
	})
	want := []string{"Feb", "Aug", "Dec"}
	for i, p := range series {
		if p.Month != want[i] {
			t.Fatalf("series order = %+v", series)
		}
	}
}

func TestMonthlySeriesSkipsBadDates(t *testing.T) {
	series := MonthlySeries([]Transaction{
		{UserID: "u", Type: Income, Category: "x", Amount: 5, Date: "not-a-date", CreatedAt: time.Now()},
	})
	if len(series) != 0 {
		t.Fatalf("series = %+v", series)
	}
}
