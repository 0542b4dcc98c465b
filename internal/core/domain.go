package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "Income"
	Expenses TransactionType = "Expenses"
)

type (
	TransactionType string

	// Transaction is the sole domain entity: a single income or expense
	// entry belonging to one user. Amount is expressed in the base
	// currency (NGN); no per-transaction currency tag is stored.
	Transaction struct {
		ID        string          `json:"id,omitempty"`
		UserID    string          `json:"userId"`
		Type      TransactionType `json:"type"`
		Category  string          `json:"category"`
		Amount    float64         `json:"amount"`
		Method    string          `json:"method"`
		Date      string          `json:"date"` // ISO 8601 date, no time component
		CreatedAt time.Time       `json:"createdAt"`
	}

	// TransactionPatch carries the fields of a partial update. Nil fields
	// are left untouched; last write wins.
	TransactionPatch struct {
		Type     *TransactionType `json:"type,omitempty"`
		Category *string          `json:"category,omitempty"`
		Amount   *float64         `json:"amount,omitempty"`
		Method   *string          `json:"method,omitempty"`
		Date     *string          `json:"date,omitempty"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("amount must be non-negative")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmptyUserID     = errors.New("empty user id")
	ErrEmptyCategory   = errors.New("empty category")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expenses:
		return true
	default:
		return false
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 100 {
		return ErrCategoryTooLong
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks that every present field of the patch is acceptable on
// its own. The store performs no further validation.
func (p TransactionPatch) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return ErrEmptyCategory
		}
		if len(*p.Category) > 100 {
			return ErrCategoryTooLong
		}
	}
	if p.Amount != nil && *p.Amount < 0 {
		return ErrInvalidAmount
	}
	if p.Date != nil {
		if _, err := time.Parse("2006-01-02", *p.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// Empty reports whether the patch carries no fields at all.
func (p TransactionPatch) Empty() bool {
	return p.Type == nil && p.Category == nil && p.Amount == nil && p.Method == nil && p.Date == nil
}

// Month returns the calendar month the transaction occurred in, derived
// from Date rather than CreatedAt. Zero when the date does not parse.
func (t Transaction) Month() time.Month {
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return 0
	}
	return d.Month()
}

// CategorySuggestions lists the client-side category suggestions per
// transaction type. They are suggestions only; the store accepts any
// free-text label.
var CategorySuggestions = map[TransactionType][]string{
	Income:   {"Salary", "Freelance", "Commission", "Bonus", "Investment", "Other"},
	Expenses: {"Food & Drinks", "Groceries", "Utilities", "Transportation", "Entertainment", "Healthcare", "Shopping", "Other"},
}

// PaymentMethods lists the suggested payment method labels.
var PaymentMethods = []string{"Cash", "Credit Card", "Bank Transfer", "E-Wallet Transfer"}
