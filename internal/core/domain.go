package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"
)

// Fixed expense category set. Unknown or empty labels normalize to Other.
const (
	CategoryFood          Category = "Food"
	CategoryShopping      Category = "Shopping"
	CategoryTravel        Category = "Travel"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

type (
	// TxType discriminates income from expense. Amounts are always
	// positive; the sign of a transaction is carried by its type.
	TxType string

	// Category classifies an Expense transaction for aggregation.
	// It is empty for Income transactions.
	Category string

	Date struct {
		time.Time
	}

	// DateRange is an inclusive calendar-date interval.
	DateRange struct {
		Start Date
		End   Date
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event. Once
	// created it is never mutated; the ledger appends and removes whole
	// records only.
	Transaction struct {
		ID       int64
		Type     TxType
		Source   string
		Category Category
		Amount   Money
		Date     Date
		Time     string // clock time, display only
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptySource     = errors.New("empty source")
	ErrInvalidCategory = errors.New("invalid category")
)

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// AllCategories returns the closed category set in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFood, CategoryShopping, CategoryTravel, CategoryBills,
		CategoryEntertainment, CategoryHealth, CategoryEducation, CategoryOther,
	}
}

// ParseCategory maps a free-text label onto the closed category set.
// Empty and unrecognized labels fall back to Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

func (c Category) IsValid() bool {
	for _, k := range AllCategories() {
		if c == k {
			return true
		}
	}
	return false
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// NewDateRange builds a range from two dates. Callers are expected to
// pass start <= end; an inverted range matches nothing.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// Contains reports whether the date falls within the range, boundaries
// included. An inverted range (Start after End) contains no date.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	return r.End.Validate()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts. The result may be negative
// (a balance), which is valid for derived values but never for a
// transaction amount.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Source)) == 0 {
		return ErrEmptySource
	}
	if len(t.Source) > 200 {
		return errors.New("source too long (max 200 characters)")
	}
	if t.Type == Expense && !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// IsExpense reports whether the transaction carries an expense amount.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// EffectiveCategory returns the label used in category groupings: the
// normalized expense category, or "Income" for income records.
func (t Transaction) EffectiveCategory() Category {
	if t.Type == Income {
		return Category("Income")
	}
	if t.Category == "" {
		return CategoryOther
	}
	return t.Category
}
