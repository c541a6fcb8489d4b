package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultDescription is the sentinel used when a transaction carries no
	// usable description.
	DefaultDescription = "uncategorized"

	// UnknownCategory is the sentinel for transactions the categorizer has not
	// labeled yet.
	UnknownCategory = "unknown"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one ledger record. Invariants (positive amount, parseable
	// date, lower-cased non-empty description) are established by the ingest
	// cleaner; the query engine trusts them.
	Transaction struct {
		Date        Date
		Description string
		Amount      Money
		Category    string
	}

	// Ledger is an ordered sequence of transactions. Row order is not
	// semantically meaningful; time filters use Date only.
	Ledger []Transaction
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

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

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone returns an independent copy of the ledger. The query engine snapshots
// its input with this so caller-visible state is never mutated.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// Total sums all transaction amounts.
func (l Ledger) Total() Money {
	var cents int64
	for _, t := range l {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}
