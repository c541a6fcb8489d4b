package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Description: "dinner at cafe",
		Amount:      Money{Cents: 4000},
		Category:    "restaurant",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Description: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestLedgerClone(t *testing.T) {
	l := Ledger{
		{Date: NewDate(2025, 1, 5), Description: "a", Amount: Money{Cents: 100}, Category: "x"},
		{Date: NewDate(2025, 2, 5), Description: "b", Amount: Money{Cents: 200}, Category: "y"},
	}
	c := l.Clone()
	c[0].Description = "mutated"
	if l[0].Description != "a" {
		t.Fatalf("clone shares backing array with original")
	}
	if got := l.Total().Cents; got != 300 {
		t.Fatalf("Total = %d, want 300", got)
	}
	if Ledger(nil).Clone() != nil {
		t.Fatalf("nil ledger should clone to nil")
	}
}
