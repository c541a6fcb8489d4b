package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"vibe/internal/core"
)

func TestCategorizeDefaults(t *testing.T) {
	c := NewDefault()
	cases := []struct {
		desc string
		want string
		ok   bool
	}{
		{"dinner at luigi's", "restaurant", true},
		{"UBER trip home", "transport", true},
		{"monthly netflix subscription", "entertainment", true},
		{"whole foods market", "food", true},
		{"mystery charge", "", false},
	}
	for _, tc := range cases {
		got, ok := c.Categorize(tc.desc)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Categorize(%q) = %q/%v, want %q/%v", tc.desc, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCategorizeFirstRuleWins(t *testing.T) {
	c := New([]Rule{
		{Category: "a", Keywords: []string{"coffee"}},
		{Category: "b", Keywords: []string{"coffee", "espresso"}},
	})
	if got, _ := c.Categorize("coffee beans"); got != "a" {
		t.Fatalf("got %q, want first matching rule to win", got)
	}
}

func TestApplyOnlyTouchesUnknown(t *testing.T) {
	ledger := core.Ledger{
		{Date: core.NewDate(2024, 1, 1), Description: "dinner out", Amount: core.Money{Cents: 100}, Category: core.UnknownCategory},
		{Date: core.NewDate(2024, 1, 2), Description: "dinner out", Amount: core.Money{Cents: 100}, Category: "already-set"},
		{Date: core.NewDate(2024, 1, 3), Description: "???", Amount: core.Money{Cents: 100}, Category: core.UnknownCategory},
	}
	changed := NewDefault().Apply(ledger)
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	if ledger[0].Category != "restaurant" {
		t.Fatalf("unknown row not labeled: %+v", ledger[0])
	}
	if ledger[1].Category != "already-set" {
		t.Fatalf("labeled row must not be overwritten: %+v", ledger[1])
	}
	if ledger[2].Category != core.UnknownCategory {
		t.Fatalf("unmatched row should stay unknown: %+v", ledger[2])
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "rules:\n" +
		"  - category: pets\n" +
		"    keywords: [vet, kibble]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	c := New(rules)
	if got, ok := c.Categorize("annual vet visit"); !ok || got != "pets" {
		t.Fatalf("got %q/%v, want pets", got, ok)
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
