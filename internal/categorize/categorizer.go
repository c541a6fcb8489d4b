// Package categorize assigns category labels to transactions that arrive
// without one. It is a deterministic keyword ruleset, not a trained model:
// the first rule whose keyword appears in the description wins.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"vibe/internal/core"
)

// Rule maps a category label to the keywords that select it. Rule order
// matters: earlier rules win ties.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// defaultRules cover the common personal-expense categories. They can be
// replaced wholesale from a YAML file via LoadRules.
var defaultRules = []Rule{
	{Category: "restaurant", Keywords: []string{"restaurant", "dining", "dinner", "lunch", "cafe", "café", "pizza", "burger"}},
	{Category: "food", Keywords: []string{"grocery", "groceries", "supermarket", "market", "food"}},
	{Category: "coffee", Keywords: []string{"coffee", "starbucks", "espresso"}},
	{Category: "transport", Keywords: []string{"uber", "taxi", "transport", "gas", "fuel", "petrol", "parking", "train", "bus"}},
	{Category: "shopping", Keywords: []string{"amazon", "target", "walmart", "shopping", "store", "purchase"}},
	{Category: "entertainment", Keywords: []string{"netflix", "spotify", "movie", "cinema", "streaming", "concert"}},
	{Category: "bills", Keywords: []string{"bill", "utility", "electric", "water", "internet", "phone", "subscription", "insurance", "rent"}},
}

// Categorizer matches descriptions against an ordered ruleset.
type Categorizer struct {
	rules []Rule
}

// NewDefault returns a categorizer with the built-in ruleset.
func NewDefault() *Categorizer {
	return New(defaultRules)
}

// New builds a categorizer from explicit rules. Keywords are matched
// case-insensitively as substrings of the description.
func New(rules []Rule) *Categorizer {
	return &Categorizer{rules: rules}
}

// LoadRules reads a ruleset from a YAML file:
//
//	rules:
//	  - category: restaurant
//	    keywords: [dinner, lunch, cafe]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	return f.Rules, nil
}

// Categorize returns the label for a description, or false when no rule
// matches.
func (c *Categorizer) Categorize(description string) (string, bool) {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// Apply labels every transaction still marked unknown and reports how many
// were changed. The input slice is modified in place.
func (c *Categorizer) Apply(ledger core.Ledger) int {
	changed := 0
	for i := range ledger {
		if !strings.EqualFold(ledger[i].Category, core.UnknownCategory) {
			continue
		}
		if label, ok := c.Categorize(ledger[i].Description); ok {
			ledger[i].Category = label
			changed++
		}
	}
	return changed
}
