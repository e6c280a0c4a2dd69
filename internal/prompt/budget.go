package prompt

import (
	"regexp"
	"strconv"
)

// BudgetExtractor guesses a budget from free-form text. It sits behind an
// interface so the heuristic can be swapped for a structured input field
// without touching the advisory core.
type BudgetExtractor interface {
	Extract(message string) (float64, bool)
}

// budgetPattern matches the first 3+ digit number, optionally preceded by a
// dollar sign, covering phrasings like "under $1500", "for 2000", "budget of
// $800". Best effort only: a message with two dollar amounts resolves to the
// first, which may not be the budget.
var budgetPattern = regexp.MustCompile(`\$?(\d{3,})`)

// RegexExtractor is the default BudgetExtractor.
type RegexExtractor struct{}

// Extract returns the first plausible dollar amount in message, or false
// when none is found.
func (RegexExtractor) Extract(message string) (float64, bool) {
	m := budgetPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
