package repl

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SuggestCutoff is the minimum similarity ratio for a suggestion.
const SuggestCutoff = 0.6

// Suggest returns the known command keyword most similar to input, or "" when
// none reaches SuggestCutoff. Ties go to the keyword listed first.
func Suggest(input string) string {
	word := strings.Split(strings.ToLower(input), "")
	best, bestRatio := "", 0.0
	for _, kw := range Keywords() {
		m := difflib.NewMatcher(strings.Split(kw, ""), word)
		if m.RealQuickRatio() < SuggestCutoff || m.QuickRatio() < SuggestCutoff {
			continue
		}
		if r := m.Ratio(); r >= SuggestCutoff && r > bestRatio {
			best, bestRatio = kw, r
		}
	}
	return best
}
