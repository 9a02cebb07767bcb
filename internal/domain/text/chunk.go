package text

import (
	"strings"
	"unicode"
)

const (
	// MaxTokens is the hard per-call ceiling the model accepts.
	MaxTokens = 510
	// TokenBudget is the working ceiling used when splitting text. The
	// margin under MaxTokens absorbs boundary markers and the drift
	// between projected and exact token counts.
	TokenBudget = 500
)

// ProjectTokens returns a cheap upper bound on the token count that
// phonemizing s would produce. CJK runes weigh more because each one
// expands to a full syllable.
func ProjectTokens(s string) int {
	total := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			total += 5
		} else {
			total += 2
		}
	}
	return total
}

// FitsBudget reports whether the projected token count of s stays inside
// the working budget.
func FitsBudget(s string) bool {
	return ProjectTokens(s) <= TokenBudget
}

// SplitToFit breaks s into pieces satisfying fits, preferring clause
// boundaries and falling back to whitespace. A single word that cannot
// fit is returned on its own; the caller truncates it after tokenizing.
func SplitToFit(s string, fits func(string) bool) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if fits(s) {
		return []string{s}
	}

	var pieces []string
	acc := ""
	flush := func() {
		if acc != "" {
			pieces = append(pieces, acc)
			acc = ""
		}
	}

	for _, clause := range splitClauses(s) {
		if !fits(clause) {
			flush()
			pieces = append(pieces, splitWords(clause, fits)...)
			continue
		}
		joined := clause
		if acc != "" {
			joined = acc + " " + clause
		}
		if fits(joined) {
			acc = joined
		} else {
			flush()
			acc = clause
		}
	}
	flush()
	return pieces
}

// Sentences runs the pre-inference pipeline on raw input: normalize,
// split into sentences, then split anything projecting over the budget.
// Number expansion is not applied here; it needs the per-sentence
// language.
func Sentences(raw string) []string {
	var out []string
	for _, s := range SplitSentences(Normalize(raw)) {
		out = append(out, SplitToFit(s, FitsBudget)...)
	}
	return out
}

// splitClauses cuts after commas, semicolons, and colons, keeping the
// punctuation with the preceding clause.
func splitClauses(s string) []string {
	var clauses []string
	start := 0
	for i, r := range s {
		if r == ',' || r == ';' || r == ':' {
			if c := strings.TrimSpace(s[start : i+1]); c != "" {
				clauses = append(clauses, c)
			}
			start = i + 1
		}
	}
	if c := strings.TrimSpace(s[start:]); c != "" {
		clauses = append(clauses, c)
	}
	return clauses
}

func splitWords(s string, fits func(string) bool) []string {
	var pieces []string
	acc := ""
	for _, word := range strings.Fields(s) {
		joined := word
		if acc != "" {
			joined = acc + " " + word
		}
		if fits(joined) {
			acc = joined
			continue
		}
		if acc != "" {
			pieces = append(pieces, acc)
		}
		acc = word
	}
	if acc != "" {
		pieces = append(pieces, acc)
	}
	return pieces
}
