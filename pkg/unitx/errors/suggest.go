package errors

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// levenshteinDistance computes the edit distance between two strings,
// counting runes so that identifiers such as 時間 compare sensibly.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// threshold is the maximum edit distance worth suggesting for an input.
// Short words (1-3): 1 edit, medium (4-6): 2, longer: 3.
func threshold(input string) int {
	n := len([]rune(input))
	switch {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch returns the candidate closest to input, or "" when none
// is within the edit threshold. Exact matches are never suggested.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the edit threshold,
// closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if input == "" || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	limit := threshold(input)

	var matches []match
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 && dist <= limit {
			matches = append(matches, match{candidate, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].value < matches[j].value
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// NewUndefinedName creates a NameError with a "Did you mean" hint drawn from
// the names currently in scope.
func NewUndefinedName(tag language.Tag, name string, inScope []string) *UnitXError {
	err := NewLocalized(tag, "NAME-0001", map[string]any{"Name": name})
	candidates := append(append([]string(nil), inScope...), Keywords...)
	if suggestion := FindClosestMatch(name, candidates); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}

// NewUnknownUnit creates a UnitError for a symbol missing from the unit table.
func NewUnknownUnit(tag language.Tag, symbol string, known []string) *UnitXError {
	err := NewLocalized(tag, "UNIT-0003", map[string]any{"Unit": symbol})
	if suggestion := FindClosestMatch(symbol, known); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}

// Keywords are the reserved words of the language.
var Keywords = []string{
	"def", "rep", "if", "else", "return", "break", "continue",
	"print", "dump", "assert", "true", "false", "None",
}
