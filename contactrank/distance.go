package contactrank

import "github.com/lithammer/fuzzysearch/fuzzy"

// Distance is the Levenshtein edit distance between a and b, counted in
// runes with unit cost for insertion, deletion and substitution.
func Distance(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}
