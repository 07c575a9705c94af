package identify

import (
	"strings"

	"github.com/gosimple/unidecode"
)

// Similarity is the Jaccard index over the lower-cased, accent-folded word
// sets of two strings: |A ∩ B| / |A ∪ B|. It is symmetric, bounded to [0,1]
// and equals 1 for identical nonempty inputs.
func Similarity(a, b string) float64 {
	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	intersection := 0
	for token := range aTokens {
		if _, ok := bTokens[token]; ok {
			intersection++
		}
	}
	union := len(aTokens) + len(bTokens) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(unidecode.Unidecode(s)))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
