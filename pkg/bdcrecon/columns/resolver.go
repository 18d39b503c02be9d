// Package columns maps raw sheet headers to canonical business column names.
package columns

import (
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/textnorm"
)

// Resolve returns the existing column matching one of synonyms.
//
// The exact pass compares normalized forms, synonyms in priority order. When
// nothing matches exactly, the substring pass returns the first column whose
// normalized form contains a synonym, synonyms in order then columns in their
// original order.
func Resolve(existing []string, synonyms []string) (string, bool) {
	normCols := make([]string, len(existing))
	for i, c := range existing {
		normCols[i] = textnorm.Normalize(c)
	}
	normSyns := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		if n := textnorm.Normalize(s); n != "" {
			normSyns = append(normSyns, n)
		}
	}

	for _, syn := range normSyns {
		for i, col := range normCols {
			if col == syn {
				return existing[i], true
			}
		}
	}

	for _, syn := range normSyns {
		for i, col := range normCols {
			if col != "" && strings.Contains(col, syn) {
				return existing[i], true
			}
		}
	}

	return "", false
}

// ResolveCanonical resolves a canonical column through its synonym list.
func ResolveCanonical(existing []string, canonical string) (string, bool) {
	return Resolve(existing, For(canonical))
}

// Mapping is the canonical name to raw header mapping of one table. It is
// built once and never mutated.
type Mapping map[string]string

// Map resolves every canonical name against existing and returns the
// resolved mapping plus the names left unresolved, in input order.
func Map(existing []string, canonical ...string) (Mapping, []string) {
	m := make(Mapping, len(canonical))
	var missing []string
	for _, name := range canonical {
		if raw, ok := ResolveCanonical(existing, name); ok {
			m[name] = raw
		} else {
			missing = append(missing, name)
		}
	}
	return m, missing
}

// Suggest returns the existing header closest to canonical, for diagnostics
// when resolution failed. It returns "" when there is nothing to suggest.
func Suggest(existing []string, canonical string) string {
	if len(existing) == 0 {
		return ""
	}
	byNorm := make(map[string]string, len(existing))
	var candidates []string
	for _, c := range existing {
		n := textnorm.Normalize(c)
		if n == "" {
			continue
		}
		if _, seen := byNorm[n]; !seen {
			byNorm[n] = c
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	target := textnorm.Normalize(canonical)
	cm := closestmatch.New(candidates, []int{2, 3})
	best := cm.Closest(target)
	if best == "" || bigramSimilarity(target, best) < minSuggestSimilarity {
		return ""
	}
	return byNorm[best]
}

// minSuggestSimilarity is the bigram overlap below which a closest header is
// not worth naming.
const minSuggestSimilarity = 0.4

// bigramSimilarity is the Dice coefficient of the character bigram sets of a
// and b, from 0 (nothing shared) to 1.
func bigramSimilarity(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	shared := 0
	for g := range ba {
		if _, ok := bb[g]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ba)+len(bb))
}

func bigrams(s string) map[string]struct{} {
	r := []rune(s)
	set := make(map[string]struct{}, len(r))
	for i := 0; i+1 < len(r); i++ {
		set[string(r[i:i+2])] = struct{}{}
	}
	return set
}
