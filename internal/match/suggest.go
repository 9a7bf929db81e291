package match

import (
	"sort"
	"strings"
)

// Suggest returns the candidates within maxDistance edits of name, closest
// first. Comparison ignores case. Ties keep the order of candidates.
func Suggest(name string, candidates []string, maxDistance int) []string {
	type scored struct {
		name     string
		distance int
	}

	norm := strings.ToLower(name)

	var found []scored
	for _, c := range candidates {
		if d := Levenshtein(norm, strings.ToLower(c)); d <= maxDistance {
			found = append(found, scored{name: c, distance: d})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].distance < found[j].distance
	})

	out := make([]string, 0, len(found))
	for _, s := range found {
		out = append(out, s.name)
	}

	return out
}
