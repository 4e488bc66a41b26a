package symbols

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest suggests the known symbol of the given kind whose name is nearest
// to name. Names containing the searched name rank first, then by edit
// distance.
func (t *Table) Closest(name string, kind Kind) (best string, ok bool) {
	upper := strings.ToUpper(name)

	bestContained := false
	bestDistance := 0
	for candidate, vs := range t.All() {
		if kind != KindAny && vs.Value.Kind() != kind {
			continue
		}
		if candidate == name || strings.HasPrefix(candidate, "#") || strings.HasPrefix(candidate, "$") {
			continue
		}
		candidateUpper := strings.ToUpper(candidate)
		contained := strings.Contains(candidateUpper, upper)
		distance := min(levenshtein.ComputeDistance(candidate, name),
			levenshtein.ComputeDistance(candidateUpper, upper))

		better := !ok
		if ok {
			switch {
			case contained != bestContained:
				better = contained
			case distance != bestDistance:
				better = distance < bestDistance
			default:
				better = candidate < best
			}
		}
		if better {
			best, bestContained, bestDistance, ok = candidate, contained, distance, true
		}
	}

	return
}
