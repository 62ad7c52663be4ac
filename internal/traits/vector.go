package traits

import "sort"

// Vector maps trait names to scores on the 0-100 scale. Vectors are produced
// fresh by Extract and never mutated in place; treat them as immutable
// snapshots once returned.
type Vector map[string]float64

// Names returns the trait names in deterministic (sorted) order.
func (v Vector) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	clone := make(Vector, len(v))
	for name, score := range v {
		clone[name] = score
	}

	return clone
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}

	return score
}
