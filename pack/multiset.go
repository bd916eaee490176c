package pack

import "cmp"

// Includes reports whether the sorted multiset sub is contained in the
// sorted multiset set.
func Includes[S ~[]E, E cmp.Ordered](set, sub S) bool {
	i := 0
	for _, want := range sub {
		for i < len(set) && set[i] < want {
			i++
		}
		if i == len(set) || set[i] != want {
			return false
		}
		i++
	}
	return true
}
