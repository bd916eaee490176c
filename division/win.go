package division

import "github.com/domino14/guobiao/tilemapping"

// IsWin reports whether the standing tiles plus test split into melds and
// one pair. It is faster than Divide since it stops at the first split.
func IsWin(standing []tilemapping.Tile, test tilemapping.Tile) bool {
	table := tilemapping.TableFromTiles(standing)
	table.Add(test)
	return CanDivide(&table, len(standing)+1)
}

// CanDivide reports whether the left tiles held in table split into melds
// and exactly one pair. The table is restored before returning.
func CanDivide(table *tilemapping.Table, left int) bool {
	if left < 2 || left%3 != 2 {
		return false
	}
	if left == 2 {
		return isPairOnly(table)
	}
	for _, t := range tilemapping.AllKinds {
		n := table[t]
		if n < 1 {
			continue
		}
		if n > 2 {
			table[t] -= 3
			ok := CanDivide(table, left-3)
			table[t] += 3
			if ok {
				return true
			}
		}
		if t.IsNumbered() && t.Rank() < 8 && table[t+1] > 0 && table[t+2] > 0 {
			table[t]--
			table[t+1]--
			table[t+2]--
			ok := CanDivide(table, left-3)
			table[t]++
			table[t+1]++
			table[t+2]++
			if ok {
				return true
			}
		}
	}
	return false
}

func isPairOnly(table *tilemapping.Table) bool {
	seen := false
	for _, t := range tilemapping.AllKinds {
		switch table[t] {
		case 0:
		case 2:
			if seen {
				return false
			}
			seen = true
		default:
			return false
		}
	}
	return seen
}
