package shanten

import (
	"fmt"

	"github.com/domino14/guobiao/tilemapping"
)

func checkThirteen(standing []tilemapping.Tile, form Form) error {
	if len(standing) != 13 {
		return fmt.Errorf("%w: %d tiles for %s", ErrWrongStandingCount, len(standing), form)
	}
	return nil
}

// SevenPairs returns the shanten toward seven pairs. Four of a kind count
// as two pairs. The useful kinds are the unpaired ones.
func SevenPairs(standing []tilemapping.Tile) (int, Useful, error) {
	var useful Useful
	if err := checkThirteen(standing, FormSevenPairs); err != nil {
		return 0, useful, err
	}
	var table tilemapping.Table
	pairs := 0
	for _, t := range standing {
		table[t]++
		if table[t] == 2 {
			pairs++
			table[t] = 0
		}
	}
	for _, t := range tilemapping.AllKinds {
		useful[t] = table[t] != 0
	}
	return 6 - pairs, useful, nil
}

// ThirteenOrphans returns the shanten toward one of each terminal and
// honor plus a duplicate.
func ThirteenOrphans(standing []tilemapping.Tile) (int, Useful, error) {
	var useful Useful
	if err := checkThirteen(standing, FormThirteenOrphans); err != nil {
		return 0, useful, err
	}
	table := tilemapping.TableFromTiles(standing)
	hasPair := false
	kinds := 0
	for _, t := range tilemapping.ThirteenOrphans {
		if n := table[t]; n > 0 {
			kinds++
			if n > 1 {
				hasPair = true
			}
		}
	}
	for _, t := range tilemapping.ThirteenOrphans {
		// With the duplicate in hand only the missing kinds help.
		useful[t] = !hasPair || table[t] == 0
	}
	if hasPair {
		return 12 - kinds, useful, nil
	}
	return 13 - kinds, useful, nil
}

// honorsAndKnittedFor counts the kinds of one template plus the seven
// honors held in table.
func honorsAndKnittedFor(table *tilemapping.Table, tmpl *[9]tilemapping.Tile, useful *Useful) int {
	held := 0
	for _, t := range tmpl {
		if table[t] > 0 {
			held++
		} else {
			useful[t] = true
		}
	}
	for _, t := range tilemapping.ThirteenOrphans[6:] {
		if table[t] > 0 {
			held++
		} else {
			useful[t] = true
		}
	}
	return 13 - held
}

// HonorsAndKnitted returns the shanten toward fourteen distinct tiles
// taken from one knitted template and the honors.
func HonorsAndKnitted(standing []tilemapping.Tile) (int, Useful, error) {
	var useful Useful
	if err := checkThirteen(standing, FormHonorsAndKnitted); err != nil {
		return 0, useful, err
	}
	table := tilemapping.TableFromTiles(standing)
	best := 14
	for i := range tilemapping.KnittedTemplates {
		var u Useful
		st := honorsAndKnittedFor(&table, &tilemapping.KnittedTemplates[i], &u)
		switch {
		case st < best:
			best = st
			useful = u
		case st == best:
			useful.Merge(&u)
		}
	}
	return best, useful, nil
}
