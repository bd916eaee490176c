package shanten

import (
	"fmt"

	"github.com/domino14/guobiao/division"
	"github.com/domino14/guobiao/tilemapping"
)

// knittedFor is the shanten of one template: its missing tiles plus the
// basic shanten of what is left once the template counts as three melds.
func knittedFor(table *tilemapping.Table, tmpl *[9]tilemapping.Tile, fixed int, useful *Useful) int {
	rest := *table
	held := 0
	for _, t := range tmpl {
		if table[t] > 0 {
			held++
			rest[t]--
		} else {
			useful[t] = true
		}
	}
	return 9 - held + basicFromTable(&rest, fixed+3, useful)
}

// KnittedStraight returns the shanten toward a knitted straight plus a
// meld and a pair. It accepts 13 standing tiles, or 10 beside one fixed
// meld.
func KnittedStraight(standing []tilemapping.Tile) (int, Useful, error) {
	var useful Useful
	n := len(standing)
	if !FormKnittedStraight.Applies(n) {
		return 0, useful, fmt.Errorf("%w: %d tiles for %s", ErrWrongStandingCount, n, FormKnittedStraight)
	}
	table := tilemapping.TableFromTiles(standing)
	fixed := (13 - n) / 3
	best := 1 << 30
	for i := range tilemapping.KnittedTemplates {
		var u Useful
		st := knittedFor(&table, &tilemapping.KnittedTemplates[i], fixed, &u)
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

// knittedWait checks a knitted straight wait on left tiles (10 or 13).
// The first template missing at most one tile decides.
func knittedWait(table *tilemapping.Table, left int, waiting *Useful) bool {
	var tmpl *[9]tilemapping.Tile
	var missing tilemapping.Tile
	missingCnt := 0
	for i := range tilemapping.KnittedTemplates {
		missingCnt = 0
		for _, t := range tilemapping.KnittedTemplates[i] {
			if table[t] == 0 {
				missing = t
				missingCnt++
			}
		}
		if missingCnt < 2 {
			tmpl = &tilemapping.KnittedTemplates[i]
			break
		}
	}
	if tmpl == nil {
		return false
	}

	rest := *table
	for _, t := range tmpl {
		if rest[t] > 0 {
			rest[t]--
		}
	}

	if missingCnt == 1 {
		restCnt := 5
		if left == 10 {
			restCnt = 2
		}
		if division.CanDivide(&rest, restCnt) {
			if waiting != nil {
				waiting[missing] = true
			}
			return true
		}
		return false
	}
	if left == 10 {
		return singleWait(&rest, waiting)
	}
	return basicWaitTable(&rest, 4, waiting)
}
