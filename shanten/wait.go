package shanten

import (
	"github.com/domino14/guobiao/division"
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

// singleWait handles one tile left: it waits on its own pair.
func singleWait(table *tilemapping.Table, waiting *Useful) bool {
	for _, t := range tilemapping.AllKinds {
		if table[t] != 1 {
			continue
		}
		table[t] = 0
		empty := table.Empty()
		table[t] = 1
		if empty {
			if waiting != nil {
				waiting[t] = true
			}
			return true
		}
	}
	return false
}

// pairWait handles two tiles left beside the pair: a second pair, or a
// run fragment.
func pairWait(table *tilemapping.Table, waiting *Useful) bool {
	ret := false
	for _, t := range tilemapping.AllKinds {
		if table[t] < 1 {
			continue
		}
		if table[t] > 1 {
			if waiting == nil {
				return true
			}
			waiting[t] = true
			ret = true
			continue
		}
		if !t.IsNumbered() {
			continue
		}
		r := t.Rank()
		if r > 1 && table[t-1] > 0 {
			if waiting == nil {
				return true
			}
			if r < 9 {
				waiting[t+1] = true
			}
			if r > 2 {
				waiting[t-2] = true
			}
			ret = true
			continue
		}
		if r > 2 && table[t-2] > 0 {
			if waiting == nil {
				return true
			}
			waiting[t-1] = true
			ret = true
		}
	}
	return ret
}

// fourWait takes out each possible pair and checks the remaining two.
func fourWait(table *tilemapping.Table, waiting *Useful) bool {
	ret := false
	for _, t := range tilemapping.AllKinds {
		if table[t] < 2 {
			continue
		}
		table[t] -= 2
		if pairWait(table, waiting) {
			ret = true
		}
		table[t] += 2
		if ret && waiting == nil {
			return true
		}
	}
	return ret
}

func basicWaitTable(table *tilemapping.Table, left int, waiting *Useful) bool {
	if left == 1 {
		return singleWait(table, waiting)
	}
	ret := false
	if left == 4 {
		ret = fourWait(table, waiting)
		if ret && waiting == nil {
			return true
		}
	}
	for _, t := range tilemapping.AllKinds {
		if table[t] < 1 {
			continue
		}
		if table[t] > 2 {
			table[t] -= 3
			if basicWaitTable(table, left-3, waiting) {
				ret = true
			}
			table[t] += 3
			if ret && waiting == nil {
				return true
			}
		}
		if t.IsNumbered() && t.Rank() < 8 && table[t+1] > 0 && table[t+2] > 0 {
			table[t]--
			table[t+1]--
			table[t+2]--
			if basicWaitTable(table, left-3, waiting) {
				ret = true
			}
			table[t]++
			table[t+1]++
			table[t+2]++
			if ret && waiting == nil {
				return true
			}
		}
	}
	return ret
}

// BasicWait reports whether the standing tiles are one tile away from
// four melds and a pair, and on which tiles. It does not go through the
// shanten search.
func BasicWait(standing []tilemapping.Tile) (bool, Useful) {
	var waiting Useful
	if !basicCountOK(len(standing)) {
		return false, waiting
	}
	table := tilemapping.TableFromTiles(standing)
	ok := basicWaitTable(&table, len(standing), &waiting)
	return ok, waiting
}

// BasicWin reports whether the standing tiles plus test make four melds
// and a pair.
func BasicWin(standing []tilemapping.Tile, test tilemapping.Tile) bool {
	return division.IsWin(standing, test)
}

func waitByShanten(standing []tilemapping.Tile, f formFunc) (bool, Useful) {
	st, useful, err := f(standing)
	if err != nil || st != 0 {
		return false, Useful{}
	}
	return true, useful
}

func SevenPairsWait(standing []tilemapping.Tile) (bool, Useful) {
	return waitByShanten(standing, SevenPairs)
}

func ThirteenOrphansWait(standing []tilemapping.Tile) (bool, Useful) {
	return waitByShanten(standing, ThirteenOrphans)
}

func HonorsAndKnittedWait(standing []tilemapping.Tile) (bool, Useful) {
	return waitByShanten(standing, HonorsAndKnitted)
}

// KnittedStraightWait checks 13 standing tiles, or 10 beside one meld.
func KnittedStraightWait(standing []tilemapping.Tile) (bool, Useful) {
	var waiting Useful
	if !FormKnittedStraight.Applies(len(standing)) {
		return false, waiting
	}
	table := tilemapping.TableFromTiles(standing)
	ok := knittedWait(&table, len(standing), &waiting)
	return ok, waiting
}

// Waiting reports whether the hand is one tile away from any winning
// shape, and the tiles it waits on across all of them. The special shapes
// are tried in order and the first one that waits is kept.
func Waiting(hand pack.Hand) (bool, Useful) {
	standing := hand.Standing
	var special Useful
	specialOK := false
	switch len(standing) {
	case 13:
		for _, f := range []func([]tilemapping.Tile) (bool, Useful){
			ThirteenOrphansWait, HonorsAndKnittedWait, SevenPairsWait, KnittedStraightWait,
		} {
			if specialOK, special = f(standing); specialOK {
				break
			}
		}
	case 10:
		specialOK, special = KnittedStraightWait(standing)
	}
	basicOK, basic := BasicWait(standing)
	if specialOK {
		basic.Merge(&special)
	}
	return specialOK || basicOK, basic
}
