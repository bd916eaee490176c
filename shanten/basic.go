package shanten

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

// A unit is one group taken out of the hand during the search: kind in the
// high byte, lowest tile in the low byte.
type unit uint16

const (
	unitChow           = 1
	unitPung           = 2
	unitPair           = 4
	unitChowOpenEnd    = 5
	unitChowClosed     = 6
	unitIncompletePung = 7
)

func makeUnit(kind uint16, t tilemapping.Tile) unit {
	return unit(kind<<8 | uint16(t))
}

const (
	// 14 tiles make at most 7 groups of two.
	pathSize = 7
	maxPaths = 20480
)

type path struct {
	units [pathSize]unit
	depth int
}

// basicSearch is the working state of one basic form computation. The
// visited paths let the search skip groupings it already explored in a
// different order.
type basicSearch struct {
	fixed   int
	path    path
	visited []path
}

func (s *basicSearch) reset() {
	s.visited = s.visited[:0]
}

// branchExists reports whether the current path, sorted, is contained in
// a path saved earlier. The path depth is the one last written by any node
// of the search, so a sibling tried after a deeper recursion compares a
// longer prefix.
func (s *basicSearch) branchExists() bool {
	if len(s.visited) == 0 || s.path.depth == 0 {
		return false
	}
	end := s.path.depth + 1
	var tmp [pathSize]unit
	cur := tmp[s.fixed:end]
	copy(cur, s.path.units[s.fixed:end])
	slices.Sort(cur)
	for i := range s.visited {
		p := &s.visited[i]
		if pack.Includes(p.units[s.fixed:p.depth], cur) {
			return true
		}
	}
	return false
}

func (s *basicSearch) save() {
	var p path
	p.depth = s.path.depth
	end := p.depth + 1
	copy(p.units[s.fixed:end], s.path.units[s.fixed:end])
	slices.Sort(p.units[s.fixed:end])
	for i := range s.visited {
		q := &s.visited[i]
		if q.depth == p.depth && slices.Equal(q.units[s.fixed:end], p.units[s.fixed:end]) {
			return
		}
	}
	if len(s.visited) == maxPaths {
		log.Warn().Int("paths", maxPaths).Msg("shanten-path-registry-full")
		return
	}
	s.visited = append(s.visited, p)
}

// search returns the basic form shanten of the tiles in table given the
// groups already taken out.
func (s *basicSearch) search(table *tilemapping.Table, hasPair bool, packs, incomplete int) int {
	if s.fixed == 4 {
		for _, t := range tilemapping.AllKinds {
			if table[t] > 1 {
				return -1
			}
		}
		return 0
	}
	if packs == 4 {
		if hasPair {
			return -1
		}
		return 0
	}

	pair := 0
	if hasPair {
		pair = 1
	}
	// With fewer groups than needed, each missing group costs two tiles and
	// each partial group one; the pair saves one.
	var maxRet int
	if need := 4 - packs - incomplete; need > 0 {
		maxRet = incomplete + need*2 - pair
	} else {
		maxRet = 4 - pair - packs
	}

	depth := packs + incomplete + pair
	s.path.depth = depth
	result := maxRet

	if packs+incomplete > 4 {
		s.save()
		return maxRet
	}

	for _, t := range tilemapping.AllKinds {
		if table[t] < 1 {
			continue
		}

		if !hasPair && table[t] > 1 {
			s.path.units[depth] = makeUnit(unitPair, t)
			if !s.branchExists() {
				table[t] -= 2
				result = min(result, s.search(table, true, packs, incomplete))
				table[t] += 2
			}
		}

		if table[t] > 2 {
			s.path.units[depth] = makeUnit(unitPung, t)
			if !s.branchExists() {
				table[t] -= 3
				result = min(result, s.search(table, hasPair, packs+1, incomplete))
				table[t] += 3
			}
		}

		numbered := t.IsNumbered()
		if numbered && t.Rank() < 8 && table[t+1] > 0 && table[t+2] > 0 {
			s.path.units[depth] = makeUnit(unitChow, t)
			if !s.branchExists() {
				table[t]--
				table[t+1]--
				table[t+2]--
				result = min(result, s.search(table, hasPair, packs+1, incomplete))
				table[t]++
				table[t+1]++
				table[t+2]++
			}
		}

		// Partial groups cannot beat a complete group that already helped.
		if result < maxRet {
			continue
		}

		if table[t] > 1 {
			s.path.units[depth] = makeUnit(unitIncompletePung, t)
			if !s.branchExists() {
				table[t] -= 2
				result = min(result, s.search(table, hasPair, packs, incomplete+1))
				table[t] += 2
			}
		}

		if !numbered {
			continue
		}
		if t.Rank() < 9 && table[t+1] > 0 {
			s.path.units[depth] = makeUnit(unitChowOpenEnd, t)
			if !s.branchExists() {
				table[t]--
				table[t+1]--
				result = min(result, s.search(table, hasPair, packs, incomplete+1))
				table[t]++
				table[t+1]++
			}
		}
		if t.Rank() < 8 && table[t+2] > 0 {
			s.path.units[depth] = makeUnit(unitChowClosed, t)
			if !s.branchExists() {
				table[t]--
				table[t+2]--
				result = min(result, s.search(table, hasPair, packs, incomplete+1))
				table[t]++
				table[t+2]++
			}
		}
	}

	if result == maxRet {
		s.save()
	}
	return result
}

func hasNeighbor(table *tilemapping.Table, t tilemapping.Tile) bool {
	r := t.Rank()
	return (r < 9 && table[t+1] > 0) || (r < 8 && table[t+2] > 0) ||
		(r > 1 && table[t-1] > 0) || (r > 2 && table[t-2] > 0)
}

// basicFromTable computes the basic form shanten of table with fixed melds
// already declared. When useful is not nil the kinds that lower the
// shanten are marked in it; marks already there are kept.
func basicFromTable(table *tilemapping.Table, fixed int, useful *Useful) int {
	s := &basicSearch{fixed: fixed}
	result := s.search(table, false, fixed, 0)
	if useful == nil {
		return result
	}
	for _, t := range tilemapping.AllKinds {
		if table[t] == 4 && result > 0 {
			continue
		}
		if table[t] == 0 && (t.IsHonor() || !hasNeighbor(table, t)) {
			continue
		}
		table[t]++
		s.reset()
		if s.search(table, false, fixed, 0) < result {
			useful[t] = true
		}
		table[t]--
	}
	return result
}

func basicCountOK(n int) bool {
	return FormBasic.Applies(n)
}

// Basic returns the shanten toward four melds and a pair, and the kinds
// that would lower it. A result of -1 means the tiles already win.
func Basic(standing []tilemapping.Tile) (int, Useful, error) {
	var useful Useful
	n := len(standing)
	if !basicCountOK(n) {
		return 0, useful, fmt.Errorf("%w: %d tiles for basic form", ErrWrongStandingCount, n)
	}
	table := tilemapping.TableFromTiles(standing)
	st := basicFromTable(&table, (13-n)/3, &useful)
	return st, useful, nil
}
