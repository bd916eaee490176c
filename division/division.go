// Package division enumerates every way a complete hand splits into four
// melds plus a pair.
package division

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

// searchState is owned by a single Divide call.
type searchState struct {
	fixed   int
	work    pack.Division
	results []pack.Division
}

// Divide returns the distinct divisions of the standing tiles (winning
// tile included) given the fixed melds. Divisions differ in at least one
// of their free meld slots; fixed melds occupy the first slots of each.
// A hand that cannot be divided yields an empty result.
func Divide(standing []tilemapping.Tile, fixed []pack.Pack) []pack.Division {
	if len(fixed) > pack.MaxFixed || len(standing) != 14-3*len(fixed) {
		return nil
	}
	table := tilemapping.TableFromTiles(standing)
	s := &searchState{fixed: len(fixed)}
	copy(s.work[:], fixed)
	s.divide(&table, 0)
	log.Debug().Int("divisions", len(s.results)).Msg("divided")
	return s.results
}

// DivideTable divides a table that already holds exactly the tiles for
// the melds in slots [fixed, 4) plus the pair. work supplies the slots
// below fixed.
func DivideTable(table *tilemapping.Table, fixed int, work pack.Division) []pack.Division {
	s := &searchState{fixed: fixed, work: work}
	s.divide(table, 0)
	return s.results
}

func (s *searchState) divide(table *tilemapping.Table, step int) bool {
	idx := s.fixed + step
	if idx == 4 {
		return s.tail(table)
	}
	found := false
	for _, t := range tilemapping.AllKinds {
		n := table[t]
		if n < 1 {
			continue
		}
		if n > 2 {
			s.work[idx] = pack.MakePung(0, t)
			if !s.branchExists(step + 1) {
				table[t] -= 3
				if s.divide(table, step+1) {
					found = true
				}
				table[t] += 3
			}
		}
		if t.IsNumbered() && t.Rank() < 8 && table[t+1] > 0 && table[t+2] > 0 {
			s.work[idx] = pack.MakeChow(0, t+1)
			if !s.branchExists(step + 1) {
				table[t]--
				table[t+1]--
				table[t+2]--
				if s.divide(table, step+1) {
					found = true
				}
				table[t]++
				table[t+1]++
				table[t+2]++
			}
		}
	}
	return found
}

// tail takes the remaining two tiles as the pair.
func (s *searchState) tail(table *tilemapping.Table) bool {
	for _, t := range tilemapping.AllKinds {
		if table[t] < 2 {
			continue
		}
		table[t] -= 2
		empty := table.Empty()
		table[t] += 2
		if empty {
			s.work[4] = pack.MakePair(t)
			s.add()
			return true
		}
	}
	return false
}

func (s *searchState) add() {
	d := s.work
	slices.Sort(d[s.fixed:4])
	for _, o := range s.results {
		if slices.Equal(o[s.fixed:4], d[s.fixed:4]) {
			return
		}
	}
	if len(s.results) == pack.MaxDivisions {
		log.Warn().Str("division", d.String()).Msg("too-many-divisions")
		return
	}
	s.results = append(s.results, d)
}

// branchExists reports whether the free melds extracted so far already
// appear together in a recorded division. Fewer than three free melds
// cannot tell divisions apart, so those branches are always explored.
func (s *searchState) branchExists(step int) bool {
	if len(s.results) == 0 || step < 3 {
		return false
	}
	var tmp [4]pack.Pack
	partial := tmp[:step]
	copy(partial, s.work[s.fixed:s.fixed+step])
	slices.Sort(partial)
	for i := range s.results {
		if pack.Includes(s.results[i][s.fixed:4], partial) {
			return true
		}
	}
	return false
}
