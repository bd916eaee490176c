package shanten

import (
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

// DiscardResult is the outcome of one discard for one form. A shanten of
// -1 means the hand already won with the tile about to be discarded.
type DiscardResult struct {
	Discard tilemapping.Tile
	Form    Form
	Shanten int
	Useful  Useful
}

// enumOne reports every selected form of standing after discarding
// discard. It returns false when fn asks to stop.
func enumOne(standing []tilemapping.Tile, discard tilemapping.Tile, forms Form,
	fn func(DiscardResult) bool) bool {

	for _, f := range Forms {
		if forms&f == 0 || !f.Applies(len(standing)) {
			continue
		}
		st, useful, err := formFuncs[f](standing)
		if err != nil {
			continue
		}
		if st == 0 && useful[discard] {
			st = -1
		}
		if !fn(DiscardResult{Discard: discard, Form: f, Shanten: st, Useful: useful}) {
			return false
		}
	}
	return true
}

// EnumDiscards evaluates every way of discarding from the hand plus the
// drawn tile: first the drawn tile itself, then each standing kind in
// turn. fn is called once per discard and form and may return false to
// stop. With no drawn tile only the hand as it stands is evaluated.
func EnumDiscards(hand pack.Hand, drawn tilemapping.Tile, forms Form, fn func(DiscardResult) bool) {
	if !enumOne(hand.Standing, drawn, forms, fn) || drawn == 0 {
		return
	}
	table := hand.StandingTable()
	standing := make([]tilemapping.Tile, 0, len(hand.Standing))
	for _, t := range tilemapping.AllKinds {
		if table[t] == 0 || t == drawn || table[drawn] >= 4 {
			continue
		}
		table[t]--
		table[drawn]++
		standing = table.AppendTiles(standing[:0])
		ok := enumOne(standing, t, forms, fn)
		table[drawn]--
		table[t]++
		if !ok {
			return
		}
	}
}
