package fan

import (
	"slices"

	"github.com/domino14/guobiao/division"
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

// knittedStraightFan scores a knitted straight plus one meld and a pair.
// The nine knitted tiles stand in for three melds. It reports false when
// the hand has no such shape.
func knittedStraightFan(param *Param, flag WinFlag, t *Table) (pack.Division, bool) {
	var div pack.Division
	hand := &param.Hand
	fixed := len(hand.Fixed)
	if fixed > 1 {
		return div, false
	}
	win := param.WinTile
	table := hand.StandingTable()
	table.Add(win)

	var tmpl *[9]tile
	for i := range tilemapping.KnittedTemplates {
		if all(tilemapping.KnittedTemplates[i][:], table.Has) {
			tmpl = &tilemapping.KnittedTemplates[i]
			break
		}
	}
	if tmpl == nil {
		return div, false
	}
	for _, tl := range tmpl {
		table.Take(tl)
	}

	var work pack.Division
	if fixed == 1 {
		work[3] = hand.Fixed[0]
	}
	divs := division.DivideTable(&table, fixed+3, work)
	if len(divs) != 1 {
		return div, false
	}
	div = divs[0]
	meld, pair := div[3], div[4]

	t[KnittedStraight] = 1
	if meld.Kind() == pack.KindChow {
		if pair.Tile().IsNumbered() {
			t[AllChows] = 1
		}
	} else {
		scoreKongs([]pack.Pack{meld}, t)
	}

	scoreWinFlag(flag, t)
	if fixed == 0 || (meld.Kind() == pack.KindKong && !meld.Melded()) {
		if flag&WinSelfDrawn != 0 {
			t[FullyConcealedHand] = 1
		} else {
			t[ConcealedHand] = 1
		}
	}

	tiles := make([]tile, 0, 15)
	tiles = append(tiles, tmpl[:]...)
	tiles = meld.AppendTiles(tiles)
	tiles = pair.AppendTiles(tiles)
	scoreSuits(tiles, t)
	scoreTileHog(tiles, t)

	if !slices.Contains(tmpl[:], win) {
		if fixed == 0 {
			table.Take(win)
			scoreWait(div[3:], table.Tiles(), win, t)
		} else {
			// the only wait outside the knitted tiles is on the pair
			t[SingleWait] = 1
		}
	}

	resolve(t)

	if meld.Tile().IsWind() {
		scoreWind(meld.Tile(), param.PrevalentWind, param.SeatWind, t)
	}
	return div, true
}

func isThirteenOrphans(sorted []tile) bool {
	return all(sorted, tile.IsTerminalOrHonor) &&
		pack.Includes(sorted, tilemapping.ThirteenOrphans[:])
}

var honorKinds = tilemapping.ThirteenOrphans[6:]

// honorsAndKnittedFan matches fourteen distinct tiles: seven to nine
// numbered tiles from one knitted template plus honors.
func honorsAndKnittedFan(sorted []tile, t *Table) bool {
	numbered := slices.IndexFunc(sorted, tile.IsHonor)
	if numbered < 0 {
		numbered = len(sorted)
	}
	if numbered < 7 || numbered > 9 {
		return false
	}
	nums, honors := sorted[:numbered], sorted[numbered:]
	if !slices.ContainsFunc(tilemapping.KnittedTemplates[:], func(tmpl [9]tile) bool {
		return pack.Includes(tmpl[:], nums)
	}) {
		return false
	}
	if numbered == 7 && slices.Equal(honors, honorKinds) {
		t[GreaterHonorsAndKnittedTiles] = 1
		return true
	}
	if pack.Includes(honorKinds, honors) {
		t[LesserHonorsAndKnittedTiles] = 1
		if numbered == 9 {
			t[KnittedStraight] = 1
		}
		return true
	}
	return false
}

// specialFormFan scores fully concealed hands with no conventional
// melds: seven pairs, thirteen orphans and honors and knitted tiles.
// sorted holds all fourteen tiles in order.
func specialFormFan(sorted []tile, flag WinFlag, t *Table) (shanten.Form, bool) {
	var form shanten.Form
	switch {
	case isSevenPairs(sorted):
		if isSevenShiftedPairs(sorted) {
			t[SevenShiftedPairs] = 1
			scoreTileTraits(sorted, t)
		} else {
			t[SevenPairs] = 1
			scoreSuits(sorted, t)
			scoreTileTraits(sorted, t)
			scoreRankRange(sorted, t)
			scoreTileHog(sorted, t)
		}
		form = shanten.FormSevenPairs
	case isThirteenOrphans(sorted):
		t[ThirteenOrphans] = 1
		form = shanten.FormThirteenOrphans
	case honorsAndKnittedFan(sorted, t):
		form = shanten.FormHonorsAndKnitted
	default:
		return form, false
	}
	scoreWinFlag(flag, t)
	resolve(t)
	return form, true
}

func isSevenPairs(sorted []tile) bool {
	if len(sorted) != 14 {
		return false
	}
	for i := 0; i < 14; i += 2 {
		if sorted[i] != sorted[i+1] {
			return false
		}
	}
	return true
}

func isSevenShiftedPairs(sorted []tile) bool {
	if !sorted[0].IsNumbered() {
		return false
	}
	for i := 2; i < 14; i += 2 {
		if sorted[i-2]+1 != sorted[i] {
			return false
		}
	}
	return true
}
