package fan

import (
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

func scoreWinFlag(flag WinFlag, t *Table) {
	selfDrawn := flag&WinSelfDrawn != 0
	if flag&WinFourthTile != 0 {
		t[LastTile] = 1
	}
	if flag&WinWallLast != 0 {
		if selfDrawn {
			t[LastTileDraw] = 1
		} else {
			t[LastTileClaim] = 1
		}
	}
	if flag&WinAboutKong != 0 {
		if selfDrawn {
			t[OutWithReplacementTile] = 1
		} else {
			t[RobbingTheKong] = 1
		}
	}
	if selfDrawn {
		t[SelfDrawn] = 1
	}
}

// scoreConcealment looks at how many fixed melds were claimed.
func scoreConcealment(fixed []pack.Pack, selfDrawn bool, t *Table) {
	melded := 0
	for _, p := range fixed {
		if p.Melded() {
			melded++
		}
	}
	switch {
	case melded == 0 && selfDrawn:
		t[FullyConcealedHand] = 1
	case melded == 0:
		t[ConcealedHand] = 1
	case melded == 4 && !selfDrawn:
		t[MeldedHand] = 1
	case selfDrawn:
		t[SelfDrawn] = 1
	}
}

func scorePair(pair tile, chows int, t *Table) {
	if chows == 4 {
		if pair.IsNumbered() {
			t[AllChows] = 1
		}
		return
	}
	if t[TwoDragonsPungs] != 0 {
		if pair.IsDragon() {
			t[LittleThreeDragons] = 1
			t[TwoDragonsPungs] = 0
		}
		return
	}
	if t[BigThreeWinds] != 0 && pair.IsWind() {
		t[LittleFourWinds] = 1
		t[BigThreeWinds] = 0
	}
}

func scoreSuits(tiles []tile, t *Table) {
	var present [5]bool
	winds, dragons := false, false
	for _, tl := range tiles {
		present[tl.Suit()] = true
		winds = winds || tl.IsWind()
		dragons = dragons || tl.IsDragon()
	}
	honors := present[tilemapping.SuitHonors]
	if !honors {
		t[NoHonors] = 1
	}
	voided := 0
	for s := tilemapping.SuitCharacters; s <= tilemapping.SuitDots; s++ {
		if !present[s] {
			voided++
		}
	}
	switch voided {
	case 1:
		t[OneVoidedSuit] = 1
	case 2:
		if honors {
			t[HalfFlush] = 1
		} else {
			t[FullFlush] = 1
		}
	case 0:
		if winds && dragons {
			t[AllTypes] = 1
		}
	}
}

func scoreRankRange(tiles []tile, t *Table) {
	var ranks uint16
	for _, tl := range tiles {
		if !tl.IsNumbered() {
			return
		}
		ranks |= 1 << tl.Rank()
	}
	switch {
	case ranks&^0b11110 == 0:
		if ranks&(1<<4) != 0 {
			t[LowerFour] = 1
		} else {
			t[LowerTiles] = 1
		}
	case ranks&^0b1111000000 == 0:
		if ranks&(1<<6) != 0 {
			t[UpperFour] = 1
		} else {
			t[UpperTiles] = 1
		}
	case ranks&^0b1110000 == 0:
		t[MiddleTiles] = 1
	}
}

// scorePackTraits counts the packs that carry a terminal or honor, a five,
// or an even pung.
func scorePackTraits(packs *pack.Division, t *Table) {
	outside, fives, even := 0, 0, 0
	for _, p := range packs {
		tl := p.Tile()
		if !tl.IsNumbered() {
			outside++
			continue
		}
		r := tl.Rank()
		if p.Kind() == pack.KindChow {
			switch r {
			case 2, 8:
				outside++
			case 4, 5, 6:
				fives++
			}
			continue
		}
		switch r {
		case 1, 9:
			outside++
		case 5:
			fives++
		case 2, 4, 6, 8:
			even++
		}
	}
	switch {
	case outside == 5:
		t[OutsideHand] = 1
	case fives == 5:
		t[AllFive] = 1
	case even == 5:
		t[AllEvenPungs] = 1
	}
}

func all(tiles []tile, pred func(tile) bool) bool {
	for _, tl := range tiles {
		if !pred(tl) {
			return false
		}
	}
	return true
}

func scoreTileTraits(tiles []tile, t *Table) {
	simples := all(tiles, func(tl tile) bool { return !tl.IsTerminalOrHonor() })
	if simples {
		t[AllSimples] = 1
	}
	if all(tiles, tile.IsReversible) {
		t[ReversibleTiles] = 1
	}
	if all(tiles, tile.IsGreen) {
		t[AllGreen] = 1
	}
	if simples {
		return
	}
	switch {
	case all(tiles, tile.IsHonor):
		t[AllHonors] = 1
	case all(tiles, tile.IsTerminal):
		t[AllTerminals] = 1
	case all(tiles, tile.IsTerminalOrHonor):
		t[AllTerminalsAndHonors] = 1
	}
}

// scoreTileHog counts kinds with all four tiles in the hand that are not
// a kong. kongs is how many tiles beyond fourteen the hand holds.
func scoreTileHog(tiles []tile, t *Table) {
	table := tilemapping.TableFromTiles(tiles)
	fours := 0
	for _, k := range tilemapping.AllKinds {
		if table[k] == 4 {
			fours++
		}
	}
	t[TileHog] = fours - (len(tiles) - 14)
}

// scoreWait credits an edge, closed or single wait when the hand was
// waiting on exactly one tile. concealed holds the packs formed from the
// standing tiles and standing the tiles before the win.
func scoreWait(concealed []pack.Pack, standing []tile, win tile, t *Table) {
	if t[MeldedHand] != 0 || t[FourKongs] != 0 {
		return
	}
	ok, waiting := shanten.BasicWait(standing)
	if !ok {
		return
	}
	if len(concealed) == pack.DivisionSize {
		if ok, pairs := shanten.SevenPairsWait(standing); ok {
			waiting.Merge(&pairs)
		}
	}
	if waiting.Count() != 1 {
		return
	}

	edge, closed, single := false, false, false
	for _, p := range concealed {
		switch p.Kind() {
		case pack.KindChow:
			mid := p.Tile()
			if mid == win {
				closed = true
			} else if mid+1 == win || mid-1 == win {
				edge = true
			}
		case pack.KindPair:
			if p.Tile() == win {
				single = true
			}
		}
	}
	switch {
	case edge:
		t[EdgeWait] = 1
	case closed:
		t[ClosedWait] = 1
	case single:
		t[SingleWait] = 1
	}
}

// scoreWind credits a wind pung matching the prevalent or seat wind and
// takes back the plain terminal or honor pung credit it replaces, unless
// a larger fan already removed that credit.
func scoreWind(wind tile, prevalent, seat tile, t *Table) {
	deducted := t[BigThreeWinds] != 0 || t[AllTerminalsAndHonors] != 0 ||
		t[AllHonors] != 0 || t[LittleFourWinds] != 0
	if wind == prevalent {
		t[PrevalentWind] = 1
		if !deducted {
			takePungCredit(t, 1)
		}
	}
	if wind == seat {
		t[SeatWind] = 1
		if seat != prevalent && !deducted {
			takePungCredit(t, 1)
		}
	}
}
