package fan

import (
	"slices"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

func isNineGates(standing []tile) bool {
	if len(standing) != 13 {
		return false
	}
	table := tilemapping.TableFromTiles(standing)
	for s := tilemapping.SuitCharacters; s <= tilemapping.SuitDots; s++ {
		if table[tilemapping.MakeTile(s, 1)] != 3 || table[tilemapping.MakeTile(s, 9)] != 3 {
			continue
		}
		ok := true
		for r := uint8(2); r <= 8; r++ {
			if table[tilemapping.MakeTile(s, r)] != 1 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func chowRanksAre2And8(chows []pack.Pack) (low, high [5]int, ok bool) {
	for _, c := range chows {
		switch c.Tile().Rank() {
		case 2:
			low[c.Tile().Suit()]++
		case 8:
			high[c.Tile().Suit()]++
		default:
			return low, high, false
		}
	}
	return low, high, true
}

// isPureTerminalChows needs two 123 and two 789 chows of the suit of a
// pair of fives.
func isPureTerminalChows(chows []pack.Pack, pair tile) bool {
	if pair.Rank() != 5 {
		return false
	}
	s := pair.Suit()
	for _, c := range chows {
		if c.Tile().Suit() != s {
			return false
		}
	}
	low, high, ok := chowRanksAre2And8(chows)
	return ok && low[s] == 2 && high[s] == 2
}

// isThreeSuitedTerminalChows needs 123 and 789 in each of the two suits
// other than that of a pair of fives.
func isThreeSuitedTerminalChows(chows []pack.Pack, pair tile) bool {
	if pair.Rank() != 5 {
		return false
	}
	ps := pair.Suit()
	for _, c := range chows {
		if c.Tile().Suit() == ps {
			return false
		}
	}
	low, high, ok := chowRanksAre2And8(chows)
	if !ok {
		return false
	}
	for s := tilemapping.SuitCharacters; s <= tilemapping.SuitDots; s++ {
		if s != ps && (low[s] == 0 || high[s] == 0) {
			return false
		}
	}
	return true
}

func midTiles(packs []pack.Pack) []tile {
	tiles := make([]tile, len(packs))
	for i, p := range packs {
		tiles[i] = p.Tile()
	}
	slices.Sort(tiles)
	return tiles
}

// Evaluate scores one division of a winning hand. The division's first
// len(param.Hand.Fixed) slots must be the hand's fixed melds. flag is the
// normalised win flag. A division that is not four melds and a pair
// scores an empty table.
func Evaluate(div pack.Division, param *Param, flag WinFlag) Table {
	var t Table

	var chows, pungs []pack.Pack
	var pair pack.Pack
	for _, p := range div {
		switch p.Kind() {
		case pack.KindChow:
			chows = append(chows, p)
		case pack.KindPung, pack.KindKong:
			pungs = append(pungs, p)
		case pack.KindPair:
			pair = p
		default:
			panic("unknown pack kind in division: " + p.Kind().String())
		}
	}
	if pair == 0 || len(chows)+len(pungs) != 4 {
		return t
	}

	win := param.WinTile
	scoreWinFlag(flag, &t)

	// A tile won off a discard that no concealed chow can explain
	// completes a pung, which then counts as exposed.
	if flag&WinSelfDrawn == 0 {
		inChow := slices.ContainsFunc(chows, func(c pack.Pack) bool {
			mid := c.Tile()
			return !c.Melded() && (mid-1 == win || mid == win || mid+1 == win)
		})
		if !inChow {
			for i, p := range pungs {
				if p.Tile() == win && !p.Melded() {
					pungs[i] = p.WithOffer(1)
				}
			}
		}
	}

	if len(pungs) > 0 {
		scoreKongs(pungs, &t)
	}

	switch len(chows) {
	case 4:
		if isThreeSuitedTerminalChows(chows, pair.Tile()) {
			t[ThreeSuitedTerminalChows] = 1
			break
		}
		if isPureTerminalChows(chows, pair.Tile()) {
			t[PureTerminalChows] = 1
			break
		}
		scoreFourChows([4]tile(midTiles(chows)), &t)
	case 3:
		scoreThreeChows([3]tile(midTiles(chows)), &t)
	case 2:
		if f := twoChowsFan(chows[0].Tile(), chows[1].Tile()); f != None {
			t[f]++
		}
		if f := twoPungsFan(pungs[0].Tile(), pungs[1].Tile()); f != None {
			t[f]++
		}
	case 1:
		scoreThreePungs([3]tile(midTiles(pungs)), &t)
	case 0:
		scoreFourPungs([4]tile(midTiles(pungs)), &t)
	}

	fixed := len(param.Hand.Fixed)
	standing := param.Hand.Standing
	heavenly := flag&(WinInit|WinSelfDrawn) == WinInit|WinSelfDrawn

	if !heavenly && isNineGates(standing) {
		t[NineGates] = 1
	}
	scoreConcealment(div[:fixed], flag&WinSelfDrawn != 0, &t)
	scorePair(pair.Tile(), len(chows), &t)
	scorePackTraits(&div, &t)

	tiles := make([]tile, 0, 18)
	tiles = append(tiles, standing...)
	for _, p := range div[:fixed] {
		tiles = p.AppendTiles(tiles)
	}
	tiles = append(tiles, win)

	scoreSuits(tiles, &t)
	scoreTileTraits(tiles, &t)
	scoreRankRange(tiles, &t)
	scoreTileHog(tiles, &t)
	if !heavenly {
		scoreWait(div[fixed:], standing, win, &t)
	}

	resolve(&t)

	if t[BigFourWinds] == 0 {
		for _, p := range pungs {
			if p.Tile().IsWind() {
				scoreWind(p.Tile(), param.PrevalentWind, param.SeatWind, &t)
			}
		}
	}
	if t.Empty() {
		t[ChickenHand] = 1
	}
	return t
}
