package fan

import (
	"slices"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

type tile = tilemapping.Tile

func shifted1(a, b, c uint8) bool { return a+1 == b && b+1 == c }

func shifted2(a, b, c uint8) bool { return a+2 == b && b+2 == c }

func mixedSuits(a, b, c uint8) bool { return a != b && a != c && b != c }

// shifted1Any is true when the three ranks are consecutive in any order.
func shifted1Any(a, b, c uint8) bool {
	r := []uint8{a, b, c}
	slices.Sort(r)
	return shifted1(r[0], r[1], r[2])
}

// Chow fans are computed on sorted middle tiles. Tiles of one suit are
// contiguous, so t+1 is the next rank of the same suit.

func fourChowsFan(t0, t1, t2, t3 tile) Fan {
	if (t0+1 == t1 && t1+1 == t2 && t2+1 == t3) || (t0+2 == t1 && t1+2 == t2 && t2+2 == t3) {
		return FourPureShiftedChows
	}
	if t0 == t1 && t0 == t2 && t0 == t3 {
		return QuadrupleChow
	}
	return None
}

func threeChowsFan(t0, t1, t2 tile) Fan {
	s0, s1, s2 := t0.Suit(), t1.Suit(), t2.Suit()
	r0, r1, r2 := t0.Rank(), t1.Rank(), t2.Rank()
	if mixedSuits(s0, s1, s2) {
		if shifted1Any(r0, r1, r2) {
			return MixedShiftedChows
		}
		if r0 == r1 && r1 == r2 {
			return MixedTripleChow
		}
		r := []uint8{r0, r1, r2}
		slices.Sort(r)
		if r[0] == 2 && r[1] == 5 && r[2] == 8 {
			return MixedStraight
		}
		return None
	}
	if t0+3 == t1 && t1+3 == t2 {
		return PureStraight
	}
	if shifted1(uint8(t0), uint8(t1), uint8(t2)) || shifted2(uint8(t0), uint8(t1), uint8(t2)) {
		return PureShiftedChows
	}
	if t0 == t1 && t0 == t2 {
		return PureTripleChow
	}
	return None
}

func twoChowsFan(t0, t1 tile) Fan {
	if t0.Suit() != t1.Suit() {
		if t0.Rank() == t1.Rank() {
			return MixedDoubleChow
		}
		return None
	}
	if t0+3 == t1 || t1+3 == t0 {
		return ShortStraight
	}
	r0, r1 := t0.Rank(), t1.Rank()
	if (r0 == 2 && r1 == 8) || (r0 == 8 && r1 == 2) {
		return TwoTerminalChows
	}
	if t0 == t1 {
		return PureDoubleChow
	}
	return None
}

func fourPungsFan(t0, t1, t2, t3 tile) Fan {
	if t0.IsNumbered() && t0+1 == t1 && t1+1 == t2 && t2+1 == t3 {
		return FourPureShiftedPungs
	}
	if t0 == tilemapping.East && t1 == tilemapping.South && t2 == tilemapping.West &&
		t3 == tilemapping.North {
		return BigFourWinds
	}
	return None
}

func threePungsFan(t0, t1, t2 tile) Fan {
	if t0.IsNumbered() && t1.IsNumbered() && t2.IsNumbered() {
		r0, r1, r2 := t0.Rank(), t1.Rank(), t2.Rank()
		if mixedSuits(t0.Suit(), t1.Suit(), t2.Suit()) {
			if shifted1Any(r0, r1, r2) {
				return MixedShiftedPungs
			}
			if r0 == r1 && r1 == r2 {
				return TriplePung
			}
			return None
		}
		if t0+1 == t1 && t1+1 == t2 {
			return PureShiftedPungs
		}
		return None
	}
	if t0.IsWind() && t1.IsWind() && t2.IsWind() {
		return BigThreeWinds
	}
	if t0 == tilemapping.Red && t1 == tilemapping.Green && t2 == tilemapping.White {
		return BigThreeDragons
	}
	return None
}

func twoPungsFan(t0, t1 tile) Fan {
	if t0.IsNumbered() && t1.IsNumbered() {
		if t0.Rank() == t1.Rank() {
			return DoublePung
		}
		return None
	}
	if t0.IsDragon() && t1.IsDragon() {
		return TwoDragonsPungs
	}
	return None
}

func onePungFan(t tile) Fan {
	if t.IsDragon() {
		return DragonPung
	}
	if t.IsTerminal() || t.IsWind() {
		return PungOfTerminalsOrHonors
	}
	return None
}

// extraChowFan is the single fan the fourth chow may add to a three
// chow pattern, in priority order.
func extraChowFan(t0, t1, t2, extra tile) Fan {
	fans := [3]Fan{twoChowsFan(t0, extra), twoChowsFan(t1, extra), twoChowsFan(t2, extra)}
	for _, f := range []Fan{PureDoubleChow, MixedDoubleChow, ShortStraight, TwoTerminalChows} {
		if slices.Contains(fans[:], f) {
			return f
		}
	}
	return None
}

// pairChowFans is the order the two chow fans are trimmed in, last first.
var pairChowFans = [4]Fan{PureDoubleChow, MixedDoubleChow, ShortStraight, TwoTerminalChows}

// limitPairChows applies the rule that a chow combines with another chow
// only once and never into the same fan twice. The pairwise fans are
// counted and, while more are present than maxCount allows, duplicates
// are trimmed first starting from Two Terminal Chows, then singles.
func limitPairChows(fans []Fan, maxCount int, t *Table) {
	var counts [4]int
	n := 0
	for _, f := range fans {
		if f == None {
			continue
		}
		n++
		counts[slices.Index(pairChowFans[:], f)]++
	}
	for limit := 1; n > maxCount && limit >= 0; limit-- {
		for i := 3; i >= 0 && n > maxCount; i-- {
			for counts[i] > limit && n > maxCount {
				counts[i]--
				n--
			}
		}
	}
	for i, f := range pairChowFans {
		t[f] = counts[i]
	}
}

func scoreFourChows(mid [4]tile, t *Table) {
	if f := fourChowsFan(mid[0], mid[1], mid[2], mid[3]); f != None {
		t[f] = 1
		return
	}
	// the first triple (in index order) that forms a fan wins
	for _, idx := range [4][4]int{{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 3, 1}, {1, 2, 3, 0}} {
		a, b, c, rest := mid[idx[0]], mid[idx[1]], mid[idx[2]], mid[idx[3]]
		if f := threeChowsFan(a, b, c); f != None {
			t[f] = 1
			if f = extraChowFan(a, b, c, rest); f != None {
				t[f] = 1
			}
			return
		}
	}

	fans := []Fan{
		twoChowsFan(mid[0], mid[1]),
		twoChowsFan(mid[0], mid[2]),
		twoChowsFan(mid[0], mid[3]),
		twoChowsFan(mid[1], mid[2]),
		twoChowsFan(mid[1], mid[3]),
		twoChowsFan(mid[2], mid[3]),
	}
	// every chow unrelated to the others lowers the cap
	maxCount := 3
	for _, pairs := range [4][3]int{{0, 1, 2}, {0, 3, 4}, {1, 3, 5}, {2, 4, 5}} {
		if fans[pairs[0]] == None && fans[pairs[1]] == None && fans[pairs[2]] == None {
			maxCount--
		}
	}
	if maxCount > 0 {
		limitPairChows(fans, maxCount, t)
	}
}

func scoreThreeChows(mid [3]tile, t *Table) {
	if f := threeChowsFan(mid[0], mid[1], mid[2]); f != None {
		t[f] = 1
		return
	}
	fans := []Fan{
		twoChowsFan(mid[0], mid[1]),
		twoChowsFan(mid[0], mid[2]),
		twoChowsFan(mid[1], mid[2]),
	}
	limitPairChows(fans, 2, t)
}

func scoreFourPungs(mid [4]tile, t *Table) {
	if f := fourPungsFan(mid[0], mid[1], mid[2], mid[3]); f != None {
		t[f] = 1
		return
	}
	for _, idx := range [4][4]int{{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 3, 1}, {1, 2, 3, 0}} {
		f := threePungsFan(mid[idx[0]], mid[idx[1]], mid[idx[2]])
		if f == None {
			continue
		}
		t[f] = 1
		// the free pung combines once with one of the others
		free := mid[idx[3]]
		for i := range mid {
			if i == idx[3] {
				continue
			}
			if f = twoPungsFan(mid[i], free); f != None {
				t[f]++
				break
			}
		}
		return
	}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if f := twoPungsFan(mid[i], mid[j]); f != None {
				t[f]++
			}
		}
	}
}

func scoreThreePungs(mid [3]tile, t *Table) {
	if f := threePungsFan(mid[0], mid[1], mid[2]); f != None {
		t[f] = 1
		return
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if f := twoPungsFan(mid[i], mid[j]); f != None {
				t[f]++
			}
		}
	}
}

// scoreKongs scores the kong and concealed pung counts of the pungs and
// kongs in a division, then each pung on its own.
func scoreKongs(pungs []pack.Pack, t *Table) {
	meldedKongs, concealedKongs, concealedPungs := 0, 0, 0
	for _, p := range pungs {
		kong := p.Kind() == pack.KindKong
		switch {
		case p.Melded() && kong:
			meldedKongs++
		case !p.Melded() && kong:
			concealedKongs++
		case !p.Melded():
			concealedPungs++
		}
	}
	concealed := concealedKongs + concealedPungs

	switch meldedKongs + concealedKongs {
	case 0:
	case 1:
		if meldedKongs == 1 {
			t[MeldedKong] = 1
		} else {
			t[ConcealedKong] = 1
		}
	case 2:
		switch concealedKongs {
		case 0:
			t[TwoMeldedKongs] = 1
		case 1:
			t[ConcealedKongAndMeldedKong] = 1
		case 2:
			t[TwoConcealedKongs] = 1
		}
	case 3:
		t[ThreeKongs] = 1
	case 4:
		t[FourKongs] = 1
	default:
		panic("more than four kongs in a division")
	}
	switch {
	case concealed == 4:
		t[FourConcealedPungs] = 1
	case concealed == 3:
		t[ThreeConcealedPungs] = 1
	case concealed == 2 && t[TwoConcealedKongs] == 0:
		t[TwoConcealedPungs] = 1
	}

	if len(pungs) == 4 && t[FourKongs] == 0 && t[FourConcealedPungs] == 0 {
		t[AllPungs] = 1
	}
	for _, p := range pungs {
		if f := onePungFan(p.Tile()); f != None {
			t[f]++
		}
	}
}
