// Package fan scores winning hands under the Chinese Official rules. A
// hand is scored by evaluating every way it can be divided (or the
// special shape it forms) and keeping the best table of fans.
package fan

import (
	"fmt"
	"strings"
)

// Fan identifies one scoring pattern.
type Fan uint8

const (
	None Fan = iota

	// 88
	BigFourWinds
	BigThreeDragons
	AllGreen
	NineGates
	FourKongs
	SevenShiftedPairs
	ThirteenOrphans

	// 64
	AllTerminals
	LittleFourWinds
	LittleThreeDragons
	AllHonors
	FourConcealedPungs
	PureTerminalChows

	// 48
	QuadrupleChow
	FourPureShiftedPungs

	// 32
	FourPureShiftedChows
	ThreeKongs
	AllTerminalsAndHonors

	// 24
	SevenPairs
	GreaterHonorsAndKnittedTiles
	AllEvenPungs
	FullFlush
	PureTripleChow
	PureShiftedPungs
	UpperTiles
	MiddleTiles
	LowerTiles

	// 16
	PureStraight
	ThreeSuitedTerminalChows
	PureShiftedChows
	AllFive
	TriplePung
	ThreeConcealedPungs

	// 12
	LesserHonorsAndKnittedTiles
	KnittedStraight
	UpperFour
	LowerFour
	BigThreeWinds

	// 8
	MixedStraight
	ReversibleTiles
	MixedTripleChow
	MixedShiftedPungs
	ChickenHand
	LastTileDraw
	LastTileClaim
	OutWithReplacementTile
	RobbingTheKong

	// 6
	AllPungs
	HalfFlush
	MixedShiftedChows
	AllTypes
	MeldedHand
	TwoConcealedKongs
	TwoDragonsPungs

	// 4
	OutsideHand
	FullyConcealedHand
	TwoMeldedKongs
	LastTile

	// 2
	DragonPung
	PrevalentWind
	SeatWind
	ConcealedHand
	AllChows
	TileHog
	DoublePung
	TwoConcealedPungs
	ConcealedKong
	AllSimples

	// 1
	PureDoubleChow
	MixedDoubleChow
	ShortStraight
	TwoTerminalChows
	PungOfTerminalsOrHonors
	MeldedKong
	OneVoidedSuit
	NoHonors
	EdgeWait
	ClosedWait
	SingleWait
	SelfDrawn

	FlowerTiles

	// 5
	ConcealedKongAndMeldedKong

	FanCount
)

// Values holds the points each fan is worth.
var Values = [FanCount]int{
	0,
	88, 88, 88, 88, 88, 88, 88,
	64, 64, 64, 64, 64, 64,
	48, 48,
	32, 32, 32,
	24, 24, 24, 24, 24, 24, 24, 24, 24,
	16, 16, 16, 16, 16, 16,
	12, 12, 12, 12, 12,
	8, 8, 8, 8, 8, 8, 8, 8, 8,
	6, 6, 6, 6, 6, 6, 6,
	4, 4, 4, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1,
	5,
}

var names = [FanCount]string{
	"None",
	"Big Four Winds", "Big Three Dragons", "All Green", "Nine Gates", "Four Kongs",
	"Seven Shifted Pairs", "Thirteen Orphans",
	"All Terminals", "Little Four Winds", "Little Three Dragons", "All Honors",
	"Four Concealed Pungs", "Pure Terminal Chows",
	"Quadruple Chow", "Four Pure Shifted Pungs",
	"Four Pure Shifted Chows", "Three Kongs", "All Terminals and Honors",
	"Seven Pairs", "Greater Honors and Knitted Tiles", "All Even Pungs", "Full Flush",
	"Pure Triple Chow", "Pure Shifted Pungs", "Upper Tiles", "Middle Tiles", "Lower Tiles",
	"Pure Straight", "Three-Suited Terminal Chows", "Pure Shifted Chows", "All Five",
	"Triple Pung", "Three Concealed Pungs",
	"Lesser Honors and Knitted Tiles", "Knitted Straight", "Upper Four", "Lower Four",
	"Big Three Winds",
	"Mixed Straight", "Reversible Tiles", "Mixed Triple Chow", "Mixed Shifted Pungs",
	"Chicken Hand", "Last Tile Draw", "Last Tile Claim", "Out with Replacement Tile",
	"Robbing the Kong",
	"All Pungs", "Half Flush", "Mixed Shifted Chows", "All Types", "Melded Hand",
	"Two Concealed Kongs", "Two Dragons Pungs",
	"Outside Hand", "Fully Concealed Hand", "Two Melded Kongs", "Last Tile",
	"Dragon Pung", "Prevalent Wind", "Seat Wind", "Concealed Hand", "All Chows", "Tile Hog",
	"Double Pung", "Two Concealed Pungs", "Concealed Kong", "All Simples",
	"Pure Double Chow", "Mixed Double Chow", "Short Straight", "Two Terminal Chows",
	"Pung of Terminals or Honors", "Melded Kong", "One Voided Suit", "No Honors",
	"Edge Wait", "Closed Wait", "Single Wait", "Self-Drawn",
	"Flower Tiles",
	"Concealed Kong and Melded Kong",
}

var chineseNames = [FanCount]string{
	"无",
	"大四喜", "大三元", "绿一色", "九莲宝灯", "四杠", "连七对", "十三幺",
	"清幺九", "小四喜", "小三元", "字一色", "四暗刻", "一色双龙会",
	"一色四同顺", "一色四节高",
	"一色四步高", "三杠", "混幺九",
	"七对", "七星不靠", "全双刻", "清一色", "一色三同顺", "一色三节高", "全大", "全中", "全小",
	"清龙", "三色双龙会", "一色三步高", "全带五", "三同刻", "三暗刻",
	"全不靠", "组合龙", "大于五", "小于五", "三风刻",
	"花龙", "推不倒", "三色三同顺", "三色三节高", "无番和", "妙手回春", "海底捞月", "杠上开花", "抢杠和",
	"碰碰和", "混一色", "三色三步高", "五门齐", "全求人", "双暗杠", "双箭刻",
	"全带幺", "不求人", "双明杠", "和绝张",
	"箭刻", "圈风刻", "门风刻", "门前清", "平和", "四归一", "双同刻", "双暗刻", "暗杠", "断幺",
	"一般高", "喜相逢", "连六", "老少副", "幺九刻", "明杠", "缺一门", "无字", "边张", "嵌张", "单钓将", "自摸",
	"花牌",
	"明暗杠",
}

// Value returns the points the fan is worth once.
func (f Fan) Value() int {
	if f >= FanCount {
		return 0
	}
	return Values[f]
}

// Name is the English name of the fan.
func (f Fan) Name() string {
	if f >= FanCount {
		return fmt.Sprintf("fan(%d)", uint8(f))
	}
	return names[f]
}

func (f Fan) ChineseName() string {
	if f >= FanCount {
		return fmt.Sprintf("fan(%d)", uint8(f))
	}
	return chineseNames[f]
}

func (f Fan) String() string { return f.Name() }

// Lookup finds a fan by its English name, ignoring case.
func Lookup(name string) (Fan, bool) {
	for f := Fan(1); f < FanCount; f++ {
		if strings.EqualFold(names[f], name) {
			return f, true
		}
	}
	return None, false
}

func (f Fan) MarshalText() ([]byte, error) {
	if f >= FanCount {
		return nil, fmt.Errorf("unknown fan %d", uint8(f))
	}
	return []byte(names[f]), nil
}

func (f *Fan) UnmarshalText(b []byte) error {
	v, ok := Lookup(string(b))
	if !ok {
		return fmt.Errorf("unknown fan %q", string(b))
	}
	*f = v
	return nil
}
