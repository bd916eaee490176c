package tilemapping

import "fmt"

// Tile is a single mahjong tile. The high nibble holds the suit and the
// low nibble the rank, so 0x11 is 1m and 0x47 is the white dragon.
type Tile uint8

const (
	SuitCharacters uint8 = 1
	SuitBamboo     uint8 = 2
	SuitDots       uint8 = 3
	SuitHonors     uint8 = 4
)

const (
	East  Tile = 0x41
	South Tile = 0x42
	West  Tile = 0x43
	North Tile = 0x44
	Red   Tile = 0x45
	Green Tile = 0x46
	White Tile = 0x47
)

// TableSize is the length of a count table. Every valid tile value is
// strictly smaller.
const TableSize = 0x48

// NumKinds is the number of distinct tile kinds.
const NumKinds = 34

// MakeTile builds a tile out of a suit and a rank.
func MakeTile(suit, rank uint8) Tile {
	return Tile(suit<<4 | rank)
}

func (t Tile) Suit() uint8 { return uint8(t) >> 4 }

func (t Tile) Rank() uint8 { return uint8(t) & 0xF }

// Valid reports whether t names one of the 34 kinds.
func (t Tile) Valid() bool {
	r := t.Rank()
	switch t.Suit() {
	case SuitCharacters, SuitBamboo, SuitDots:
		return r >= 1 && r <= 9
	case SuitHonors:
		return r >= 1 && r <= 7
	}
	return false
}

func (t Tile) IsNumbered() bool {
	s := t.Suit()
	return s >= SuitCharacters && s <= SuitDots
}

func (t Tile) IsHonor() bool { return t.Suit() == SuitHonors }

func (t Tile) IsWind() bool { return t >= East && t <= North }

func (t Tile) IsDragon() bool { return t >= Red && t <= White }

func (t Tile) IsTerminal() bool {
	if !t.IsNumbered() {
		return false
	}
	r := t.Rank()
	return r == 1 || r == 9
}

func (t Tile) IsTerminalOrHonor() bool {
	return t.IsTerminal() || t.IsHonor()
}

// IsGreen reports whether the tile is made only of green ink: 2s 3s 4s 6s
// 8s and the green dragon.
func (t Tile) IsGreen() bool {
	switch t {
	case 0x22, 0x23, 0x24, 0x26, 0x28, Green:
		return true
	}
	return false
}

// IsReversible reports whether the tile's face is point symmetric:
// 1-5 8 9 dots, 2 4 5 6 8 9 bamboo and the white dragon.
func (t Tile) IsReversible() bool {
	switch t {
	case 0x31, 0x32, 0x33, 0x34, 0x35, 0x38, 0x39,
		0x22, 0x24, 0x25, 0x26, 0x28, 0x29,
		White:
		return true
	}
	return false
}

var honorLetters = [8]byte{0, 'E', 'S', 'W', 'N', 'C', 'F', 'P'}
var suitLetters = [4]byte{0, 'm', 's', 'p'}

// String returns the compact notation of a tile, such as 5p or E.
func (t Tile) String() string {
	if !t.Valid() {
		return fmt.Sprintf("?%02x", uint8(t))
	}
	if t.IsHonor() {
		return string(honorLetters[t.Rank()])
	}
	return string([]byte{'0' + t.Rank(), suitLetters[t.Suit()]})
}

// AllKinds lists the 34 tile kinds in canonical order.
var AllKinds = func() [NumKinds]Tile {
	var kinds [NumKinds]Tile
	i := 0
	for s := SuitCharacters; s <= SuitDots; s++ {
		for r := uint8(1); r <= 9; r++ {
			kinds[i] = MakeTile(s, r)
			i++
		}
	}
	for r := uint8(1); r <= 7; r++ {
		kinds[i] = MakeTile(SuitHonors, r)
		i++
	}
	return kinds
}()

// ThirteenOrphans are the thirteen terminal and honor kinds, sorted.
var ThirteenOrphans = [13]Tile{
	0x11, 0x19, 0x21, 0x29, 0x31, 0x39,
	East, South, West, North, Red, Green, White,
}

// KnittedTemplates are the six ways of splitting 147, 258 and 369 over the
// three suits. Each template is sorted.
var KnittedTemplates = [6][9]Tile{
	{0x11, 0x14, 0x17, 0x22, 0x25, 0x28, 0x33, 0x36, 0x39},
	{0x11, 0x14, 0x17, 0x23, 0x26, 0x29, 0x32, 0x35, 0x38},
	{0x12, 0x15, 0x18, 0x21, 0x24, 0x27, 0x33, 0x36, 0x39},
	{0x12, 0x15, 0x18, 0x23, 0x26, 0x29, 0x31, 0x34, 0x37},
	{0x13, 0x16, 0x19, 0x21, 0x24, 0x27, 0x32, 0x35, 0x38},
	{0x13, 0x16, 0x19, 0x22, 0x25, 0x28, 0x31, 0x34, 0x37},
}
