// Package pack models melds (chows, pungs, kongs and pairs), hands made of
// fixed melds plus standing tiles, and complete divisions of a hand.
package pack

import (
	"fmt"

	"github.com/domino14/guobiao/tilemapping"
)

type Kind uint8

const (
	KindChow Kind = 1
	KindPung Kind = 2
	KindKong Kind = 3
	KindPair Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindChow:
		return "chow"
	case KindPung:
		return "pung"
	case KindKong:
		return "kong"
	case KindPair:
		return "pair"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Pack is a compact meld encoding:
//
//	bits 0-7   anchor tile (the middle tile of a chow)
//	bits 8-11  kind
//	bits 12-13 offer, 0 when concealed, else the relative seat that
//	           supplied the claimed tile (for a chow, which tile was claimed)
//	bit  14    promoted, a melded pung later upgraded to a kong
type Pack uint16

const (
	offerMask    = 0x3000
	promotedFlag = 0x4000
)

// Make builds a pack. Offers above 3 are masked.
func Make(offer uint8, kind Kind, tile tilemapping.Tile) Pack {
	return Pack(uint16(offer&3)<<12 | uint16(kind)<<8 | uint16(tile))
}

func MakeChow(offer uint8, middle tilemapping.Tile) Pack {
	return Make(offer, KindChow, middle)
}

func MakePung(offer uint8, tile tilemapping.Tile) Pack {
	return Make(offer, KindPung, tile)
}

func MakeKong(offer uint8, tile tilemapping.Tile) Pack {
	return Make(offer, KindKong, tile)
}

func MakePair(tile tilemapping.Tile) Pack {
	return Make(0, KindPair, tile)
}

func (p Pack) Tile() tilemapping.Tile { return tilemapping.Tile(p & 0xFF) }

func (p Pack) Kind() Kind { return Kind((p >> 8) & 0xF) }

func (p Pack) Offer() uint8 { return uint8((p >> 12) & 3) }

// Melded reports whether the pack was made with a claimed tile.
func (p Pack) Melded() bool { return p&offerMask != 0 }

func (p Pack) Promoted() bool { return p&promotedFlag != 0 }

// IsPungOrKong is true for both triplets and quads, which score alike for
// most patterns.
func (p Pack) IsPungOrKong() bool {
	k := p.Kind()
	return k == KindPung || k == KindKong
}

// Promote upgrades a pung into a promoted kong, keeping its offer.
func (p Pack) Promote() Pack {
	if p.Kind() != KindPung {
		panic(fmt.Sprintf("cannot promote a %s", p.Kind()))
	}
	return Make(p.Offer(), KindKong, p.Tile()) | promotedFlag
}

// WithOffer returns a copy of the pack with its offer replaced.
func (p Pack) WithOffer(offer uint8) Pack {
	return p&^offerMask | Pack(uint16(offer&3)<<12)
}

// Size is the number of tiles in the pack.
func (p Pack) Size() int {
	switch p.Kind() {
	case KindChow, KindPung:
		return 3
	case KindKong:
		return 4
	case KindPair:
		return 2
	}
	panic(fmt.Sprintf("unknown pack kind %d", p.Kind()))
}

// AppendTiles appends the pack's tiles in ascending order.
func (p Pack) AppendTiles(dst []tilemapping.Tile) []tilemapping.Tile {
	t := p.Tile()
	if p.Kind() == KindChow {
		return append(dst, t-1, t, t+1)
	}
	for i := 0; i < p.Size(); i++ {
		dst = append(dst, t)
	}
	return dst
}

func (p Pack) Tiles() []tilemapping.Tile {
	return p.AppendTiles(make([]tilemapping.Tile, 0, 4))
}

// String prints the pack in hand notation. Pairs print as bare tiles.
func (p Pack) String() string {
	tiles := tilemapping.FormatTiles(p.Tiles())
	if p.Kind() == KindPair {
		return tiles
	}
	offer := p.Offer()
	if p.Promoted() {
		offer |= 4
	}
	if offer == 0 {
		return "[" + tiles + "]"
	}
	return fmt.Sprintf("[%s,%d]", tiles, offer)
}
