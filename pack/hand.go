package pack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/guobiao/tilemapping"
)

const (
	// MaxFixed is the number of melds a hand can declare.
	MaxFixed = 4
	// DivisionSize is four melds plus the pair.
	DivisionSize = 5
	// MaxDivisions bounds how many distinct divisions a hand can have.
	MaxDivisions = 20
)

var (
	ErrWrongTilesCount       = errors.New("wrong tiles count")
	ErrTileCountGreaterThan4 = errors.New("tile count greater than 4")
)

// Division is one way to split a complete hand: slots 0-3 hold the melds
// and slot 4 the pair. Fixed melds come first.
type Division [DivisionSize]Pack

func (d Division) Pair() Pack { return d[4] }

func (d Division) String() string {
	var sb strings.Builder
	for _, p := range d {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Tiles expands the division back into its tiles, in slot order.
func (d Division) Tiles() []tilemapping.Tile {
	tiles := make([]tilemapping.Tile, 0, 18)
	for _, p := range d {
		tiles = p.AppendTiles(tiles)
	}
	return tiles
}

// Hand is a set of declared melds plus the concealed standing tiles.
type Hand struct {
	Fixed    []Pack
	Standing []tilemapping.Tile
}

// Table counts every tile in the hand, fixed melds included. Kongs count
// four tiles.
func (h *Hand) Table() tilemapping.Table {
	var t tilemapping.Table
	for _, p := range h.Fixed {
		for _, tile := range p.Tiles() {
			t.Add(tile)
		}
	}
	for _, tile := range h.Standing {
		t.Add(tile)
	}
	return t
}

// StandingTable counts only the standing tiles.
func (h *Hand) StandingTable() tilemapping.Table {
	return tilemapping.TableFromTiles(h.Standing)
}

// Validate checks the tile count arithmetic and that no kind appears more
// than four times. winTile may be zero when there is no winning tile.
func (h *Hand) Validate(winTile tilemapping.Tile) error {
	n := len(h.Fixed)
	if n > MaxFixed || len(h.Standing) != 13-3*n {
		return fmt.Errorf("%w: %d melds and %d standing tiles", ErrWrongTilesCount,
			n, len(h.Standing))
	}
	for _, t := range h.Standing {
		if !t.Valid() {
			return fmt.Errorf("%w: invalid tile %s", ErrWrongTilesCount, t)
		}
	}
	t := h.Table()
	if winTile != 0 {
		if !winTile.Valid() {
			return fmt.Errorf("%w: invalid winning tile %s", ErrWrongTilesCount, winTile)
		}
		t.Add(winTile)
	}
	for _, k := range tilemapping.AllKinds {
		if t.CountOf(k) > 4 {
			return fmt.Errorf("%w: %s", ErrTileCountGreaterThan4, k)
		}
	}
	return nil
}

// Copy returns a hand that shares no memory with h.
func (h Hand) Copy() Hand {
	c := Hand{
		Fixed:    make([]Pack, len(h.Fixed)),
		Standing: make([]tilemapping.Tile, len(h.Standing)),
	}
	copy(c.Fixed, h.Fixed)
	copy(c.Standing, h.Standing)
	return c
}

func (h Hand) String() string {
	var sb strings.Builder
	for _, p := range h.Fixed {
		sb.WriteString(p.String())
	}
	sb.WriteString(tilemapping.FormatTiles(h.Standing))
	return sb.String()
}
