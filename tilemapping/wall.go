package tilemapping

import (
	"errors"
	"fmt"

	"lukechampine.com/frand"
)

var ErrWallEmpty = errors.New("not enough tiles in the wall")

// Wall is the set of tiles that have not been drawn yet.
type Wall struct {
	tiles []Tile
}

// NewWall makes a full wall of four copies of each kind, shuffled.
func NewWall() *Wall {
	w := &Wall{tiles: make([]Tile, 0, 4*NumKinds)}
	w.Reset()
	return w
}

// Reset puts every tile back and shuffles.
func (w *Wall) Reset() {
	w.tiles = w.tiles[:0]
	for _, k := range AllKinds {
		for i := 0; i < 4; i++ {
			w.tiles = append(w.tiles, k)
		}
	}
	w.Shuffle()
}

func (w *Wall) Shuffle() {
	frand.Shuffle(len(w.tiles), func(i, j int) {
		w.tiles[i], w.tiles[j] = w.tiles[j], w.tiles[i]
	})
}

// Draw removes n tiles from the end of the wall into dst.
func (w *Wall) Draw(n int, dst []Tile) error {
	if n > len(w.tiles) {
		return ErrWallEmpty
	}
	l := len(w.tiles)
	copy(dst, w.tiles[l-n:])
	w.tiles = w.tiles[:l-n]
	return nil
}

// Remove takes the given tiles out of the wall, wherever they are.
func (w *Wall) Remove(tiles []Tile) error {
	for _, t := range tiles {
		idx := -1
		for i, wt := range w.tiles {
			if wt == t {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: no %s left", ErrWallEmpty, t)
		}
		last := len(w.tiles) - 1
		w.tiles[idx] = w.tiles[last]
		w.tiles = w.tiles[:last]
	}
	return nil
}

func (w *Wall) TilesRemaining() int {
	return len(w.tiles)
}

// Copy returns an independent copy of the wall.
func (w *Wall) Copy() *Wall {
	tiles := make([]Tile, len(w.tiles))
	copy(tiles, w.tiles)
	return &Wall{tiles: tiles}
}
