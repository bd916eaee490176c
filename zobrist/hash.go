package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

const bignum = 1<<63 - 2

// MaxCount is the largest number of copies of one kind a hand can hold.
const MaxCount = 4

// Zobrist hashes a count table of tiles together with the number of fixed
// melds beside it. Keys for a count of zero are zero, so an empty table
// hashes to the fixed-meld key alone.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	countTable [tilemapping.TableSize][MaxCount + 1]uint64
	fixedMelds [pack.MaxFixed + 1]uint64
}

func (z *Zobrist) Initialize() {
	for _, k := range tilemapping.AllKinds {
		for c := 1; c <= MaxCount; c++ {
			z.countTable[k][c] = frand.Uint64n(bignum) + 1
		}
	}
	for i := range z.fixedMelds {
		z.fixedMelds[i] = frand.Uint64n(bignum) + 1
	}
}

// Hash computes the key of a standing table with the given number of
// fixed melds.
func (z *Zobrist) Hash(table *tilemapping.Table, fixed int) uint64 {
	key := z.fixedMelds[fixed]
	for _, k := range tilemapping.AllKinds {
		key ^= z.countTable[k][min(table[k], MaxCount)]
	}
	return key
}

// HashTiles is Hash for a plain list of standing tiles.
func (z *Zobrist) HashTiles(tiles []tilemapping.Tile, fixed int) uint64 {
	table := tilemapping.TableFromTiles(tiles)
	return z.Hash(&table, fixed)
}

// AddTile updates key for one more copy of t, given how many copies the
// table held before.
func (z *Zobrist) AddTile(key uint64, t tilemapping.Tile, before int) uint64 {
	return key ^ z.countTable[t][before] ^ z.countTable[t][before+1]
}

// TakeTile updates key for one fewer copy of t.
func (z *Zobrist) TakeTile(key uint64, t tilemapping.Tile, before int) uint64 {
	return key ^ z.countTable[t][before] ^ z.countTable[t][before-1]
}

// SetFixed swaps the fixed meld count folded into key.
func (z *Zobrist) SetFixed(key uint64, from, to int) uint64 {
	return key ^ z.fixedMelds[from] ^ z.fixedMelds[to]
}
