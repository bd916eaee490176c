package cache

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
	"github.com/domino14/guobiao/zobrist"
)

const entrySize = 24

// minSizePowerOf2 keeps small machines and tests from getting a
// uselessly tiny table.
const minSizePowerOf2 = 12

type tableEntry struct {
	hash    uint64
	useful  uint64
	shanten int8
	form    shanten.Form // zero for an empty slot
}

func (t tableEntry) valid() bool {
	return t.form != 0
}

var kindBit = func() [tilemapping.TableSize]uint8 {
	var bits [tilemapping.TableSize]uint8
	for i, k := range tilemapping.AllKinds {
		bits[k] = uint8(i)
	}
	return bits
}()

func packUseful(u *shanten.Useful) uint64 {
	var v uint64
	for _, k := range tilemapping.AllKinds {
		if u[k] {
			v |= 1 << kindBit[k]
		}
	}
	return v
}

func unpackUseful(v uint64) shanten.Useful {
	var u shanten.Useful
	for i, k := range tilemapping.AllKinds {
		u[k] = v&(1<<i) != 0
	}
	return u
}

// TranspositionTable memoises per-form shanten results by the zobrist
// hash of the standing tiles. It is sized as a fraction of system memory
// and overwrites on collision.
type TranspositionTable struct {
	sync.RWMutex
	table        []tableEntry
	sizePowerOf2 int
	sizeMask     uint64
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	t2collisions atomic.Uint64

	zobrist *zobrist.Zobrist
}

// GlobalTranspositionTable is shared by every analyzer in the process.
var GlobalTranspositionTable = &TranspositionTable{}

// Reset allocates (or clears) the table to use about fractionOfMemory
// of the machine's memory, capped by maxElemsPowerOf2 if it is positive.
func (t *TranspositionTable) Reset(fractionOfMemory float64, maxElemsPowerOf2 int) {
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if maxElemsPowerOf2 > 0 && t.sizePowerOf2 > maxElemsPowerOf2 {
		t.sizePowerOf2 = maxElemsPowerOf2
	}
	if t.sizePowerOf2 < minSizePowerOf2 {
		t.sizePowerOf2 = minSizePowerOf2
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]tableEntry, numElems)
	}
	if t.zobrist == nil {
		t.zobrist = &zobrist.Zobrist{}
		t.zobrist.Initialize()
	}
	log.Info().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// mix folds the form into the key.
// https://stackoverflow.com/a/12996028/1737333
func mix(key uint64, form shanten.Form) uint64 {
	x := uint64(form)
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return key ^ x
}

func (t *TranspositionTable) lookup(key uint64, form shanten.Form) (tableEntry, bool) {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	e := t.table[key&t.sizeMask]
	if !e.valid() {
		return e, false
	}
	if e.hash != key || e.form != form {
		t.t2collisions.Add(1)
		return e, false
	}
	t.hits.Add(1)
	return e, true
}

func (t *TranspositionTable) store(key uint64, e tableEntry) {
	e.hash = key
	t.Lock()
	defer t.Unlock()
	t.table[key&t.sizeMask] = e
	t.created.Add(1)
}

// Shanten is shanten.Shanten with each single-form result memoised.
func (t *TranspositionTable) Shanten(standing []tilemapping.Tile, forms shanten.Form) (shanten.Result, error) {
	if t.table == nil {
		return shanten.Shanten(standing, forms)
	}
	fixed := (13 - len(standing)) / 3
	base := t.zobrist.HashTiles(standing, max(fixed, 0))

	var res shanten.Result
	for _, f := range shanten.Forms {
		if forms&f == 0 || !f.Applies(len(standing)) {
			continue
		}
		key := mix(base, f)
		if e, ok := t.lookup(key, f); ok {
			res.Forms = append(res.Forms, shanten.FormResult{
				Form: f, Shanten: int(e.shanten), Useful: unpackUseful(e.useful)})
			continue
		}
		single, err := shanten.Shanten(standing, f)
		if err != nil {
			return res, err
		}
		fr := single.Forms[0]
		t.store(key, tableEntry{useful: packUseful(&fr.Useful), shanten: int8(fr.Shanten), form: f})
		res.Forms = append(res.Forms, fr)
	}
	if len(res.Forms) == 0 {
		// let the engine report the count error
		return shanten.Shanten(standing, forms)
	}
	res.Shanten = res.Forms[0].Shanten
	for _, fr := range res.Forms[1:] {
		res.Shanten = min(res.Shanten, fr.Shanten)
	}
	for i := range res.Forms {
		if res.Forms[i].Shanten == res.Shanten {
			res.Useful.Merge(&res.Forms[i].Useful)
		}
	}
	return res, nil
}

// Stats reports lookups, hits, stores and slot collisions.
func (t *TranspositionTable) Stats() (lookups, hits, created, collisions uint64) {
	return t.lookups.Load(), t.hits.Load(), t.created.Load(), t.t2collisions.Load()
}
