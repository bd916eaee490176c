package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/tilemapping"
)

func tiles(t *testing.T, s string) []tilemapping.Tile {
	ts, err := tilemapping.ParseTiles(s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestHashOrderIndependent(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	a := z.HashTiles(tiles(t, "123m456sEEE"), 1)
	b := z.HashTiles(tiles(t, "EE456s1E23m"), 1)
	is.Equal(a, b)
	is.True(a != z.HashTiles(tiles(t, "123m456sEEE"), 2))
	is.True(a != z.HashTiles(tiles(t, "123m456sEES"), 1))
}

func TestIncremental(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	table := tilemapping.TableFromTiles(tiles(t, "1112345678999m"))
	key := z.Hash(&table, 0)
	nine := tilemapping.MakeTile(tilemapping.SuitCharacters, 9)

	before := table.CountOf(nine)
	table.Take(nine)
	key = z.TakeTile(key, nine, before)
	is.Equal(key, z.Hash(&table, 0))

	before = table.CountOf(tilemapping.East)
	table.Add(tilemapping.East)
	key = z.AddTile(key, tilemapping.East, before)
	is.Equal(key, z.Hash(&table, 0))

	key = z.SetFixed(key, 0, 3)
	is.Equal(key, z.Hash(&table, 3))

	// adding then taking the same tile is a no-op
	is.Equal(z.TakeTile(z.AddTile(key, nine, 2), nine, 3), key)
}
