package tilemapping

import (
	"testing"

	"github.com/matryer/is"
)

func TestAllKinds(t *testing.T) {
	is := is.New(t)
	is.Equal(AllKinds[0], Tile(0x11))
	is.Equal(AllKinds[9], Tile(0x21))
	is.Equal(AllKinds[27], East)
	is.Equal(AllKinds[33], White)
	for i := 1; i < NumKinds; i++ {
		is.True(AllKinds[i-1] < AllKinds[i])
		is.True(AllKinds[i].Valid())
	}
}

func TestTileTraits(t *testing.T) {
	is := is.New(t)
	is.True(Tile(0x19).IsTerminal())
	is.True(!Tile(0x18).IsTerminal())
	is.True(!East.IsTerminal())
	is.True(East.IsTerminalOrHonor())
	is.True(North.IsWind())
	is.True(!Red.IsWind())
	is.True(Red.IsDragon())
	is.True(Green.IsGreen())
	is.True(!Tile(0x25).IsGreen())
	is.True(White.IsReversible())
	is.True(!Tile(0x37).IsReversible())
	is.True(!Tile(0x40).Valid())
	is.True(!Tile(0x48).Valid())
	is.True(!Tile(0x1a).Valid())
}

func TestTemplates(t *testing.T) {
	is := is.New(t)
	for _, tmpl := range KnittedTemplates {
		suits := map[uint8]bool{}
		for i, tile := range tmpl {
			is.True(tile.IsNumbered())
			if i > 0 {
				is.True(tmpl[i-1] < tile)
			}
			suits[tile.Suit()] = true
		}
		is.Equal(len(suits), 3)
	}
}

func TestTable(t *testing.T) {
	is := is.New(t)
	tiles, err := ParseTiles("1123m9sEE")
	is.NoErr(err)
	tbl := TableFromTiles(tiles)
	is.Equal(tbl.Total(), 7)
	is.Equal(tbl.Kinds(), 5)
	is.Equal(tbl.CountOf(0x11), 2)
	tbl.Take(East)
	tbl.Take(East)
	is.True(!tbl.Has(East))
	is.Equal(FormatTiles(tbl.Tiles()), "1123m9s")
	tbl.Clear()
	is.True(tbl.Empty())
}
