package division

import (
	"slices"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/tilemapping"
)

func mustTiles(t *testing.T, s string) []tilemapping.Tile {
	t.Helper()
	tiles, err := tilemapping.ParseTiles(s)
	if err != nil {
		t.Fatal(err)
	}
	return tiles
}

func checkRoundTrip(t *testing.T, standing []tilemapping.Tile, fixed int, divs []pack.Division) {
	t.Helper()
	is := is.New(t)
	want := slices.Clone(standing)
	slices.Sort(want)
	for _, d := range divs {
		var got []tilemapping.Tile
		for _, p := range d[fixed:] {
			got = p.AppendTiles(got)
		}
		slices.Sort(got)
		is.Equal(got, want)
	}
	for i := range divs {
		for j := i + 1; j < len(divs); j++ {
			is.True(!slices.Equal(divs[i][fixed:4], divs[j][fixed:4]))
		}
	}
}

func TestDivideCounts(t *testing.T) {
	testcases := []struct {
		tiles string
		count int
	}{
		{"123456789mCCCEE", 1},
		{"11122233344mEEE", 3},
		{"19m19s19pESWNCFPP", 0},
		{"11223344556677s", 3},
		{"13579m13579s1357p", 0},
		{"22334455667788p", 3},
	}
	for _, tc := range testcases {
		t.Run(tc.tiles, func(t *testing.T) {
			is := is.New(t)
			standing := mustTiles(t, tc.tiles)
			divs := Divide(standing, nil)
			is.Equal(len(divs), tc.count)
			checkRoundTrip(t, standing, 0, divs)
		})
	}
}

func TestDivideWithFixed(t *testing.T) {
	is := is.New(t)
	fixed := []pack.Pack{pack.MakePung(1, tilemapping.East)}
	standing := mustTiles(t, "11122233344m")
	is.Equal(len(standing), 11)
	divs := Divide(standing, fixed)
	is.Equal(len(divs), 3)
	for _, d := range divs {
		is.Equal(d[0], fixed[0])
	}
	checkRoundTrip(t, standing, 1, divs)
}

func TestDivideWrongCount(t *testing.T) {
	is := is.New(t)
	is.Equal(len(Divide(mustTiles(t, "123m"), nil)), 0)
}

func TestIsWin(t *testing.T) {
	is := is.New(t)
	gates := mustTiles(t, "1112345678999m")
	for r := uint8(1); r <= 9; r++ {
		is.True(IsWin(gates, tilemapping.MakeTile(tilemapping.SuitCharacters, r)))
	}
	is.True(!IsWin(gates, tilemapping.East))
	is.True(!IsWin(gates, 0x21))
	is.True(IsWin(mustTiles(t, "E"), tilemapping.East))
	is.True(!IsWin(mustTiles(t, "E"), tilemapping.South))
}

func TestCanDivideRestoresTable(t *testing.T) {
	is := is.New(t)
	table := tilemapping.TableFromTiles(mustTiles(t, "11122233344mEE"))
	before := table
	is.True(CanDivide(&table, 14))
	is.Equal(table, before)
	is.True(!CanDivide(&table, 13))
}
