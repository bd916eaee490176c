package tilemapping

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestParseTiles(t *testing.T) {
	is := is.New(t)
	type tc struct {
		in  string
		out string
	}
	for _, c := range []tc{
		{"123m", "123m"},
		{"406p", "456p"},
		{"1234567z", "ESWNCFP"},
		{"19m19s19pESWNCFP", "19m19s19pESWNCFP"},
		{"EE 55s", "EE55s"},
		{"", ""},
	} {
		tiles, err := ParseTiles(c.in)
		is.NoErr(err)
		is.Equal(FormatTiles(tiles), c.out)
	}
}

func TestParseTilesErrors(t *testing.T) {
	is := is.New(t)
	for _, in := range []string{"123", "m", "8z", "12E", "x"} {
		_, err := ParseTiles(in)
		is.True(errors.Is(err, ErrBadNotation))
	}
}

func TestTileString(t *testing.T) {
	is := is.New(t)
	is.Equal(Tile(0x15).String(), "5m")
	is.Equal(Tile(0x39).String(), "9p")
	is.Equal(West.String(), "W")
	is.Equal(Tile(0x50).String(), "?50")
}
