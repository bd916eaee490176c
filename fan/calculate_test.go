package fan

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

type goldenHand struct {
	Name      string         `yaml:"name"`
	Hand      string         `yaml:"hand"`
	Flag      string         `yaml:"flag"`
	Prevalent string         `yaml:"prevalent"`
	Seat      string         `yaml:"seat"`
	Flowers   int            `yaml:"flowers"`
	Total     int            `yaml:"total"`
	Fans      map[string]int `yaml:"fans"`
}

func loadGolden(t *testing.T) []goldenHand {
	t.Helper()
	f, err := os.Open("testdata/hands.yaml")
	require.NoError(t, err)
	defer f.Close()
	var hands []goldenHand
	require.NoError(t, yaml.NewDecoder(f).Decode(&hands))
	return hands
}

func wind(t *testing.T, s string) tilemapping.Tile {
	t.Helper()
	tiles, err := tilemapping.ParseTiles(s)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	return tiles[0]
}

func paramFor(t *testing.T, hand string, flag WinFlag) Param {
	t.Helper()
	h, win, err := pack.ParseHand(hand)
	require.NoError(t, err)
	return Param{
		Hand:          h,
		WinTile:       win,
		WinFlag:       flag,
		PrevalentWind: tilemapping.East,
		SeatWind:      tilemapping.East,
	}
}

func TestGoldenHands(t *testing.T) {
	for _, g := range loadGolden(t) {
		t.Run(g.Name, func(t *testing.T) {
			h, win, err := pack.ParseHand(g.Hand)
			require.NoError(t, err)
			flag, err := ParseWinFlag(g.Flag)
			require.NoError(t, err)

			var want Table
			for name, n := range g.Fans {
				f, ok := Lookup(name)
				require.True(t, ok, name)
				want[f] = n
			}

			res, err := Calculate(Param{
				Hand:          h,
				WinTile:       win,
				FlowerCount:   g.Flowers,
				WinFlag:       flag,
				PrevalentWind: wind(t, g.Prevalent),
				SeatWind:      wind(t, g.Seat),
			})
			require.NoError(t, err)
			assert.Equal(t, g.Total, res.Total)
			assert.Equal(t, want.String(), res.Table.String())
			assert.Equal(t, res.Total, res.Table.Total())
		})
	}
}

func TestCalculateForms(t *testing.T) {
	testcases := []struct {
		hand string
		form shanten.Form
	}{
		{"11223344556677m", shanten.FormSevenPairs},
		{"19m19s19pESWNCFPP", shanten.FormThirteenOrphans},
		{"147m258s369pESWNC", shanten.FormHonorsAndKnitted},
		{"147m258s369p123sEE", shanten.FormKnittedStraight},
		{"123m456m789mCCCEE", shanten.FormBasic},
	}
	for _, tc := range testcases {
		t.Run(tc.hand, func(t *testing.T) {
			res, err := Calculate(paramFor(t, tc.hand, WinSelfDrawn))
			require.NoError(t, err)
			assert.Equal(t, tc.form, res.Form)
		})
	}
}

func TestSevenPairsOutscoredByDivision(t *testing.T) {
	is := is.New(t)
	// four 234m chows beat the plain pairs reading
	res, err := Calculate(paramFor(t, "223344m223344m55p", WinSelfDrawn))
	is.NoErr(err)
	is.Equal(res.Form, shanten.FormBasic)
	is.Equal(res.Table[SevenPairs], 0)
	is.Equal(res.Table[QuadrupleChow], 1)
	is.Equal(res.Total, 58)
}

func TestCalculateDivision(t *testing.T) {
	is := is.New(t)
	res, err := Calculate(paramFor(t, "[123s,1][456s,2][789s,3]11s22s2s", WinDiscard))
	is.NoErr(err)
	is.Equal(res.Division[4], pack.MakePair(tilemapping.MakeTile(tilemapping.SuitBamboo, 1)))
	is.Equal(res.Division[0].Tile(), tilemapping.MakeTile(tilemapping.SuitBamboo, 2))
}

func TestCalculateErrors(t *testing.T) {
	is := is.New(t)
	tiles := func(s string) []tilemapping.Tile {
		ts, err := tilemapping.ParseTiles(s)
		is.NoErr(err)
		return ts
	}
	m1 := tilemapping.MakeTile(tilemapping.SuitCharacters, 1)

	_, err := Calculate(Param{Hand: pack.Hand{Standing: tiles("1111m2345678m11s")}, WinTile: m1})
	is.True(errors.Is(err, ErrTileCountGreaterThan4))

	_, err = Calculate(Param{Hand: pack.Hand{Standing: tiles("123456789m11s")}})
	is.True(errors.Is(err, ErrWrongTilesCount))

	_, err = Calculate(Param{Hand: pack.Hand{Standing: tiles("123456789m1s")}, WinTile: m1})
	is.True(errors.Is(err, ErrWrongTilesCount))

	_, err = Calculate(Param{Hand: pack.Hand{Standing: tiles("1357m2468s13579p")}, WinTile: tilemapping.East})
	is.True(errors.Is(err, ErrNotWin))
}

func TestNormalizeWinFlag(t *testing.T) {
	testcases := []struct {
		name string
		hand string
		flag WinFlag
		want WinFlag
	}{
		{"fourth tile cleared when held", "123m456m789m11s23s1s", WinFourthTile, WinDiscard},
		{"fourth tile forced by a fixed pung", "[EEE,1]123m456m789s1mE", WinDiscard, WinFourthTile},
		{"replacement tile needs a kong", "123m456m789m11s23s4s", WinSelfDrawn | WinAboutKong, WinSelfDrawn},
		{"replacement tile after a kong", "[EEEE]123m456m789s1m1m", WinSelfDrawn | WinAboutKong, WinSelfDrawn | WinAboutKong},
		{"robbing a held tile", "123m456m789m11s23s1s", WinAboutKong, WinDiscard},
		{"robbing the kong", "123m456m789m11s23s4s", WinAboutKong, WinAboutKong},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramFor(t, tc.hand, tc.flag)
			assert.Equal(t, tc.want, normalizeWinFlag(&p))
		})
	}
}

func TestParseWinFlag(t *testing.T) {
	is := is.New(t)
	f, err := ParseWinFlag("self-drawn|wall-last")
	is.NoErr(err)
	is.Equal(f, WinSelfDrawn|WinWallLast)
	f, err = ParseWinFlag("")
	is.NoErr(err)
	is.Equal(f, WinDiscard)
	f, err = ParseWinFlag("about-kong, 4th-tile")
	is.NoErr(err)
	is.Equal(f, WinAboutKong|WinFourthTile)
	is.Equal(f.String(), "4th-tile|about-kong")
	is.Equal(WinDiscard.String(), "discard")
	_, err = ParseWinFlag("tsumo")
	is.True(err != nil)
}

func TestEvaluateUnknownKind(t *testing.T) {
	p := paramFor(t, "123m456m789mCCCEE", WinSelfDrawn)
	assert.Panics(t, func() {
		Evaluate(pack.Division{}, &p, WinSelfDrawn)
	})
}
