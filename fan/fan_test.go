package fan

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestValues(t *testing.T) {
	is := is.New(t)
	counts := map[int]int{}
	for f := Fan(1); f < FanCount; f++ {
		counts[f.Value()]++
		is.True(f.Name() != "")
		is.True(f.ChineseName() != "")
	}
	is.Equal(counts[88], 7)
	is.Equal(counts[64], 6)
	is.Equal(counts[48], 2)
	is.Equal(counts[24], 9)
	is.Equal(counts[1], 13)
	is.Equal(BigFourWinds.Value(), 88)
	is.Equal(ChickenHand.Value(), 8)
	is.Equal(ConcealedKongAndMeldedKong.Value(), 5)
	is.Equal(FlowerTiles.Value(), 1)
	is.Equal(FanCount.Value(), 0)
}

func TestLookup(t *testing.T) {
	is := is.New(t)
	f, ok := Lookup("half flush")
	is.True(ok)
	is.Equal(f, HalfFlush)
	f, ok = Lookup("Three-Suited Terminal Chows")
	is.True(ok)
	is.Equal(f, ThreeSuitedTerminalChows)
	_, ok = Lookup("None")
	is.True(!ok)
	_, ok = Lookup("Double Riichi")
	is.True(!ok)
	is.Equal(SelfDrawn.String(), "Self-Drawn")
	is.Equal(SelfDrawn.ChineseName(), "自摸")
}

func TestFanText(t *testing.T) {
	is := is.New(t)
	bts, err := json.Marshal(Entry{Fan: AllTypes, Count: 1})
	is.NoErr(err)
	is.Equal(string(bts), `{"fan":"All Types","count":1}`)

	var e Entry
	is.NoErr(json.Unmarshal([]byte(`{"fan":"tile hog","count":2}`), &e))
	is.Equal(e, Entry{Fan: TileHog, Count: 2})
	is.Equal(e.Points(), 4)

	is.True(json.Unmarshal([]byte(`{"fan":"nope"}`), &e) != nil)
}

func TestTable(t *testing.T) {
	is := is.New(t)
	var tb Table
	is.True(tb.Empty())
	tb[PureStraight] = 1
	tb[TileHog] = 2
	tb[FlowerTiles] = 3
	is.True(!tb.Empty())
	is.Equal(tb.Total(), 16+4+3)
	is.Equal(tb.Fired(), []Entry{{PureStraight, 1}, {TileHog, 2}, {FlowerTiles, 3}})
	is.Equal(tb.String(), "Pure Straight 16, Tile Hog 2*2, Flower Tiles 1*3")
}
