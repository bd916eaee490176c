package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

func TestResultCacheLoad(t *testing.T) {
	is := is.New(t)
	c, err := NewResultCache(1<<20, "", 0)
	is.NoErr(err)
	defer c.Close()

	ctx := context.Background()
	key := Key("fan", "123m456m789mCCCEE", "self-drawn")
	is.True(key != Key("fan", "123m456m789mCCCEE", "discard"))
	is.True(Key("ab", "c") != Key("a", "bc"))

	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"total":29}`), nil
	}
	v, err := c.Load(ctx, key, load)
	is.NoErr(err)
	is.Equal(string(v), `{"total":29}`)
	c.Wait()
	v, err = c.Load(ctx, key, load)
	is.NoErr(err)
	is.Equal(string(v), `{"total":29}`)
	is.Equal(calls, 1)

	boom := errors.New("boom")
	_, err = c.Load(ctx, Key("other"), func(context.Context) ([]byte, error) { return nil, boom })
	is.True(errors.Is(err, boom))
}

func TestBadRedisURL(t *testing.T) {
	is := is.New(t)
	_, err := NewResultCache(1<<20, "not a url", 0)
	is.True(err != nil)
}

func TestTranspositionTable(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0.000001, 14)

	standing, err := tilemapping.ParseTiles("1112345678999m")
	is.NoErr(err)
	standing = standing[:13]

	want, err := shanten.Shanten(standing, shanten.FormAll)
	is.NoErr(err)
	got, err := tt.Shanten(standing, shanten.FormAll)
	is.NoErr(err)
	is.Equal(got, want)

	lookups, hits, created, _ := tt.Stats()
	is.Equal(hits, uint64(0))
	is.Equal(lookups, created)

	got, err = tt.Shanten(standing, shanten.FormAll)
	is.NoErr(err)
	is.Equal(got, want)
	_, hits, _, _ = tt.Stats()
	is.Equal(hits, created)

	_, err = tt.Shanten(standing[:12], shanten.FormBasic)
	is.True(errors.Is(err, shanten.ErrWrongStandingCount))
}

func TestUsefulPacking(t *testing.T) {
	is := is.New(t)
	var u shanten.Useful
	u[tilemapping.East] = true
	u[tilemapping.MakeTile(tilemapping.SuitDots, 9)] = true
	is.Equal(unpackUseful(packUseful(&u)), u)
}
