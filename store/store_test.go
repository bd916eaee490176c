package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/handio"
)

func TestSaveAndLookup(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "hands.db"))
	require.NoError(t, err)
	defer s.Close()

	an := analyzer.NewAnalyzer(nil)
	recs := []handio.Record{
		{Hand: "123m456m789mCCCEE", Flag: "self-drawn", Prevalent: "S", Seat: "W"},
		{Hand: "11223344556677m"},
		{Hand: "1357m2468s13579pE"},
	}
	rows := make([]handio.Row, len(recs))
	for i, rec := range recs {
		req := rec.Request(analyzer.ActionFan)
		resp, err := an.Fan(&req)
		rows[i] = handio.NewRow(rec, resp, err)
	}
	require.NoError(t, s.Save(ctx, recs, rows))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ev, err := s.Lookup(ctx, "123m456m789mCCCEE")
	require.NoError(t, err)
	assert.Equal(t, 29, ev.Row.Total)
	assert.Equal(t, "W", ev.Record.Seat)
	assert.Equal(t, rows[0].Fans, ev.Row.Fans)

	top, err := s.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "11223344556677m", top[0].Record.Hand)
	assert.Equal(t, 88, top[0].Row.Total)

	_, err = s.Lookup(ctx, "EEE")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Error(t, s.Save(ctx, recs[:1], rows))
}
