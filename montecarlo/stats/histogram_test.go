package stats

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

const sampleLog = `- iteration: 0
  thread: 0
  deal: 123m456m789m11s23s
  deal_shanten: 0
  draws: 3
  won: true
- iteration: 1
  thread: 1
  deal: 19m19s19pESWNCF2m
  deal_shanten: 5
  draws: 6
  won: false
`

func TestReadLog(t *testing.T) {
	is := is.New(t)
	st, err := ReadLog(strings.NewReader(sampleLog))
	is.NoErr(err)
	st.CalculateHistograms(4)
	sh, dr := st.LastHistograms()
	is.Equal(sh.Count, 2)
	is.Equal(dr.Count, 1)

	var buf bytes.Buffer
	is.NoErr(st.Display(&buf, 20))
	is.True(strings.Contains(buf.String(), "Shanten at deal:"))

	ts, err := st.TileStats()
	is.NoErr(err)
	is.True(strings.HasPrefix(ts, "1 of 2 deals were waiting."))
	is.True(strings.Contains(ts, "1m     1.00"))
}

func TestReadEmptyLog(t *testing.T) {
	is := is.New(t)
	_, err := ReadLog(strings.NewReader(""))
	is.True(errors.Is(err, ErrNoIterations))
}
