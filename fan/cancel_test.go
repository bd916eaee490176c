package fan

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func everyFan() Table {
	var t Table
	for f := Fan(1); f < FanCount; f++ {
		t[f] = 1
	}
	return t
}

func TestCancelIdempotent(t *testing.T) {
	for _, r := range CancellationRules {
		t.Run(r.Trigger.String(), func(t *testing.T) {
			var tb Table
			tb[r.Trigger] = 1
			for _, f := range r.Zero {
				tb[f] = 1
			}
			Cancel(&tb)
			once := tb
			Cancel(&tb)
			assert.Equal(t, once, tb)
			if tb[r.Trigger] == 0 {
				// an earlier row cleared the trigger
				return
			}
			for _, f := range r.Zero {
				assert.Zero(t, tb[f], f.String())
			}
		})
	}
	full := everyFan()
	Cancel(&full)
	once := full
	Cancel(&full)
	assert.Equal(t, once, full)
}

func TestCancelDowngrade(t *testing.T) {
	is := is.New(t)
	for _, trigger := range []Fan{NineGates, FourConcealedPungs} {
		var tb Table
		tb[trigger] = 1
		tb[FullyConcealedHand] = 1
		Cancel(&tb)
		is.Equal(tb[FullyConcealedHand], 0)
		is.Equal(tb[SelfDrawn], 1)
		is.Equal(tb[trigger], 1)
	}
	// no downgrade without a fully concealed hand
	var tb Table
	tb[FourConcealedPungs] = 1
	Cancel(&tb)
	is.Equal(tb[SelfDrawn], 0)
}

func TestCancelOrder(t *testing.T) {
	is := is.New(t)
	// Seven shifted pairs clears seven pairs before its own row runs.
	var tb Table
	tb[SevenShiftedPairs] = 1
	tb[SevenPairs] = 1
	tb[SingleWait] = 1
	Cancel(&tb)
	is.Equal(tb[SevenPairs], 0)
	is.Equal(tb[SingleWait], 1)

	tb = Table{}
	tb[QuadrupleChow] = 1
	tb[TileHog] = 2
	tb[PureDoubleChow] = 1
	tb[PureTripleChow] = 1
	Cancel(&tb)
	is.Equal(tb[TileHog], 0)
	is.Equal(tb[PureDoubleChow], 0)
	is.Equal(tb[PureTripleChow], 0)

	tb = Table{}
	tb[QuadrupleChow] = 1
	tb[PureShiftedPungs] = 1
	Cancel(&tb)
	is.Equal(tb[PureShiftedPungs], 0)

	tb = Table{}
	tb[FourPureShiftedPungs] = 1
	tb[AllPungs] = 1
	tb[PureShiftedPungs] = 1
	Cancel(&tb)
	is.Equal(tb[AllPungs], 0)
	is.Equal(tb[PureShiftedPungs], 0)

	tb = Table{}
	tb[FourPureShiftedPungs] = 1
	tb[PureTripleChow] = 1
	Cancel(&tb)
	is.Equal(tb[PureTripleChow], 0)
}

func TestDeductPungCredit(t *testing.T) {
	testcases := []struct {
		name   string
		fans   []Fan
		credit int
		want   int
	}{
		{"nine gates", []Fan{NineGates}, 1, 0},
		{"nine gates clamps", []Fan{NineGates}, 0, 0},
		{"big three winds", []Fan{BigThreeWinds}, 4, 1},
		{"big three winds clamps", []Fan{BigThreeWinds}, 2, 0},
		{"all honors keeps credit", []Fan{BigThreeWinds, AllHonors}, 3, 3},
		{"terminals and honors keeps credit", []Fan{BigThreeWinds, AllTerminalsAndHonors}, 3, 3},
		{"nothing to deduct", []Fan{PureStraight}, 2, 2},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var tb Table
			for _, f := range tc.fans {
				tb[f] = 1
			}
			tb[PungOfTerminalsOrHonors] = tc.credit
			deductPungCredit(&tb)
			assert.Equal(t, tc.want, tb[PungOfTerminalsOrHonors])
		})
	}
}
