package montecarlo

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/stats"
)

func TestShouldStop(t *testing.T) {
	is := is.New(t)
	a := newAutostopper()
	a.stoppingCondition = Stop99

	var constant stats.Statistic
	for i := 0; i < minIterations-1; i++ {
		constant.Push(3)
	}
	is.True(!a.shouldStop(&constant))
	constant.Push(3)
	is.True(a.shouldStop(&constant))

	var noisy stats.Statistic
	for i := 0; i < minIterations; i++ {
		noisy.Push(float64(i % 7))
	}
	is.True(!a.shouldStop(&noisy))
}
