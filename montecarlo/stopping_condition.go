package montecarlo

import (
	"github.com/domino14/guobiao/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

const (
	// IterationsCutoff ends any simulation with a stopping condition.
	IterationsCutoff = 200000
	minIterations    = 500
	// defaultTolerance is the accepted half-width of the interval around
	// the mean deal shanten.
	defaultTolerance = 0.02
)

type AutoStopper struct {
	stoppingCondition          StoppingCondition
	stopConditionCheckInterval uint64
	tolerance                  float64
}

func newAutostopper() *AutoStopper {
	return &AutoStopper{
		stopConditionCheckInterval: 128,
		tolerance:                  defaultTolerance,
	}
}

func (a *AutoStopper) zValue() float64 {
	switch a.stoppingCondition {
	case Stop95:
		return stats.Z95
	case Stop98:
		return stats.Z98
	default:
		return stats.Z99
	}
}

// shouldStop is true once the mean deal shanten is known to within the
// tolerance at the configured confidence.
func (a *AutoStopper) shouldStop(st *stats.Statistic) bool {
	n := st.Iterations()
	if n >= IterationsCutoff {
		return true
	}
	if n < minIterations {
		return false
	}
	return st.Interval(a.zValue()) < a.tolerance
}
