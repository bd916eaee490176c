// Package montecarlo deals random hands and plays them out greedily to
// measure how far a fresh hand is from winning and how many draws it
// takes to get there.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/stats"
	"github.com/domino14/guobiao/tilemapping"
)

// MaxDealShanten bounds the shanten of any 13-tile hand across the forms.
const MaxDealShanten = 8

// DefaultMaxDraws is about one player's share of a four-player wall.
const DefaultMaxDraws = 20

// LogIteration is one simulated hand, written to the iteration log.
type LogIteration struct {
	Iteration   int    `json:"iteration" yaml:"iteration"`
	Thread      int    `json:"thread" yaml:"thread"`
	Deal        string `json:"deal" yaml:"deal"`
	DealShanten int    `json:"deal_shanten" yaml:"deal_shanten"`
	Final       string `json:"final,omitempty" yaml:"final,omitempty"`
	Draws       int    `json:"draws" yaml:"draws"`
	Won         bool   `json:"won" yaml:"won"`
}

// Summary is a snapshot of the simulation so far.
type Summary struct {
	Iterations    int                     `json:"iterations" yaml:"iterations"`
	MeanShanten   float64                 `json:"mean_shanten" yaml:"mean_shanten"`
	ShantenError  float64                 `json:"shanten_error" yaml:"shanten_error"`
	ShantenCounts [MaxDealShanten + 2]int `json:"shanten_counts" yaml:"shanten_counts"`
	WaitingPct    float64                 `json:"waiting_pct" yaml:"waiting_pct"`
	WinPct        float64                 `json:"win_pct" yaml:"win_pct"`
	MeanDraws     float64                 `json:"mean_draws" yaml:"mean_draws"`
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Iterations: %d\n", s.Iterations)
	fmt.Fprintf(&sb, "Mean shanten at deal: %.3f±%.3f\n", s.MeanShanten, s.ShantenError)
	fmt.Fprintf(&sb, "%-10s%-10s%-10s\n", "Shanten", "Count", "% of time")
	for st, n := range s.ShantenCounts {
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%-10d%-10d%-10.2f\n", st-1, n, 100*float64(n)/float64(max(s.Iterations, 1)))
	}
	fmt.Fprintf(&sb, "Waiting at deal: %.2f%%\n", s.WaitingPct)
	fmt.Fprintf(&sb, "Won within the draw limit: %.2f%%\n", s.WinPct)
	fmt.Fprintf(&sb, "Mean draws to win: %.2f\n", s.MeanDraws)
	return sb.String()
}

type Simmer struct {
	sync.Mutex

	forms    shanten.Form
	maxDraws int
	threads  int
	limit    uint64
	tt       *cache.TranspositionTable

	iterationCount atomic.Uint64
	simming        bool

	dealShanten   stats.Statistic
	drawsToWin    stats.Statistic
	shantenCounts [MaxDealShanten + 2]int
	waiting       int
	wins          int

	logStream   io.Writer
	autostopper *AutoStopper
}

// Init prepares a simulation of the given forms, playing each hand for at
// most maxDraws draws. tt may be nil to compute every shanten afresh.
func (s *Simmer) Init(forms shanten.Form, maxDraws int, tt *cache.TranspositionTable) {
	s.forms = forms
	s.maxDraws = maxDraws
	s.tt = tt
	s.threads = max(1, runtime.NumCPU())
	s.autostopper = newAutostopper()
	s.resetStats()
}

func (s *Simmer) resetStats() {
	s.Lock()
	defer s.Unlock()
	s.iterationCount.Store(0)
	s.dealShanten = stats.Statistic{}
	s.drawsToWin = stats.Statistic{}
	s.shantenCounts = [MaxDealShanten + 2]int{}
	s.waiting = 0
	s.wins = 0
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Simmer) Threads() int {
	return s.threads
}

// SetIterationLimit stops the simulation after n iterations. Zero means
// run until the context is done or the stopping condition is met.
func (s *Simmer) SetIterationLimit(n uint64) {
	s.limit = n
}

func (s *Simmer) SetStoppingCondition(sc StoppingCondition) {
	s.autostopper.stoppingCondition = sc
}

// SetLogStream makes the simmer write every iteration as a YAML document.
func (s *Simmer) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Simmer) Iterations() int {
	return int(s.iterationCount.Load())
}

func (s *Simmer) IsSimming() bool {
	s.Lock()
	defer s.Unlock()
	return s.simming
}

func (s *Simmer) shanten(standing []tilemapping.Tile) (shanten.Result, error) {
	if s.tt != nil {
		return s.tt.Shanten(standing, s.forms)
	}
	return shanten.Shanten(standing, s.forms)
}

// Simulate runs until the context is done, the iteration limit is hit or
// the stopping condition is met. It blocks.
func (s *Simmer) Simulate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	if s.autostopper == nil {
		return errors.New("please initialize the simulation first")
	}
	s.Lock()
	if s.simming {
		s.Unlock()
		return errors.New("already simming")
	}
	s.simming = true
	s.Unlock()
	defer func() {
		s.Lock()
		s.simming = false
		s.Unlock()
		logger.Info().Uint64("iterationCt", s.iterationCount.Load()).Msg("sim-ended")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logChan := make(chan []byte, s.threads)
	writer := errgroup.Group{}
	if s.logStream != nil {
		// After a failed write the sim is canceled and the channel is
		// drained so no sender is left blocked.
		writer.Go(func() error {
			var werr error
			for bts := range logChan {
				if werr != nil {
					continue
				}
				if _, err := s.logStream.Write(bts); err != nil {
					logger.Err(err).Msg("sim-log-write-failed")
					werr = err
					cancel()
				}
			}
			return werr
		})
	}

	tstart := time.Now()
	g := errgroup.Group{}
	logger.Debug().Msgf("Simulating with %v threads", s.threads)
	for t := 0; t < s.threads; t++ {
		g.Go(func() error {
			wall := tilemapping.NewWall()
			for {
				if ctx.Err() != nil {
					return nil
				}
				numIters := s.iterationCount.Add(1)
				if s.limit > 0 && numIters > s.limit {
					s.iterationCount.Add(^uint64(0))
					cancel()
					return nil
				}
				if err := s.simSingleIteration(ctx, wall, t, numIters-1, logChan); err != nil {
					logger.Err(err).Msg("error simming iteration; canceling")
					cancel()
					return err
				}
				if s.autostopper.stoppingCondition != StopNone &&
					numIters%s.autostopper.stopConditionCheckInterval == 0 {
					s.Lock()
					stop := s.autostopper.shouldStop(&s.dealShanten)
					s.Unlock()
					if stop {
						logger.Info().Uint64("numIters", numIters).Msg("reached stopping condition")
						cancel()
					}
				}
			}
		})
	}
	err := g.Wait()
	close(logChan)
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	elapsed := time.Since(tstart)
	logger.Info().Float64("seconds", elapsed.Seconds()).
		Float64("ips", float64(s.iterationCount.Load())/elapsed.Seconds()).Msg("sim-speed")
	return err
}

// simSingleIteration deals one hand and plays it out, discarding to keep
// the shanten lowest and, among those, the most live useful tiles.
func (s *Simmer) simSingleIteration(ctx context.Context, wall *tilemapping.Wall, thread int, iteration uint64,
	logChan chan []byte) error {

	wall.Reset()
	hand := pack.Hand{Standing: make([]tilemapping.Tile, 13)}
	if err := wall.Draw(13, hand.Standing); err != nil {
		return err
	}
	deal := tilemapping.FormatTiles(sortedCopy(hand.Standing))
	res, err := s.shanten(hand.Standing)
	if err != nil {
		return err
	}
	dealShanten := res.Shanten

	visible := hand.StandingTable()
	drawn := make([]tilemapping.Tile, 1)
	draws, won := 0, false
	for draws < s.maxDraws && !won {
		if err := wall.Draw(1, drawn); err != nil {
			break
		}
		draws++
		visible.Add(drawn[0])
		var discard tilemapping.Tile
		won, discard = s.chooseDiscard(hand, drawn[0], &visible)
		if won {
			break
		}
		replaceDiscard(&hand, drawn[0], discard)
	}

	s.Lock()
	s.dealShanten.Push(float64(dealShanten))
	s.shantenCounts[min(dealShanten+1, MaxDealShanten+1)]++
	if dealShanten == 0 {
		s.waiting++
	}
	if won {
		s.wins++
		s.drawsToWin.Push(float64(draws))
	}
	s.Unlock()

	if logChan != nil && s.logStream != nil {
		it := LogIteration{
			Iteration:   int(iteration),
			Thread:      thread,
			Deal:        deal,
			DealShanten: dealShanten,
			Final:       tilemapping.FormatTiles(sortedCopy(hand.Standing)),
			Draws:       draws,
			Won:         won,
		}
		out, err := yaml.Marshal([]LogIteration{it})
		if err != nil {
			return err
		}
		select {
		case logChan <- out:
		case <-ctx.Done():
		}
	}
	return nil
}

// chooseDiscard reports whether hand plus drawn already wins, and
// otherwise which tile to throw.
func (s *Simmer) chooseDiscard(hand pack.Hand, drawn tilemapping.Tile,
	visible *tilemapping.Table) (bool, tilemapping.Tile) {

	won := false
	best := drawn
	bestShanten, bestLive := MaxDealShanten+1, -1
	shanten.EnumDiscards(hand, drawn, s.forms, func(r shanten.DiscardResult) bool {
		if r.Shanten < 0 {
			won = true
			return false
		}
		live := shanten.CountRemaining(visible, &r.Useful)
		if r.Shanten < bestShanten || (r.Shanten == bestShanten && live > bestLive) {
			best, bestShanten, bestLive = r.Discard, r.Shanten, live
		}
		return true
	})
	return won, best
}

func replaceDiscard(hand *pack.Hand, drawn, discard tilemapping.Tile) {
	if discard == drawn {
		return
	}
	for i, t := range hand.Standing {
		if t == discard {
			hand.Standing[i] = drawn
			return
		}
	}
}

func sortedCopy(tiles []tilemapping.Tile) []tilemapping.Tile {
	t := tilemapping.TableFromTiles(tiles)
	return t.Tiles()
}

// Summary returns the statistics gathered so far.
func (s *Simmer) Summary() Summary {
	s.Lock()
	defer s.Unlock()
	n := s.dealShanten.Iterations()
	sum := Summary{
		Iterations:    n,
		MeanShanten:   s.dealShanten.Mean(),
		ShantenError:  s.dealShanten.Interval(stats.Z99),
		ShantenCounts: s.shantenCounts,
		MeanDraws:     s.drawsToWin.Mean(),
	}
	if n > 0 {
		sum.WaitingPct = 100 * float64(s.waiting) / float64(n)
		sum.WinPct = 100 * float64(s.wins) / float64(n)
	}
	return sum
}
