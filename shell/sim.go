package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/montecarlo"
	simstats "github.com/domino14/guobiao/montecarlo/stats"
	"github.com/domino14/guobiao/shanten"
)

func (sc *ShellController) sim(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return sc.simControlArguments(cmd.args)
	}
	if sc.simmer.IsSimming() {
		return nil, errors.New("simming already, please do a `sim stop` first")
	}

	forms := shanten.FormAll
	draws := montecarlo.DefaultMaxDraws
	threads := 0
	var iterations uint64
	stoppingCondition := montecarlo.StopNone
	for opt := range cmd.options {
		val := cmd.options.String(opt)
		var err error
		switch opt {
		case "threads":
			threads, err = strconv.Atoi(val)
		case "draws":
			draws, err = strconv.Atoi(val)
		case "iterations":
			iterations, err = strconv.ParseUint(val, 10, 64)
		case "forms":
			forms, err = shanten.ParseForm(val)
		case "stop":
			var sci int
			sci, err = strconv.Atoi(val)
			switch sci {
			case 95:
				stoppingCondition = montecarlo.Stop95
			case 98:
				stoppingCondition = montecarlo.Stop98
			case 99:
				stoppingCondition = montecarlo.Stop99
			default:
				err = errors.New("only allowed values are 95, 98, and 99 for stopping condition")
			}
		default:
			err = errors.New("option " + opt + " not recognized")
		}
		if err != nil {
			return nil, err
		}
	}

	log.Debug().Int("threads", threads).Int("draws", draws).Str("forms", forms.String()).
		Int("stoppingCondition", int(stoppingCondition)).Msg("will start sim")

	logFile := sc.simLogFile
	sc.simmer.Init(forms, draws, cache.GlobalTranspositionTable)
	if threads == 0 {
		threads = sc.config.GetInt("sim-threads")
	}
	if threads > 0 {
		sc.simmer.SetThreads(threads)
	}
	sc.simmer.SetStoppingCondition(stoppingCondition)
	sc.simmer.SetIterationLimit(iterations)
	if logFile != nil {
		sc.simmer.SetLogStream(logFile)
	}
	sc.startSim()
	return msg("Simulation started. Please do `sim show` to see more info"), nil
}

func (sc *ShellController) startSim() {
	sc.simCtx, sc.simCancel = context.WithCancel(context.Background())
	sc.simTicker = time.NewTicker(10 * time.Second)
	sc.simTickerDone = make(chan bool, 1)
	ctx := log.Logger.WithContext(sc.simCtx)

	go func() {
		err := sc.simmer.Simulate(ctx)
		if err != nil {
			sc.showError(err)
		}
		sc.simTickerDone <- true
		log.Debug().Msg("simulation thread exiting...")
	}()

	go func() {
		ticker, done := sc.simTicker, sc.simTickerDone
		for {
			select {
			case <-done:
				ticker.Stop()
				log.Debug().Msg("ticker thread exiting...")
				return
			case <-ticker.C:
				log.Info().Msgf("Simmer is at %v iterations...",
					sc.simmer.Iterations())
			}
		}
	}()
}

// stopSim cancels the simulation and waits for it to wind down.
func (sc *ShellController) stopSim() {
	sc.simCancel()
	for sc.simmer.IsSimming() {
		time.Sleep(10 * time.Millisecond)
	}
}

func (sc *ShellController) simControlArguments(args []string) (*Response, error) {
	var err error
	switch args[0] {
	case "log":
		if sc.simmer.IsSimming() {
			return nil, errors.New("please stop sim before making any log changes")
		}
		if sc.simLogFile != nil {
			sc.simLogFile.Close()
		}
		sc.simLogFile, err = os.Create(SimLog)
		if err != nil {
			return nil, err
		}
		return msg("sim will log to " + SimLog), nil
	case "stop":
		if !sc.simmer.IsSimming() {
			return nil, errors.New("no running sim to stop")
		}
		sc.stopSim()
		if sc.simLogFile != nil {
			if err := sc.simLogFile.Close(); err != nil {
				return nil, err
			}
			sc.simLogFile = nil
			sc.simmer.SetLogStream(nil)
		}
		return msg(sc.simmer.Summary().String()), nil
	case "show":
		return msg(sc.simmer.Summary().String()), nil
	case "continue":
		if sc.simmer.IsSimming() {
			return nil, errors.New("there is an ongoing simulation")
		}
		if sc.simmer.Iterations() == 0 {
			return nil, errors.New("no simulation to continue; please `sim` first")
		}
		sc.startSim()
		return msg("Simulation continued"), nil
	default:
		return nil, fmt.Errorf("do not understand sim argument %v", args[0])
	}
}

func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	path := SimLog
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	bins, err := cmd.options.IntDefault("bins", 10)
	if err != nil {
		return nil, err
	}
	width, err := cmd.options.IntDefault("width", 50)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := simstats.ReadLog(f)
	if err != nil {
		return nil, err
	}
	st.CalculateHistograms(bins)
	var sb strings.Builder
	if err := st.Display(&sb, width); err != nil {
		return nil, err
	}
	tiles, err := st.TileStats()
	if err != nil {
		return nil, err
	}
	sb.WriteString(tiles)
	return msg(sb.String()), nil
}
