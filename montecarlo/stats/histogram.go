// Package stats summarises a simulation's iteration log.
package stats

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/guobiao/montecarlo"
	"github.com/domino14/guobiao/tilemapping"
)

var ErrNoIterations = errors.New("no iterations in log")

type SimStats struct {
	iters []montecarlo.LogIteration

	shantenHist histogram.Histogram
	drawsHist   histogram.Histogram
}

// ReadLog loads an iteration log written by a Simmer.
func ReadLog(r io.Reader) (*SimStats, error) {
	var iters []montecarlo.LogIteration
	dec := yaml.NewDecoder(r)
	for {
		var batch []montecarlo.LogIteration
		err := dec.Decode(&batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		iters = append(iters, batch...)
	}
	if len(iters) == 0 {
		return nil, ErrNoIterations
	}
	log.Debug().Msgf("Read %d log lines", len(iters))
	return &SimStats{iters: iters}, nil
}

// CalculateHistograms bins the deal shanten of every iteration and the
// draw count of every hand that won.
func (st *SimStats) CalculateHistograms(bins int) {
	shantens := make([]float64, 0, len(st.iters))
	var draws []float64
	for _, it := range st.iters {
		shantens = append(shantens, float64(it.DealShanten))
		if it.Won {
			draws = append(draws, float64(it.Draws))
		}
	}
	st.shantenHist = histogram.Hist(bins, shantens)
	if len(draws) > 0 {
		st.drawsHist = histogram.Hist(bins, draws)
	}
}

func (st *SimStats) LastHistograms() (histogram.Histogram, histogram.Histogram) {
	return st.shantenHist, st.drawsHist
}

// Display prints both histograms scaled to width columns.
func (st *SimStats) Display(w io.Writer, width int) error {
	fmt.Fprintln(w, "Shanten at deal:")
	if err := histogram.Fprint(w, st.shantenHist, histogram.Linear(width)); err != nil {
		return err
	}
	if st.drawsHist.Count == 0 {
		fmt.Fprintln(w, "No hand won.")
		return nil
	}
	fmt.Fprintln(w, "Draws to win:")
	return histogram.Fprint(w, st.drawsHist, histogram.Linear(width))
}

// TileStats reports, per kind, how often it appeared in a deal that was
// already waiting.
func (st *SimStats) TileStats() (string, error) {
	var counts tilemapping.Table
	waiting := 0
	for _, it := range st.iters {
		if it.DealShanten != 0 {
			continue
		}
		waiting++
		tiles, err := tilemapping.ParseTiles(it.Deal)
		if err != nil {
			return "", err
		}
		for _, t := range tiles {
			counts.Add(t)
		}
	}
	var ss strings.Builder
	fmt.Fprintf(&ss, "%d of %d deals were waiting.\n", waiting, len(st.iters))
	if waiting == 0 {
		return ss.String(), nil
	}
	fmt.Fprintf(&ss, "  Tile   Expected # in a waiting deal\n")
	for _, k := range tilemapping.AllKinds {
		fmt.Fprintf(&ss, "  %-6s %.2f\n", k, float64(counts[k])/float64(waiting))
	}
	return ss.String(), nil
}
