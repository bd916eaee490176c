package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/handio"
	"github.com/domino14/guobiao/montecarlo"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/store"
)

type options struct {
	flag    string
	flowers int
	forms   string
	asJSON  bool
}

func newRootCmd(cfg *config.Config, out io.Writer) *cobra.Command {
	opts := &options{}
	an := analyzer.NewAnalyzer(cfg)
	an.SetTranspositionTable(cache.GlobalTranspositionTable)

	root := &cobra.Command{
		Use:          "mahjong",
		Short:        "Guobiao mahjong hand evaluator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg.GetBool(config.ConfigDebug) {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.Bool(config.ConfigDebug, false, "debug logging")
	pf.String(config.ConfigDefaultPrevalentWind, "E", "prevalent wind")
	pf.String(config.ConfigDefaultSeatWind, "E", "seat wind")
	pf.StringVar(&opts.forms, "forms", "all", "winning forms to consider, joined by |")
	pf.BoolVar(&opts.asJSON, "json", false, "print the JSON response")
	for _, key := range []string{config.ConfigDebug, config.ConfigDefaultPrevalentWind, config.ConfigDefaultSeatWind} {
		if err := cfg.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}

	request := func(action, hand string) *analyzer.Request {
		return &analyzer.Request{
			Action:  action,
			Hand:    hand,
			Flag:    opts.flag,
			Flowers: opts.flowers,
			Forms:   opts.forms,
		}
	}
	// emit writes either the JSON response or the text view.
	emit := func(cmd *cobra.Command, v any, text func(w io.Writer)) error {
		if opts.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		text(cmd.OutOrStdout())
		return nil
	}

	score := &cobra.Command{
		Use:     "score <hand>",
		Aliases: []string{"fan"},
		Short:   "Score a winning hand",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := an.Fan(request(analyzer.ActionFan, args[0]))
			if err != nil {
				return err
			}
			return emit(cmd, resp, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %d fan (%s) %s\n", args[0], resp.Total, resp.Form, resp.Division)
				for _, f := range resp.Fans {
					fmt.Fprintf(w, "  %-36s%4d\n", f.Name, f.Points)
				}
			})
		},
	}
	score.Flags().StringVar(&opts.flag, "flag", "", "win flags joined by | (self-drawn, 4th-tile, about-kong, wall-last, init)")
	score.Flags().IntVar(&opts.flowers, "flowers", 0, "flower tiles")

	shantenCmd := &cobra.Command{
		Use:   "shanten <hand>",
		Short: "How far a hand is from winning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := an.Shanten(request(analyzer.ActionShanten, args[0]))
			if err != nil {
				return err
			}
			return emit(cmd, resp, func(w io.Writer) {
				fmt.Fprintf(w, "%s: shanten %d, useful %s (%d left)\n", args[0], resp.Shanten, resp.Useful, resp.Remaining)
			})
		},
	}

	discard := &cobra.Command{
		Use:   "discard <hand>",
		Short: "Rank the discards of a hand that has just drawn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := an.Discards(request(analyzer.ActionDiscard, args[0]))
			if err != nil {
				return err
			}
			return emit(cmd, rows, func(w io.Writer) {
				for _, r := range rows {
					fmt.Fprintf(w, "%-4s %-20s %3d %3d %s\n", r.Discard, r.Form, r.Shanten, r.Remaining, r.Useful)
				}
			})
		},
	}

	var iterations uint64
	var threads, draws int
	sim := &cobra.Command{
		Use:   "sim",
		Short: "Deal random hands and measure their shanten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := shanten.ParseForm(opts.forms)
			if err != nil {
				return err
			}
			simmer := &montecarlo.Simmer{}
			simmer.Init(forms, draws, cache.GlobalTranspositionTable)
			if threads > 0 {
				simmer.SetThreads(threads)
			}
			simmer.SetIterationLimit(iterations)
			if err := simmer.Simulate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), simmer.Summary().String())
			return nil
		},
	}
	sim.Flags().Uint64Var(&iterations, "iterations", 1000, "deals to simulate")
	sim.Flags().IntVar(&threads, "threads", 0, "worker threads (0 for all cores)")
	sim.Flags().IntVar(&draws, "draws", montecarlo.DefaultMaxDraws, "draws per deal")

	var encoding string
	batch := &cobra.Command{
		Use:   "batch <file>",
		Short: "Score every hand in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := handio.NewReader(f, encoding)
			if err != nil {
				return err
			}
			recs, err := handio.Read(r, handio.FormatFor(args[0]))
			if err != nil {
				return err
			}
			rows := make([]handio.Row, len(recs))
			for i, rec := range recs {
				req := rec.Request(analyzer.ActionFan)
				resp, err := an.Fan(&req)
				rows[i] = handio.NewRow(rec, resp, err)
			}
			if path := cfg.GetString(config.ConfigSqlitePath); cmd.Flags().Changed(config.ConfigSqlitePath) {
				st, err := store.Open(cmd.Context(), path)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Save(cmd.Context(), recs, rows); err != nil {
					return err
				}
			}
			if err := handio.WriteRows(cmd.OutOrStdout(), rows, false); err != nil {
				return err
			}
			ok, failed, points := handio.Summary(rows)
			fmt.Fprintf(cmd.OutOrStdout(), "%d hands scored, %d failed, %d points in all\n", ok, failed, points)
			return nil
		},
	}
	batch.Flags().StringVar(&encoding, "encoding", "", "file encoding (utf-8, gb18030, gbk)")
	batch.Flags().String(config.ConfigSqlitePath, "", "save results to this SQLite database")
	if err := cfg.BindPFlag(config.ConfigSqlitePath, batch.Flags().Lookup(config.ConfigSqlitePath)); err != nil {
		panic(err)
	}

	root.AddCommand(score, shantenCmd, discard, sim, batch)
	return root
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg := config.DefaultConfig()
	if err := cfg.Load(nil); err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cache.GlobalTranspositionTable.Reset(cfg.GetFloat64(config.ConfigCacheMemoryFraction), 0)

	if err := newRootCmd(cfg, os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
