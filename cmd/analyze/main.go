// Command analyze scores a file of hands and prints a result table. With
// --remote it scores through the deployed Lambda; with --save it keeps the
// results in the SQLite database at --sqlite-path.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/handio"
	"github.com/domino14/guobiao/remote"
	"github.com/domino14/guobiao/store"
)

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var flags, files []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "--") {
			flags = append(flags, arg)
		} else {
			files = append(files, arg)
		}
	}
	cfg := config.DefaultConfig()
	if err := cfg.Load(flags); err != nil {
		log.Fatal().Err(err).Msg("bad-args")
	}
	cfg.AdjustRelativePaths(exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	cache.GlobalTranspositionTable.Reset(cfg.GetFloat64(config.ConfigCacheMemoryFraction), 0)

	an := analyzer.NewAnalyzer(cfg)
	if len(files) == 0 {
		// No input: score the built-in sample.
		if err := an.RunTest(); err != nil {
			log.Fatal().Err(err).Msg("run-test")
		}
		return
	}

	ctx := context.Background()
	evaluate := an.Fan
	if cfg.GetBool("remote") {
		client, err := remote.NewClient(ctx, cfg.GetString(config.ConfigLambdaFunction))
		if err != nil {
			log.Fatal().Err(err).Msg("lambda-client")
		}
		evaluate = func(req *analyzer.Request) (*analyzer.FanResponse, error) {
			resp, err := client.Analyze(ctx, req.Hand, *req)
			if err != nil {
				return nil, err
			}
			return resp.Fan, nil
		}
	}

	var st *store.Store
	if cfg.GetBool("save") {
		st, err = store.Open(ctx, cfg.GetString(config.ConfigSqlitePath))
		if err != nil {
			log.Fatal().Err(err).Msg("open-store")
		}
		defer st.Close()
	}

	var all []handio.Row
	for _, path := range files {
		recs, err := readFile(path, cfg.GetString("encoding"))
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("read-hands")
			continue
		}
		rows := make([]handio.Row, len(recs))
		for i, rec := range recs {
			req := rec.Request(analyzer.ActionFan)
			resp, err := evaluate(&req)
			rows[i] = handio.NewRow(rec, resp, err)
		}
		if st != nil {
			if err := st.Save(ctx, recs, rows); err != nil {
				log.Error().Err(err).Str("file", path).Msg("save-results")
			}
		}
		all = append(all, rows...)
	}
	if err := handio.WriteRows(os.Stdout, all, cfg.GetBool("chinese")); err != nil {
		log.Fatal().Err(err).Msg("write-rows")
	}
	ok, failed, points := handio.Summary(all)
	fmt.Printf("%d hands scored, %d failed, %d points in all\n", ok, failed, points)
}

func readFile(path, enc string) ([]handio.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := handio.NewReader(f, enc)
	if err != nil {
		return nil, err
	}
	return handio.Read(r, handio.FormatFor(path))
}
