package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/config"
)

func run(t *testing.T, args ...string) (string, error) {
	var buf bytes.Buffer
	root := newRootCmd(config.DefaultConfig(), &buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestScore(t *testing.T) {
	is := is.New(t)
	out, err := run(t, "score", "123m456m789mCCCEE", "--flag", "self-drawn",
		"--default-prevalent-wind", "S", "--default-seat-wind", "W", "--json")
	is.NoErr(err)
	var resp analyzer.FanResponse
	is.NoErr(json.Unmarshal([]byte(out), &resp))
	is.Equal(resp.Total, 29)

	out, err = run(t, "fan", "11223344556677m")
	is.NoErr(err)
	is.True(bytes.Contains([]byte(out), []byte("11223344556677m: 88 fan")))

	_, err = run(t, "score", "1357m2468s13579pE")
	is.True(err != nil)
}

func TestShantenDiscard(t *testing.T) {
	is := is.New(t)
	out, err := run(t, "shanten", "123m456m789mCCCE")
	is.NoErr(err)
	is.Equal(out, "123m456m789mCCCE: shanten 0, useful E (3 left)\n")

	out, err = run(t, "discard", "123m456m789mCCEE1s", "--json")
	is.NoErr(err)
	var rows []analyzer.JsonDiscard
	is.NoErr(json.Unmarshal([]byte(out), &rows))
	is.Equal(rows[0].Discard, "1s")
}

func TestBatch(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	hands := filepath.Join(dir, "hands.yaml")
	is.NoErr(os.WriteFile(hands, []byte(`- hand: 123m456m789mCCCEE
  flag: self-drawn
  prevalent: S
  seat: W
- hand: 11223344556677m
`), 0o644))
	out, err := run(t, "batch", hands, "--sqlite-path", filepath.Join(dir, "hands.db"))
	is.NoErr(err)
	is.True(bytes.Contains([]byte(out), []byte("2 hands scored, 0 failed, 117 points in all")))
	_, err = os.Stat(filepath.Join(dir, "hands.db"))
	is.NoErr(err)
}

func TestSim(t *testing.T) {
	is := is.New(t)
	out, err := run(t, "sim", "--iterations", "20", "--threads", "2")
	is.NoErr(err)
	is.True(bytes.Contains([]byte(out), []byte("Iterations: 20")))
}
