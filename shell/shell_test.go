package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/store"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"fan 123m456m789mCCCEE -seat W",
			&shellcmd{"fan", []string{"123m456m789mCCCEE"}, CmdOptions{"seat": {"W"}}},
			nil},
		{"sim stop",
			&shellcmd{"sim", []string{"stop"}, CmdOptions{}},
			nil},
		{`fan "[234m,1][567p,1][345s,1]88sEE8s" -flag 'self-drawn|wall-last' -flag init`,
			&shellcmd{"fan",
				[]string{"[234m,1][567p,1][345s,1]88sEE8s"},
				CmdOptions{"flag": {"self-drawn|wall-last", "init"}}},
			nil,
		},
		{"sim -threads",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Load([]string{"--config-file=" + filepath.Join(t.TempDir(), "guobiao.yaml")}))
	return newController(cfg, &buf), &buf
}

func TestFanCommand(t *testing.T) {
	sc, _ := testController(t)
	resp, err := sc.handle("fan 123m456m789mCCCEE -flag self-drawn -prevalent S -seat W")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "29 fan (basic)")
	assert.Contains(t, resp.message, "Pure Straight")

	_, err = sc.handle("set chinese true")
	require.NoError(t, err)
	resp, err = sc.handle("score 123m456m789mCCCEE -prevalent S -seat W")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "27 fan")
	assert.Contains(t, resp.message, "清龙")

	_, err = sc.handle("fan 1357m2468s13579pE")
	assert.Error(t, err)
	_, err = sc.handle("fan")
	assert.Error(t, err)
	_, err = sc.handle("frobnicate")
	assert.Error(t, err)
	_, err = sc.handle("exit")
	assert.Equal(t, errQuit, err)
}

func TestShantenDiscardWait(t *testing.T) {
	sc, _ := testController(t)
	resp, err := sc.handle("shanten 123m456m789mCCCE")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.message, "123m456m789mCCCE: ready, useful E (3 left)"))

	resp, err = sc.handle("d 123m456m789mCCEE1s")
	require.NoError(t, err)
	lines := strings.Split(resp.message, "\n")
	assert.True(t, strings.HasPrefix(lines[1], "1s "))

	resp, err = sc.handle("wait 123m456m789mCCCE")
	require.NoError(t, err)
	assert.Equal(t, "123m456m789mCCCE waits on E", resp.message)
}

func TestSet(t *testing.T) {
	sc, _ := testController(t)
	resp, err := sc.handle("set seat S")
	require.NoError(t, err)
	assert.Equal(t, "set seat to S", resp.message)
	resp, err = sc.handle("set flag self-drawn,wall-last")
	require.NoError(t, err)
	assert.Equal(t, "set flag to self-drawn|wall-last", resp.message)

	for _, bad := range []string{"set seat C", "set flowers 9", "set forms nope", "set colour red", "set flag boom"} {
		_, err := sc.handle(bad)
		assert.Error(t, err, bad)
	}
	resp, err = sc.handle("set")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "seat: S")
}

func TestAlias(t *testing.T) {
	sc, _ := testController(t)
	resp, err := sc.handle("alias")
	require.NoError(t, err)
	assert.Equal(t, "No aliases defined", resp.message)

	_, err = sc.handle("alias set sw fan -prevalent S -seat W")
	require.NoError(t, err)
	resp, err = sc.handle("sw 123m456m789mCCCEE")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "27 fan")

	// the alias was saved to the config file
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Load([]string{"--config-file=" + sc.config.GetString(config.ConfigConfigFile)}))
	assert.Contains(t, cfg.GetStringMapString(config.ConfigAliases)["sw"], "fan")

	_, err = sc.handle("alias rm sw")
	require.NoError(t, err)
	_, err = sc.handle("alias show sw")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	sc, _ := testController(t)
	dir := t.TempDir()
	hands := filepath.Join(dir, "hands.txt")
	require.NoError(t, os.WriteFile(hands, []byte(
		"123m456m789mCCCEE self-drawn S W\n11223344556677m\n1357m2468s13579pE\n"), 0o644))
	db := filepath.Join(dir, "hands.db")

	resp, err := sc.handle("batch " + hands + " -store " + db)
	require.NoError(t, err)
	assert.Contains(t, resp.message, "2 hands scored, 1 failed, 117 points in all")

	st, err := store.Open(t.Context(), db)
	require.NoError(t, err)
	defer st.Close()
	n, err := st.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestScript(t *testing.T) {
	sc, _ := testController(t)
	script := filepath.Join(t.TempDir(), "test.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
local json = require("json")
guobiao_set("seat W")
local out = guobiao_fan("123m456m789mCCCEE -prevalent S -flag self-drawn")
assert(string.find(out, "29 fan"), out)
local resp = guobiao_analyze({action = "wait", hand = "123m456m789mCCCE"})
assert(resp.wait.waiting == true)
assert(resp.wait.tiles == "E")
local _, err = guobiao_fan("11m")
assert(err ~= nil)
assert(json.decode('{"a":1}').a == 1)
`), 0o644))
	_, err := sc.handle("script " + script)
	require.NoError(t, err)
	assert.Equal(t, "W", sc.options.seat)

	bad := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`assert(false, "nope")`), 0o644))
	_, err = sc.handle("script " + bad)
	assert.Error(t, err)
}

func TestSimAndHist(t *testing.T) {
	sc, _ := testController(t)
	defer sc.Cleanup()
	_, err := sc.handle("sim log")
	require.NoError(t, err)
	_, err = sc.handle("sim -iterations 30 -threads 2 -forms basic")
	require.NoError(t, err)

	deadline := time.Now().Add(30 * time.Second)
	for sc.simmer.Iterations() < 30 || sc.simmer.IsSimming() {
		require.True(t, time.Now().Before(deadline), "sim did not finish")
		time.Sleep(20 * time.Millisecond)
	}
	resp, err := sc.handle("sim show")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "30")

	resp, err = sc.handle("hist -bins 5 -width 20")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "Shanten at deal:")

	_, err = sc.handle("sim stop")
	assert.Error(t, err)
	_, err = sc.handle("sim -stop 90")
	assert.Error(t, err)
}

func TestHelp(t *testing.T) {
	sc, _ := testController(t)
	resp, err := sc.handle("help")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "Commands:")
	resp, err = sc.handle("help batch")
	require.NoError(t, err)
	assert.Contains(t, resp.message, "gb18030")
	_, err = sc.handle("help ../shell")
	assert.Error(t, err)
}

func TestCompleter(t *testing.T) {
	sc, _ := testController(t)
	sc.aliases["fw"] = "fan -seat W"
	c := NewShellCompleter(sc)

	complete := func(line string) []string {
		matches, _ := c.Do([]rune(line), len(line))
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = string(m)
		}
		return out
	}
	assert.Equal(t, []string{"anten", ""}, complete("sh"))
	assert.Contains(t, complete("f"), "w")
	assert.Equal(t, []string{"eat"}, complete("fan 11m -s"))
	assert.Equal(t, []string{"E", "S", "W", "N"}, complete("fw 11m -prevalent "))
	assert.Equal(t, []string{"b18030", "bk"}, complete("batch x -encoding g"))
	assert.Equal(t, []string{"true", "false"}, complete("set chinese "))
}
