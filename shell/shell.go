// Package shell is the interactive evaluator: score hands, count shanten,
// pick discards, run deal simulations and Lua scripts.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/montecarlo"
	"github.com/domino14/guobiao/shanten"
)

const SimLog = "/tmp/guobiao-simlog.yaml"

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

// ShellOptions apply to every hand the shell evaluates unless a command
// overrides them.
type ShellOptions struct {
	prevalent string
	seat      string
	flag      string
	flowers   int
	forms     string
	chinese   bool
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	return &ShellOptions{
		prevalent: cfg.GetString(config.ConfigDefaultPrevalentWind),
		seat:      cfg.GetString(config.ConfigDefaultSeatWind),
		forms:     "all",
	}
}

var optionKeys = []string{"prevalent", "seat", "flag", "flowers", "forms", "chinese"}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "prevalent":
		return true, opts.prevalent
	case "seat":
		return true, opts.seat
	case "flag":
		if opts.flag == "" {
			return true, "discard"
		}
		return true, opts.flag
	case "flowers":
		return true, strconv.Itoa(opts.flowers)
	case "forms":
		return true, opts.forms
	case "chinese":
		return true, strconv.FormatBool(opts.chinese)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string
	options    *ShellOptions
	aliases    map[string]string

	analyzer *analyzer.Analyzer

	simmer        *montecarlo.Simmer
	simCtx        context.Context
	simCancel     context.CancelFunc
	simTicker     *time.Ticker
	simTickerDone chan bool
	simLogFile    *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// newController builds everything but the line editor.
func newController(cfg *config.Config, out io.Writer) *ShellController {
	an := analyzer.NewAnalyzer(cfg)
	an.SetTranspositionTable(cache.GlobalTranspositionTable)
	simmer := &montecarlo.Simmer{}
	simmer.Init(shanten.FormAll, montecarlo.DefaultMaxDraws, cache.GlobalTranspositionTable)
	if th := cfg.GetInt(config.ConfigSimThreads); th > 0 {
		simmer.SetThreads(th)
	}
	aliases := cfg.GetStringMapString(config.ConfigAliases)
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &ShellController{
		out:      out,
		config:   cfg,
		options:  NewShellOptions(cfg),
		aliases:  aliases,
		analyzer: an,
		simmer:   simmer,
	}
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mguobiao>\033[0m ",
		HistoryFile:     "/tmp/guobiao-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.execPath = execPath
	sc.gitVersion = gitVersion
	return sc
}

// extractFields splits a line into a command, its arguments and its
// -key value options. Quoting follows the shell.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i+1 == len(fields) {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// expandAlias replaces an alias name with its command, keeping the
// arguments typed after it.
func (sc *ShellController) expandAlias(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return line
	}
	if expansion, ok := sc.aliases[fields[0]]; ok {
		return strings.TrimSpace(expansion + " " + strings.Join(fields[1:], " "))
	}
	return line
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(sc.expandAlias(line))
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "alias":
		return sc.alias(cmd)
	case "set":
		return sc.set(cmd)
	case "fan", "score":
		return sc.fan(cmd)
	case "shanten", "sh":
		return sc.shanten(cmd)
	case "discard", "d":
		return sc.discard(cmd)
	case "wait", "w":
		return sc.wait(cmd)
	case "batch":
		return sc.batch(cmd)
	case "sim":
		return sc.sim(cmd)
	case "hist":
		return sc.hist(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if err == errQuit {
		sig <- syscall.SIGINT
		return
	}
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.handle(line)
		if err == errQuit {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops a running simulation and closes its log.
func (sc *ShellController) Cleanup() {
	if sc.simmer.IsSimming() {
		sc.stopSim()
	}
	if sc.simLogFile != nil {
		sc.simLogFile.Close()
	}
}
