package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/config"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

// ShellOptions are sent along with every request.
type ShellOptions struct {
	Prevalent string
	Seat      string
	Flag      string
	Flowers   int
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	return &ShellOptions{
		Prevalent: cfg.GetString(config.ConfigDefaultPrevalentWind),
		Seat:      cfg.GetString(config.ConfigDefaultSeatWind),
	}
}

func (opts *ShellOptions) Set(key, value string) error {
	switch key {
	case "prevalent":
		opts.Prevalent = value
	case "seat":
		opts.Seat = value
	case "flag":
		opts.Flag = value
	case "flowers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		opts.Flowers = n
	default:
		return errors.New("no such option: " + key)
	}
	return nil
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	fmt.Fprintf(&out, "  prevalent: %s\n  seat: %s\n  flag: %s\n  flowers: %d\n",
		opts.Prevalent, opts.Seat, opts.Flag, opts.Flowers)
	return out.String()
}

type ShellController struct {
	l       *readline.Instance
	config  *config.Config
	options *ShellOptions
	client  *Client
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
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mbot>\033[0m ",
		HistoryFile:     "/tmp/guobiao-bot.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, config: cfg, options: NewShellOptions(cfg)}
}

// request builds the analyzer request for a shell line. It returns nil
// for lines that only change settings.
func (sc *ShellController) request(line string) (*analyzer.Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "set":
		if len(args) != 2 {
			return nil, errWrongOptionSyntax
		}
		return nil, sc.options.Set(args[0], args[1])
	case analyzer.ActionFan, analyzer.ActionShanten, analyzer.ActionDiscard, analyzer.ActionWait:
		if len(args) != 1 {
			return nil, fmt.Errorf("%s <hand>", cmd)
		}
		return &analyzer.Request{
			Action:    cmd,
			Hand:      args[0],
			Flag:      sc.options.Flag,
			Prevalent: sc.options.Prevalent,
			Seat:      sc.options.Seat,
			Flowers:   sc.options.Flowers,
		}, nil
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

func (sc *ShellController) handle(line string) (string, error) {
	req, err := sc.request(line)
	if err != nil || req == nil {
		if err == nil {
			return sc.options.ToDisplayText(), nil
		}
		return "", err
	}
	resp, err := sc.client.Request(req)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	return string(out), err
}

func (sc *ShellController) Loop(channel string, sig chan os.Signal) {
	defer sc.l.Close()

	nc, err := nats.Connect(sc.config.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Err(err).Msg("nats-connect")
		sig <- syscall.SIGINT
		return
	}
	defer nc.Close()
	sc.client = NewClient(nc, channel)

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

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		msg, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else {
			sc.showMessage(msg)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
