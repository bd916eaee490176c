package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/fan"
	"github.com/domino14/guobiao/handio"
	"github.com/domino14/guobiao/remote"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/store"
	"github.com/domino14/guobiao/tilemapping"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func validWind(s string) error {
	tiles, err := tilemapping.ParseTiles(s)
	if err != nil {
		return err
	}
	if len(tiles) != 1 || !tiles[0].IsWind() {
		return fmt.Errorf("%q is not a wind", s)
	}
	return nil
}

// Set changes one option after validating it.
func (sc *ShellController) Set(key, value string) (string, error) {
	opts := sc.options
	switch key {
	case "prevalent", "seat":
		if err := validWind(value); err != nil {
			return "", err
		}
		if key == "seat" {
			opts.seat = value
		} else {
			opts.prevalent = value
		}
	case "flag":
		f, err := fan.ParseWinFlag(value)
		if err != nil {
			return "", err
		}
		opts.flag = f.String()
	case "flowers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", err
		}
		if n < 0 || n > 8 {
			return "", errors.New("flowers must be between 0 and 8")
		}
		opts.flowers = n
	case "forms":
		if _, err := shanten.ParseForm(value); err != nil {
			return "", err
		}
		opts.forms = value
	case "chinese":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", err
		}
		opts.chinese = b
	default:
		return "", errors.New("no such option: " + key)
	}
	_, val := opts.Show(key)
	return val, nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.Set(opt, strings.Join(cmd.args[1:], " "))
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

// request builds an analyzer request from the shell options, overridden
// by any -flag, -prevalent, -seat, -flowers or -forms option.
func (sc *ShellController) request(action string, cmd *shellcmd) (*analyzer.Request, error) {
	if len(cmd.args) != 1 {
		return nil, fmt.Errorf("usage: %s <hand>", cmd.cmd)
	}
	req := &analyzer.Request{
		Action:    action,
		Hand:      cmd.args[0],
		Flag:      sc.options.flag,
		Prevalent: sc.options.prevalent,
		Seat:      sc.options.seat,
		Forms:     sc.options.forms,
	}
	for key, dst := range map[string]*string{
		"flag": &req.Flag, "prevalent": &req.Prevalent, "seat": &req.Seat, "forms": &req.Forms,
	} {
		if v := cmd.options.String(key); v != "" {
			*dst = v
		}
	}
	flowers, err := cmd.options.IntDefault("flowers", sc.options.flowers)
	if err != nil {
		return nil, err
	}
	req.Flowers = flowers
	return req, nil
}

func (sc *ShellController) fan(cmd *shellcmd) (*Response, error) {
	req, err := sc.request(analyzer.ActionFan, cmd)
	if err != nil {
		return nil, err
	}
	resp, err := sc.analyzer.Fan(req)
	if err != nil {
		return nil, err
	}
	return msg(fanText(req.Hand, resp, sc.options.chinese)), nil
}

func (sc *ShellController) shanten(cmd *shellcmd) (*Response, error) {
	req, err := sc.request(analyzer.ActionShanten, cmd)
	if err != nil {
		return nil, err
	}
	resp, err := sc.analyzer.Shanten(req)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s, useful %s (%d left)\n", req.Hand, shantenText(resp.Shanten),
		resp.Useful, resp.Remaining)
	for _, f := range resp.Forms {
		fmt.Fprintf(&sb, "  %-20s%-4d%s\n", f.Form, f.Shanten, f.Useful)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) discard(cmd *shellcmd) (*Response, error) {
	req, err := sc.request(analyzer.ActionDiscard, cmd)
	if err != nil {
		return nil, err
	}
	rows, err := sc.analyzer.Discards(req)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s%-20s%-9s%-6s%s\n", "Discard", "Form", "Shanten", "Left", "Useful")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-8s%-20s%-9s%-6d%s\n", r.Discard, r.Form, shantenText(r.Shanten),
			r.Remaining, r.Useful)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) wait(cmd *shellcmd) (*Response, error) {
	req, err := sc.request(analyzer.ActionWait, cmd)
	if err != nil {
		return nil, err
	}
	resp, err := sc.analyzer.Wait(req)
	if err != nil {
		return nil, err
	}
	if !resp.Waiting {
		return msg(req.Hand + " is not waiting"), nil
	}
	return msg(req.Hand + " waits on " + resp.Tiles), nil
}

// batch evaluates every hand in a file. Options: -encoding, -out, -store
// (a SQLite path) and -remote (a Lambda function name).
func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: batch <file> [-encoding gb18030] [-out file] [-store db] [-remote function]")
	}
	ctx := context.Background()
	path := cmd.args[0]
	enc := cmd.options.String("encoding")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := handio.NewReader(f, enc)
	if err != nil {
		return nil, err
	}
	recs, err := handio.Read(r, handio.FormatFor(path))
	if err != nil {
		return nil, err
	}

	evaluate := func(req *analyzer.Request) (*analyzer.FanResponse, error) {
		return sc.analyzer.Fan(req)
	}
	if fn := cmd.options.String("remote"); fn != "" {
		client, err := remote.NewClient(ctx, fn)
		if err != nil {
			return nil, err
		}
		evaluate = func(req *analyzer.Request) (*analyzer.FanResponse, error) {
			resp, err := client.Analyze(ctx, req.Hand, *req)
			if err != nil {
				return nil, err
			}
			return resp.Fan, nil
		}
	}

	rows := make([]handio.Row, len(recs))
	for i, rec := range recs {
		req := sc.withDefaults(rec.Request(analyzer.ActionFan))
		resp, err := evaluate(&req)
		rows[i] = handio.NewRow(rec, resp, err)
	}

	if dbPath := cmd.options.String("store"); dbPath != "" {
		st, err := store.Open(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		if err := st.Save(ctx, recs, rows); err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	if out := cmd.options.String("out"); out != "" {
		of, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		defer of.Close()
		w, err := handio.NewWriter(of, enc)
		if err != nil {
			return nil, err
		}
		if err := handio.WriteRows(w, rows, sc.options.chinese); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "wrote %s\n", out)
	} else if err := handio.WriteRows(&sb, rows, sc.options.chinese); err != nil {
		return nil, err
	}
	ok, failed, points := handio.Summary(rows)
	fmt.Fprintf(&sb, "%d hands scored, %d failed, %d points in all", ok, failed, points)
	return msg(sb.String()), nil
}

// withDefaults fills unset winds and flowers from the shell options.
func (sc *ShellController) withDefaults(req analyzer.Request) analyzer.Request {
	if req.Prevalent == "" {
		req.Prevalent = sc.options.prevalent
	}
	if req.Seat == "" {
		req.Seat = sc.options.seat
	}
	if req.Flag == "" {
		req.Flag = sc.options.flag
	}
	return req
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) saveAliases() error {
	sc.config.Set(config.ConfigAliases, sc.aliases)
	return sc.config.Write()
}

func (sc *ShellController) alias(cmd *shellcmd) (*Response, error) {
	// No arguments - list all aliases
	if len(cmd.args) == 0 {
		if len(sc.aliases) == 0 {
			return msg("No aliases defined"), nil
		}
		names := make([]string, 0, len(sc.aliases))
		for name := range sc.aliases {
			names = append(names, name)
		}
		sort.Strings(names)

		var result strings.Builder
		result.WriteString("Defined aliases:\n")
		for _, name := range names {
			result.WriteString(fmt.Sprintf("  %s = %s\n", name, sc.aliases[name]))
		}
		return msg(result.String()), nil
	}

	subcommand := cmd.args[0]

	switch subcommand {
	case "set":
		if len(cmd.args) < 3 {
			return nil, errors.New("usage: alias set <name> <command>")
		}
		name := cmd.args[1]

		// Reconstruct the full command from args and options
		commandParts := cmd.args[2:]
		for opt, values := range cmd.options {
			for _, val := range values {
				commandParts = append(commandParts, "-"+opt, val)
			}
		}
		command := strings.Join(commandParts, " ")
		sc.aliases[name] = command
		if err := sc.saveAliases(); err != nil {
			return nil, fmt.Errorf("failed to save alias: %w", err)
		}
		return msg(fmt.Sprintf("Alias '%s' set to: %s", name, command)), nil

	case "delete", "remove", "rm":
		if len(cmd.args) < 2 {
			return nil, errors.New("usage: alias delete <name>")
		}
		name := cmd.args[1]
		if _, exists := sc.aliases[name]; !exists {
			return nil, fmt.Errorf("alias '%s' not found", name)
		}
		delete(sc.aliases, name)
		if err := sc.saveAliases(); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		return msg(fmt.Sprintf("Alias '%s' deleted", name)), nil

	case "show":
		if len(cmd.args) < 2 {
			return nil, errors.New("usage: alias show <name>")
		}
		name := cmd.args[1]
		if command, exists := sc.aliases[name]; exists {
			return msg(fmt.Sprintf("%s = %s", name, command)), nil
		}
		return nil, fmt.Errorf("alias '%s' not found", name)

	case "list":
		return sc.alias(&shellcmd{cmd: "alias"})

	default:
		return nil, fmt.Errorf("unknown subcommand '%s'. Valid: set, delete, show, list", subcommand)
	}
}
