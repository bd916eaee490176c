// Package analyzer answers JSON requests about a hand: its fan breakdown,
// its shanten per form, its discard table and its waits.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/guobiao/cache"
	"github.com/domino14/guobiao/config"
	"github.com/domino14/guobiao/fan"
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

const (
	ActionFan     = "fan"
	ActionShanten = "shanten"
	ActionDiscard = "discard"
	ActionWait    = "wait"
)

var ErrUnknownAction = errors.New("unknown action")

var SampleJson = []byte(`{
"action": "fan",
"hand": "123m456m789mCCCEE",
"flag": "self-drawn",
"prevalent": "S",
"seat": "W"
}`)

// Request is one question about a hand in the usual notation. Winds
// default to the configured ones; forms default to all.
type Request struct {
	Action    string `json:"action"`
	Hand      string `json:"hand"`
	Flag      string `json:"flag,omitempty"`
	Prevalent string `json:"prevalent,omitempty"`
	Seat      string `json:"seat,omitempty"`
	Flowers   int    `json:"flowers,omitempty"`
	Forms     string `json:"forms,omitempty"`
}

type JsonFan struct {
	Name    string `json:"name"`
	Chinese string `json:"chinese"`
	Points  int    `json:"points"`
	Count   int    `json:"count"`
}

type FanResponse struct {
	Total    int       `json:"total"`
	Form     string    `json:"form"`
	Division string    `json:"division,omitempty"`
	Fans     []JsonFan `json:"fans"`
}

type FormShanten struct {
	Form    string `json:"form"`
	Shanten int    `json:"shanten"`
	Useful  string `json:"useful"`
}

type ShantenResponse struct {
	Shanten   int           `json:"shanten"`
	Useful    string        `json:"useful"`
	Remaining int           `json:"remaining"`
	Forms     []FormShanten `json:"forms"`
}

// JsonDiscard is the best form for one discard.
type JsonDiscard struct {
	Discard   string `json:"discard"`
	Form      string `json:"form"`
	Shanten   int    `json:"shanten"`
	Useful    string `json:"useful"`
	Remaining int    `json:"remaining"`
}

type WaitResponse struct {
	Waiting bool   `json:"waiting"`
	Tiles   string `json:"tiles"`
}

type Response struct {
	Action   string           `json:"action"`
	Hand     string           `json:"hand"`
	Fan      *FanResponse     `json:"fan,omitempty"`
	Shanten  *ShantenResponse `json:"shanten,omitempty"`
	Discards []JsonDiscard    `json:"discards,omitempty"`
	Wait     *WaitResponse    `json:"wait,omitempty"`
}

type Analyzer struct {
	config  *config.Config
	results *cache.ResultCache
	tt      *cache.TranspositionTable
}

func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{config: cfg}
}

// SetResultCache memoises whole responses.
func (an *Analyzer) SetResultCache(c *cache.ResultCache) {
	an.results = c
}

// SetTranspositionTable memoises shanten computations.
func (an *Analyzer) SetTranspositionTable(tt *cache.TranspositionTable) {
	an.tt = tt
}

func (an *Analyzer) defaultWind(key string) string {
	if an.config == nil {
		return "E"
	}
	return an.config.GetString(key)
}

func parseWind(s string) (tilemapping.Tile, error) {
	tiles, err := tilemapping.ParseTiles(s)
	if err != nil {
		return 0, err
	}
	if len(tiles) != 1 || !tiles[0].IsWind() {
		return 0, fmt.Errorf("%q is not a wind", s)
	}
	return tiles[0], nil
}

// Fan scores a complete hand.
func (an *Analyzer) Fan(req *Request) (*FanResponse, error) {
	hand, win, err := pack.ParseHand(req.Hand)
	if err != nil {
		return nil, err
	}
	flag, err := fan.ParseWinFlag(req.Flag)
	if err != nil {
		return nil, err
	}
	prevalent, err := parseWind(lo.CoalesceOrEmpty(req.Prevalent, an.defaultWind(config.ConfigDefaultPrevalentWind)))
	if err != nil {
		return nil, err
	}
	seat, err := parseWind(lo.CoalesceOrEmpty(req.Seat, an.defaultWind(config.ConfigDefaultSeatWind)))
	if err != nil {
		return nil, err
	}
	res, err := fan.Calculate(fan.Param{
		Hand:          hand,
		WinTile:       win,
		FlowerCount:   req.Flowers,
		WinFlag:       flag,
		PrevalentWind: prevalent,
		SeatWind:      seat,
	})
	if err != nil {
		return nil, err
	}
	out := &FanResponse{
		Total: res.Total,
		Form:  res.Form.String(),
		Fans: lo.Map(res.Table.Fired(), func(e fan.Entry, _ int) JsonFan {
			return JsonFan{Name: e.Fan.Name(), Chinese: e.Fan.ChineseName(), Points: e.Points(), Count: e.Count}
		}),
	}
	if res.Division[4] != 0 {
		out.Division = res.Division.String()
	}
	return out, nil
}

func (an *Analyzer) shanten(standing []tilemapping.Tile, forms shanten.Form) (shanten.Result, error) {
	if an.tt != nil {
		return an.tt.Shanten(standing, forms)
	}
	return shanten.Shanten(standing, forms)
}

func parseForms(s string) (shanten.Form, error) {
	if s == "" {
		return shanten.FormAll, nil
	}
	return shanten.ParseForm(s)
}

// Shanten reports how far a hand with no winning tile is from winning.
func (an *Analyzer) Shanten(req *Request) (*ShantenResponse, error) {
	hand, win, err := pack.ParseHand(req.Hand)
	if err != nil {
		return nil, err
	}
	if win != 0 {
		return nil, fmt.Errorf("%w: shanten needs a hand without a winning tile", pack.ErrWrongTilesCount)
	}
	forms, err := parseForms(req.Forms)
	if err != nil {
		return nil, err
	}
	res, err := an.shanten(hand.Standing, forms)
	if err != nil {
		return nil, err
	}
	visible := hand.Table()
	return &ShantenResponse{
		Shanten:   res.Shanten,
		Useful:    res.Useful.String(),
		Remaining: shanten.CountRemaining(&visible, &res.Useful),
		Forms: lo.Map(res.Forms, func(fr shanten.FormResult, _ int) FormShanten {
			return FormShanten{Form: fr.Form.String(), Shanten: fr.Shanten, Useful: fr.Useful.String()}
		}),
	}, nil
}

// Discards lists, for every possible discard of a hand that has just
// drawn, the best form it leaves. The list is sorted best first.
func (an *Analyzer) Discards(req *Request) ([]JsonDiscard, error) {
	hand, drawn, err := pack.ParseHand(req.Hand)
	if err != nil {
		return nil, err
	}
	if drawn == 0 {
		return nil, fmt.Errorf("%w: discards need a drawn tile", pack.ErrWrongTilesCount)
	}
	forms, err := parseForms(req.Forms)
	if err != nil {
		return nil, err
	}
	visible := hand.Table()
	visible.Add(drawn)

	var rows []JsonDiscard
	shanten.EnumDiscards(hand, drawn, forms, func(r shanten.DiscardResult) bool {
		rows = append(rows, JsonDiscard{
			Discard:   r.Discard.String(),
			Form:      r.Form.String(),
			Shanten:   r.Shanten,
			Useful:    r.Useful.String(),
			Remaining: shanten.CountRemaining(&visible, &r.Useful),
		})
		return true
	})

	byDiscard := lo.GroupBy(rows, func(r JsonDiscard) string { return r.Discard })
	best := lo.MapToSlice(byDiscard, func(_ string, rs []JsonDiscard) JsonDiscard {
		return lo.MinBy(rs, better)
	})
	slices.SortFunc(best, func(a, b JsonDiscard) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		}
		return strings.Compare(a.Discard, b.Discard)
	})
	return best, nil
}

func better(a, b JsonDiscard) bool {
	if a.Shanten != b.Shanten {
		return a.Shanten < b.Shanten
	}
	return a.Remaining > b.Remaining
}

// Wait reports whether a hand is one tile from winning, in any form.
func (an *Analyzer) Wait(req *Request) (*WaitResponse, error) {
	hand, win, err := pack.ParseHand(req.Hand)
	if err != nil {
		return nil, err
	}
	if win != 0 {
		return nil, fmt.Errorf("%w: waits need a hand without a winning tile", pack.ErrWrongTilesCount)
	}
	ok, tiles := shanten.Waiting(hand)
	return &WaitResponse{Waiting: ok, Tiles: tiles.String()}, nil
}

// Do answers a decoded request.
func (an *Analyzer) Do(req *Request) (*Response, error) {
	resp := &Response{Action: req.Action, Hand: req.Hand}
	var err error
	switch req.Action {
	case ActionFan:
		resp.Fan, err = an.Fan(req)
	case ActionShanten:
		resp.Shanten, err = an.Shanten(req)
	case ActionDiscard:
		resp.Discards, err = an.Discards(req)
	case ActionWait:
		resp.Wait, err = an.Wait(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Analyze takes a JSON request and returns a JSON response. Responses are
// cached by request when a result cache is set.
func (an *Analyzer) Analyze(ctx context.Context, jsonReq []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(jsonReq, &req); err != nil {
		return nil, err
	}
	compute := func(context.Context) ([]byte, error) {
		resp, err := an.Do(&req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	}
	if an.results == nil {
		return compute(ctx)
	}
	key := cache.Key(req.Action, req.Hand, req.Flag, req.Prevalent, req.Seat,
		fmt.Sprint(req.Flowers), req.Forms)
	return an.results.Load(ctx, key, compute)
}

// RunTest prints the analysis of the sample request.
func (an *Analyzer) RunTest() error {
	out, err := an.Analyze(context.Background(), SampleJson)
	if err != nil {
		return err
	}
	var resp Response
	if err := json.Unmarshal(out, &resp); err != nil {
		return err
	}
	log.Debug().RawJSON("response", out).Msg("sample-analysis")
	fmt.Printf("%s: %d (%s)\n", resp.Hand, resp.Fan.Total, resp.Fan.Form)
	for _, f := range resp.Fan.Fans {
		fmt.Printf("  %-32s %-8s %3d\n", f.Name, f.Chinese, f.Points)
	}
	return nil
}
