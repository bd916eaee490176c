package fan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/guobiao/division"
	"github.com/domino14/guobiao/pack"
	"github.com/domino14/guobiao/shanten"
	"github.com/domino14/guobiao/tilemapping"
)

var (
	ErrWrongTilesCount       = pack.ErrWrongTilesCount
	ErrTileCountGreaterThan4 = pack.ErrTileCountGreaterThan4
	ErrNotWin                = errors.New("not a winning hand")
)

// WinFlag describes how the winning tile was obtained. The zero value is
// a win off a discard.
type WinFlag uint8

const (
	WinDiscard    WinFlag = 0
	WinSelfDrawn  WinFlag = 1
	WinFourthTile WinFlag = 2
	WinAboutKong  WinFlag = 4
	WinWallLast   WinFlag = 8
	WinInit       WinFlag = 16
)

var winFlagNames = []struct {
	flag WinFlag
	name string
}{
	{WinSelfDrawn, "self-drawn"},
	{WinFourthTile, "4th-tile"},
	{WinAboutKong, "about-kong"},
	{WinWallLast, "wall-last"},
	{WinInit, "init"},
}

func (w WinFlag) String() string {
	var parts []string
	for _, n := range winFlagNames {
		if w&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "discard"
	}
	return strings.Join(parts, "|")
}

// ParseWinFlag reads flags joined by | or commas, for example
// "self-drawn|wall-last". An empty string or "discard" is WinDiscard.
func ParseWinFlag(s string) (WinFlag, error) {
	var w WinFlag
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "discard" || part == "" {
			continue
		}
		found := false
		for _, n := range winFlagNames {
			if n.name == part {
				w |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown win flag %q", part)
		}
	}
	return w, nil
}

// Param is everything needed to score a win. The winning tile is not
// part of Hand.Standing. Winds are tilemapping.East through North.
type Param struct {
	Hand          pack.Hand
	WinTile       tilemapping.Tile
	FlowerCount   int
	WinFlag       WinFlag
	PrevalentWind tilemapping.Tile
	SeatWind      tilemapping.Tile
}

// Result is the best scoring interpretation of a winning hand. Division
// is set for the basic form and for a knitted straight with melds.
type Result struct {
	Total    int
	Table    Table
	Division pack.Division
	Form     shanten.Form
}

// normalizeWinFlag corrects flags that contradict the hand.
func normalizeWinFlag(p *Param) WinFlag {
	flag := p.WinFlag
	win := p.WinTile
	inStanding := slices.Contains(p.Hand.Standing, win)
	if inStanding {
		flag &^= WinFourthTile
	}
	var fixedTable tilemapping.Table
	hasKong := false
	for _, pk := range p.Hand.Fixed {
		for _, tl := range pk.Tiles() {
			fixedTable.Add(tl)
		}
		hasKong = hasKong || pk.Kind() == pack.KindKong
	}
	inFixed := fixedTable.CountOf(win)
	if inFixed == 3 {
		flag |= WinFourthTile
	}
	if flag&WinAboutKong != 0 {
		if flag&WinSelfDrawn != 0 {
			if !hasKong {
				flag &^= WinAboutKong
			}
		} else if inFixed > 0 || inStanding {
			// a tile we hold cannot have been robbed from a kong
			flag &^= WinAboutKong
		}
	}
	return flag
}

// Calculate scores a win. It returns ErrWrongTilesCount or
// ErrTileCountGreaterThan4 (wrapped) for a malformed hand and ErrNotWin
// when the tiles do not form any winning shape.
func Calculate(p Param) (Result, error) {
	var res Result
	if p.WinTile == 0 {
		return res, fmt.Errorf("%w: no winning tile", ErrWrongTilesCount)
	}
	if err := p.Hand.Validate(p.WinTile); err != nil {
		return res, err
	}
	flag := normalizeWinFlag(&p)
	fixed := len(p.Hand.Fixed)

	sorted := make([]tile, 0, 14)
	sorted = append(sorted, p.Hand.Standing...)
	sorted = append(sorted, p.WinTile)
	slices.Sort(sorted)

	found := false
	best := 0
	var special Table
	if fixed <= 1 {
		if div, ok := knittedStraightFan(&p, flag, &special); ok {
			res = Result{Table: special, Division: div, Form: shanten.FormKnittedStraight}
			found = true
		} else if fixed == 0 {
			special = Table{}
			if form, ok := specialFormFan(sorted, flag, &special); ok {
				res = Result{Table: special, Form: form}
				found = true
			}
		}
		if found {
			best = res.Table.Total()
		}
	}

	// Seven pairs can be outscored by a basic division of the same tiles.
	if !found || special[SevenPairs] == 1 {
		divs := division.Divide(sorted, p.Hand.Fixed)
		for _, div := range divs {
			t := Evaluate(div, &p, flag)
			total := t.Total()
			log.Debug().Str("division", div.String()).Int("fan", total).Msg("evaluated-division")
			if total > best {
				best = total
				res = Result{Table: t, Division: div, Form: shanten.FormBasic}
				found = true
			}
		}
	}
	if !found {
		return Result{}, ErrNotWin
	}

	res.Table[FlowerTiles] = p.FlowerCount
	res.Total = best + p.FlowerCount
	return res, nil
}
