// Package shanten computes how many tile exchanges separate a hand from
// each winning shape, and which tiles would bring it closer.
package shanten

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/guobiao/tilemapping"
)

var ErrWrongStandingCount = errors.New("wrong standing tile count")

// Form selects one or more winning shapes.
type Form uint8

const (
	FormBasic Form = 1 << iota
	FormSevenPairs
	FormThirteenOrphans
	FormHonorsAndKnitted
	FormKnittedStraight

	FormAll = FormBasic | FormSevenPairs | FormThirteenOrphans |
		FormHonorsAndKnitted | FormKnittedStraight
)

// Forms lists the single forms in evaluation order.
var Forms = []Form{FormBasic, FormSevenPairs, FormThirteenOrphans,
	FormHonorsAndKnitted, FormKnittedStraight}

var formNames = map[Form]string{
	FormBasic:            "basic",
	FormSevenPairs:       "seven-pairs",
	FormThirteenOrphans:  "thirteen-orphans",
	FormHonorsAndKnitted: "honors-and-knitted",
	FormKnittedStraight:  "knitted-straight",
}

func (f Form) String() string {
	if n, ok := formNames[f]; ok {
		return n
	}
	var parts []string
	for _, single := range Forms {
		if f&single != 0 {
			parts = append(parts, formNames[single])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseForm reads a form name as printed by String. "all" selects every
// form.
func ParseForm(s string) (Form, error) {
	if s == "all" {
		return FormAll, nil
	}
	var f Form
	for _, part := range strings.Split(s, "|") {
		found := false
		for form, name := range formNames {
			if name == part {
				f |= form
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown form %q", part)
		}
	}
	return f, nil
}

// Useful marks tile kinds, indexed by tile value.
type Useful [tilemapping.TableSize]bool

// Tiles lists the marked kinds in ascending order.
func (u *Useful) Tiles() []tilemapping.Tile {
	var tiles []tilemapping.Tile
	for _, t := range tilemapping.AllKinds {
		if u[t] {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Count returns the number of marked kinds.
func (u *Useful) Count() int {
	n := 0
	for _, t := range tilemapping.AllKinds {
		if u[t] {
			n++
		}
	}
	return n
}

// Merge marks every kind marked in o.
func (u *Useful) Merge(o *Useful) {
	for _, t := range tilemapping.AllKinds {
		if o[t] {
			u[t] = true
		}
	}
}

func (u Useful) String() string {
	return tilemapping.FormatTiles(u.Tiles())
}

// CountRemaining counts the copies of the useful kinds not yet visible.
func CountRemaining(visible *tilemapping.Table, useful *Useful) int {
	n := 0
	for _, t := range tilemapping.AllKinds {
		if useful[t] {
			n += 4 - visible[t]
		}
	}
	return n
}

// FormResult is the shanten of a single form.
type FormResult struct {
	Form    Form
	Shanten int
	Useful  Useful
}

// Result combines several forms. Useful merges the useful tiles of every
// form that reaches the minimum.
type Result struct {
	Shanten int
	Useful  Useful
	Forms   []FormResult
}

type formFunc func([]tilemapping.Tile) (int, Useful, error)

var formFuncs = map[Form]formFunc{
	FormBasic:            Basic,
	FormSevenPairs:       SevenPairs,
	FormThirteenOrphans:  ThirteenOrphans,
	FormHonorsAndKnitted: HonorsAndKnitted,
	FormKnittedStraight:  KnittedStraight,
}

// Applies reports whether the form can be computed for n standing tiles.
func (f Form) Applies(n int) bool {
	switch f {
	case FormBasic:
		return n == 1 || n == 4 || n == 7 || n == 10 || n == 13
	case FormSevenPairs, FormThirteenOrphans, FormHonorsAndKnitted:
		return n == 13
	case FormKnittedStraight:
		return n == 13 || n == 10
	}
	return false
}

// Shanten computes every selected form that applies to the number of
// standing tiles and returns the best of them.
func Shanten(standing []tilemapping.Tile, forms Form) (Result, error) {
	var res Result
	for _, f := range Forms {
		if forms&f == 0 || !f.Applies(len(standing)) {
			continue
		}
		st, useful, err := formFuncs[f](standing)
		if err != nil {
			return res, err
		}
		res.Forms = append(res.Forms, FormResult{Form: f, Shanten: st, Useful: useful})
	}
	if len(res.Forms) == 0 {
		return res, fmt.Errorf("%w: %d tiles for %s", ErrWrongStandingCount, len(standing), forms)
	}
	res.Shanten = res.Forms[0].Shanten
	for _, fr := range res.Forms[1:] {
		res.Shanten = min(res.Shanten, fr.Shanten)
	}
	for i := range res.Forms {
		if res.Forms[i].Shanten == res.Shanten {
			res.Useful.Merge(&res.Forms[i].Useful)
		}
	}
	return res, nil
}
