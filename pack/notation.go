package pack

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/domino14/guobiao/tilemapping"
)

var (
	ErrWrongMeldSize  = errors.New("wrong number of tiles in meld")
	ErrCannotMakeMeld = errors.New("cannot make meld")
	ErrTooManyMelds   = errors.New("too many melds")
	ErrTooManyTiles   = errors.New("too many tiles")
)

// ParseHand reads a hand such as "[123m,1][EEEE]456p78s99p9s". Bracketed
// groups are fixed melds with an optional offer after a comma. When the
// standing tiles fill the hand, the last one is returned as the winning
// tile; otherwise the winning tile is zero.
func ParseHand(s string) (Hand, tilemapping.Tile, error) {
	var h Hand
	var standing []tilemapping.Tile
	for len(s) > 0 {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			tiles, err := tilemapping.ParseTiles(s)
			if err != nil {
				return h, 0, err
			}
			standing = append(standing, tiles...)
			break
		}
		tiles, err := tilemapping.ParseTiles(s[:open])
		if err != nil {
			return h, 0, err
		}
		standing = append(standing, tiles...)
		end := strings.IndexByte(s[open:], ']')
		if end < 0 {
			return h, 0, fmt.Errorf("%w: unclosed bracket", tilemapping.ErrBadNotation)
		}
		p, err := parseMeld(s[open+1 : open+end])
		if err != nil {
			return h, 0, err
		}
		if len(h.Fixed) == MaxFixed {
			return h, 0, ErrTooManyMelds
		}
		h.Fixed = append(h.Fixed, p)
		s = s[open+end+1:]
	}

	limit := 13 - 3*len(h.Fixed)
	var win tilemapping.Tile
	switch {
	case len(standing) == limit+1:
		win = standing[limit]
		standing = standing[:limit]
	case len(standing) > limit+1:
		return h, 0, fmt.Errorf("%w: %d standing tiles", ErrTooManyTiles, len(standing))
	}
	h.Standing = standing

	t := h.Table()
	if win != 0 {
		t.Add(win)
	}
	for _, k := range tilemapping.AllKinds {
		if t.CountOf(k) > 4 {
			return h, 0, fmt.Errorf("%w: %s", ErrTileCountGreaterThan4, k)
		}
	}
	return h, win, nil
}

func parseMeld(s string) (Pack, error) {
	body, offerStr, hasOffer := strings.Cut(s, ",")
	offer := 0
	if hasOffer {
		var err error
		offer, err = strconv.Atoi(strings.TrimSpace(offerStr))
		if err != nil || offer < 0 || offer > 7 {
			return 0, fmt.Errorf("%w: bad offer %q", ErrCannotMakeMeld, offerStr)
		}
	}
	tiles, err := tilemapping.ParseTiles(body)
	if err != nil {
		return 0, err
	}
	slices.Sort(tiles)
	promoted := offer&4 != 0
	switch len(tiles) {
	case 3:
		if promoted {
			return 0, fmt.Errorf("%w: only kongs are promoted", ErrCannotMakeMeld)
		}
		if offer == 0 {
			offer = 1
		}
		if tiles[0] == tiles[1] && tiles[1] == tiles[2] {
			return MakePung(uint8(offer), tiles[0]), nil
		}
		if tiles[0].IsNumbered() && tiles[1] == tiles[0]+1 && tiles[2] == tiles[0]+2 {
			return MakeChow(uint8(offer), tiles[1]), nil
		}
		return 0, fmt.Errorf("%w: %s", ErrCannotMakeMeld, body)
	case 4:
		if tiles[0] != tiles[3] {
			return 0, fmt.Errorf("%w: %s", ErrCannotMakeMeld, body)
		}
		if !promoted {
			return MakeKong(uint8(offer), tiles[0]), nil
		}
		if offer&3 == 0 {
			return 0, fmt.Errorf("%w: promoted kong needs an offer", ErrCannotMakeMeld)
		}
		return MakePung(uint8(offer&3), tiles[0]).Promote(), nil
	}
	return 0, fmt.Errorf("%w: %d tiles", ErrWrongMeldSize, len(tiles))
}

// FormatHand prints a hand followed by its winning tile, if any.
func FormatHand(h Hand, win tilemapping.Tile) string {
	s := h.String()
	if win != 0 {
		s += tilemapping.FormatTiles([]tilemapping.Tile{win})
	}
	return s
}
