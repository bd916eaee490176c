package tilemapping

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadNotation = errors.New("bad tile notation")

// ParseTiles reads a run of tiles written as digits followed by a suit
// letter (m s p, or z for honors by number) and honor letters E S W N C F P.
// A 0 stands for a five.
func ParseTiles(s string) ([]Tile, error) {
	tiles := make([]Tile, 0, len(s))
	var pending []uint8
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r := c - '0'
			if r == 0 {
				r = 5
			}
			pending = append(pending, r)
		case c == 'm' || c == 's' || c == 'p' || c == 'z':
			if len(pending) == 0 {
				return nil, fmt.Errorf("%w: suit %q without ranks at %d", ErrBadNotation, c, i)
			}
			suit := suitOf(c)
			for _, r := range pending {
				if suit == SuitHonors && r > 7 {
					return nil, fmt.Errorf("%w: no honor %d", ErrBadNotation, r)
				}
				tiles = append(tiles, MakeTile(suit, r))
			}
			pending = pending[:0]
		case c == ' ':
		default:
			h := strings.IndexByte(string(honorLetters[1:]), c)
			if h < 0 {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrBadNotation, c, i)
			}
			if len(pending) != 0 {
				return nil, fmt.Errorf("%w: ranks without suit before %q", ErrBadNotation, c)
			}
			tiles = append(tiles, MakeTile(SuitHonors, uint8(h+1)))
		}
	}
	if len(pending) != 0 {
		return nil, fmt.Errorf("%w: trailing ranks without suit", ErrBadNotation)
	}
	return tiles, nil
}

func suitOf(c byte) uint8 {
	switch c {
	case 'm':
		return SuitCharacters
	case 's':
		return SuitBamboo
	case 'p':
		return SuitDots
	}
	return SuitHonors
}

// FormatTiles writes tiles in compact notation, grouping consecutive tiles
// of the same suit under one suffix: 123m456s99pEE.
func FormatTiles(tiles []Tile) string {
	var sb strings.Builder
	var suit uint8
	for _, t := range tiles {
		if t.IsHonor() {
			if suit != 0 {
				sb.WriteByte(suitLetters[suit])
				suit = 0
			}
			sb.WriteByte(honorLetters[t.Rank()])
			continue
		}
		if suit != 0 && t.Suit() != suit {
			sb.WriteByte(suitLetters[suit])
		}
		suit = t.Suit()
		sb.WriteByte('0' + t.Rank())
	}
	if suit != 0 {
		sb.WriteByte(suitLetters[suit])
	}
	return sb.String()
}
