package fan

import (
	"fmt"
	"strings"
)

// Table counts how many times each fan applies. Most fans are 0 or 1;
// a few, such as Tile Hog, can stack.
type Table [FanCount]int

// Total sums the points of every fan in the table, flowers included.
func (t *Table) Total() int {
	total := 0
	for f := Fan(1); f < FanCount; f++ {
		total += Values[f] * t[f]
	}
	return total
}

// Empty reports whether no fan fired.
func (t *Table) Empty() bool {
	for _, n := range t {
		if n != 0 {
			return false
		}
	}
	return true
}

// Entry is one fired fan with its multiplicity.
type Entry struct {
	Fan   Fan `json:"fan" yaml:"fan"`
	Count int `json:"count" yaml:"count"`
}

func (e Entry) Points() int { return Values[e.Fan] * e.Count }

// Fired lists the fans with a nonzero count in table order.
func (t *Table) Fired() []Entry {
	var entries []Entry
	for f := Fan(1); f < FanCount; f++ {
		if t[f] != 0 {
			entries = append(entries, Entry{Fan: f, Count: t[f]})
		}
	}
	return entries
}

func (t Table) String() string {
	var sb strings.Builder
	for i, e := range t.Fired() {
		if i > 0 {
			sb.WriteString(", ")
		}
		if e.Count == 1 {
			fmt.Fprintf(&sb, "%s %d", e.Fan, Values[e.Fan])
		} else {
			fmt.Fprintf(&sb, "%s %d*%d", e.Fan, Values[e.Fan], e.Count)
		}
	}
	return sb.String()
}
