package tilemapping

// Table is a count table indexed by tile value. Entries for invalid tile
// values are always zero.
type Table [TableSize]int

// TableFromTiles builds a count table out of a list of tiles.
func TableFromTiles(tiles []Tile) Table {
	var t Table
	t.Set(tiles)
	return t
}

// Set replaces the contents of the table with the given tiles.
func (t *Table) Set(tiles []Tile) {
	t.Clear()
	for _, tile := range tiles {
		t[tile]++
	}
}

func (t *Table) Clear() {
	*t = Table{}
}

func (t *Table) Add(tile Tile) {
	t[tile]++
}

// Take removes one copy of tile. The caller must make sure it is there.
func (t *Table) Take(tile Tile) {
	t[tile]--
}

func (t *Table) Has(tile Tile) bool {
	return t[tile] > 0
}

func (t *Table) CountOf(tile Tile) int {
	return t[tile]
}

// Total returns the number of tiles in the table.
func (t *Table) Total() int {
	n := 0
	for _, k := range AllKinds {
		n += t[k]
	}
	return n
}

// Empty reports whether every count is zero.
func (t *Table) Empty() bool {
	for _, k := range AllKinds {
		if t[k] != 0 {
			return false
		}
	}
	return true
}

// Tiles returns the tiles in the table in ascending order.
func (t *Table) Tiles() []Tile {
	tiles := make([]Tile, 0, 14)
	return t.AppendTiles(tiles)
}

// AppendTiles appends the tiles in ascending order to dst without
// allocating when dst has room.
func (t *Table) AppendTiles(dst []Tile) []Tile {
	for _, k := range AllKinds {
		for i := 0; i < t[k]; i++ {
			dst = append(dst, k)
		}
	}
	return dst
}

// Kinds returns the number of distinct kinds present.
func (t *Table) Kinds() int {
	n := 0
	for _, k := range AllKinds {
		if t[k] > 0 {
			n++
		}
	}
	return n
}
