package generator

import (
	"encoding/json"
	"fmt"
)

// Direction is the orientation of a placed word.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// step returns the row/col increment for one letter along d.
func (d Direction) step() (int, int) {
	if d == Down {
		return 1, 0
	}
	return 0, 1
}

func (d Direction) mask() uint8 {
	if d == Down {
		return 2
	}
	return 1
}

func (d Direction) perpendicular() Direction {
	if d == Down {
		return Across
	}
	return Down
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Direction(s) {
	case Across, Down:
		*d = Direction(s)
		return nil
	}
	return fmt.Errorf("unknown direction %q", s)
}

// workGrid is the square scratch buffer words are laid into. Zero means empty.
// runs records which directions already pass through each cell.
type workGrid struct {
	size  int
	cells [][]rune
	runs  [][]uint8
}

func newWorkGrid(size int) *workGrid {
	cells := make([][]rune, size)
	runs := make([][]uint8, size)
	for i := range cells {
		cells[i] = make([]rune, size)
		runs[i] = make([]uint8, size)
	}
	return &workGrid{size: size, cells: cells, runs: runs}
}

func (g *workGrid) inBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// at returns the letter at (row, col). Off-grid positions read as empty.
func (g *workGrid) at(row, col int) rune {
	if !g.inBounds(row, col) {
		return 0
	}
	return g.cells[row][col]
}

func (g *workGrid) place(word []rune, row, col int, dir Direction) {
	dr, dc := dir.step()
	for i, r := range word {
		g.cells[row+i*dr][col+i*dc] = r
		g.runs[row+i*dr][col+i*dc] |= dir.mask()
	}
}
