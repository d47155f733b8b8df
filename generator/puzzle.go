package generator

import (
	"cmp"
	"slices"
	"strings"
)

// Placement is a committed word and its start cell.
type Placement struct {
	Word      string    `json:"word"`
	Clue      string    `json:"clue"`
	Direction Direction `json:"direction"`
	Row       int       `json:"startRow"`
	Col       int       `json:"startCol"`
	Number    int       `json:"number"`
}

// Cell is one square of a generated puzzle. Letter is nil for black cells.
// UserInput and IsCorrect belong to whoever plays the puzzle; the generator
// leaves them zeroed.
type Cell struct {
	Letter    *string `json:"letter"`
	UserInput string  `json:"userInput"`
	Number    int     `json:"number,omitempty"`
	IsCorrect bool    `json:"isCorrect"`
}

// Black reports whether the cell holds no letter.
func (c Cell) Black() bool {
	return c.Letter == nil
}

// Puzzle is the trimmed, numbered result of a generation call.
// Word coordinates are relative to Grid.
type Puzzle struct {
	Grid  [][]Cell    `json:"grid"`
	Words []Placement `json:"words"`
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
}

// Numbering selects how clue numbers are assigned.
type Numbering int

const (
	// NumberPlacementOrder numbers words 1..n in the order they were placed.
	NumberPlacementOrder Numbering = iota
	// NumberReadingOrder numbers start cells top-to-bottom, left-to-right,
	// the way printed crosswords do.
	NumberReadingOrder
)

func assemble(letters [][]rune, offsetRow, offsetCol int, placed []Placement, numbering Numbering) *Puzzle {
	p := &Puzzle{
		Grid:  make([][]Cell, len(letters)),
		Words: make([]Placement, len(placed)),
		Rows:  len(letters),
	}
	if p.Rows > 0 {
		p.Cols = len(letters[0])
	}

	for r, row := range letters {
		p.Grid[r] = make([]Cell, len(row))
		for c, l := range row {
			if l != 0 {
				s := string(l)
				p.Grid[r][c].Letter = &s
			}
		}
	}

	for i, w := range placed {
		w.Row -= offsetRow
		w.Col -= offsetCol
		w.Number = i + 1
		p.Words[i] = w
	}
	if numbering == NumberReadingOrder {
		renumberReadingOrder(p.Words)
	}

	for _, w := range p.Words {
		if cell := &p.Grid[w.Row][w.Col]; cell.Number == 0 {
			cell.Number = w.Number
		}
	}
	return p
}

func renumberReadingOrder(words []Placement) {
	type start struct{ row, col int }
	starts := make([]start, 0, len(words))
	for _, w := range words {
		s := start{w.Row, w.Col}
		if !slices.Contains(starts, s) {
			starts = append(starts, s)
		}
	}
	slices.SortFunc(starts, func(a, b start) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})
	for i := range words {
		words[i].Number = slices.Index(starts, start{words[i].Row, words[i].Col}) + 1
	}
}

// Across returns the across words ordered by clue number.
func (p *Puzzle) Across() []Placement {
	return p.clues(Across)
}

// Down returns the down words ordered by clue number.
func (p *Puzzle) Down() []Placement {
	return p.clues(Down)
}

func (p *Puzzle) clues(dir Direction) []Placement {
	var out []Placement
	for _, w := range p.Words {
		if w.Direction == dir {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b Placement) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return out
}

// Clone returns a deep copy of the puzzle.
func (p *Puzzle) Clone() *Puzzle {
	cp := &Puzzle{
		Grid:  make([][]Cell, len(p.Grid)),
		Words: slices.Clone(p.Words),
		Rows:  p.Rows,
		Cols:  p.Cols,
	}
	for r, row := range p.Grid {
		cp.Grid[r] = make([]Cell, len(row))
		for c, cell := range row {
			if cell.Letter != nil {
				l := *cell.Letter
				cell.Letter = &l
			}
			cp.Grid[r][c] = cell
		}
	}
	return cp
}

// Check reports whether input matches the solution letter at (row, col).
// Comparison ignores case. Black or out-of-range cells never match.
func (p *Puzzle) Check(row, col int, input string) bool {
	if row < 0 || row >= p.Rows || col < 0 || col >= p.Cols {
		return false
	}
	cell := p.Grid[row][col]
	if cell.Letter == nil || input == "" {
		return false
	}
	return ToUpper(input) == *cell.Letter
}

// String renders the solution grid, one line per row, with '#' for black cells.
func (p *Puzzle) String() string {
	var sb strings.Builder
	for _, row := range p.Grid {
		for _, cell := range row {
			if cell.Letter == nil {
				sb.WriteByte('#')
			} else {
				sb.WriteString(*cell.Letter)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
