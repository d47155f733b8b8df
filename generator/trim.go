package generator

// trim crops g to the bounding box of placed plus a one-cell margin, clamped
// to the working grid. It returns the cropped letters and the offset to
// subtract from working-grid coordinates.
func (g *workGrid) trim(placed []Placement) (letters [][]rune, offsetRow, offsetCol int, err error) {
	if len(placed) == 0 {
		return nil, 0, 0, ErrEmptyInput
	}

	minRow, minCol := g.size, g.size
	maxRow, maxCol := -1, -1
	for _, p := range placed {
		dr, dc := p.Direction.step()
		n := len([]rune(p.Word)) - 1
		minRow = min(minRow, p.Row)
		minCol = min(minCol, p.Col)
		maxRow = max(maxRow, p.Row+n*dr)
		maxCol = max(maxCol, p.Col+n*dc)
	}

	minRow, minCol = max(minRow-1, 0), max(minCol-1, 0)
	maxRow, maxCol = min(maxRow+1, g.size-1), min(maxCol+1, g.size-1)

	letters = make([][]rune, maxRow-minRow+1)
	for i := range letters {
		letters[i] = make([]rune, maxCol-minCol+1)
		copy(letters[i], g.cells[minRow+i][minCol:maxCol+1])
	}
	return letters, minRow, minCol, nil
}
