package generator

// canPlace reports whether word fits at (row, col) running in dir without
// conflicting letters, touching a parallel word, or running into another word.
func (g *workGrid) canPlace(word []rune, row, col int, dir Direction) bool {
	dr, dc := dir.step()
	endRow, endCol := row+(len(word)-1)*dr, col+(len(word)-1)*dc
	if !g.inBounds(row, col) || !g.inBounds(endRow, endCol) {
		return false
	}

	// The cells just before and after the word must stay open.
	if g.at(row-dr, col-dc) != 0 || g.at(endRow+dr, endCol+dc) != 0 {
		return false
	}

	pr, pc := dir.perpendicular().step()
	fresh := 0
	for i, r := range word {
		cr, cc := row+i*dr, col+i*dc
		switch cur := g.cells[cr][cc]; {
		case cur == r:
			if g.runs[cr][cc]&dir.mask() != 0 {
				return false
			}
			continue
		case cur != 0:
			return false
		}
		if g.at(cr-pr, cc-pc) != 0 || g.at(cr+pr, cc+pc) != 0 {
			return false
		}
		fresh++
	}
	return fresh > 0
}

// findPlacement looks for the first legal crossing of word with the words
// already placed. Existing words are tried in placement order, then their
// letters, then the candidate's letters.
func (g *workGrid) findPlacement(word []rune, placed []Placement) (row, col int, dir Direction, ok bool) {
	for _, p := range placed {
		pdr, pdc := p.Direction.step()
		dir = p.Direction.perpendicular()
		dr, dc := dir.step()
		for i, existing := range []rune(p.Word) {
			cr, cc := p.Row+i*pdr, p.Col+i*pdc
			for j, r := range word {
				if r != existing {
					continue
				}
				row, col = cr-j*dr, cc-j*dc
				if g.canPlace(word, row, col, dir) {
					return row, col, dir, true
				}
			}
		}
	}
	return 0, 0, "", false
}
