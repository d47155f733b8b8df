// Package generator lays term/definition pairs out as an intersecting
// crossword grid.
//
// Generation is greedy: the first concept anchors the grid across its middle
// and every later concept is placed at the first legal crossing found with a
// word already on the grid. Concepts that cannot cross anything are dropped
// without error, so callers must not assume every concept appears in the
// result. The output is deterministic for a given ordered input.
package generator

import (
	"errors"
	"log/slog"
)

const (
	DefaultMaxSize     = 20
	DefaultMaxConcepts = 15
)

// ErrEmptyInput is returned when no concept could be placed.
var ErrEmptyInput = errors.New("no concepts to place")

// Config controls a Generator. Zero values fall back to the defaults.
type Config struct {
	MaxSize     int // side of the square working grid
	MaxConcepts int // concepts considered, the anchor included
	Numbering   Numbering
	Logger      *slog.Logger
}

// Generator builds puzzles. It holds no per-call state and is safe for
// concurrent use.
type Generator struct {
	maxSize     int
	maxConcepts int
	numbering   Numbering
	log         *slog.Logger
}

// New creates a Generator from cfg.
func New(cfg Config) *Generator {
	g := &Generator{
		maxSize:     cfg.MaxSize,
		maxConcepts: cfg.MaxConcepts,
		numbering:   cfg.Numbering,
		log:         cfg.Logger,
	}
	if g.maxSize <= 0 {
		g.maxSize = DefaultMaxSize
	}
	if g.maxConcepts <= 0 {
		g.maxConcepts = DefaultMaxConcepts
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	return g
}

// MaxConcepts returns how many concepts a single call considers.
func (g *Generator) MaxConcepts() int {
	return g.maxConcepts
}

// Generate places concepts in the given order and returns the trimmed puzzle.
// Callers usually pass the concepts through SortByLength first. Terms are
// uppercased and stripped of non-letters; terms that end up empty or longer
// than the grid are ignored. The anchor is therefore the first usable concept,
// not necessarily concepts[0]. It returns ErrEmptyInput when nothing remains.
func (g *Generator) Generate(concepts []Concept) (*Puzzle, error) {
	cands := candidates(concepts, g.maxSize, g.maxConcepts)
	if len(cands) == 0 {
		return nil, ErrEmptyInput
	}

	grid := newWorkGrid(g.maxSize)
	placed := make([]Placement, 0, len(cands))

	first := cands[0]
	anchor := Placement{
		Word:      string(first.word),
		Clue:      first.clue,
		Direction: Across,
		Row:       g.maxSize / 2,
		Col:       (g.maxSize - len(first.word)) / 2,
	}
	grid.place(first.word, anchor.Row, anchor.Col, Across)
	placed = append(placed, anchor)

	for _, c := range cands[1:] {
		row, col, dir, ok := grid.findPlacement(c.word, placed)
		if !ok {
			g.log.Debug("concept skipped, no legal crossing", "word", string(c.word))
			continue
		}
		grid.place(c.word, row, col, dir)
		placed = append(placed, Placement{
			Word:      string(c.word),
			Clue:      c.clue,
			Direction: dir,
			Row:       row,
			Col:       col,
		})
	}

	letters, offRow, offCol, err := grid.trim(placed)
	if err != nil {
		return nil, err
	}
	g.log.Debug("puzzle generated",
		"considered", len(cands), "placed", len(placed),
		"rows", len(letters), "cols", len(letters[0]))
	return assemble(letters, offRow, offCol, placed, g.numbering), nil
}

// Generate builds a puzzle with the default configuration. It returns nil
// when no puzzle could be built.
func Generate(concepts []Concept) *Puzzle {
	p, err := New(Config{}).Generate(concepts)
	if err != nil {
		return nil
	}
	return p
}
