package main

import (
	"time"

	"github.com/bodul/studycrossword/generator"
)

// PuzzleRecord is a generated puzzle kept by the store.
type PuzzleRecord struct {
	ID        string            `json:"id"`
	Topic     string            `json:"topic,omitempty"`
	Requested int               `json:"requested"` // concepts handed to the generator
	Puzzle    *generator.Puzzle `json:"puzzle"`
	CreatedAt time.Time         `json:"created_at"`
}

// Dropped returns how many requested concepts did not make it into the grid.
func (r *PuzzleRecord) Dropped() int {
	return max(r.Requested-len(r.Puzzle.Words), 0)
}
