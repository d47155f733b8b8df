package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/studycrossword/generator"
)

func newTestRecord(terms ...string) *PuzzleRecord {
	concepts := make([]generator.Concept, len(terms))
	for i, term := range terms {
		concepts[i] = generator.Concept{Term: term, Definition: "clue " + term}
	}
	return &PuzzleRecord{
		Requested: len(concepts),
		Puzzle:    generator.Generate(generator.SortByLength(concepts)),
	}
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := NewStore()
	rec := s.SavePuzzle(newTestRecord("KATT"))

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Same(t, rec, s.GetPuzzle(rec.ID))
	assert.Nil(t, s.GetPuzzle("nonexistent"))
}

func TestListPuzzles(t *testing.T) {
	s := NewStore()
	older := s.SavePuzzle(newTestRecord("KATT"))
	newer := s.SavePuzzle(newTestRecord("HUND"))
	older.CreatedAt = newer.CreatedAt.Add(-time.Minute)

	list := s.ListPuzzles()
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "expected most recent first")
	assert.Equal(t, older.ID, list[1].ID)
}

func TestPuzzleRecordDropped(t *testing.T) {
	rec := newTestRecord("KATT", "SOL")
	assert.Len(t, rec.Puzzle.Words, 1)
	assert.Equal(t, 1, rec.Dropped())
}

func TestCreateGame(t *testing.T) {
	s := NewStore()

	_, err := s.CreateGame("unknown")
	assert.ErrorIs(t, err, errPuzzleNotFound)

	rec := s.SavePuzzle(newTestRecord("SOL", "LAMPA"))
	game, err := s.CreateGame(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, game.PuzzleID)
	assert.Same(t, game, s.GetGame(game.ID))
	assert.Len(t, s.ListGames(), 1)

	view := game.View()
	assert.Equal(t, rec.Puzzle.Rows, view.Puzzle.Rows)
	assert.Equal(t, rec.Puzzle.Cols, view.Puzzle.Cols)
	assert.Equal(t, rec.Puzzle.Words, view.Puzzle.Words)
}

func TestGameDoesNotTouchStoredPuzzle(t *testing.T) {
	s := NewStore()
	rec := s.SavePuzzle(newTestRecord("KATT"))
	game, err := s.CreateGame(rec.ID)
	require.NoError(t, err)

	_, err = game.SetCell(1, 1, "K")
	require.NoError(t, err)

	assert.Equal(t, "", rec.Puzzle.Grid[1][1].UserInput)
	assert.False(t, rec.Puzzle.Grid[1][1].IsCorrect)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	rec := s.SavePuzzle(newTestRecord("KATT"))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SavePuzzle(newTestRecord("HUND"))
			}
			game, err := s.CreateGame(rec.ID)
			if err != nil {
				t.Error(err)
				return
			}
			s.GetGame(game.ID)
			s.ListPuzzles()
			s.ListGames()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.ListPuzzles(), 26)
	assert.Len(t, s.ListGames(), 50)
}
