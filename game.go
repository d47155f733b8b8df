package main

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bodul/studycrossword/generator"
)

var (
	errOutOfBounds = errors.New("position out of bounds")
	errBlackCell   = errors.New("black cell")
	errBadLetter   = errors.New("value must be a single letter or empty")
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// GameSession is a collaborative attempt at one puzzle. It owns a copy of the
// puzzle whose userInput/isCorrect fields track what players typed.
type GameSession struct {
	ID        string
	PuzzleID  string
	CreatedAt time.Time

	mu      sync.Mutex
	players map[string]*Player
	board   *generator.Puzzle
}

// GameView is the JSON snapshot of a session.
type GameView struct {
	ID        string            `json:"id"`
	PuzzleID  string            `json:"puzzle_id"`
	Players   []*Player         `json:"players"`
	Puzzle    *generator.Puzzle `json:"puzzle"`
	Solved    bool              `json:"solved"`
	Watchers  int               `json:"watchers"` // open event streams, filled by the server
	CreatedAt time.Time         `json:"created_at"`
}

// MoveResult describes the board after a move.
type MoveResult struct {
	Value   string `json:"value"`
	Correct bool   `json:"correct"`
	Solved  bool   `json:"solved"`
}

// playerColors is the palette assigned to players in order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

func newGameSession(id string, rec *PuzzleRecord) *GameSession {
	return &GameSession{
		ID:        id,
		PuzzleID:  rec.ID,
		CreatedAt: time.Now(),
		players:   make(map[string]*Player),
		board:     rec.Puzzle.Clone(),
	}
}

// AddPlayer adds a player to the session and returns the player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.players[pseudo] = p
	return p
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, pseudo)
}

// SetCell writes a letter, or erases the cell when value is empty, and
// re-evaluates the cell against the solution.
func (g *GameSession) SetCell(row, col int, value string) (MoveResult, error) {
	value, err := normalizeInput(value)
	if err != nil {
		return MoveResult{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if row < 0 || row >= g.board.Rows || col < 0 || col >= g.board.Cols {
		return MoveResult{}, errOutOfBounds
	}
	cell := &g.board.Grid[row][col]
	if cell.Black() {
		return MoveResult{}, errBlackCell
	}

	cell.UserInput = value
	cell.IsCorrect = g.board.Check(row, col, value)
	return MoveResult{Value: value, Correct: cell.IsCorrect, Solved: g.solved()}, nil
}

func (g *GameSession) solved() bool {
	for _, row := range g.board.Grid {
		for _, cell := range row {
			if !cell.Black() && !cell.IsCorrect {
				return false
			}
		}
	}
	return true
}

// View returns a copy of the session state.
func (g *GameSession) View() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		cp := *p
		players = append(players, &cp)
	}
	slices.SortFunc(players, func(a, b *Player) int {
		return a.JoinedAt.Compare(b.JoinedAt)
	})

	return GameView{
		ID:        g.ID,
		PuzzleID:  g.PuzzleID,
		Players:   players,
		Puzzle:    g.board.Clone(),
		Solved:    g.solved(),
		CreatedAt: g.CreatedAt,
	}
}

// normalizeInput uppercases a keystroke and checks it is one letter.
func normalizeInput(value string) (string, error) {
	value = generator.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) || !unicode.IsLetter(r) {
		return "", errBadLetter
	}
	return value, nil
}
