package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/bodul/studycrossword/generator"
)

const (
	maxBodySize      = 64 << 10
	defaultCount     = 12
	defaultLanguage  = "English"
	visitorIdleAfter = 5 * time.Minute
)

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(limit rate.Limit, burst int) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > visitorIdleAfter {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Server is the main HTTP server.
type Server struct {
	mux        *http.ServeMux
	store      *Store
	source     ConceptSource
	gen        *generator.Generator
	sse        *Broadcaster
	validate   *validator.Validate
	log        *slog.Logger
	generateRL *rateLimiter
	moveRL     *rateLimiter
}

// NewServer creates a configured HTTP server. source may be nil, in which
// case puzzles can only be built from concepts sent by the client.
func NewServer(store *Store, source ConceptSource, gen *generator.Generator, logger *slog.Logger) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		store:      store,
		source:     source,
		gen:        gen,
		sse:        NewBroadcaster(logger),
		validate:   validator.New(),
		log:        logger,
		generateRL: newRateLimiter(rate.Every(12*time.Second), 5), // 5/min per IP
		moveRL:     newRateLimiter(60, 60),                        // 60/sec per IP
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)

	// Game API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/move", s.handleMove)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Puzzle handlers ---

type createPuzzleRequest struct {
	Concepts []generator.Concept `json:"concepts" validate:"required_without=Topic,max=50,dive"`
	Topic    string              `json:"topic" validate:"required_without=Concepts,max=200"`
	Language string              `json:"language" validate:"max=30"`
	Count    int                 `json:"count" validate:"omitempty,min=1,max=30"`
}

// POST /api/puzzles — build a puzzle from concepts, or from a topic via the
// concept source.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(clientIP(r)) {
		jsonError(w, "Too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	var req createPuzzleRequest
	if !s.decode(w, r, &req) {
		return
	}

	concepts := req.Concepts
	if len(concepts) == 0 {
		if s.source == nil {
			jsonError(w, "Concept generation is not configured, send concepts instead", http.StatusServiceUnavailable)
			return
		}
		lang := cmp.Or(req.Language, defaultLanguage)
		count := cmp.Or(req.Count, defaultCount)

		var err error
		concepts, err = s.source.GenerateConcepts(r.Context(), req.Topic, lang, count)
		if err != nil {
			s.log.Error("generate concepts", "topic", req.Topic, "error", err)
			jsonError(w, "Could not fetch concepts for this topic", http.StatusBadGateway)
			return
		}
	}

	start := time.Now()
	puzzle, err := s.gen.Generate(generator.SortByLength(concepts))
	if errors.Is(err, generator.ErrEmptyInput) {
		observeGeneration(nil, time.Since(start))
		jsonError(w, "Could not build a puzzle, add more concepts and retry", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.log.Error("generate puzzle", "error", err)
		jsonError(w, "Could not build a puzzle", http.StatusInternalServerError)
		return
	}

	rec := s.store.SavePuzzle(&PuzzleRecord{
		Topic:     req.Topic,
		Requested: min(len(concepts), s.gen.MaxConcepts()),
		Puzzle:    puzzle,
	})
	observeGeneration(rec, time.Since(start))
	s.log.Info("puzzle created",
		"puzzle_id", rec.ID, "words", len(puzzle.Words), "dropped", rec.Dropped(),
		"rows", puzzle.Rows, "cols", puzzle.Cols)

	writeJSON(w, http.StatusCreated, rec)
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListPuzzles())
}

// GET /api/puzzles/{id} — get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	rec := s.store.GetPuzzle(r.PathValue("id"))
	if rec == nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// --- Game handlers ---

// POST /api/games — start a game on a puzzle.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PuzzleID string `json:"puzzle_id" validate:"required"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	game, err := s.store.CreateGame(req.PuzzleID)
	if err != nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}
	s.log.Info("game created", "game_id", game.ID, "puzzle_id", game.PuzzleID)

	writeJSON(w, http.StatusCreated, game.View())
}

// GET /api/games — list all games.
func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	games := s.store.ListGames()
	views := make([]GameView, 0, len(games))
	for _, g := range games {
		views = append(views, s.gameView(g))
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/games/{id} — get current game state.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.gameView(game))
}

func (s *Server) gameView(g *GameSession) GameView {
	v := g.View()
	v.Watchers = s.sse.ClientCount(g.ID)
	return v
}

// POST /api/games/{id}/join — join a game with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo" validate:"required"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "Invalid pseudo", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)
	s.sse.Publish(game.ID, map[string]string{
		"type":   "player_joined",
		"pseudo": player.Pseudo,
		"color":  player.Color,
	})

	writeJSON(w, http.StatusOK, player)
}

// POST /api/games/{id}/move — type or erase a letter.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(clientIP(r)) {
		jsonError(w, "Too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
		Row    int    `json:"row"`
		Col    int    `json:"col"`
		Value  string `json:"value"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	res, err := game.SetCell(req.Row, req.Col, req.Value)
	observeMove(res, err)
	switch {
	case errors.Is(err, errBadLetter):
		jsonError(w, "Invalid value: one letter or empty", http.StatusBadRequest)
		return
	case errors.Is(err, errBlackCell):
		jsonError(w, "Cell has no letter", http.StatusBadRequest)
		return
	case errors.Is(err, errOutOfBounds):
		jsonError(w, "Position out of bounds", http.StatusBadRequest)
		return
	}

	s.sse.Publish(game.ID, map[string]any{
		"type":    "cell_update",
		"row":     req.Row,
		"col":     req.Col,
		"value":   res.Value,
		"correct": res.Correct,
		"solved":  res.Solved,
		"pseudo":  sanitizePseudo(req.Pseudo),
	})
	if res.Solved {
		s.log.Info("game solved", "game_id", game.ID)
	}

	writeJSON(w, http.StatusOK, res)
}

// GET /api/games/{id}/events — SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, game.ID, func(c *client) {
		// Send initial game state on connect.
		evt, err := json.Marshal(map[string]any{
			"type": "game_state",
			"game": s.gameView(game),
		})
		if err != nil {
			s.log.Error("encode game state", "game_id", game.ID, "error", err)
			return
		}
		c.ch <- string(evt)
	}, func() {
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.sse.Publish(game.ID, map[string]string{
				"type":   "player_left",
				"pseudo": playerPseudo,
			})
		}
	})
}

// --- Helpers ---

// decode reads a JSON body into dst and validates it, writing the error
// response itself when it returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			jsonError(w, "Invalid field: "+verrs[0].Namespace(), http.StatusBadRequest)
			return false
		}
		jsonError(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
