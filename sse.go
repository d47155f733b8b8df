package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// client represents a single SSE connection.
type client struct {
	ch     chan string
	gameID string
}

// Broadcaster fans game events out to the SSE clients of each session.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *slog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
		log:     logger,
	}
}

// Register adds a client for a game session and returns it.
func (b *Broadcaster) Register(gameID string) *client {
	c := &client{
		ch:     make(chan string, sseChannelBuffer),
		gameID: gameID,
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	sseClients.Inc()
	return c
}

// Unregister removes a client and closes its channel.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
		sseClients.Dec()
	}
}

// Publish encodes evt as JSON and sends it to every client of a game.
func (b *Broadcaster) Publish(gameID string, evt any) {
	data, err := json.Marshal(evt)
	if err != nil {
		b.log.Error("encode event", "game_id", gameID, "error", err)
		return
	}
	b.Broadcast(gameID, string(data))
}

// Broadcast sends a message to all clients of a game session.
func (b *Broadcaster) Broadcast(gameID, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.gameID == gameID {
			select {
			case c.ch <- data:
			default:
				b.log.Debug("dropping event for slow client", "game_id", gameID)
			}
		}
	}
}

// ClientCount returns the number of connected clients for a game.
func (b *Broadcaster) ClientCount(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.gameID == gameID {
			n++
		}
	}
	return n
}

// ServeSSE streams a game's events until the request ends.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, gameID string, onConnect func(c *client), onDisconnect func()) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(gameID)
	defer func() {
		b.Unregister(c)
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
