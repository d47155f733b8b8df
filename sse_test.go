package main

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *client) string {
	t.Helper()
	select {
	case msg := <-c.ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestBroadcasterRegisterUnregister(t *testing.T) {
	b := NewBroadcaster(discardLogger)

	c1 := b.Register("game1")
	c2 := b.Register("game1")
	c3 := b.Register("game2")

	assert.Equal(t, 2, b.ClientCount("game1"))
	assert.Equal(t, 1, b.ClientCount("game2"))

	b.Unregister(c1)
	assert.Equal(t, 1, b.ClientCount("game1"))

	b.Unregister(c2)
	b.Unregister(c3)
	assert.Zero(t, b.ClientCount("game1"))
	assert.Zero(t, b.ClientCount("game2"))
}

func TestBroadcasterDoubleUnregister(t *testing.T) {
	b := NewBroadcaster(discardLogger)
	c := b.Register("game1")
	b.Unregister(c)
	assert.NotPanics(t, func() { b.Unregister(c) })
}

func TestBroadcast(t *testing.T) {
	b := NewBroadcaster(discardLogger)

	c1 := b.Register("game1")
	c2 := b.Register("game1")
	c3 := b.Register("game2")
	defer func() {
		b.Unregister(c1)
		b.Unregister(c2)
		b.Unregister(c3)
	}()

	b.Broadcast("game1", "hello")

	assert.Equal(t, "hello", receive(t, c1))
	assert.Equal(t, "hello", receive(t, c2))

	// c3 is on game2, should not receive.
	select {
	case <-c3.ch:
		t.Fatal("c3 should not receive game1 message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishEncodesJSON(t *testing.T) {
	b := NewBroadcaster(discardLogger)
	c := b.Register("game1")
	defer b.Unregister(c)

	b.Publish("game1", map[string]any{"type": "cell_update", "row": 1, "col": 2, "value": "K"})

	var evt map[string]any
	require.NoError(t, json.Unmarshal([]byte(receive(t, c)), &evt))
	assert.Equal(t, "cell_update", evt["type"])
	assert.EqualValues(t, 1, evt["row"])
	assert.Equal(t, "K", evt["value"])
}

func TestPublishDropsUnencodable(t *testing.T) {
	b := NewBroadcaster(discardLogger)
	c := b.Register("game1")
	defer b.Unregister(c)

	b.Publish("game1", make(chan int))

	select {
	case msg := <-c.ch:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastSkipsFullChannel(t *testing.T) {
	b := NewBroadcaster(discardLogger)
	c := b.Register("game1")
	defer b.Unregister(c)

	for range sseChannelBuffer {
		b.Broadcast("game1", "fill")
	}

	// This should not block.
	b.Broadcast("game1", "overflow")
	assert.Len(t, c.ch, sseChannelBuffer)
}

func TestBroadcasterConcurrent(t *testing.T) {
	b := NewBroadcaster(discardLogger)
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gameID := "game1"
			if i%2 == 0 {
				gameID = "game2"
			}
			c := b.Register(gameID)
			b.Broadcast(gameID, "msg")
			b.ClientCount(gameID)
			b.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, b.ClientCount("game1"))
	assert.Zero(t, b.ClientCount("game2"))
}
