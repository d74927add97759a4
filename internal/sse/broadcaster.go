package sse

import (
	"sync"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/logger"
	"github.com/rs/zerolog"
)

// Hub fans messages out to every client subscribed to a session
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[chan Message]struct{}
	bufferSize int
	timeout    time.Duration
	log        zerolog.Logger
}

// NewHub creates a hub whose client channels hold bufferSize messages and
// whose sends give up on a client after timeout
func NewHub(bufferSize int, timeout time.Duration) *Hub {
	return &Hub{
		clients:    make(map[string]map[chan Message]struct{}),
		bufferSize: bufferSize,
		timeout:    timeout,
		log:        logger.For("sse"),
	}
}

// Subscribe registers a new client channel for a session
func (h *Hub) Subscribe(code string) chan Message {
	ch := make(chan Message, h.bufferSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[code] == nil {
		h.clients[code] = make(map[chan Message]struct{})
	}
	h.clients[code][ch] = struct{}{}
	h.log.Debug().Str("session", code).Int("clients", len(h.clients[code])).Msg("client subscribed")
	return ch
}

// Unsubscribe removes a client channel. The channel is not closed, so a
// concurrent Broadcast never sends on a closed channel.
func (h *Hub) Unsubscribe(code string, ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[code], ch)
	if len(h.clients[code]) == 0 {
		delete(h.clients, code)
	}
	h.log.Debug().Str("session", code).Int("clients", len(h.clients[code])).Msg("client removed")
}

// ClientCount returns the number of clients subscribed to a session
func (h *Hub) ClientCount(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[code])
}

// Broadcast sends a message to every client of a session and returns how many
// received it. Slow clients are skipped after the hub's timeout.
func (h *Hub) Broadcast(code, event, data string) int {
	h.mu.RLock()
	clients := make([]chan Message, 0, len(h.clients[code]))
	for ch := range h.clients[code] {
		clients = append(clients, ch)
	}
	h.mu.RUnlock()

	msg := Message{Event: event, Data: data}
	sent := 0
	for _, ch := range clients {
		select {
		case ch <- msg:
			sent++
		case <-time.After(h.timeout):
			h.log.Debug().Str("session", code).Str("event", event).Msg("timeout sending to client")
		}
	}
	h.log.Debug().Str("session", code).Str("event", event).Msgf("sent to %d/%d clients", sent, len(clients))
	return sent
}

// Close tells every client of a session that it is gone and forgets them
func (h *Hub) Close(code string) {
	h.Broadcast(code, EventClosed, code)
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, code)
}
