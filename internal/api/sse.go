package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	subscriberBuffer = 16
	keepAlive        = 15 * time.Second
	analysisEvent    = "analysis"
)

type sseEvent struct {
	id   uint64
	data string
}

// SSEBroker fans analysis events out to connected streams. Each event gets a
// sequence number; a subscriber whose buffer is full misses the event and the
// miss is counted.
type SSEBroker struct {
	mu      sync.RWMutex
	clients map[chan sseEvent]struct{}
	seq     atomic.Uint64
	dropped atomic.Uint64
}

func NewSSEBroker() *SSEBroker {
	return &SSEBroker{clients: make(map[chan sseEvent]struct{})}
}

func (b *SSEBroker) subscribe() chan sseEvent {
	ch := make(chan sseEvent, subscriberBuffer)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *SSEBroker) unsubscribe(ch chan sseEvent) {
	b.mu.Lock()
	delete(b.clients, ch)
	b.mu.Unlock()
}

// Broadcast assigns msg the next event ID and offers it to every subscriber.
func (b *SSEBroker) Broadcast(msg string) {
	ev := sseEvent{id: b.seq.Add(1), data: msg}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

func (b *SSEBroker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Dropped reports how many deliveries were skipped for slow subscribers.
func (b *SSEBroker) Dropped() uint64 {
	return b.dropped.Load()
}

func (s *Server) events(c echo.Context) error {
	h := c.Response().Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	ch := s.sse.subscribe()
	defer s.sse.unsubscribe(ch)

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	fmt.Fprint(c.Response(), ": connected\n\n")
	c.Response().Flush()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			fmt.Fprint(c.Response(), ": keepalive\n\n")
		case ev := <-ch:
			fmt.Fprint(c.Response(), formatEvent(ev))
		}
		c.Response().Flush()
	}
}

// formatEvent renders one SSE frame. Every line of data becomes its own
// data field so clients reassemble it with newlines.
func formatEvent(ev sseEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %d\nevent: %s\n", ev.id, analysisEvent)
	for _, line := range strings.Split(ev.data, "\n") {
		fmt.Fprintf(&sb, "data: %s\n", line)
	}
	sb.WriteString("\n")
	return sb.String()
}
