package events

import (
	"encoding/json"
	"sync"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Broker fans submission events out to SSE subscribers so the dashboard can
// refresh live. Messages are JSON strings; slow subscribers drop messages
// rather than block publishers.
type Broker struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		clients: make(map[chan string]struct{}),
	}
}

func (b *Broker) Subscribe() chan string {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan string) {
	b.mu.Lock()
	delete(b.clients, ch)
	b.mu.Unlock()
	close(ch)
}

// PublishRecord broadcasts a newly stored feedback record.
func (b *Broker) PublishRecord(rec store.Record) {
	payload, err := json.Marshal(map[string]string{
		"timestamp": rec.Timestamp.String,
		"user_name": rec.UserName.String,
		"rating":    rec.Rating.String,
	})
	if err != nil {
		return
	}
	msg := string(payload)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}
