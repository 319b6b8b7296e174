package web

import "sync"

// eventBroker fans emitted event lines out to connected relayers. It
// implements events.Sink so the emitter can publish to it directly.
type eventBroker struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func newEventBroker() *eventBroker {
	return &eventBroker{
		clients: make(map[chan []byte]struct{}),
	}
}

func (b *eventBroker) register(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = struct{}{}
}

func (b *eventBroker) unregister(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
	}
}

// Publish delivers an event line to every connected client. A slow or
// blocked client is skipped; the durable event log is the source of truth
// for relayers that fall behind.
func (b *eventBroker) Publish(line []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- line:
		default:
			// Client is slow/blocked, skip
		}
	}
}
