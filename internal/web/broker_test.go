package web

import "testing"

func TestBrokerBroadcastsToAllClients(t *testing.T) {
	b := newEventBroker()

	a := make(chan []byte, 1)
	c := make(chan []byte, 1)
	b.register(a)
	b.register(c)

	b.Publish([]byte("line"))

	for _, client := range []chan []byte{a, c} {
		select {
		case got := <-client:
			if string(got) != "line" {
				t.Errorf("Unexpected line: %s", got)
			}
		default:
			t.Error("Client did not receive the line")
		}
	}
}

func TestBrokerSkipsBlockedClients(t *testing.T) {
	b := newEventBroker()

	blocked := make(chan []byte) // no buffer, nobody reading
	open := make(chan []byte, 1)
	b.register(blocked)
	b.register(open)

	// Must not deadlock on the blocked client.
	b.Publish([]byte("line"))

	select {
	case <-open:
	default:
		t.Error("Open client did not receive the line")
	}
}

func TestBrokerUnregisterClosesOnce(t *testing.T) {
	b := newEventBroker()

	client := make(chan []byte, 1)
	b.register(client)
	b.unregister(client)
	// Second unregister must be a no-op, not a double close panic.
	b.unregister(client)

	if _, open := <-client; open {
		t.Error("Channel still open after unregister")
	}
}
