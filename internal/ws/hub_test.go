package ws

import (
	"encoding/json"
	"testing"
)

func TestPublishDeliversToRegisteredClients(t *testing.T) {
	hub := NewHub()
	c := &Client{send: make(chan []byte, 1)}
	hub.register(c)

	hub.Publish("submission.approved", map[string]int64{"submission_id": 7})

	select {
	case msg := <-c.send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "submission.approved" {
			t.Errorf("type = %q, want submission.approved", ev.Type)
		}
		if ev.Time.IsZero() {
			t.Error("expected event timestamp to be set")
		}
	default:
		t.Fatal("expected event in client send buffer")
	}
}

func TestPublishDropsBackedUpClient(t *testing.T) {
	hub := NewHub()
	c := &Client{send: make(chan []byte)} // unbuffered, nobody reading
	hub.register(c)

	hub.Publish("withdrawal.requested", nil)

	hub.mu.Lock()
	_, stillThere := hub.clients[c]
	hub.mu.Unlock()
	if stillThere {
		t.Fatal("expected slow client to be dropped")
	}

	// send channel must be closed after the drop
	if _, ok := <-c.send; ok {
		t.Fatal("expected send channel to be closed")
	}
}

func TestPublishWithNoClients(t *testing.T) {
	hub := NewHub()
	// must not panic or block
	hub.Publish("submission.created", map[string]string{"proof": "link"})
}

func TestUnregisterTwice(t *testing.T) {
	hub := NewHub()
	c := &Client{send: make(chan []byte, 1)}
	hub.register(c)
	hub.unregister(c)
	hub.unregister(c) // second call is a no-op
}
