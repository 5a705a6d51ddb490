package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestPublisher_NilClientIsNoOp(t *testing.T) {
	var p *Publisher
	p.Publish(context.Background(), EntityAppointments, OpCreated, "id-1")

	p = NewPublisher(nil)
	p.Publish(context.Background(), EntityAppointments, OpCreated, "id-1")
}

func TestSubscriber_NilClientYieldsClosedChannel(t *testing.T) {
	s := NewSubscriber(nil)

	ch, stop, err := s.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stop()

	select {
	case _, open := <-ch:
		if open {
			t.Error("expected closed channel from nil subscriber")
		}
	case <-time.After(time.Second):
		t.Error("channel did not close")
	}
}

func TestEvent_JSONShape(t *testing.T) {
	ev := Event{
		Entity: EntityServices,
		Op:     OpUpdated,
		ID:     "42",
		At:     time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"entity", "op", "id", "at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, raw)
		}
	}
}
