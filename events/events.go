package events

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	OrderCreated       = "order.created"
	OrderUpdated       = "order.updated"
	OrderTotalChanged  = "order.total_recomputed"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
	PaymentRecorded    = "payment.recorded"
	DeliveryChanged    = "delivery.changed"
)

// Event is a change notice for the order aggregate and its ledger records.
// Events are keyed by order so a consumer sees one order's history in order.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	OrderID uint      `json:"order_id"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

func New(eventType string, orderID uint, data any) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		OrderID: orderID,
		At:      time.Now().UTC(),
		Data:    data,
	}
}

func (e Event) Key() string {
	return strconv.FormatUint(uint64(e.OrderID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []string {
	evts := r.Events()
	out := make([]string, len(evts))
	for i, e := range evts {
		out[i] = e.Type
	}
	return out
}
