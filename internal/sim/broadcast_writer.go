package sim

import (
	"sync"

	"campaign-sim/internal/telemetry"
)

// Message is one row pushed to live subscribers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const subscriberBuffer = 256

// Broadcaster fans rows out to live subscribers such as websocket clients.
// Slow subscribers drop messages instead of blocking the simulator.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Message]struct{})}
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// WriteEvent publishes a mission event.
func (b *Broadcaster) WriteEvent(row telemetry.MissionEventRow) error {
	b.publish(Message{Type: "event", Data: row})
	return nil
}

// WriteInterest publishes an interest change.
func (b *Broadcaster) WriteInterest(row telemetry.InterestRow) error {
	b.publish(Message{Type: "interest", Data: row})
	return nil
}

// WriteState publishes a state row.
func (b *Broadcaster) WriteState(row telemetry.CampaignStateRow) error {
	b.publish(Message{Type: "state", Data: row})
	return nil
}
