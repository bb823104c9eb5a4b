package memory

import (
	"sync"

	interfaces "github.com/finbatch/payments-engine/internal/interfaces"
)

// Published is one recorded Publish call.
type Published struct {
	Event   string
	Payload any
}

// Publisher records published events in memory. Batch runs and tests use it
// in place of the Kafka publisher.
type Publisher struct {
	mu     sync.Mutex
	events []Published
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, Published{Event: event, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]Published, len(p.events))
	copy(copied, p.events)
	return copied
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
