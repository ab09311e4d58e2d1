package tournamentservice

import (
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// FakePublisher records published messages per topic.
type FakePublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{messages: make(map[string][]*message.Message)}
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[topic] = append(f.messages[topic], msgs...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func (f *FakePublisher) Count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[topic])
}

// Decode unmarshals the i-th message on topic into v.
func (f *FakePublisher) Decode(topic string, i int, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return json.Unmarshal(f.messages[topic][i].Payload, v)
}
