package server

import "sync"

// Topics published by the gateway after every committed transaction.
const topicLeaderboard = "leaderboard"

func topicTeam(teamID string) string {
	return "team:" + teamID
}

// Broker is an in-process pub/sub for committed-state notifications, keyed
// by topic. Subscribers get JSON-encoded snapshots; slow subscribers miss
// intermediate snapshots rather than blocking writers.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving snapshots published to topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends data to all subscribers of topic.
func (b *Broker) Publish(topic string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow; the next snapshot supersedes this one.
		}
	}
	b.mu.RUnlock()
}
