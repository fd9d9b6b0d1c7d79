// Package events allows for the registering and receiving of node events so
// websocket clients can follow mining and chain activity.
package events

import (
	"fmt"
	"sync"
	"time"
)

// Event kinds pushed to clients.
const (
	KindNode   = "node"
	KindMining = "mining_update"
	KindChain  = "blockchain_update"
)

// Event is a single notification pushed to every connected client.
type Event struct {
	Kind      string  `json:"type"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// NewEvent constructs an event stamped with the current time.
func NewEvent(kind string, format string, args ...any) Event {
	return Event{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: float64(time.Now().UnixMilli()) / 1000,
	}
}

// =============================================================================

// Events maintains a mapping of unique id and channels so goroutines can
// register and receive events.
type Events struct {
	m  map[string]chan Event
	mu sync.RWMutex
}

// New constructs an events value for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]chan Event),
	}
}

// Shutdown closes and removes all channels that were provided by the call
// to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive events.
func (evt *Events) Acquire(id string) chan Event {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	// Since a message will be dropped if the websocket receiver is not
	// ready to receive, this buffer should give the receiver enough room
	// to not lose a message. A websocket send could take long.
	const messageBuffer = 100

	evt.m[id] = make(chan Event, messageBuffer)
	return evt.m[id]
}

// Release closes and removes the channel that was provided by the call to
// Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Send signals an event to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(e Event) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- e:
		default:
		}
	}
}
