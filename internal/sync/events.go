// ABOUTME: In-process publish/subscribe hub for local store changes.
// ABOUTME: Subscribers learn about changes from the writer instead of polling.
package sync

import gosync "sync"

// Topic names a family of changes.
type Topic string

const (
	TopicGyms         Topic = "gyms"
	TopicCurrentGym   Topic = "current_gym"
	TopicMappings     Topic = "gym_profile_map"
	TopicPreviousSets Topic = "previous_sets"
)

// Event announces a change. ID carries the affected entity when there is one.
type Event struct {
	Topic Topic
	ID    string
}

// Events fans out events to subscribers.
// Publishing never blocks; a subscriber whose buffer is full misses the event.
type Events struct {
	mu     gosync.RWMutex
	subs   map[Topic]map[int]chan Event
	nextID int
}

// NewEvents creates an empty hub.
func NewEvents() *Events {
	return &Events{subs: make(map[Topic]map[int]chan Event)}
}

// Subscribe returns a channel of events for topic and a function that
// unsubscribes and closes the channel.
func (e *Events) Subscribe(topic Topic, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	if e.subs[topic] == nil {
		e.subs[topic] = make(map[int]chan Event)
	}
	e.subs[topic][id] = ch
	e.mu.Unlock()

	var once gosync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs[topic], id)
			e.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber of its topic.
func (e *Events) Publish(ev Event) {
	if e == nil {
		return
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, ch := range e.subs[ev.Topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}
