package progress

import (
	"log/slog"
	"sync"
	"time"
)

// Event is emitted whenever a lecture's completion actually changes. Version
// increases by one with every change to the course within a process.
type Event struct {
	CourseID  string    `json:"courseId"`
	LectureID string    `json:"lectureId"`
	Completed bool      `json:"completed"`
	Progress  int       `json:"progress"`
	Version   uint64    `json:"version"`
	At        time.Time `json:"at"`
}

// Publisher receives progress events. Publish is called with the course lock
// held and must not block.
type Publisher interface {
	Publish(event Event)
}

// NopPublisher ignores all events.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

type subscriber struct {
	ch   chan Event
	once sync.Once
}

// Hub fans progress events out to per-course subscribers. Slow subscribers
// miss events instead of blocking publishers.
type Hub struct {
	buffer int
	subs   map[string]map[*subscriber]struct{}
	mu     sync.RWMutex
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers for events of one course. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(courseID string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	if h.subs[courseID] == nil {
		h.subs[courseID] = make(map[*subscriber]struct{})
	}
	h.subs[courseID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[courseID], sub)
			if len(h.subs[courseID]) == 0 {
				delete(h.subs, courseID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers event to every subscriber of its course.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.CourseID] {
		select {
		case sub.ch <- event:
		default:
			slog.Warn("dropping progress event for slow subscriber",
				"course_id", event.CourseID,
				"lecture_id", event.LectureID,
			)
		}
	}
}

// Subscribers returns the number of subscribers for a course.
func (h *Hub) Subscribers(courseID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[courseID])
}
