package events

import (
	"sync"
)

// Store is the interface for recording and retrieving table events.
type Store interface {
	Append(tableID string, event Event) error
	LoadEvents(tableID string) ([]Event, error)
}

// InMemoryStore is an in-memory implementation of the Store interface. It
// holds the event log for the lifetime of the process only.
type InMemoryStore struct {
	events map[string][]Event
	mutex  sync.RWMutex
}

// NewInMemoryStore creates a new in-memory event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[string][]Event),
	}
}

// Append adds a new event to the store.
func (s *InMemoryStore) Append(tableID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.events[tableID] = append(s.events[tableID], event)
	return nil
}

// LoadEvents retrieves all events recorded for the given table.
func (s *InMemoryStore) LoadEvents(tableID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stored, exists := s.events[tableID]; exists {
		result := make([]Event, len(stored))
		copy(result, stored)
		return result, nil
	}

	return []Event{}, nil
}
