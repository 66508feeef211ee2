package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultSlot is the key the whole document is stored under.
const DefaultSlot = "quadra_data"

// Persistence reads and writes the whole UserState document to a single
// durable slot. Load reports false when the slot is empty or unreadable;
// it never fails the caller.
type Persistence interface {
	Load() (UserState, bool)
	Save(state UserState) error
	// Erase empties the slot. Erasing an empty slot is not an error.
	Erase() error
	Close() error
}

var (
	errUnsupportedVersion = errors.New("unsupported document version")
	errIncompleteDocument = errors.New("incomplete document")
)

// requiredKeys must be present in every persisted document, versioned or not.
var requiredKeys = []string{"name", "budget", "subjects", "assignments", "expenses", "moods", "schedule"}

// Encode serializes state as the on-disk document. The output is stable:
// encoding a freshly decoded document yields the same bytes.
func Encode(state UserState) ([]byte, error) {
	if state.Version == 0 {
		state.Version = SchemaVersion
	}
	state = normalize(state)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a persisted document. Documents written before versioning
// (version 0) are accepted and upgraded in memory. A document that is not
// an object, lacks one of requiredKeys or has a non-positive budget is
// rejected.
func Decode(data []byte) (UserState, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return UserState{}, errors.New("empty document")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return UserState{}, fmt.Errorf("decode document: %w", err)
	}
	if keys == nil {
		return UserState{}, fmt.Errorf("%w: null", errIncompleteDocument)
	}
	for _, k := range requiredKeys {
		if v, ok := keys[k]; !ok || string(v) == "null" {
			return UserState{}, fmt.Errorf("%w: missing %q", errIncompleteDocument, k)
		}
	}

	var state UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return UserState{}, fmt.Errorf("decode document: %w", err)
	}
	if state.Version > SchemaVersion {
		return UserState{}, fmt.Errorf("%w: %d", errUnsupportedVersion, state.Version)
	}
	if !state.Budget.IsPositive() {
		return UserState{}, fmt.Errorf("%w: budget must be positive", errIncompleteDocument)
	}
	state.Version = SchemaVersion
	return normalize(state), nil
}

// normalize replaces nil collections with empty ones so the document always
// carries [] rather than null.
func normalize(s UserState) UserState {
	if s.Subjects == nil {
		s.Subjects = []Subject{}
	}
	if s.Assignments == nil {
		s.Assignments = []Assignment{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	if s.Moods == nil {
		s.Moods = []MoodEntry{}
	}
	if s.Schedule == nil {
		s.Schedule = []ScheduleEvent{}
	}
	return s
}

// MemoryPersistence keeps the encoded document in process. It goes through
// the same codec as the durable backends.
type MemoryPersistence struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Load() (UserState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeSlot(m.data, "memory")
}

func (m *MemoryPersistence) Save(state UserState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Raw returns the stored bytes.
func (m *MemoryPersistence) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw overwrites the stored bytes without validation.
func (m *MemoryPersistence) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
}

func (m *MemoryPersistence) Erase() error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryPersistence) Close() error { return nil }

func decodeSlot(data []byte, backend string) (UserState, bool) {
	if len(data) == 0 {
		return UserState{}, false
	}
	state, err := Decode(data)
	if err != nil {
		log().Warnw("discarding unreadable document", "backend", backend, "error", err)
		return UserState{}, false
	}
	return state, true
}
