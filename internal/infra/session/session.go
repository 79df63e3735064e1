package session

import (
	"math"
	"strconv"

	"majicmall/internal/domain/constants"

	"github.com/google/uuid"
)

// Session is the per-request view of one stored session.
type Session struct {
	id      string
	data    map[string]any
	isNew   bool
	changed bool
}

// New starts an empty session with a fresh id.
func New() *Session {
	return &Session{id: uuid.NewString(), data: map[string]any{}, isNew: true}
}

// FromData wraps loaded data under an existing id.
func FromData(id string, data map[string]any) *Session {
	if data == nil {
		data = map[string]any{}
	}

	return &Session{id: id, data: data}
}

func (s *Session) ID() string { return s.id }

// IsNew reports whether the id still has to be sent to the client.
func (s *Session) IsNew() bool { return s.isNew }

// Changed reports whether the data must be written back.
func (s *Session) Changed() bool { return s.changed }

// Touch forces the session to be persisted so its id reaches the client.
func (s *Session) Touch() { s.changed = true }

// Data exposes the raw map for persistence.
func (s *Session) Data() map[string]any { return s.data }

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]

	return v, ok
}

func (s *Session) Set(key string, value any) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.changed = true
}

// GetUint reads a positive integer stored as a JSON number or a numeric string.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		if n <= 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return 0, false
		}

		return uint(n), true
	case int:
		if n <= 0 {
			return 0, false
		}

		return uint(n), true
	case uint:
		return n, n > 0
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil || parsed == 0 {
			return 0, false
		}

		return uint(parsed), true
	default:
		return 0, false
	}
}

// ActiveStoreID returns the persisted store selection.
func (s *Session) ActiveStoreID() (uint, bool) {
	return s.GetUint(constants.SessionKeyActiveStoreID)
}

func (s *Session) SetActiveStoreID(id uint) {
	if current, ok := s.ActiveStoreID(); ok && current == id {
		return
	}
	s.Set(constants.SessionKeyActiveStoreID, id)
}

func (s *Session) ClearActiveStoreID() {
	s.Delete(constants.SessionKeyActiveStoreID)
}
