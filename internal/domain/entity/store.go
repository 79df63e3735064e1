package entity

import (
	"fmt"
	"time"
)

// RestoreWindow is how long an archived store is kept before staff may purge it.
const RestoreWindow = 7 * 24 * time.Hour

// Store is a merchant's storefront. ArchivedAt is non-nil exactly when IsArchived is true.
type Store struct {
	ID          uint
	OwnerID     uint
	Name        string
	Slug        string
	Slogan      string
	Description string
	Category    string
	LogoKey     string
	Plan        Plan
	IsPublic    bool
	IsArchived  bool
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Archive moves the store to the archived state. It returns false when the store
// was already archived.
func (s *Store) Archive(now time.Time) bool {
	if s.IsArchived {
		return false
	}
	s.IsArchived = true
	s.ArchivedAt = &now

	return true
}

// Restore moves the store back to the active state. It returns false when the
// store was not archived.
func (s *Store) Restore() bool {
	if !s.IsArchived {
		return false
	}
	s.IsArchived = false
	s.ArchivedAt = nil

	return true
}

// RestoreDeadline is archived_at plus the restore window, or nil for active stores.
func (s *Store) RestoreDeadline() *time.Time {
	if !s.IsArchived || s.ArchivedAt == nil {
		return nil
	}
	deadline := s.ArchivedAt.Add(RestoreWindow)

	return &deadline
}

// CanRestore is advisory: restore is not blocked once the deadline has passed.
func (s *Store) CanRestore(now time.Time) bool {
	deadline := s.RestoreDeadline()

	return deadline != nil && now.Before(*deadline)
}

// PurgeRemaining returns how long until the store becomes purgeable. Zero means
// it can be purged now.
func (s *Store) PurgeRemaining(now time.Time) time.Duration {
	deadline := s.RestoreDeadline()
	if deadline == nil {
		return 0
	}
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Visible reports whether the storefront is served publicly.
func (s *Store) Visible() bool {
	return s.IsPublic && !s.IsArchived
}

// HumanizeRemaining formats a duration as "~{days}d {hours}h".
func HumanizeRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)

	return fmt.Sprintf("~%dd %dh", days, hours)
}
