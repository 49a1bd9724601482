package domain

import (
	"sync"
	"time"
)

// Session owns everything one map client works on: the marker store, the
// entry form, modal visibility and the last clicked coordinate.
// Mutations go through Update so that events for a session are applied one
// at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu                sync.Mutex
	lastActiveAt      time.Time
	form              FormState
	modalOpen         bool
	clickedCoordinate *GeoPoint
	lastCommitted     *GeoPoint
	markers           MarkerStore
}

// NewSession returns a session with an empty store and a fresh DD form.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastActiveAt: now,
		form:         NewFormState(),
	}
}

// SessionState is a point-in-time copy of a session.
type SessionState struct {
	ID                string     `json:"id"`
	Form              FormState  `json:"form"`
	ModalOpen         bool       `json:"modal_open"`
	ClickedCoordinate *GeoPoint  `json:"clicked_coordinate,omitempty"`
	LastCommitted     *GeoPoint  `json:"last_committed,omitempty"`
	Markers           []GeoPoint `json:"markers"`
	CreatedAt         time.Time  `json:"created_at"`
	LastActiveAt      time.Time  `json:"last_active_at"`
}

// Tx is the mutable view of a session handed to Update.
type Tx struct {
	s *Session
}

func (tx Tx) Form() FormState       { return tx.s.form }
func (tx Tx) SetForm(f FormState)   { tx.s.form = f }
func (tx Tx) ModalOpen() bool       { return tx.s.modalOpen }
func (tx Tx) Markers() *MarkerStore { return &tx.s.markers }

func (tx Tx) ClickedCoordinate() *GeoPoint {
	if tx.s.clickedCoordinate == nil {
		return nil
	}
	p := *tx.s.clickedCoordinate
	return &p
}

// OpenModal shows the entry modal, remembering the click that opened it.
func (tx Tx) OpenModal(clicked *GeoPoint) {
	tx.s.modalOpen = true
	if clicked != nil {
		p := *clicked
		tx.s.clickedCoordinate = &p
	}
}

// CloseModal hides the modal and forgets the clicked coordinate.
func (tx Tx) CloseModal() {
	tx.s.modalOpen = false
	tx.s.clickedCoordinate = nil
}

// Commit appends p and records it as the last committed point.
func (tx Tx) Commit(p GeoPoint) {
	tx.s.markers.Append(p)
	tx.s.lastCommitted = &p
}

// Update runs fn with the session locked and marks the session active.
// If fn returns an error the session is still marked active but any
// changes fn made stay applied, so fn should validate before mutating.
func (s *Session) Update(now time.Time, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = now
	return fn(Tx{s: s})
}

// Touch marks the session active without changing it.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastActiveAt = now
	s.mu.Unlock()
}

// LastActiveAt returns when the session was last used.
func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}

// MarkerEntries lists the committed markers without marking the session
// active.
func (s *Session) MarkerEntries() []MarkerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.Entries()
}

// Snapshot copies the current state.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Snapshot copies the state from inside Update.
func (tx Tx) Snapshot() SessionState { return tx.s.snapshotLocked() }

func (s *Session) snapshotLocked() SessionState {
	st := SessionState{
		ID:           s.ID,
		Form:         s.form,
		ModalOpen:    s.modalOpen,
		Markers:      s.markers.All(),
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.lastActiveAt,
	}
	if s.clickedCoordinate != nil {
		p := *s.clickedCoordinate
		st.ClickedCoordinate = &p
	}
	if s.lastCommitted != nil {
		p := *s.lastCommitted
		st.LastCommitted = &p
	}
	return st
}
