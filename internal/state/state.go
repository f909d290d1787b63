// Package state holds the observable per-session viewer state that UI
// and HUD consumers read.
package state

import (
	"sync"

	"github.com/normanking/cortexcam/internal/camera"
)

// Field names an observable state field
type Field string

const (
	FieldCameraMode        Field = "cameraMode"
	FieldHasAnimation      Field = "hasAnimation"
	FieldAnimationDuration Field = "animationDuration"
	FieldAnimationTime     Field = "animationTime"
	FieldAnimationPaused   Field = "animationPaused"
)

// Change describes one field assignment that altered its value
type Change struct {
	Field    Field
	Value    any
	Previous any
}

// Observer is notified of every change
type Observer func(Change)

// Snapshot is a copy of all fields
type Snapshot struct {
	CameraMode        camera.Mode `json:"cameraMode"`
	HasAnimation      bool        `json:"hasAnimation"`
	AnimationDuration float64     `json:"animationDuration"`
	AnimationTime     float64     `json:"animationTime"`
	AnimationPaused   bool        `json:"animationPaused"`
}

// State stores the observable fields for one viewing session.
// Setters notify observers only when the value actually changes;
// observers run after the lock is released.
type State struct {
	mu        sync.RWMutex
	snap      Snapshot
	observers []Observer
}

// New creates an empty state
func New() *State {
	return &State{}
}

// Subscribe registers an observer
func (s *State) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a copy of the current fields
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State) CameraMode() camera.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.CameraMode
}

func (s *State) HasAnimation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.HasAnimation
}

func (s *State) AnimationDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.AnimationDuration
}

func (s *State) AnimationTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.AnimationTime
}

func (s *State) AnimationPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.AnimationPaused
}

func (s *State) SetCameraMode(v camera.Mode) {
	setField(s, FieldCameraMode, &s.snap.CameraMode, v)
}

func (s *State) SetHasAnimation(v bool) {
	setField(s, FieldHasAnimation, &s.snap.HasAnimation, v)
}

func (s *State) SetAnimationDuration(v float64) {
	setField(s, FieldAnimationDuration, &s.snap.AnimationDuration, v)
}

func (s *State) SetAnimationTime(v float64) {
	setField(s, FieldAnimationTime, &s.snap.AnimationTime, v)
}

func (s *State) SetAnimationPaused(v bool) {
	setField(s, FieldAnimationPaused, &s.snap.AnimationPaused, v)
}

func setField[T comparable](s *State, field Field, dst *T, v T) {
	s.mu.Lock()
	prev := *dst
	if prev == v {
		s.mu.Unlock()
		return
	}
	*dst = v
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	change := Change{Field: field, Value: v, Previous: prev}
	for _, fn := range observers {
		fn(change)
	}
}
