// Package theme holds the light/dark presentation preference as an explicit,
// injected store instead of global state.
package theme

import (
	"fmt"
	"strings"
	"sync"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Preference is how the initial mode is chosen.
type Preference string

const (
	PreferLight  Preference = "light"
	PreferDark   Preference = "dark"
	PreferSystem Preference = "system"
)

func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferLight, PreferDark, PreferSystem:
		return p, nil
	case "":
		return PreferSystem, nil
	default:
		return "", fmt.Errorf("invalid theme preference %q", s)
	}
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark:
		return m, nil
	default:
		return "", fmt.Errorf("invalid theme mode %q", s)
	}
}

// Resolve picks the mode for a preference; "system" defers to systemDefault.
func (p Preference) Resolve(systemDefault Mode) Mode {
	switch p {
	case PreferLight:
		return Light
	case PreferDark:
		return Dark
	}
	if systemDefault == Dark {
		return Dark
	}
	return Light
}

// Store is the current mode plus its subscribers. Changes only happen through
// Set and Toggle; subscribers are called after every change.
type Store struct {
	mu   sync.Mutex
	mode Mode
	subs map[int]func(Mode)
	next int
}

func NewStore(pref Preference, systemDefault Mode) *Store {
	return &Store{mode: pref.Resolve(systemDefault), subs: map[int]func(Mode){}}
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Store) IsDark() bool { return s.Mode() == Dark }

// Set changes the mode. Setting the current mode is a no-op.
func (s *Store) Set(m Mode) {
	s.mu.Lock()
	if s.mode == m {
		s.mu.Unlock()
		return
	}
	s.mode = m
	subs := make([]func(Mode), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
}

func (s *Store) Toggle() Mode {
	next := Dark
	if s.Mode() == Dark {
		next = Light
	}
	s.Set(next)
	return next
}

// Subscribe registers fn for future changes and returns a function removing it.
func (s *Store) Subscribe(fn func(Mode)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
