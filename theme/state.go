package theme

import "sync"

// State is the shared dark-mode flag. Views read it with Dark and register
// for changes with Subscribe; only Set and Toggle write it.
type State struct {
	mu     sync.Mutex
	dark   bool
	store  *Store
	nextID int
	subs   map[int]func(dark bool)
}

// NewState returns a state initialised to dark. A nil store disables
// persistence.
func NewState(dark bool, store *Store) *State {
	return &State{
		dark:  dark,
		store: store,
		subs:  make(map[int]func(bool)),
	}
}

// Restore builds a state from the store, falling back to fallback when
// nothing has been persisted yet or the file cannot be read.
func Restore(store *Store, fallback bool) (*State, error) {
	if store == nil {
		return NewState(fallback, nil), nil
	}
	values, err := store.read()
	if err != nil {
		return NewState(fallback, store), err
	}
	v, ok := values[DarkModeKey]
	if !ok {
		return NewState(fallback, store), nil
	}
	return NewState(v == "true", store), nil
}

// Dark reports the current flag.
func (s *State) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Palette returns the palette for the current flag.
func (s *State) Palette() Palette {
	return For(s.Dark())
}

// Set changes the flag, persists it and notifies subscribers. Setting the
// current value is a no-op. The in-memory flag changes even when
// persisting fails; the error is returned for the caller to report.
func (s *State) Set(dark bool) error {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return nil
	}
	s.dark = dark
	subs := make([]func(bool), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	store := s.store
	s.mu.Unlock()

	var err error
	if store != nil {
		err = store.SaveDark(dark)
	}
	for _, fn := range subs {
		fn(dark)
	}
	return err
}

// Toggle flips the flag and returns the new value.
func (s *State) Toggle() (bool, error) {
	next := !s.Dark()
	return next, s.Set(next)
}

// Subscribe registers fn for flag changes, called in registration order.
// The returned function removes the subscription.
func (s *State) Subscribe(fn func(dark bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
