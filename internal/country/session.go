package country

import (
	"fmt"
	"log"
	"sync"

	"storefront/internal/localstate"
)

// StateKey is the fixed key the active country is persisted under.
const StateKey = "storefront_country"

// Session tracks the active storefront country and persists the choice so it
// survives a restart. Switching country does not touch the cart; callers are
// expected to keep cart contents in one currency (the cart engine enforces
// that on add).
type Session struct {
	mu     sync.Mutex
	store  localstate.Store
	active Code
}

// NewSession restores the saved preference, falling back to Default when the
// preference is absent or unreadable.
func NewSession(store localstate.Store) *Session {
	s := &Session{store: store, active: Default}

	data, ok, err := store.Get(StateKey)
	if err != nil {
		log.Println("[COUNTRY] [WARN] read preference failed:", err)
		return s
	}
	if !ok {
		return s
	}

	code, err := Parse(string(data))
	if err != nil {
		log.Println("[COUNTRY] [WARN] stored preference invalid, using default:", err)
		return s
	}
	s.active = code
	return s
}

// Active returns the current storefront country.
func (s *Session) Active() Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive switches the storefront country and persists the choice.
func (s *Session) SetActive(code Code) error {
	if !code.Valid() {
		return fmt.Errorf("unknown country: %q", code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = code
	if err := s.store.Set(StateKey, []byte(code)); err != nil {
		log.Println("[COUNTRY] [ERROR] persist preference failed:", err)
		return err
	}
	return nil
}
