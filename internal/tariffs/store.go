package tariffs

import (
	"sync/atomic"

	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
)

// Store holds the active tariff snapshot. Readers always see a complete
// set; Replace swaps the whole pointer so a request can never observe a
// half-updated rule table.
type Store struct {
	current atomic.Pointer[Set]
}

// NewStore validates the initial set and returns a store serving it.
func NewStore(set *Set) (*Store, error) {
	if err := Validate(set); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "invalid tariff set")
	}
	s := &Store{}
	s.current.Store(set)
	return s, nil
}

// Snapshot returns the active tariff set. The returned set must be
// treated as read-only.
func (s *Store) Snapshot() *Set {
	return s.current.Load()
}

// Replace validates the candidate set and atomically makes it the active
// snapshot. In-flight requests keep the set they started with.
func (s *Store) Replace(set *Set) error {
	if err := Validate(set); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "invalid tariff set")
	}
	s.current.Store(set)
	return nil
}
