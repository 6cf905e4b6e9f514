// Package tempedit tracks session-scoped overrides of section content.
//
// A temporary edit changes what a section says for the resume being built
// right now, without creating a new library version. Edits are keyed by
// (type, key, flavor) — never by version — so an edit always overrides the
// current working version of its flavor line. The map survives restarts
// through the local state file but is never synced to the backend.
package tempedit

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmartin/resume-dash/internal/localstore"
	"github.com/jmartin/resume-dash/internal/section"
)

// Edit is one override. OriginalVersion records the library version the
// edit was derived from; the backend still receives refs pointing at that
// version, with the edited content traveling in a side channel.
type Edit struct {
	Type            section.Type    `json:"type"`
	Key             string          `json:"key"`
	Flavor          string          `json:"flavor"`
	OriginalVersion string          `json:"originalVersion"`
	Content         section.Content `json:"content"`
	EditedAt        time.Time       `json:"editedAt"`
}

// ID returns the flavor-line identity the edit overrides.
func (e Edit) ID() section.ID {
	return section.ID{Type: e.Type, Key: e.Key, Flavor: e.Flavor}
}

// Store holds at most one edit per flavor line and persists the full map
// to local storage synchronously after every mutation.
type Store struct {
	local *localstore.Store

	mu    sync.Mutex
	edits map[string]Edit

	now func() time.Time
}

// NewStore loads any persisted edits from local storage. A corrupt stored
// map starts the store empty; that history is not recoverable.
func NewStore(local *localstore.Store) *Store {
	s := &Store{
		local: local,
		edits: make(map[string]Edit),
		now:   time.Now,
	}
	var stored map[string]Edit
	if local.Get(localstore.KeyTempEdits, &stored) && stored != nil {
		s.edits = stored
	}
	return s
}

// AddOrReplace inserts or overwrites the edit for a flavor line. Bulleted
// section types must carry at least one bullet; no other validation is
// applied here.
func (s *Store) AddOrReplace(id section.ID, originalVersion string, content section.Content) error {
	if !id.Type.Valid() {
		return fmt.Errorf("invalid section type %q", id.Type)
	}
	if id.Type.Bulleted() && len(content.Bullets) == 0 {
		return fmt.Errorf("%s sections need at least one bullet", id.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits[id.String()] = Edit{
		Type:            id.Type,
		Key:             id.Key,
		Flavor:          id.Flavor,
		OriginalVersion: originalVersion,
		Content:         content,
		EditedAt:        s.now().UTC(),
	}
	return s.persistLocked()
}

// Remove deletes the edit for a flavor line. Removing an absent edit is a
// no-op.
func (s *Store) Remove(id section.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.edits[id.String()]; !ok {
		return nil
	}
	delete(s.edits, id.String())
	return s.persistLocked()
}

// Get returns the edit for a flavor line, if any.
func (s *Store) Get(id section.ID) (Edit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.edits[id.String()]
	return e, ok
}

// ClearAll empties the store. Used after a successful generation and on
// explicit discard.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.edits) == 0 {
		return nil
	}
	s.edits = make(map[string]Edit)
	return s.persistLocked()
}

// HasAny reports whether any edits exist. Gates the unsaved-work warning.
func (s *Store) HasAny() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits) > 0
}

// Count returns the number of edits.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits)
}

// All returns a copy of the edit map keyed by "type:key:flavor", the shape
// sent to the backend as the temp_edits side channel.
func (s *Store) All() map[string]Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Edit, len(s.edits))
	for k, v := range s.edits {
		out[k] = v
	}
	return out
}

// Sorted returns the edits ordered by id for deterministic iteration.
func (s *Store) Sorted() []Edit {
	all := s.All()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Edit, 0, len(keys))
	for _, k := range keys {
		out = append(out, all[k])
	}
	return out
}

func (s *Store) persistLocked() error {
	return s.local.Set(localstore.KeyTempEdits, s.edits)
}
