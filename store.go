package asyncprops

import "sync"

// Generation identifies one navigation's load attempt. Only the most
// recently begun generation may commit.
type Generation uint64

// Status is the lifecycle state of one chain position.
type Status int

const (
	StatusPending Status = iota
	StatusResolved
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusErrored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether the position has finished loading.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusErrored
}

// PropsEntry is the loaded state of one chain position.
type PropsEntry struct {
	Route      RouteID
	Params     Params
	Status     Status
	Data       any
	Err        error
	Generation Generation // generation that produced Data/Err
}

// entryFromOutcome converts a loader outcome into a terminal entry.
func entryFromOutcome(m Match, gen Generation, o Outcome) PropsEntry {
	e := PropsEntry{
		Route:      m.ID(),
		Params:     m.Params,
		Generation: gen,
	}
	if o.Err != nil {
		e.Status = StatusErrored
		e.Err = o.Err
		return e
	}
	e.Status = StatusResolved
	e.Data = o.Data
	return e
}

// DataAs returns the entry's data as T.
func DataAs[T any](e PropsEntry) (T, bool) {
	v, ok := e.Data.(T)
	return v, ok
}

// Store holds the per-position props of the current navigation.
//
// Two views are kept. The target view is aligned with the chain of the
// most recent navigation and may contain pending positions. The committed
// view is the last chain whose every position finished; it is what gets
// rendered while a newer navigation is still loading. Both views change
// only under the store's lock, so readers never observe half a merge.
type Store struct {
	mu         sync.RWMutex
	generation Generation
	chain      Chain
	entries    []PropsEntry
	committed  []PropsEntry
	commChain  Chain
	hasCommit  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin starts a new generation for chain. Entries below pivot are carried
// over unchanged; positions from pivot to the leaf become pending.
func (s *Store) Begin(chain Chain, pivot int) (Generation, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pivot = max(0, min(pivot, len(chain), len(s.entries)))
	s.generation++
	entries := make([]PropsEntry, len(chain))
	copy(entries, s.entries[:pivot])
	for i := pivot; i < len(chain); i++ {
		entries[i] = PropsEntry{
			Route:  chain[i].ID(),
			Params: chain[i].Params,
			Status: StatusPending,
		}
	}
	s.chain = chain
	s.entries = entries
	return s.generation, pivot
}

// MergeSuffix writes the suffix entries for gen in one step and commits the
// target view. suffix[0] lands at position len(chain)-len(suffix). If gen
// is no longer current the store is left untouched and ErrSuperseded is
// returned.
func (s *Store) MergeSuffix(gen Generation, suffix []PropsEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return ErrSuperseded
	}
	offset := len(s.entries) - len(suffix)
	if offset < 0 {
		return ErrSuperseded
	}
	copy(s.entries[offset:], suffix)
	s.committed = cloneEntries(s.entries)
	s.commChain = s.chain
	s.hasCommit = true
	return nil
}

// Seed installs fully resolved entries for chain without any loading, as
// hydration does. It starts and commits a new generation.
func (s *Store) Seed(chain Chain, data []any) Generation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	entries := make([]PropsEntry, len(chain))
	for i, m := range chain {
		entries[i] = PropsEntry{
			Route:      m.ID(),
			Params:     m.Params,
			Status:     StatusResolved,
			Data:       data[i],
			Generation: s.generation,
		}
	}
	s.chain = chain
	s.entries = entries
	s.committed = cloneEntries(entries)
	s.commChain = chain
	s.hasCommit = true
	return s.generation
}

// Generation returns the current generation.
func (s *Store) Generation() Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Chain returns the chain of the current generation.
func (s *Store) Chain() Chain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain
}

// Entries returns a copy of the target view, including pending positions.
func (s *Store) Entries() []PropsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Snapshot returns a copy of the committed view. It is empty until the
// first commit.
func (s *Store) Snapshot() []PropsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.committed)
}

// Committed returns the committed chain together with a copy of its
// entries, read under one lock.
func (s *Store) Committed() (Chain, []PropsEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commChain, cloneEntries(s.committed)
}

// HasCommitted reports whether any generation has committed yet.
func (s *Store) HasCommitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCommit
}

// CurrentProps returns the data values of the committed view in chain
// order: the last resolved values while a newer suffix is pending, and
// nothing before the first commit.
func (s *Store) CurrentProps() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, len(s.committed))
	for i, e := range s.committed {
		out[i] = e.Data
	}
	return out
}

// IsFullyResolved reports whether every position of the current chain is
// resolved or errored.
func (s *Store) IsFullyResolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if !e.Status.Terminal() {
			return false
		}
	}
	return true
}

// PivotFor computes the pivot of next against the current chain. The
// result is lowered to the first position still pending, since a
// superseded generation never fills it in.
func (s *Store) PivotFor(next Chain, eq ParamsEqual) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := Pivot(s.chain, next, eq)
	for i := 0; i < p; i++ {
		if !s.entries[i].Status.Terminal() {
			return i
		}
	}
	return p
}

func cloneEntries(in []PropsEntry) []PropsEntry {
	if in == nil {
		return nil
	}
	out := make([]PropsEntry, len(in))
	copy(out, in)
	return out
}
