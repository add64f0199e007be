package domain

import "encoding/json"

// DefaultJournalCapacity bounds journals whose capacity was never set
// explicitly. The zero value of Journal is usable.
const DefaultJournalCapacity = 256

// Journal is an append-only event log with an explicit retention bound.
// When the bound is reached the oldest entries are evicted, so unbounded
// growth is impossible regardless of how long a process runs. Entries are
// kept in append order.
type Journal[T any] struct {
	capacity int
	entries  []T
	dropped  int
}

// NewJournal constructs a journal retaining at most capacity entries.
// Non-positive capacities fall back to DefaultJournalCapacity.
func NewJournal[T any](capacity int) Journal[T] {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return Journal[T]{capacity: capacity}
}

// Append records an entry, evicting the oldest when the journal is full.
func (j *Journal[T]) Append(entry T) {
	if j.capacity <= 0 {
		j.capacity = DefaultJournalCapacity
	}
	if len(j.entries) >= j.capacity {
		evict := len(j.entries) - j.capacity + 1
		j.entries = append(j.entries[:0], j.entries[evict:]...)
		j.dropped += evict
	}
	j.entries = append(j.entries, entry)
}

// Len reports the number of retained entries.
func (j Journal[T]) Len() int { return len(j.entries) }

// Dropped reports how many entries retention has evicted.
func (j Journal[T]) Dropped() int { return j.dropped }

// Capacity reports the retention bound.
func (j Journal[T]) Capacity() int {
	if j.capacity <= 0 {
		return DefaultJournalCapacity
	}
	return j.capacity
}

// Entries returns a copy of the retained entries in append order.
func (j Journal[T]) Entries() []T {
	out := make([]T, len(j.entries))
	copy(out, j.entries)
	return out
}

// Last returns up to n of the most recent entries in append order.
func (j Journal[T]) Last(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]T, n)
	copy(out, j.entries[len(j.entries)-n:])
	return out
}

// Clone returns a deep copy sharing no backing storage.
func (j Journal[T]) Clone() Journal[T] {
	cp := j
	cp.entries = make([]T, len(j.entries))
	copy(cp.entries, j.entries)
	return cp
}

// MarshalJSON serialises the journal as a plain array of entries.
func (j Journal[T]) MarshalJSON() ([]byte, error) {
	if j.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(j.entries)
}

// UnmarshalJSON hydrates the journal from an array, applying retention.
func (j *Journal[T]) UnmarshalJSON(data []byte) error {
	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*j = Journal[T]{capacity: j.capacity}
	for _, e := range entries {
		j.Append(e)
	}
	return nil
}
