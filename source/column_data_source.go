package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/ggmark"
)

// PatchOp overwrites one cell of a column. A nil Value stores null: NaN
// in a float64 column, and nil otherwise, which turns a column without a
// null value into a Series[any].
type PatchOp struct {
	Index int
	Value any
}

// ColumnDataSource is an in-memory DataSource.
//
// Mutations are copy-on-write: columns handed out by Column before a
// mutation keep their contents, so a view that resolved against an earlier
// snapshot never observes a half-applied change.
//
// ColumnDataSource is safe for concurrent use, but subscribers are invoked
// synchronously on the mutating goroutine after the lock is released.
type ColumnDataSource struct {
	mu      sync.RWMutex
	columns map[string]Column
	rows    int

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Compile-time interface check.
var _ DataSource = (*ColumnDataSource)(nil)

// NewColumnDataSource creates a source holding data.
// All columns must have the same length.
func NewColumnDataSource(data map[string]Column) (*ColumnDataSource, error) {
	rows, err := checkLengths(data)
	if err != nil {
		return nil, err
	}
	return &ColumnDataSource{
		columns: copyColumns(data),
		rows:    rows,
		subs:    make(map[int]func(Event)),
	}, nil
}

// Column returns the named column.
func (s *ColumnDataSource) Column(name string) (Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.columns[name]
	return c, ok
}

// ColumnNames returns the column names in sorted order.
func (s *ColumnDataSource) ColumnNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.columns)
}

// Len returns the shared row count.
func (s *ColumnDataSource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Data returns a shallow copy of the column map.
func (s *ColumnDataSource) Data() map[string]Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyColumns(s.columns)
}

// Replace swaps the whole column set and emits an EventReplace.
func (s *ColumnDataSource) Replace(data map[string]Column) error {
	rows, err := checkLengths(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.columns = copyColumns(data)
	s.rows = rows
	s.mu.Unlock()

	s.emit(Event{Kind: EventReplace, Rows: rows, Columns: sortedKeys(data)})
	return nil
}

// Stream appends rows to every column and emits an EventStream.
//
// data must contain exactly the existing columns, all with the same number
// of new rows. If rollover is positive, only the last rollover rows are kept.
func (s *ColumnDataSource) Stream(data map[string]Column, rollover int) error {
	added, err := checkLengths(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if len(data) != len(s.columns) {
		s.mu.Unlock()
		return fmt.Errorf("%w: stream has %d columns, source has %d", ErrUnknownColumn, len(data), len(s.columns))
	}
	next := make(map[string]Column, len(s.columns))
	for name, tail := range data {
		cur, ok := s.columns[name]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		next[name] = opsOf(cur).appended(tail)
	}
	rows := s.rows + added
	if rollover > 0 && rows > rollover {
		for name, c := range next {
			next[name] = opsOf(c).sliced(rows - rollover)
		}
		rows = rollover
	}
	s.columns = next
	s.rows = rows
	s.mu.Unlock()

	ggmark.Logger().Debug("source: stream", "added", added, "rows", rows)
	s.emit(Event{Kind: EventStream, Rows: rows, Columns: sortedKeys(data)})
	return nil
}

// Patch overwrites individual cells and emits an EventPatch.
// Either every patch applies or none does.
func (s *ColumnDataSource) Patch(patches map[string][]PatchOp) error {
	s.mu.Lock()
	next := copyColumns(s.columns)
	for name, ops := range patches {
		cur, ok := next[name]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		c, err := opsOf(cur).patched(ops)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("patch %q: %w", name, err)
		}
		next[name] = c
	}
	s.columns = next
	rows := s.rows
	s.mu.Unlock()

	s.emit(Event{Kind: EventPatch, Rows: rows, Columns: sortedKeys(patches)})
	return nil
}

// Subscribe registers fn for every mutation event.
func (s *ColumnDataSource) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *ColumnDataSource) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// emit invokes subscribers in registration order.
func (s *ColumnDataSource) emit(ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = s.subs[id]
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func checkLengths(data map[string]Column) (int, error) {
	rows := -1
	for name, c := range data {
		if c == nil {
			return 0, fmt.Errorf("source: column %q is nil", name)
		}
		n := c.Len()
		if rows >= 0 && n != rows {
			return 0, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, name, n, rows)
		}
		rows = n
	}
	if rows < 0 {
		rows = 0
	}
	return rows, nil
}

func copyColumns(data map[string]Column) map[string]Column {
	out := make(map[string]Column, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
