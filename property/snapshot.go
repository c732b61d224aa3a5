package property

import (
	"fmt"
	"sort"
)

// Snapshot holds the outcome of one resolve pass over a mark: uniforms for
// attributes consumed by visual groups and arrays for everything else, all
// index-aligned with the source rows at resolve time.
//
// A Snapshot is built completely before it replaces the previous one, so a
// failed resolve never leaves a partially updated state behind.
type Snapshot struct {
	rows     int
	uniforms map[string]Resolution
	arrays   map[string]Resolution
}

// NewSnapshot returns an empty snapshot for rows source rows.
func NewSnapshot(rows int) *Snapshot {
	return &Snapshot{
		rows:     rows,
		uniforms: make(map[string]Resolution),
		arrays:   make(map[string]Resolution),
	}
}

// Rows returns the source row count the snapshot was resolved against.
func (s *Snapshot) Rows() int { return s.rows }

// SetUniform stores a uniform resolution.
func (s *Snapshot) SetUniform(attr string, r Resolution) { s.uniforms[attr] = r }

// SetArray stores an array resolution.
func (s *Snapshot) SetArray(attr string, r Resolution) { s.arrays[attr] = r }

// Uniform returns the uniform stored for attr.
func (s *Snapshot) Uniform(attr string) (Resolution, bool) {
	r, ok := s.uniforms[attr]
	return r, ok
}

// Array returns the array stored for attr.
func (s *Snapshot) Array(attr string) (Resolution, bool) {
	r, ok := s.arrays[attr]
	return r, ok
}

// UniformAttrs returns the names of all uniform resolutions, sorted.
func (s *Snapshot) UniformAttrs() []string { return sortedNames(s.uniforms) }

// ArrayAttrs returns the names of all array resolutions, sorted.
func (s *Snapshot) ArrayAttrs() []string { return sortedNames(s.arrays) }

// UniformOf returns the uniform stored for attr with value type T.
func UniformOf[T any](s *Snapshot, attr string) (Uniform[T], error) {
	r, ok := s.uniforms[attr]
	if !ok {
		return Uniform[T]{}, fmt.Errorf("%w: uniform %q", ErrNotResolved, attr)
	}
	u, ok := r.(Uniform[T])
	if !ok {
		return Uniform[T]{}, fmt.Errorf("%w: uniform %q holds %T", ErrNotResolved, attr, r)
	}
	return u, nil
}

// ArrayOf returns the array stored for attr with value type T.
func ArrayOf[T any](s *Snapshot, attr string) ([]T, error) {
	r, ok := s.arrays[attr]
	if !ok {
		return nil, fmt.Errorf("%w: array %q", ErrNotResolved, attr)
	}
	a, ok := r.(Array[T])
	if !ok {
		return nil, fmt.Errorf("%w: array %q holds %T", ErrNotResolved, attr, r)
	}
	return a, nil
}

// SetArrayOf replaces the array stored for attr. Controllers use it for
// in-place post-processing such as map projection.
func SetArrayOf[T any](s *Snapshot, attr string, values []T) {
	s.arrays[attr] = Array[T](values)
}

func sortedNames(m map[string]Resolution) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
