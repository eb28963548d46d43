// Package registry holds consensus polymers keyed by accession.
package registry

import (
	"fmt"
	"sort"

	"github.com/inodb/vibe-proteoform/internal/bio"
)

// Registry stores polymers by accession and records which entries are
// isoforms of another.
type Registry[T bio.Polymer[T]] struct {
	// polymers stores entries in insertion order
	polymers []T
	byAcc    map[string]int
	// isoforms maps a canonical accession to its isoform accessions
	isoforms  map[string][]string
	isoformOf map[string]string
}

// New creates a new empty registry.
func New[T bio.Polymer[T]]() *Registry[T] {
	return &Registry[T]{
		byAcc:     make(map[string]int),
		isoforms:  make(map[string][]string),
		isoformOf: make(map[string]string),
	}
}

// Add stores p. An empty or duplicate accession is an error.
func (r *Registry[T]) Add(p T) error {
	acc := p.Accession()
	if acc == "" {
		return fmt.Errorf("add polymer: empty accession")
	}
	if _, ok := r.byAcc[acc]; ok {
		return fmt.Errorf("add polymer %s: duplicate accession", acc)
	}
	r.byAcc[acc] = len(r.polymers)
	r.polymers = append(r.polymers, p)
	return nil
}

// AddIsoform stores p as an isoform of the canonical accession.
func (r *Registry[T]) AddIsoform(p T, canonical string) error {
	if err := r.Add(p); err != nil {
		return err
	}
	if canonical != "" {
		r.isoforms[canonical] = append(r.isoforms[canonical], p.Accession())
		r.isoformOf[p.Accession()] = canonical
	}
	return nil
}

// Get returns the polymer with the given accession.
func (r *Registry[T]) Get(accession string) (T, bool) {
	i, ok := r.byAcc[accession]
	if !ok {
		var zero T
		return zero, false
	}
	return r.polymers[i], true
}

// Replace swaps the stored polymer with the same accession.
func (r *Registry[T]) Replace(p T) error {
	i, ok := r.byAcc[p.Accession()]
	if !ok {
		return fmt.Errorf("replace polymer %s: not found", p.Accession())
	}
	r.polymers[i] = p
	return nil
}

// Isoforms returns the isoforms registered for a canonical accession.
func (r *Registry[T]) Isoforms(canonical string) []T {
	var out []T
	for _, acc := range r.isoforms[canonical] {
		if p, ok := r.Get(acc); ok {
			out = append(out, p)
		}
	}
	return out
}

// CanonicalOf returns the canonical accession of an isoform, or "".
func (r *Registry[T]) CanonicalOf(accession string) string {
	return r.isoformOf[accession]
}

// Polymers returns all polymers in insertion order.
func (r *Registry[T]) Polymers() []T {
	return append([]T(nil), r.polymers...)
}

// Len returns the number of stored polymers.
func (r *Registry[T]) Len() int {
	return len(r.polymers)
}

// Accessions returns a sorted list of accessions.
func (r *Registry[T]) Accessions() []string {
	accs := make([]string, 0, len(r.byAcc))
	for acc := range r.byAcc {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}
