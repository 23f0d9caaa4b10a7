// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package handle provides tables of opaque, checked resource handles.
//
// A Handle is what crosses the plugin boundary in place of a pointer. The
// host never interprets a handle's bits beyond looking it up: an unknown,
// released, or wrong-kind handle simply fails the lookup.
//
// Handles carry their kind in the low bits and a sequence number above it.
// Sequence numbers are never reused, so a handle that outlives its resource
// stays invalid forever instead of aliasing a newer one.
package handle

import "sync"

// Handle identifies one entry of a Table. The zero Handle is never issued.
type Handle uintptr

// Kind tags a handle with the table that issued it.
type Kind uint8

// Handle kinds used by the host.
const (
	KindConfig Kind = iota + 1
	KindOptionsMap
	KindList
)

const (
	kindBits = 4
	kindMask = 1<<kindBits - 1
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindOptionsMap:
		return "options_map"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Kind reports the kind bits of h. It does not check that h is live.
func (h Handle) Kind() Kind {
	return Kind(h & kindMask)
}

// Table maps handles of one kind to values.
//
// Table is safe for concurrent use.
type Table[T any] struct {
	kind    Kind
	next    uintptr
	entries map[Handle]T
	mu      sync.Mutex
}

// NewTable creates an empty table issuing handles of the given kind.
// Panics if kind does not fit in the kind bits or is zero.
func NewTable[T any](kind Kind) *Table[T] {
	if kind == 0 || kind > kindMask {
		panic("handle: invalid kind")
	}
	return &Table[T]{
		kind:    kind,
		entries: make(map[Handle]T),
	}
}

// Insert stores v and returns its new handle.
func (t *Table[T]) Insert(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	h := Handle(t.next<<kindBits | uintptr(t.kind))
	t.entries[h] = v
	return h
}

// Get returns the value for h. ok is false for handles that are unknown,
// released, or of another kind.
func (t *Table[T]) Get(h Handle) (v T, ok bool) {
	if h.Kind() != t.kind {
		return v, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok = t.entries[h]
	return v, ok
}

// Remove deletes h and returns the value it held.
func (t *Table[T]) Remove(h Handle) (v T, ok bool) {
	if h.Kind() != t.kind {
		return v, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok = t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	return v, ok
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
