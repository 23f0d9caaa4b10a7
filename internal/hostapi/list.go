// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package hostapi

import (
	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/handle"
	"github.com/pssh/pssh/internal/marshal"
)

// list is an ordered sequence of byte buffers built by a plugin.
type list struct {
	bufs [][]byte
}

// CreateList returns a handle to a new, empty list.
func (a *API) CreateList() abi.List {
	return abi.List(a.lists.Insert(&list{}))
}

// DestroyList releases a list the plugin will not return.
func (a *API) DestroyList(h abi.List) error {
	if _, ok := a.lists.Remove(handle.Handle(h)); !ok {
		return a.staleList(h, abi.SymbolDestroyList)
	}
	return nil
}

// AppendToList copies n bytes at ptr onto the end of the list.
func (a *API) AppendToList(h abi.List, ptr *byte, n uintptr) error {
	l, ok := a.lists.Get(handle.Handle(h))
	if !ok {
		return a.staleList(h, abi.SymbolAppendToList)
	}
	b, err := marshal.CopyBytes(ptr, n)
	if err != nil {
		return oops.In("hostapi").With("op", abi.SymbolAppendToList).Wrap(err)
	}
	l.bufs = append(l.bufs, b)
	return nil
}

// ListLen returns the number of buffers in the list.
func (a *API) ListLen(h abi.List) (int, error) {
	l, ok := a.lists.Get(handle.Handle(h))
	if !ok {
		return 0, a.staleList(h, "list_length")
	}
	return len(l.bufs), nil
}

// TakeList removes the list from the table and returns its buffers. The
// handle is dead afterwards.
func (a *API) TakeList(h abi.List) ([][]byte, error) {
	l, ok := a.lists.Remove(handle.Handle(h))
	if !ok {
		return nil, a.staleList(h, "take_list")
	}
	return l.bufs, nil
}

func (a *API) staleList(h abi.List, op string) error {
	return oops.In("hostapi").Code(CodeHandleInvalid).With("op", op).With("handle", uintptr(h)).
		Errorf("list handle %#x is not live", uintptr(h))
}
