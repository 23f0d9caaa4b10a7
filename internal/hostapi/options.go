// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package hostapi

import (
	"runtime"

	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/handle"
	"github.com/pssh/pssh/internal/marshal"
)

// optionsMap is a string map reachable through an OptionsMap handle.
// Borrowed maps alias a host's Other map and are read-only.
type optionsMap struct {
	entries  map[string]string
	borrowed bool
	pin      runtime.Pinner
}

// CreateOptionsMap returns a handle to a new, empty, caller-owned map.
func (a *API) CreateOptionsMap() abi.OptionsMap {
	return abi.OptionsMap(a.maps.Insert(&optionsMap{entries: map[string]string{}}))
}

// DestroyOptionsMap releases an owned map. Borrowed maps are released by
// their owner and are rejected here.
func (a *API) DestroyOptionsMap(h abi.OptionsMap) error {
	m, err := a.optionsMap(h, abi.SymbolDestroyOptionsMap)
	if err != nil {
		return err
	}
	if m.borrowed {
		return oops.In("hostapi").Code(CodeHandleBorrowed).With("op", abi.SymbolDestroyOptionsMap).
			Errorf("options map %#x is borrowed", uintptr(h))
	}
	if m, ok := a.maps.Remove(handle.Handle(h)); ok {
		m.pin.Unpin()
	}
	return nil
}

// InsertOption sets key to value in an owned map.
func (a *API) InsertOption(h abi.OptionsMap, key, value string) error {
	m, err := a.optionsMap(h, abi.SymbolOptionsMapInsert)
	if err != nil {
		return err
	}
	if m.borrowed {
		return oops.In("hostapi").Code(CodeHandleBorrowed).With("op", abi.SymbolOptionsMapInsert).
			Errorf("options map %#x is read-only", uintptr(h))
	}
	m.entries[key] = value
	return nil
}

// InsertOptionRaw is InsertOption for a key and value in plugin memory.
func (a *API) InsertOptionRaw(h abi.OptionsMap, key *byte, keyLen uintptr, value *byte, valueLen uintptr) error {
	k, err := marshal.ReadString("key", key, keyLen)
	if err != nil {
		return err
	}
	v, err := marshal.ReadString("value", value, valueLen)
	if err != nil {
		return err
	}
	return a.InsertOption(h, k, v)
}

// LookupOption returns the value stored under key.
func (a *API) LookupOption(h abi.OptionsMap, key string) (string, bool, error) {
	m, err := a.optionsMap(h, abi.SymbolOptionsMapGet)
	if err != nil {
		return "", false, err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

// GetOptionRaw writes a borrowed view of the value under key into out and
// outLen. The view stays valid until the map is destroyed or, for a
// borrowed map, until its owner releases it.
func (a *API) GetOptionRaw(h abi.OptionsMap, key *byte, keyLen uintptr, out **byte, outLen *uintptr) (bool, error) {
	k, err := marshal.ReadString("key", key, keyLen)
	if err != nil {
		return false, err
	}
	m, err := a.optionsMap(h, abi.SymbolOptionsMapGet)
	if err != nil {
		return false, err
	}
	v, ok := m.entries[k]
	if !ok {
		return false, nil
	}
	if out != nil && outLen != nil {
		*out, *outLen = marshal.View(v, &m.pin)
	}
	return true, nil
}

// OptionsLen returns the number of entries in the map.
func (a *API) OptionsLen(h abi.OptionsMap) (int, error) {
	m, err := a.optionsMap(h, abi.SymbolOptionsMapLen)
	if err != nil {
		return 0, err
	}
	return len(m.entries), nil
}

func (a *API) optionsMap(h abi.OptionsMap, op string) (*optionsMap, error) {
	m, ok := a.maps.Get(handle.Handle(h))
	if !ok {
		return nil, oops.In("hostapi").Code(CodeHandleInvalid).With("op", op).With("handle", uintptr(h)).
			Errorf("options map handle %#x is not live", uintptr(h))
	}
	return m, nil
}

// resolveOther returns the entries behind a host record's Other handle.
// A null handle means no extra options.
func (a *API) resolveOther(h abi.OptionsMap) (map[string]string, error) {
	if h == abi.NullOptionsMap {
		return nil, nil
	}
	m, err := a.optionsMap(h, abi.SymbolAppendHost)
	if err != nil {
		return nil, err
	}
	return m.entries, nil
}

// borrowMap registers entries as a read-only map tracked by v.
func (a *API) borrowMap(entries map[string]string, v *views) abi.OptionsMap {
	mh := abi.OptionsMap(a.maps.Insert(&optionsMap{entries: entries, borrowed: true}))
	v.maps = append(v.maps, mh)
	return mh
}
