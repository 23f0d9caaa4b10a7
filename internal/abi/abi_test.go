// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package abi_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/pssh/pssh/internal/abi"
)

func TestHost_Layout(t *testing.T) {
	word := unsafe.Sizeof(uintptr(0))
	var h abi.Host

	assert.Equal(t, 7*word, unsafe.Sizeof(h), "Host must have no padding")
	assert.Equal(t, word, unsafe.Alignof(h))

	offsets := []uintptr{
		unsafe.Offsetof(h.Name),
		unsafe.Offsetof(h.NameLen),
		unsafe.Offsetof(h.HostName),
		unsafe.Offsetof(h.HostNameLen),
		unsafe.Offsetof(h.User),
		unsafe.Offsetof(h.UserLen),
		unsafe.Offsetof(h.Other),
	}
	for i, off := range offsets {
		assert.Equal(t, uintptr(i)*word, off, "field %d offset", i)
	}
}

func TestHandles_ArePointerSized(t *testing.T) {
	word := unsafe.Sizeof(uintptr(0))
	assert.Equal(t, word, unsafe.Sizeof(abi.NullHostConfig))
	assert.Equal(t, word, unsafe.Sizeof(abi.NullOptionsMap))
	assert.Equal(t, word, unsafe.Sizeof(abi.NullList))
}

func TestSymbols_Unique(t *testing.T) {
	seen := make(map[string]bool)
	all := append(append([]string{}, abi.RequiredPluginSymbols...), abi.HostSymbols...)
	for _, name := range all {
		assert.False(t, seen[name], "duplicate symbol %q", name)
		seen[name] = true
	}
	assert.Equal(t, []string{"inspect_config", "on_item_select"}, abi.RequiredPluginSymbols)
}
