// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build cgo

package bridge

/*
#cgo linux freebsd LDFLAGS: -rdynamic
*/
import "C"

import (
	"unsafe"

	"github.com/pssh/pssh/internal/abi"
)

const exportsEnabled = true

//export append_host
func append_host(cfg uintptr, host unsafe.Pointer) {
	appendHost(abi.HostConfig(cfg), host)
}

//export remove_host_by_index
func remove_host_by_index(cfg uintptr, idx uintptr) bool {
	return removeHostByIndex(abi.HostConfig(cfg), idx)
}

//export hosts_length
func hosts_length(cfg uintptr) uintptr {
	return hostsLength(abi.HostConfig(cfg))
}

//export get_host_by_index
func get_host_by_index(cfg uintptr, idx uintptr, out unsafe.Pointer) bool {
	return getHostByIndex(abi.HostConfig(cfg), idx, out)
}

//export create_options_map
func create_options_map() uintptr {
	return uintptr(createOptionsMap())
}

//export destroy_options_map
func destroy_options_map(m uintptr) {
	destroyOptionsMap(abi.OptionsMap(m))
}

//export options_map_insert
func options_map_insert(m uintptr, key unsafe.Pointer, keyLen uintptr, value unsafe.Pointer, valueLen uintptr) bool {
	return optionsMapInsert(abi.OptionsMap(m), key, keyLen, value, valueLen)
}

//export options_map_get
func options_map_get(m uintptr, key unsafe.Pointer, keyLen uintptr, out unsafe.Pointer, outLen unsafe.Pointer) bool {
	return optionsMapGet(abi.OptionsMap(m), key, keyLen, out, outLen)
}

//export options_map_len
func options_map_len(m uintptr) uintptr {
	return optionsMapLen(abi.OptionsMap(m))
}

//export create_list
func create_list() uintptr {
	return uintptr(createList())
}

//export destroy_list
func destroy_list(l uintptr) {
	destroyList(abi.List(l))
}

//export append_to_list
func append_to_list(l uintptr, buf unsafe.Pointer, n uintptr) {
	appendToList(abi.List(l), buf, n)
}
