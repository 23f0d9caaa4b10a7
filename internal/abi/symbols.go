// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package abi

// Entry points a plugin must export.
const (
	SymbolInspectConfig = "inspect_config"
	SymbolOnItemSelect  = "on_item_select"
)

// Functions the host exports for plugins to call.
const (
	SymbolAppendHost        = "append_host"
	SymbolRemoveHostByIndex = "remove_host_by_index"
	SymbolHostsLength       = "hosts_length"
	SymbolGetHostByIndex    = "get_host_by_index"
	SymbolCreateOptionsMap  = "create_options_map"
	SymbolDestroyOptionsMap = "destroy_options_map"
	SymbolOptionsMapInsert  = "options_map_insert"
	SymbolOptionsMapGet     = "options_map_get"
	SymbolOptionsMapLen     = "options_map_len"
	SymbolCreateList        = "create_list"
	SymbolDestroyList       = "destroy_list"
	SymbolAppendToList      = "append_to_list"
)

// RequiredPluginSymbols lists the plugin exports in resolution order.
var RequiredPluginSymbols = []string{SymbolInspectConfig, SymbolOnItemSelect}

// HostSymbols lists every function the host exports.
var HostSymbols = []string{
	SymbolAppendHost,
	SymbolRemoveHostByIndex,
	SymbolHostsLength,
	SymbolGetHostByIndex,
	SymbolCreateOptionsMap,
	SymbolDestroyOptionsMap,
	SymbolOptionsMapInsert,
	SymbolOptionsMapGet,
	SymbolOptionsMapLen,
	SymbolCreateList,
	SymbolDestroyList,
	SymbolAppendToList,
}
