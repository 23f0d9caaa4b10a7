// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package abi defines the values that cross the plugin boundary.
//
// Every type here has a fixed C layout that must match include/pssh.h. The
// package holds no logic: conversion lives in internal/marshal and the
// operations behind the handles live in internal/hostapi.
package abi

// HostConfig is an opaque handle to the host's SSH configuration.
// Plugins may hold, pass, and return it but never dereference it.
type HostConfig uintptr

// OptionsMap is an opaque handle to a string to string map.
type OptionsMap uintptr

// List is an opaque handle to an ordered list of byte buffers.
type List uintptr

// Null handles. A null List returned from a selection call means
// "no override".
const (
	NullHostConfig HostConfig = 0
	NullOptionsMap OptionsMap = 0
	NullList       List       = 0
)

// Host is the exchangeable host record.
//
//	typedef struct Host {
//	    const char *name;      uintptr_t name_len;
//	    const char *host_name; uintptr_t host_name_len;
//	    const char *user;      uintptr_t user_len;
//	    const OptionsMap *other;
//	} Host;
//
// Strings are UTF-8 without a terminator. A nil HostName or User means the
// value is absent; its length is then ignored.
type Host struct {
	Name        *byte
	NameLen     uintptr
	HostName    *byte
	HostNameLen uintptr
	User        *byte
	UserLen     uintptr
	Other       OptionsMap
}
