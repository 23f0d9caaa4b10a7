// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

//go:build !cgo

package bridge

const exportsEnabled = false
