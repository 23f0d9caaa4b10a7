// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package marshal converts between native host values and their ABI form.
//
// This is the only package that turns foreign (pointer, length) pairs into
// Go memory or Go memory into borrowed pointers. Reads always copy; views
// are only valid while the caller's runtime.Pinner stays pinned.
package marshal

import (
	"runtime"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/sshconfig"
)

// MaxFieldLen bounds a single string or buffer read from plugin memory.
const MaxFieldLen = 1 << 20

// Error codes for contract violations detected while reading plugin data.
const (
	CodeInvalidUTF8  = "INVALID_UTF8"
	CodeNullName     = "NULL_NAME"
	CodeFieldTooLong = "FIELD_TOO_LONG"
	CodeNullBuffer   = "NULL_BUFFER"
)

// emptyString backs present-but-empty strings so they never look absent.
var emptyString byte

// ReadString copies n bytes at ptr into a new string. A nil ptr reads as ""
// only when n is zero.
func ReadString(field string, ptr *byte, n uintptr) (string, error) {
	b, err := readBytes(field, ptr, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", oops.In("marshal").Code(CodeInvalidUTF8).With("field", field).Errorf("%s is not valid UTF-8", field)
	}
	return strings.Clone(unsafe.String(unsafe.SliceData(b), len(b))), nil
}

// ReadOptionalString is ReadString where a nil ptr means absent.
func ReadOptionalString(field string, ptr *byte, n uintptr) (*string, error) {
	if ptr == nil {
		return nil, nil
	}
	s, err := ReadString(field, ptr, n)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CopyBytes copies n bytes at ptr into a new slice. The source need not
// stay valid after the call.
func CopyBytes(ptr *byte, n uintptr) ([]byte, error) {
	b, err := readBytes("buffer", ptr, n)
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, len(b)), b...), nil
}

// readBytes returns a slice aliasing foreign memory; callers must copy.
func readBytes(field string, ptr *byte, n uintptr) ([]byte, error) {
	if n > MaxFieldLen {
		return nil, oops.In("marshal").Code(CodeFieldTooLong).With("field", field).With("len", n).
			Errorf("%s length %d exceeds %d", field, n, MaxFieldLen)
	}
	if n == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, oops.In("marshal").Code(CodeNullBuffer).With("field", field).With("len", n).
			Errorf("%s is null with length %d", field, n)
	}
	return unsafe.Slice(ptr, n), nil
}

// View returns a borrowed (pointer, length) pair for s, pinning its storage
// in p.
func View(s string, p *runtime.Pinner) (*byte, uintptr) {
	if len(s) == 0 {
		return &emptyString, 0
	}
	ptr := unsafe.StringData(s)
	p.Pin(ptr)
	return ptr, uintptr(len(s))
}

// OptionalView is View where nil yields a null pointer.
func OptionalView(s *string, p *runtime.Pinner) (*byte, uintptr) {
	if s == nil {
		return nil, 0
	}
	return View(*s, p)
}

// HostView fills out with a borrowed view of h. other is the handle the
// caller registered for h.Other. The view aliases h and is valid until p is
// unpinned or h is mutated.
func HostView(h *sshconfig.Host, other abi.OptionsMap, p *runtime.Pinner, out *abi.Host) {
	out.Name, out.NameLen = View(h.Name, p)
	out.HostName, out.HostNameLen = OptionalView(h.HostName, p)
	out.User, out.UserLen = OptionalView(h.User, p)
	out.Other = other
}

// HostFromABI builds an owned Host from rec. other is the already-resolved
// content of rec.Other (nil when the handle is null); it is cloned.
func HostFromABI(rec *abi.Host, other map[string]string) (sshconfig.Host, error) {
	if rec.Name == nil {
		return sshconfig.Host{}, oops.In("marshal").Code(CodeNullName).New("host name is null")
	}

	name, err := ReadString("name", rec.Name, rec.NameLen)
	if err != nil {
		return sshconfig.Host{}, err
	}
	hostName, err := ReadOptionalString("host_name", rec.HostName, rec.HostNameLen)
	if err != nil {
		return sshconfig.Host{}, err
	}
	user, err := ReadOptionalString("user", rec.User, rec.UserLen)
	if err != nil {
		return sshconfig.Host{}, err
	}

	h := sshconfig.Host{
		Name:     name,
		HostName: hostName,
		User:     user,
		Other:    other,
	}
	// Clone detaches Other from the caller's map.
	return h.Clone(), nil
}

// Strings decodes each buffer as UTF-8 text.
func Strings(bufs [][]byte) ([]string, error) {
	out := make([]string, len(bufs))
	for i, b := range bufs {
		if !utf8.Valid(b) {
			return nil, oops.In("marshal").Code(CodeInvalidUTF8).With("index", i).Errorf("list entry %d is not valid UTF-8", i)
		}
		out[i] = string(b)
	}
	return out, nil
}
