// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package hostapi implements the operations plugins call to read and mutate
// the host configuration.
//
// Plugins never see Go values. They hold opaque handles issued from the
// tables in API and every operation resolves its handle first, so a stale or
// forged handle degrades into an error or a false/zero result instead of a
// memory fault.
package hostapi

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/samber/oops"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/handle"
	"github.com/pssh/pssh/internal/marshal"
	"github.com/pssh/pssh/internal/sshconfig"
)

// Error codes returned for handle misuse.
const (
	CodeHandleInvalid  = "HANDLE_INVALID"
	CodeHandleBorrowed = "HANDLE_BORROWED"
)

// API owns the handle tables behind every cross-boundary resource.
//
// API is safe for concurrent use, but a single attached Config must only be
// mutated by one caller at a time.
type API struct {
	configs *handle.Table[*attachedConfig]
	maps    *handle.Table[*optionsMap]
	lists   *handle.Table[*list]
	logger  *slog.Logger
}

// attachedConfig is a Config reachable through a HostConfig handle, plus the
// borrowed views handed out by GetHost since its last mutation.
type attachedConfig struct {
	cfg   *sshconfig.Config
	views views
	mu    sync.Mutex
}

// views pins the storage behind borrowed ABI records and tracks the
// read-only option map handles registered for them. byIndex holds the record
// handed out per host index so repeated reads reuse one set of handles.
type views struct {
	pin     runtime.Pinner
	maps    []abi.OptionsMap
	byIndex map[uintptr]abi.Host
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger used for degraded calls.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		a.logger = l
	}
}

// New creates an API with empty handle tables.
func New(opts ...Option) *API {
	a := &API{
		configs: handle.NewTable[*attachedConfig](handle.KindConfig),
		maps:    handle.NewTable[*optionsMap](handle.KindOptionsMap),
		lists:   handle.NewTable[*list](handle.KindList),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attach makes cfg reachable through a new handle. The returned release
// function detaches it and invalidates every view handed out for it; it is
// safe to call more than once.
func (a *API) Attach(cfg *sshconfig.Config) (abi.HostConfig, func()) {
	ac := &attachedConfig{cfg: cfg}
	h := a.configs.Insert(ac)

	var once sync.Once
	return abi.HostConfig(h), func() {
		once.Do(func() {
			if ac, ok := a.configs.Remove(h); ok {
				ac.mu.Lock()
				a.invalidate(&ac.views)
				ac.mu.Unlock()
			}
		})
	}
}

// Borrow returns a borrowed ABI view of host for the duration of a call.
// host.Other is exposed as a read-only options map. The view must not be
// used after release, and host must not be mutated before it.
func (a *API) Borrow(host *sshconfig.Host) (*abi.Host, func()) {
	v := &views{}
	rec := &abi.Host{}
	v.pin.Pin(rec)
	marshal.HostView(host, a.borrowMap(host.Other, v), &v.pin, rec)

	var once sync.Once
	return rec, func() {
		once.Do(func() { a.invalidate(v) })
	}
}

// AppendHost converts rec into an owned Host and appends it to cfg.
func (a *API) AppendHost(cfg abi.HostConfig, rec *abi.Host) error {
	ac, err := a.config(cfg, abi.SymbolAppendHost)
	if err != nil {
		return err
	}
	if rec == nil {
		return oops.In("hostapi").Code(CodeHandleInvalid).With("op", abi.SymbolAppendHost).New("host record is null")
	}

	// rec may alias a view of this very config, so convert before the
	// mutation invalidates it.
	other, err := a.resolveOther(rec.Other)
	if err != nil {
		return err
	}
	host, err := marshal.HostFromABI(rec, other)
	if err != nil {
		return oops.In("hostapi").With("op", abi.SymbolAppendHost).Wrap(err)
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	a.invalidate(&ac.views)
	ac.cfg.Append(host)
	return nil
}

// RemoveHost deletes the host at idx. It returns false, leaving the
// sequence unchanged, when idx is out of range or cfg is not live.
func (a *API) RemoveHost(cfg abi.HostConfig, idx uintptr) bool {
	ac, err := a.config(cfg, abi.SymbolRemoveHostByIndex)
	if err != nil {
		return false
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if idx >= uintptr(len(ac.cfg.Hosts)) {
		return false
	}
	a.invalidate(&ac.views)
	return ac.cfg.Remove(int(idx))
}

// HostsLen returns the current number of hosts, or zero for a handle that
// is not live.
func (a *API) HostsLen(cfg abi.HostConfig) uintptr {
	ac, err := a.config(cfg, abi.SymbolHostsLength)
	if err != nil {
		return 0
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()
	return uintptr(len(ac.cfg.Hosts))
}

// GetHost writes a borrowed view of the host at idx into out and returns
// true. The view stays valid until the next mutation of cfg; reading the same
// index again before then returns the same view. On an out-of-range idx it
// returns false and does not touch out.
func (a *API) GetHost(cfg abi.HostConfig, idx uintptr, out *abi.Host) bool {
	ac, err := a.config(cfg, abi.SymbolGetHostByIndex)
	if err != nil || out == nil {
		return false
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if idx >= uintptr(len(ac.cfg.Hosts)) {
		return false
	}
	if rec, ok := ac.views.byIndex[idx]; ok {
		*out = rec
		return true
	}

	host := &ac.cfg.Hosts[idx]
	var rec abi.Host
	marshal.HostView(host, a.borrowMap(host.Other, &ac.views), &ac.views.pin, &rec)
	if ac.views.byIndex == nil {
		ac.views.byIndex = make(map[uintptr]abi.Host)
	}
	ac.views.byIndex[idx] = rec
	*out = rec
	return true
}

func (a *API) config(cfg abi.HostConfig, op string) (*attachedConfig, error) {
	ac, ok := a.configs.Get(handle.Handle(cfg))
	if !ok {
		a.logger.Warn("stale or foreign config handle", "op", op, "handle", uintptr(cfg))
		return nil, oops.In("hostapi").Code(CodeHandleInvalid).With("op", op).With("handle", uintptr(cfg)).
			Errorf("config handle %#x is not live", uintptr(cfg))
	}
	return ac, nil
}

// invalidate unpins every view in v and drops its borrowed map handles.
func (a *API) invalidate(v *views) {
	v.pin.Unpin()
	for _, mh := range v.maps {
		if m, ok := a.maps.Remove(handle.Handle(mh)); ok {
			m.pin.Unpin()
		}
	}
	v.maps = v.maps[:0]
	clear(v.byIndex)
}
