// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package sshconfig holds the host's native SSH configuration model and
// parses OpenSSH client configuration text into it.
package sshconfig

import (
	"maps"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Config is the parsed client configuration: global options plus the
// ordered host sequence. It is owned by the host process; plugins only ever
// see it through an opaque handle.
type Config struct {
	GlobalOptions map[string]string `json:"global_options,omitempty" yaml:"global_options,omitempty"`
	Hosts         []Host            `json:"hosts" yaml:"hosts"`
}

// Host is one Host block.
type Host struct {
	// Name is both the display label and the default connection target.
	Name     string            `json:"name" yaml:"name"`
	HostName *string           `json:"host_name,omitempty" yaml:"host_name,omitempty"`
	User     *string           `json:"user,omitempty" yaml:"user,omitempty"`
	Other    map[string]string `json:"other,omitempty" yaml:"other,omitempty"`
}

// Clone returns a deep copy of h.
func (h *Host) Clone() Host {
	c := Host{Name: h.Name, Other: cloneMap(h.Other)}
	if h.HostName != nil {
		v := *h.HostName
		c.HostName = &v
	}
	if h.User != nil {
		v := *h.User
		c.User = &v
	}
	return c
}

// Append adds h to the end of the host sequence.
func (c *Config) Append(h Host) {
	c.Hosts = append(c.Hosts, h)
}

// Remove deletes the host at idx. It returns false and leaves the sequence
// unchanged when idx is out of range.
func (c *Config) Remove(idx int) bool {
	if idx < 0 || idx >= len(c.Hosts) {
		return false
	}
	c.Hosts = append(c.Hosts[:idx], c.Hosts[idx+1:]...)
	return true
}

// Names returns the host names in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Hosts))
	for i := range c.Hosts {
		names[i] = c.Hosts[i].Name
	}
	return names
}

// DefaultPath returns ~/.ssh/config.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", oops.In("sshconfig").Wrapf(err, "resolve home directory")
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.In("sshconfig").With("path", path).Wrapf(err, "read ssh config")
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, oops.In("sshconfig").With("path", path).Wrap(err)
	}
	return cfg, nil
}

// String returns a pointer to v, for optional fields.
func String(v string) *string {
	return &v
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}
