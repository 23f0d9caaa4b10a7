// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package sshconfig

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoSuchHost is returned by Lookup when nothing matches the query.
var ErrNoSuchHost = errors.New("no such host")

// Lookup resolves a user query to a host.
//
// Resolution order: a host whose Name equals query; a decimal index into
// Hosts; the first Host block whose patterns match query. A pattern match
// yields a copy of that block named query, since that is the name ssh will
// be given.
func (c *Config) Lookup(query string) (*Host, int, error) {
	for i := range c.Hosts {
		if c.Hosts[i].Name == query {
			return &c.Hosts[i], i, nil
		}
	}

	if idx, err := strconv.Atoi(query); err == nil && idx >= 0 && idx < len(c.Hosts) {
		return &c.Hosts[idx], idx, nil
	}

	for i := range c.Hosts {
		if !isPattern(c.Hosts[i].Name) {
			continue
		}
		if MatchPatterns(c.Hosts[i].Name, query) {
			h := c.Hosts[i].Clone()
			h.Name = query
			return &h, i, nil
		}
	}

	return nil, -1, ErrNoSuchHost
}

// MatchPatterns reports whether name matches a whitespace-separated ssh
// pattern list. A matching negated pattern ("!pat") vetoes the match.
// Patterns that fail to compile never match.
func MatchPatterns(patterns, name string) bool {
	matched := false
	for _, p := range strings.Fields(patterns) {
		negated := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")

		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		if !g.Match(name) {
			continue
		}
		if negated {
			return false
		}
		matched = true
	}
	return matched
}

func isPattern(name string) bool {
	return strings.ContainsAny(name, "*?! ")
}
