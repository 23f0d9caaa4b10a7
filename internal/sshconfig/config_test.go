// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package sshconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pssh/pssh/internal/sshconfig"
)

const sampleConfig = `
Host example_host
    HostName example.com
    User example_user

Host *.internal !db.internal
    User ops
    Port 2222
`

func TestConfig_RemoveBounds(t *testing.T) {
	cfg := sshconfig.MustParse(sampleConfig)
	n := len(cfg.Hosts)

	assert.False(t, cfg.Remove(n))
	assert.False(t, cfg.Remove(-1))
	assert.Len(t, cfg.Hosts, n)

	assert.True(t, cfg.Remove(0))
	assert.Equal(t, []string{"*.internal !db.internal"}, cfg.Names())
}

func TestHost_CloneIsIndependent(t *testing.T) {
	orig := sshconfig.Host{
		Name:     "a",
		HostName: sshconfig.String("a.example.com"),
		Other:    map[string]string{"Port": "22"},
	}
	c := orig.Clone()
	*c.HostName = "changed"
	c.Other["Port"] = "2022"

	assert.Equal(t, "a.example.com", *orig.HostName)
	assert.Equal(t, "22", orig.Other["Port"])
	assert.Nil(t, c.User)
}

func TestConfig_Lookup(t *testing.T) {
	cfg := sshconfig.MustParse(sampleConfig)

	tests := []struct {
		name     string
		query    string
		wantName string
		wantIdx  int
		wantUser string
	}{
		{name: "exact name", query: "example_host", wantName: "example_host", wantIdx: 0, wantUser: "example_user"},
		{name: "index", query: "1", wantName: "*.internal !db.internal", wantIdx: 1, wantUser: "ops"},
		{name: "pattern", query: "web.internal", wantName: "web.internal", wantIdx: 1, wantUser: "ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, idx, err := cfg.Lookup(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, h.Name)
			assert.Equal(t, tt.wantIdx, idx)
			require.NotNil(t, h.User)
			assert.Equal(t, tt.wantUser, *h.User)
		})
	}
}

func TestConfig_Lookup_PatternCopyDoesNotAlias(t *testing.T) {
	cfg := sshconfig.MustParse(sampleConfig)

	h, _, err := cfg.Lookup("web.internal")
	require.NoError(t, err)
	h.Other["Port"] = "1"

	assert.Equal(t, "2222", cfg.Hosts[1].Other["Port"])
}

func TestConfig_Lookup_Misses(t *testing.T) {
	cfg := sshconfig.MustParse(sampleConfig)

	for _, q := range []string{"db.internal", "nowhere", "7"} {
		_, idx, err := cfg.Lookup(q)
		assert.ErrorIs(t, err, sshconfig.ErrNoSuchHost, "query %q", q)
		assert.Equal(t, -1, idx)
	}
}

func TestMatchPatterns(t *testing.T) {
	assert.True(t, sshconfig.MatchPatterns("*.example.com", "a.example.com"))
	assert.True(t, sshconfig.MatchPatterns("web? db", "web1"))
	assert.False(t, sshconfig.MatchPatterns("web?", "web12"))
	assert.False(t, sshconfig.MatchPatterns("* !secret", "secret"))
	assert.False(t, sshconfig.MatchPatterns("!secret", "other"), "negation alone never matches")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := sshconfig.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Hosts, 2)

	_, err = sshconfig.Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
