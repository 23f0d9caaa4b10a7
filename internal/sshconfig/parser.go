// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package sshconfig

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/oops"
)

// Option keys with dedicated meaning. Matching is case-insensitive, as in
// ssh(1); every other key lands in Host.Other with its original spelling.
const (
	keyHost     = "Host"
	keyMatch    = "Match"
	keyHostName = "HostName"
	keyUser     = "User"
)

// sshLexer tokenizes ssh_config text line by line. A Key is the first word of
// a line together with its separator, blanks or "=" as in ssh(1); the rest of
// the line is lexed as Words, so a keyword appearing inside a value stays a
// plain word.
var sshLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "whitespace", Pattern: `[ \t\r]+`},
		{Name: "Key", Pattern: `[^\s=#][^\s=]*(?:[ \t]*=[ \t]*|[ \t]+)`, Action: lexer.Push("Value")},
	},
	"Value": {
		{Name: "Newline", Pattern: `\r?\n`, Action: lexer.Pop()},
		{Name: "whitespace", Pattern: `[ \t\r]+`},
		{Name: "Word", Pattern: `[^\s]+`},
	},
})

// file is the grammar root: one option per line. Host and Match lines are
// options too; Parse groups what follows them into blocks.
type file struct {
	Options []*option `parser:"Newline* ( @@ Newline+ )*"`
}

type option struct {
	Key    keyword  `parser:"@Key"`
	Values []string `parser:"@Word+"`
}

// keyword is an option key with its separator stripped.
type keyword string

func (k *keyword) Capture(values []string) error {
	*k = keyword(strings.TrimRight(values[0], " \t="))
	return nil
}

func (o *option) is(key string) bool {
	return strings.EqualFold(string(o.Key), key)
}

func (o *option) value() string {
	return strings.Join(o.Values, " ")
}

var parser = participle.MustBuild[file](
	participle.Lexer(sshLexer),
)

// Parse parses ssh_config text. Options before the first Host or Match line
// are global. Options under a Match line are skipped: Match criteria are
// evaluated by ssh(1) itself and never name a launchable host. Later
// duplicates of a global or per-host key overwrite earlier ones.
func Parse(text string) (*Config, error) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	ast, err := parser.ParseString("", text)
	if err != nil {
		return nil, oops.In("sshconfig").Code("SSH_CONFIG_SYNTAX").Wrapf(err, "parse ssh config")
	}

	cfg := &Config{
		GlobalOptions: make(map[string]string),
		Hosts:         make([]Host, 0),
	}

	const (
		inGlobals = -1
		inMatch   = -2
	)
	block := inGlobals
	for _, opt := range ast.Options {
		switch {
		case opt.is(keyHost):
			cfg.Hosts = append(cfg.Hosts, Host{Name: opt.value(), Other: make(map[string]string)})
			block = len(cfg.Hosts) - 1
		case opt.is(keyMatch):
			block = inMatch
		case block == inGlobals:
			cfg.GlobalOptions[string(opt.Key)] = opt.value()
		case block == inMatch:
		default:
			cfg.Hosts[block].set(opt)
		}
	}
	return cfg, nil
}

// MustParse is Parse for fixed inputs; it panics on error.
func MustParse(text string) *Config {
	cfg, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("sshconfig: %v", err))
	}
	return cfg
}

func (h *Host) set(opt *option) {
	switch {
	case opt.is(keyHostName):
		h.HostName = String(opt.value())
	case opt.is(keyUser):
		h.User = String(opt.value())
	default:
		h.Other[string(opt.Key)] = opt.value()
	}
}
