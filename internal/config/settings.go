// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

// Package config loads pssh settings from a YAML file and command-line
// flags.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/pssh/pssh/internal/logging"
	"github.com/pssh/pssh/internal/xdg"
)

// Settings is the pssh configuration.
type Settings struct {
	// LauncherCmd prefixes the resolved command, which is passed as its
	// final argument.
	LauncherCmd []string `koanf:"launcher_cmd" json:"launcher_cmd,omitempty" yaml:"launcher_cmd,omitempty" jsonschema:"minItems=1,description=Command prefix that runs the resolved command line"`
	// Plugins are loaded in order, before any discovered in PluginDir.
	Plugins []string `koanf:"plugins" json:"plugins,omitempty" yaml:"plugins,omitempty" jsonschema:"description=Plugin library paths in load order"`
	// PluginDir is scanned for shared libraries, loaded in file name order.
	PluginDir string `koanf:"plugin_dir" json:"plugin_dir,omitempty" yaml:"plugin_dir,omitempty" jsonschema:"description=Directory scanned for plugin libraries"`
	// SSHConfig is the ssh_config file hosts are read from.
	SSHConfig string `koanf:"ssh_config" json:"ssh_config,omitempty" yaml:"ssh_config,omitempty" jsonschema:"description=Path to the ssh_config file"`
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" yaml:"log_format,omitempty" jsonschema:"enum=text,enum=json"`
	LogLevel  string `koanf:"log_level" json:"log_level,omitempty" yaml:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// DefaultLauncherCmd returns the launcher prefix for the running OS.
func DefaultLauncherCmd() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd.exe", "/c"}
	}
	return []string{"sh", "-c"}
}

// DefaultPath returns the settings file used when none is given.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// flagKeys maps flag names onto settings keys. Flags not listed here are
// not settings.
var flagKeys = map[string]string{
	"log-format": "log_format",
	"log-level":  "log_level",
	"ssh-config": "ssh_config",
	"plugin-dir": "plugin_dir",
}

// Load reads settings from path and overlays flags. A missing file at the
// default location yields defaults; a missing file that was asked for by
// name is an error. Values of the repeatable "plugin" flag are appended to
// the file's plugin list.
func Load(path string, explicit bool, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's chosen settings file
	switch {
	case err == nil:
		if err := ValidateSchema(data); err != nil {
			return nil, oops.In("config").Code("CONFIG_INVALID").With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").Code("CONFIG_INVALID").With("path", path).Wrapf(err, "parse settings")
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, oops.In("config").Code("CONFIG_UNREADABLE").With("path", path).Wrapf(err, "read settings")
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.In("config").Wrapf(err, "apply flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, oops.In("config").Code("CONFIG_INVALID").Wrapf(err, "decode settings")
	}

	if flags != nil {
		if extra, err := flags.GetStringArray("plugin"); err == nil {
			s.Plugins = append(s.Plugins, extra...)
		}
	}

	if err := s.applyDefaults(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) applyDefaults() error {
	if len(s.LauncherCmd) == 0 {
		s.LauncherCmd = DefaultLauncherCmd()
	}
	if s.LogFormat == "" {
		s.LogFormat = logging.FormatText
	}
	if s.PluginDir == "" {
		dir, err := xdg.PluginDir()
		if err != nil {
			return err
		}
		s.PluginDir = dir
	}
	s.SSHConfig = expandHome(s.SSHConfig)
	s.PluginDir = expandHome(s.PluginDir)
	for i, p := range s.Plugins {
		s.Plugins[i] = expandHome(p)
	}
	return nil
}

// Validate checks values that flags can set past the schema.
func (s *Settings) Validate() error {
	if !logging.ValidFormat(s.LogFormat) {
		return oops.In("config").Code("CONFIG_INVALID").With("log_format", s.LogFormat).
			Errorf("log format must be %q or %q", logging.FormatText, logging.FormatJSON)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return oops.In("config").Code("CONFIG_INVALID").Wrap(err)
	}
	if len(s.LauncherCmd) == 0 || strings.TrimSpace(s.LauncherCmd[0]) == "" {
		return oops.In("config").Code("CONFIG_INVALID").New("launcher_cmd needs a program")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
