// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mexcheck/mexcheck/pkg/config"
)

// Config controls the checker. It is loaded from YAML or JSON:
//
//	bind_subjects: true
//	ignore_guarded: false
//	exclude: ["build/**", "**/*_pb2.py"]
//	procs: 4
type Config struct {
	// BindSubjects checks a match only against the enum its subject is annotated with.
	BindSubjects bool `yaml:"bind_subjects" json:"bind_subjects"`
	// IgnoreGuarded makes value arms with a guard not count as covering their member.
	IgnoreGuarded bool `yaml:"ignore_guarded" json:"ignore_guarded"`
	// Exclude lists doublestar globs of files that are not checked.
	Exclude []string `yaml:"exclude" json:"exclude"`
	// Procs limits the number of files checked in parallel.
	Procs int `yaml:"procs" json:"procs"`
}

func DefaultConfig() *Config {
	return &Config{
		Procs: runtime.GOMAXPROCS(0),
	}
}

// LoadConfig loads and validates a config file on top of the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Procs < 1 {
		return fmt.Errorf("procs must be positive, got %v", cfg.Procs)
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("bad exclude pattern %q", pattern)
		}
	}
	return nil
}

// Excluded says if file matches one of the exclude patterns.
func (cfg *Config) Excluded(file string) bool {
	file = filepath.ToSlash(filepath.Clean(file))
	for _, pattern := range cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, file); ok {
			return true
		}
	}
	return false
}

func (cfg *Config) options() Options {
	return Options{
		IgnoreGuarded: cfg.IgnoreGuarded,
	}
}
