// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"github.com/mexcheck/mexcheck/pkg/ast"
)

// Identity of the checker as seen by linter hosts.
const (
	Name    = "flake8-match-exhaustiveness"
	Version = "0.1.0"
)

// Factory creates a checker for one parsed file.
type Factory func(file *ast.File, cfg *Config) *Checker

// Host is a linter that loads checkers.
type Host interface {
	RegisterChecker(name, version string, factory Factory)
}

// Register registers the checker with host.
func Register(host Host) {
	host.RegisterChecker(Name, Version, NewChecker)
}
