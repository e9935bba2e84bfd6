// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"context"

	"github.com/mexcheck/mexcheck/pkg/ast"
	"github.com/mexcheck/mexcheck/pkg/log"
	"github.com/mexcheck/mexcheck/pkg/stats"
	"golang.org/x/sync/errgroup"
)

var (
	statMatches = stats.Create("matches", "Match statements analyzed",
		stats.Console, stats.Prometheus("mex_matches_checked"))
	statDiagnostics = stats.Create("diagnostics", "Non-exhaustive match statements",
		stats.Console, stats.Prometheus("mex_diagnostics"))
	statArms = stats.Create("arms", "Arms per match statement",
		stats.Distribution{}, stats.Prometheus("mex_arms_per_match"))
)

// Checker finds non-exhaustive match statements in one parsed file.
// The enum registry and subject bindings are built once in NewChecker.
type Checker struct {
	file     *ast.File
	cfg      *Config
	reg      *Registry
	bindings *Bindings
	matches  []*ast.Match
}

func NewChecker(file *ast.File, cfg *Config) *Checker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ch := &Checker{
		file: file,
		cfg:  cfg,
		reg:  BuildRegistry(file),
	}
	if cfg.BindSubjects {
		ch.bindings = Bind(file, ch.reg)
	}
	ast.Walk(file, func(n ast.Node) {
		if m, ok := n.(*ast.Match); ok {
			ch.matches = append(ch.matches, m)
		}
	})
	log.Logf(1, "%v: %v enums, %v match statements", file.Name, ch.reg.Len(), len(ch.matches))
	return ch
}

func (ch *Checker) Registry() *Registry {
	return ch.reg
}

// Matches returns match statements of the file in pre-order.
func (ch *Checker) Matches() []*ast.Match {
	return ch.matches
}

func (ch *Checker) candidates(m *ast.Match) []*EnumDef {
	if ch.bindings != nil {
		return ch.bindings.Candidates(m)
	}
	return ch.reg.Enums()
}

func (ch *Checker) check(m *ast.Match) *Diagnostic {
	statMatches.Add(1)
	statArms.Add(len(m.Cases))
	res := Analyze(m, ch.candidates(m), ch.cfg.options())
	if res.Exhaustive {
		return nil
	}
	statDiagnostics.Add(1)
	return newDiagnostic(m, res)
}

// Run analyzes every match statement and returns a diagnostic for each
// non-exhaustive one, in source order.
func (ch *Checker) Run() []*Diagnostic {
	var diags []*Diagnostic
	for _, m := range ch.matches {
		if diag := ch.check(m); diag != nil {
			diags = append(diags, diag)
		}
	}
	return diags
}

// CheckParallel is Run that analyzes up to procs match statements concurrently.
// The result is the same as Run's.
func (ch *Checker) CheckParallel(ctx context.Context, procs int) ([]*Diagnostic, error) {
	results := make([]*Diagnostic, len(ch.matches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(procs, 1))
	for i, m := range ch.matches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ch.check(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var diags []*Diagnostic
	for _, diag := range results {
		if diag != nil {
			diags = append(diags, diag)
		}
	}
	return diags, nil
}
