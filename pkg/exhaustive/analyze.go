// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"github.com/mexcheck/mexcheck/pkg/ast"
)

type ArmKind int

const (
	// OtherArm is any arm that is not inspected further: literals, captures,
	// sequences, class patterns, or-patterns and guarded wildcards.
	OtherArm ArmKind = iota
	// ValueArm matches a dotted name, e.g. "case Colors.RED:".
	ValueArm
	// WildcardArm is an unguarded "case _:".
	WildcardArm
)

func (kind ArmKind) String() string {
	switch kind {
	case ValueArm:
		return "value"
	case WildcardArm:
		return "wildcard"
	}
	return "other"
}

// Arm is a classified case of a match statement.
type Arm struct {
	Kind    ArmKind
	Member  string // referenced attribute for ValueArm
	Guarded bool
}

// ClassifyArm classifies one case of a match statement.
// Only a lone dotted name is a ValueArm: "case Colors.RED | Colors.GREEN:"
// is an OtherArm and covers no members.
func ClassifyArm(c *ast.MatchCase) Arm {
	arm := Arm{Guarded: c.Guard != nil}
	switch pat := c.Pattern.(type) {
	case *ast.MatchValue:
		if attr, ok := pat.Value.(*ast.Attribute); ok {
			arm.Kind = ValueArm
			arm.Member = attr.Attr
		}
	case *ast.MatchAs:
		if pat.IsWildcard() && !arm.Guarded {
			arm.Kind = WildcardArm
		}
	}
	return arm
}

type Options struct {
	// IgnoreGuarded excludes value arms with a guard from the covered members.
	IgnoreGuarded bool
}

// Result is the outcome of Analyze.
// A non-exhaustive result with empty Enum comes from the generic path
// and carries no missing members.
type Result struct {
	Exhaustive bool
	Enum       string
	Missing    []string
}

// Analyze decides if m covers all members of its subject's enum.
//
// A match with an unguarded wildcard arm is always exhaustive.
// If the subject is a bare name, members referenced by value arms are compared
// with every candidate enum in order, and the first enum with missing members
// makes the match non-exhaustive. A bare-name subject with candidates that are
// all fully covered is exhaustive. Otherwise the match is non-exhaustive with
// no member list. Enums without members never decide the outcome.
func Analyze(m *ast.Match, candidates []*EnumDef, opts Options) Result {
	arms := make([]Arm, len(m.Cases))
	for i, c := range m.Cases {
		arms[i] = ClassifyArm(c)
		if arms[i].Kind == WildcardArm {
			return Result{Exhaustive: true}
		}
	}
	if _, ok := m.Subject.(*ast.Name); !ok {
		return Result{}
	}
	matched := make(map[string]bool)
	for _, arm := range arms {
		if arm.Kind != ValueArm || arm.Guarded && opts.IgnoreGuarded {
			continue
		}
		matched[arm.Member] = true
	}
	decided := false
	for _, def := range candidates {
		if len(def.Members) == 0 {
			continue
		}
		decided = true
		if missing := def.missing(matched); len(missing) != 0 {
			return Result{Enum: def.Name, Missing: missing}
		}
	}
	return Result{Exhaustive: decided}
}
