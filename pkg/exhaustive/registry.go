// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package exhaustive checks that match statements over enum values handle
// every member of the enum.
//
// Overview of the checking process:
//  1. BuildRegistry collects enum classes (classes with the bare base Enum)
//     and their members from the whole file.
//  2. Bind optionally resolves match subjects to the enum they are annotated with.
//  3. Analyze classifies the arms of every match statement and compares the
//     covered members with the candidate enums.
//  4. Checker turns non-exhaustive results into MEX001 diagnostics.
package exhaustive

import (
	"sort"

	"github.com/mexcheck/mexcheck/pkg/ast"
	"github.com/mexcheck/mexcheck/pkg/log"
)

// EnumDef is an enum class and its members in declaration order.
type EnumDef struct {
	Name    string
	Pos     ast.Pos
	Members []string
	members map[string]bool
}

func (def *EnumDef) Has(member string) bool {
	return def.members[member]
}

// missing returns declared members not present in matched, sorted.
func (def *EnumDef) missing(matched map[string]bool) []string {
	var res []string
	for _, member := range def.Members {
		if !matched[member] {
			res = append(res, member)
		}
	}
	sort.Strings(res)
	return res
}

// Registry maps bare enum class names to their definitions.
// It is immutable after BuildRegistry and safe for concurrent use.
type Registry struct {
	enums map[string]*EnumDef
	order []string
}

// BuildRegistry collects enum classes defined anywhere in file.
// If several classes share a name, the last definition wins,
// but the name keeps the place of the first one in Enums order.
func BuildRegistry(file *ast.File) *Registry {
	reg := &Registry{
		enums: make(map[string]*EnumDef),
	}
	ast.Walk(file, func(n ast.Node) {
		cls, ok := n.(*ast.ClassDef)
		if !ok || !isEnumClass(cls) {
			return
		}
		def := newEnumDef(cls)
		if prev := reg.enums[def.Name]; prev != nil {
			log.Logf(1, "%v: enum %v redefines enum declared at %v", def.Pos, def.Name, prev.Pos)
		} else {
			reg.order = append(reg.order, def.Name)
		}
		reg.enums[def.Name] = def
		log.Logf(2, "%v: enum %v with %v members", def.Pos, def.Name, len(def.Members))
	})
	return reg
}

func isEnumClass(cls *ast.ClassDef) bool {
	for _, base := range cls.Bases {
		if name, ok := base.(*ast.Name); ok && name.Id == "Enum" {
			return true
		}
	}
	return false
}

// newEnumDef takes members from plain single-target assignments to a bare
// name directly in the class body. Other statements are not members.
func newEnumDef(cls *ast.ClassDef) *EnumDef {
	def := &EnumDef{
		Name:    cls.Name.Name,
		Pos:     cls.Pos,
		members: make(map[string]bool),
	}
	for _, stmt := range cls.Body {
		assign, ok := stmt.(*ast.Assign)
		if !ok || len(assign.Targets) != 1 {
			continue
		}
		target, ok := assign.Targets[0].(*ast.Name)
		if !ok || def.members[target.Id] {
			continue
		}
		def.members[target.Id] = true
		def.Members = append(def.Members, target.Id)
	}
	return def
}

// Lookup returns the enum with the given name, or nil.
func (reg *Registry) Lookup(name string) *EnumDef {
	return reg.enums[name]
}

// Enums returns all enums in the order their names were first defined.
func (reg *Registry) Enums() []*EnumDef {
	res := make([]*EnumDef, 0, len(reg.order))
	for _, name := range reg.order {
		res = append(res, reg.enums[name])
	}
	return res
}

func (reg *Registry) Len() int {
	return len(reg.order)
}
