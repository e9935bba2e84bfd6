// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"strings"

	"github.com/mexcheck/mexcheck/pkg/ast"
	"github.com/mexcheck/mexcheck/pkg/log"
)

// Bindings maps match statements to the enum their subject is declared as.
// A subject is declared by a parameter annotation of the nearest enclosing
// function ("def f(c: Colors)") or an annotated assignment ("c: Colors = ...")
// in the same scope.
type Bindings struct {
	reg   *Registry
	bound map[*ast.Match]*EnumDef
}

// Bind resolves subjects of all match statements in file against reg.
func Bind(file *ast.File, reg *Registry) *Bindings {
	b := &binder{
		reg:   reg,
		bound: make(map[*ast.Match]*EnumDef),
	}
	module := newScope(nil, false)
	b.collect(file.Body, module)
	b.bindStmts(file.Body, module)
	return &Bindings{
		reg:   reg,
		bound: b.bound,
	}
}

// Lookup returns the enum bound to the subject of m, or nil.
func (bs *Bindings) Lookup(m *ast.Match) *EnumDef {
	return bs.bound[m]
}

// Candidates returns enums the subject of m is checked against:
// the bound enum if there is one, otherwise all registered enums.
func (bs *Bindings) Candidates(m *ast.Match) []*EnumDef {
	if def := bs.bound[m]; def != nil {
		return []*EnumDef{def}
	}
	return bs.reg.Enums()
}

type binder struct {
	reg   *Registry
	bound map[*ast.Match]*EnumDef
}

// scope holds declared names of a module, function or class body.
// A nil value means the name is declared with a type that is not a known enum,
// which hides declarations from outer scopes.
type scope struct {
	parent *scope
	class  bool
	vars   map[string]*EnumDef
}

func newScope(parent *scope, class bool) *scope {
	return &scope{
		parent: parent,
		class:  class,
		vars:   make(map[string]*EnumDef),
	}
}

// declare records a declaration. Conflicting declarations make the name ambiguous.
func (sc *scope) declare(name string, def *EnumDef) {
	if prev, ok := sc.vars[name]; ok && prev != def {
		def = nil
	}
	sc.vars[name] = def
}

func (sc *scope) lookup(name string) *EnumDef {
	for ; sc != nil; sc = sc.parent {
		if def, ok := sc.vars[name]; ok {
			return def
		}
	}
	return nil
}

// enclosingFunction returns the scope visible from a function defined in sc.
// Class bodies are not visible from their methods.
func (sc *scope) enclosingFunction() *scope {
	for sc != nil && sc.class {
		sc = sc.parent
	}
	return sc
}

// resolve returns the enum named by an annotation: Colors, mod.Colors or "Colors".
func (b *binder) resolve(annotation ast.Expr) *EnumDef {
	switch ann := annotation.(type) {
	case *ast.Name:
		return b.reg.Lookup(ann.Id)
	case *ast.Attribute:
		return b.reg.Lookup(ann.Attr)
	case *ast.Constant:
		if ann.Kind == ast.ConstString {
			return b.reg.Lookup(strings.Trim(ann.Value, `"'`))
		}
	}
	return nil
}

// collect declares annotated names of a body in sc.
// Nested functions and classes have their own scopes and are skipped.
func (b *binder) collect(stmts []ast.Stmt, sc *scope) {
	for _, s := range stmts {
		forEachBlock(s, func(body []ast.Stmt) {
			b.collect(body, sc)
		})
		if ann, ok := s.(*ast.AnnAssign); ok {
			if name, ok := ann.Target.(*ast.Name); ok {
				sc.declare(name.Id, b.resolve(ann.Annotation))
			}
		}
	}
}

func (b *binder) bindStmts(stmts []ast.Stmt, sc *scope) {
	for _, s := range stmts {
		b.bindStmt(s, sc)
	}
}

func (b *binder) bindStmt(s0 ast.Stmt, sc *scope) {
	switch s := s0.(type) {
	case *ast.FunctionDef:
		fn := newScope(sc.enclosingFunction(), false)
		for _, prm := range s.Params {
			if prm.Name != "" {
				fn.declare(prm.Name, b.resolve(prm.Annotation))
			}
		}
		b.collect(s.Body, fn)
		b.bindStmts(s.Body, fn)
	case *ast.ClassDef:
		cls := newScope(sc, true)
		b.collect(s.Body, cls)
		b.bindStmts(s.Body, cls)
	case *ast.Match:
		if name, ok := s.Subject.(*ast.Name); ok {
			if def := sc.lookup(name.Id); def != nil {
				log.Logf(2, "%v: subject %v is bound to enum %v", s.Pos, name.Id, def.Name)
				b.bound[s] = def
			}
		}
		forEachBlock(s, func(body []ast.Stmt) {
			b.bindStmts(body, sc)
		})
	default:
		forEachBlock(s, func(body []ast.Stmt) {
			b.bindStmts(body, sc)
		})
	}
}

// forEachBlock calls fn for every statement block nested in a compound
// statement that belongs to the same scope.
func forEachBlock(s0 ast.Stmt, fn func([]ast.Stmt)) {
	switch s := s0.(type) {
	case *ast.If:
		fn(s.Body)
		fn(s.Orelse)
	case *ast.For:
		fn(s.Body)
		fn(s.Orelse)
	case *ast.While:
		fn(s.Body)
		fn(s.Orelse)
	case *ast.With:
		fn(s.Body)
	case *ast.Try:
		fn(s.Body)
		for _, h := range s.Handlers {
			fn(h.Body)
		}
		fn(s.Orelse)
		fn(s.Finalbody)
	case *ast.Match:
		for _, c := range s.Cases {
			fn(c.Body)
		}
	}
}
