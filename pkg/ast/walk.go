// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ast

import (
	"fmt"
)

// Walk calls callback cb for every node in AST in pre-order.
func Walk(file *File, cb func(n Node)) {
	WalkNode(file, cb)
}

func WalkNode(n0 Node, cb func(n Node)) {
	switch n := n0.(type) {
	case *File:
		cb(n)
		walkStmts(n.Body, cb)
	case *ClassDef:
		cb(n)
		walkExprs(n.Decorators, cb)
		WalkNode(n.Name, cb)
		walkExprs(n.Bases, cb)
		for _, kw := range n.Keywords {
			WalkNode(kw, cb)
		}
		walkStmts(n.Body, cb)
	case *FunctionDef:
		cb(n)
		walkExprs(n.Decorators, cb)
		WalkNode(n.Name, cb)
		for _, prm := range n.Params {
			WalkNode(prm, cb)
		}
		walkOptional(n.Returns, cb)
		walkStmts(n.Body, cb)
	case *Param:
		cb(n)
		walkOptional(n.Annotation, cb)
		walkOptional(n.Default, cb)
	case *Assign:
		cb(n)
		walkExprs(n.Targets, cb)
		WalkNode(n.Value, cb)
	case *AnnAssign:
		cb(n)
		WalkNode(n.Target, cb)
		WalkNode(n.Annotation, cb)
		walkOptional(n.Value, cb)
	case *AugAssign:
		cb(n)
		WalkNode(n.Target, cb)
		WalkNode(n.Value, cb)
	case *ExprStmt:
		cb(n)
		WalkNode(n.Value, cb)
	case *Pass:
		cb(n)
	case *Return:
		cb(n)
		walkOptional(n.Value, cb)
	case *Import:
		cb(n)
		for _, a := range n.Names {
			WalkNode(a, cb)
		}
	case *ImportFrom:
		cb(n)
		for _, a := range n.Names {
			WalkNode(a, cb)
		}
	case *Alias:
		cb(n)
	case *If:
		cb(n)
		WalkNode(n.Test, cb)
		walkStmts(n.Body, cb)
		walkStmts(n.Orelse, cb)
	case *For:
		cb(n)
		WalkNode(n.Target, cb)
		WalkNode(n.Iter, cb)
		walkStmts(n.Body, cb)
		walkStmts(n.Orelse, cb)
	case *While:
		cb(n)
		WalkNode(n.Test, cb)
		walkStmts(n.Body, cb)
		walkStmts(n.Orelse, cb)
	case *With:
		cb(n)
		for _, item := range n.Items {
			WalkNode(item, cb)
		}
		walkStmts(n.Body, cb)
	case *WithItem:
		cb(n)
		WalkNode(n.Context, cb)
		walkOptional(n.Target, cb)
	case *Try:
		cb(n)
		walkStmts(n.Body, cb)
		for _, h := range n.Handlers {
			WalkNode(h, cb)
		}
		walkStmts(n.Orelse, cb)
		walkStmts(n.Finalbody, cb)
	case *ExceptHandler:
		cb(n)
		walkOptional(n.Type, cb)
		walkStmts(n.Body, cb)
	case *KeywordStmt:
		cb(n)
		walkExprs(n.Values, cb)
	case *Match:
		cb(n)
		WalkNode(n.Subject, cb)
		for _, c := range n.Cases {
			WalkNode(c, cb)
		}
	case *MatchCase:
		cb(n)
		WalkNode(n.Pattern, cb)
		walkOptional(n.Guard, cb)
		walkStmts(n.Body, cb)
	case *MatchValue:
		cb(n)
		WalkNode(n.Value, cb)
	case *MatchSingleton:
		cb(n)
	case *MatchAs:
		cb(n)
		if n.Pattern != nil {
			WalkNode(n.Pattern, cb)
		}
	case *MatchOr:
		cb(n)
		walkPatterns(n.Patterns, cb)
	case *MatchSequence:
		cb(n)
		walkPatterns(n.Patterns, cb)
	case *MatchStar:
		cb(n)
	case *MatchMapping:
		cb(n)
		walkExprs(n.Keys, cb)
		walkPatterns(n.Patterns, cb)
	case *MatchClass:
		cb(n)
		WalkNode(n.Cls, cb)
		walkPatterns(n.Patterns, cb)
		walkPatterns(n.KwdPatterns, cb)
	case *Ident:
		cb(n)
	case *Name:
		cb(n)
	case *Attribute:
		cb(n)
		WalkNode(n.Value, cb)
	case *Constant:
		cb(n)
	case *Call:
		cb(n)
		WalkNode(n.Func, cb)
		walkExprs(n.Args, cb)
	case *Keyword:
		cb(n)
		WalkNode(n.Value, cb)
	case *Starred:
		cb(n)
		WalkNode(n.Value, cb)
	case *Subscript:
		cb(n)
		WalkNode(n.Value, cb)
		walkExprs(n.Index, cb)
	case *Slice:
		cb(n)
		walkOptional(n.Lower, cb)
		walkOptional(n.Upper, cb)
		walkOptional(n.Step, cb)
	case *Tuple:
		cb(n)
		walkExprs(n.Elts, cb)
	case *List:
		cb(n)
		walkExprs(n.Elts, cb)
	case *Set:
		cb(n)
		walkExprs(n.Elts, cb)
	case *Dict:
		cb(n)
		for i, k := range n.Keys {
			walkOptional(k, cb)
			WalkNode(n.Values[i], cb)
		}
	case *UnaryOp:
		cb(n)
		walkOptional(n.Operand, cb)
	case *BinOp:
		cb(n)
		WalkNode(n.Left, cb)
		WalkNode(n.Right, cb)
	case *Lambda:
		cb(n)
		for _, prm := range n.Params {
			WalkNode(prm, cb)
		}
		WalkNode(n.Body, cb)
	default:
		panic(fmt.Sprintf("unknown AST node: %#v", n))
	}
}

func walkStmts(stmts []Stmt, cb func(n Node)) {
	for _, s := range stmts {
		WalkNode(s, cb)
	}
}

func walkExprs(exprs []Expr, cb func(n Node)) {
	for _, e := range exprs {
		WalkNode(e, cb)
	}
}

func walkPatterns(patterns []Pattern, cb func(n Node)) {
	for _, p := range patterns {
		WalkNode(p, cb)
	}
}

// walkOptional skips nil expressions stored in an interface field.
func walkOptional(e Expr, cb func(n Node)) {
	if e != nil {
		WalkNode(e, cb)
	}
}
