// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// FormatExpr renders an expression back to source form.
// Parentheses are only emitted for tuples, so the output of nested BinOps
// may not preserve the original grouping.
func FormatExpr(e Expr) string {
	buf := new(bytes.Buffer)
	formatExpr(buf, e)
	return buf.String()
}

// FormatPattern renders a case pattern back to source form.
func FormatPattern(p Pattern) string {
	buf := new(bytes.Buffer)
	formatPattern(buf, p)
	return buf.String()
}

func formatExpr(w io.Writer, e0 Expr) {
	switch e := e0.(type) {
	case nil:
	case *Name:
		fmt.Fprintf(w, "%v", e.Id)
	case *Attribute:
		formatExpr(w, e.Value)
		fmt.Fprintf(w, ".%v", e.Attr)
	case *Constant:
		fmt.Fprintf(w, "%v", e.Value)
	case *Call:
		formatExpr(w, e.Func)
		fmt.Fprintf(w, "(")
		formatExprList(w, e.Args)
		fmt.Fprintf(w, ")")
	case *Keyword:
		fmt.Fprintf(w, "%v=", e.Arg)
		formatExpr(w, e.Value)
	case *Starred:
		if e.Double {
			fmt.Fprintf(w, "**")
		} else {
			fmt.Fprintf(w, "*")
		}
		formatExpr(w, e.Value)
	case *Subscript:
		formatExpr(w, e.Value)
		fmt.Fprintf(w, "[")
		formatExprList(w, e.Index)
		fmt.Fprintf(w, "]")
	case *Slice:
		formatExpr(w, e.Lower)
		fmt.Fprintf(w, ":")
		formatExpr(w, e.Upper)
		if e.Step != nil {
			fmt.Fprintf(w, ":")
			formatExpr(w, e.Step)
		}
	case *Tuple:
		fmt.Fprintf(w, "(")
		formatExprList(w, e.Elts)
		if len(e.Elts) == 1 {
			fmt.Fprintf(w, ",")
		}
		fmt.Fprintf(w, ")")
	case *List:
		fmt.Fprintf(w, "[")
		formatExprList(w, e.Elts)
		fmt.Fprintf(w, "]")
	case *Set:
		fmt.Fprintf(w, "{")
		formatExprList(w, e.Elts)
		fmt.Fprintf(w, "}")
	case *Dict:
		fmt.Fprintf(w, "{")
		for i, k := range e.Keys {
			if i != 0 {
				fmt.Fprintf(w, ", ")
			}
			if k == nil {
				fmt.Fprintf(w, "**")
			} else {
				formatExpr(w, k)
				fmt.Fprintf(w, ": ")
			}
			formatExpr(w, e.Values[i])
		}
		fmt.Fprintf(w, "}")
	case *UnaryOp:
		fmt.Fprintf(w, "%v", e.Op)
		if e.Operand != nil && isWordOp(e.Op) {
			fmt.Fprintf(w, " ")
		}
		formatExpr(w, e.Operand)
	case *BinOp:
		formatExpr(w, e.Left)
		fmt.Fprintf(w, " %v ", e.Op)
		formatExpr(w, e.Right)
	case *Lambda:
		fmt.Fprintf(w, "lambda")
		if len(e.Params) != 0 {
			fmt.Fprintf(w, " ")
			formatParams(w, e.Params)
		}
		fmt.Fprintf(w, ": ")
		formatExpr(w, e.Body)
	default:
		panic(fmt.Sprintf("unknown expression: %#v", e))
	}
}

func formatExprList(w io.Writer, exprs []Expr) {
	for i, e := range exprs {
		if i != 0 {
			fmt.Fprintf(w, ", ")
		}
		formatExpr(w, e)
	}
}

func formatParams(w io.Writer, params []*Param) {
	for i, prm := range params {
		if i != 0 {
			fmt.Fprintf(w, ", ")
		}
		fmt.Fprintf(w, "%v%v", prm.Star, prm.Name)
		if prm.Annotation != nil {
			fmt.Fprintf(w, ": ")
			formatExpr(w, prm.Annotation)
		}
		if prm.Default != nil {
			fmt.Fprintf(w, "=")
			formatExpr(w, prm.Default)
		}
	}
}

func isWordOp(op string) bool {
	return op != "" && op[0] >= 'a' && op[0] <= 'z'
}

func formatPattern(w io.Writer, p0 Pattern) {
	switch p := p0.(type) {
	case *MatchValue:
		formatExpr(w, p.Value)
	case *MatchSingleton:
		fmt.Fprintf(w, "%v", p.Value)
	case *MatchAs:
		switch {
		case p.IsWildcard():
			fmt.Fprintf(w, "_")
		case p.Pattern == nil:
			fmt.Fprintf(w, "%v", p.Name)
		default:
			formatPattern(w, p.Pattern)
			fmt.Fprintf(w, " as %v", p.Name)
		}
	case *MatchOr:
		for i, alt := range p.Patterns {
			if i != 0 {
				fmt.Fprintf(w, " | ")
			}
			formatPattern(w, alt)
		}
	case *MatchSequence:
		fmt.Fprintf(w, "[")
		formatPatternList(w, p.Patterns)
		fmt.Fprintf(w, "]")
	case *MatchStar:
		name := p.Name
		if name == "" {
			name = "_"
		}
		fmt.Fprintf(w, "*%v", name)
	case *MatchMapping:
		var items []string
		for i, k := range p.Keys {
			items = append(items, FormatExpr(k)+": "+FormatPattern(p.Patterns[i]))
		}
		if p.Rest != "" {
			items = append(items, "**"+p.Rest)
		}
		fmt.Fprintf(w, "{%v}", strings.Join(items, ", "))
	case *MatchClass:
		formatExpr(w, p.Cls)
		fmt.Fprintf(w, "(")
		formatPatternList(w, p.Patterns)
		for i, attr := range p.KwdAttrs {
			if i != 0 || len(p.Patterns) != 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%v=", attr)
			formatPattern(w, p.KwdPatterns[i])
		}
		fmt.Fprintf(w, ")")
	default:
		panic(fmt.Sprintf("unknown pattern: %#v", p))
	}
}

func formatPatternList(w io.Writer, patterns []Pattern) {
	for i, p := range patterns {
		if i != 0 {
			fmt.Fprintf(w, ", ")
		}
		formatPattern(w, p)
	}
}
