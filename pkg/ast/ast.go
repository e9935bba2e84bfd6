// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package ast parses and formats the subset of Python source that the match
// exhaustiveness checker inspects.
package ast

// Pos represents source info for AST nodes.
type Pos struct {
	File string
	Off  int // byte offset, starting at 0
	Line int // line number, starting at 1
	Col  int // column number, starting at 1 (byte count)
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a node that can appear in a case clause of a match statement.
type Pattern interface {
	Node
	patternNode()
}

// File is the root of a parsed source file.
type File struct {
	Pos  Pos
	Name string
	Body []Stmt
}

// Statements:

type ClassDef struct {
	Pos        Pos
	Name       *Ident
	Bases      []Expr
	Keywords   []*Keyword
	Decorators []Expr
	Body       []Stmt
}

type FunctionDef struct {
	Pos        Pos
	Name       *Ident
	Async      bool
	Params     []*Param
	Returns    Expr
	Decorators []Expr
	Body       []Stmt
}

// Param is a function or lambda parameter.
// Bare "*" and "/" separators have an empty Name.
type Param struct {
	Pos        Pos
	Name       string
	Star       string // "", "*", "**" or "/"
	Annotation Expr
	Default    Expr
}

// Assign is "a = b = value". Tuple unpacking keeps the tuple as a single target.
type Assign struct {
	Pos     Pos
	Targets []Expr
	Value   Expr
}

type AnnAssign struct {
	Pos        Pos
	Target     Expr
	Annotation Expr
	Value      Expr // nil for a bare declaration
}

type AugAssign struct {
	Pos    Pos
	Target Expr
	Op     string
	Value  Expr
}

type ExprStmt struct {
	Pos   Pos
	Value Expr
}

type Pass struct {
	Pos Pos
}

type Return struct {
	Pos   Pos
	Value Expr
}

type Import struct {
	Pos   Pos
	Names []*Alias
}

type ImportFrom struct {
	Pos    Pos
	Module string // including leading dots of relative imports
	Names  []*Alias
}

type Alias struct {
	Pos    Pos
	Name   string
	AsName string
}

type If struct {
	Pos    Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type For struct {
	Pos    Pos
	Async  bool
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type While struct {
	Pos    Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Pos   Pos
	Async bool
	Items []*WithItem
	Body  []Stmt
}

type WithItem struct {
	Pos     Pos
	Context Expr
	Target  Expr
}

type Try struct {
	Pos       Pos
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

type ExceptHandler struct {
	Pos  Pos
	Type Expr
	Name string
	Body []Stmt
}

// KeywordStmt covers the simple statements the checker never looks into:
// break, continue, raise, del, assert, global and nonlocal.
type KeywordStmt struct {
	Pos     Pos
	Keyword string
	Values  []Expr
}

type Match struct {
	Pos     Pos
	Subject Expr
	Cases   []*MatchCase
}

type MatchCase struct {
	Pos     Pos
	Pattern Pattern
	Guard   Expr
	Body    []Stmt
}

// Patterns:

// MatchValue matches by equality against a literal or a dotted name (e.g. Color.RED).
type MatchValue struct {
	Pos   Pos
	Value Expr
}

// MatchSingleton matches None, True or False.
type MatchSingleton struct {
	Pos   Pos
	Value string
}

// MatchAs is a capture pattern ("x"), an as-pattern ("p as x")
// or the wildcard "_" when both Pattern and Name are empty.
type MatchAs struct {
	Pos     Pos
	Pattern Pattern
	Name    string
}

type MatchOr struct {
	Pos      Pos
	Patterns []Pattern
}

type MatchSequence struct {
	Pos      Pos
	Patterns []Pattern
}

// MatchStar is "*name" inside a sequence pattern; "*_" has an empty Name.
type MatchStar struct {
	Pos  Pos
	Name string
}

type MatchMapping struct {
	Pos      Pos
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

type MatchClass struct {
	Pos         Pos
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// Expressions:

// Ident is a name in a declaration position (class or function name).
type Ident struct {
	Pos  Pos
	Name string
}

type Name struct {
	Pos Pos
	Id  string
}

type Attribute struct {
	Pos   Pos
	Value Expr
	Attr  string
}

type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstKeyword // None, True, False
	ConstEllipsis
)

// Constant holds the literal source text, quotes and prefixes included.
type Constant struct {
	Pos   Pos
	Kind  ConstKind
	Value string
}

type Call struct {
	Pos  Pos
	Func Expr
	Args []Expr // *Keyword and *Starred for keyword and unpacked arguments
}

type Keyword struct {
	Pos   Pos
	Arg   string
	Value Expr
}

type Starred struct {
	Pos    Pos
	Value  Expr
	Double bool
}

type Subscript struct {
	Pos   Pos
	Value Expr
	Index []Expr
}

type Slice struct {
	Pos   Pos
	Lower Expr
	Upper Expr
	Step  Expr
}

type Tuple struct {
	Pos  Pos
	Elts []Expr
}

type List struct {
	Pos  Pos
	Elts []Expr
}

type Set struct {
	Pos  Pos
	Elts []Expr
}

// Dict keys are nil for "**mapping" entries.
type Dict struct {
	Pos    Pos
	Keys   []Expr
	Values []Expr
}

type UnaryOp struct {
	Pos     Pos
	Op      string
	Operand Expr
}

// BinOp is any infix form. Operators are kept as source text and no precedence
// is applied: comparisons, boolean operators, conditional expressions and
// comprehension clauses all chain left to right.
type BinOp struct {
	Pos   Pos
	Left  Expr
	Op    string
	Right Expr
}

type Lambda struct {
	Pos    Pos
	Params []*Param
	Body   Expr
}

func (n *File) Position() Pos           { return n.Pos }
func (n *ClassDef) Position() Pos       { return n.Pos }
func (n *FunctionDef) Position() Pos    { return n.Pos }
func (n *Param) Position() Pos          { return n.Pos }
func (n *Assign) Position() Pos         { return n.Pos }
func (n *AnnAssign) Position() Pos      { return n.Pos }
func (n *AugAssign) Position() Pos      { return n.Pos }
func (n *ExprStmt) Position() Pos       { return n.Pos }
func (n *Pass) Position() Pos           { return n.Pos }
func (n *Return) Position() Pos         { return n.Pos }
func (n *Import) Position() Pos         { return n.Pos }
func (n *ImportFrom) Position() Pos     { return n.Pos }
func (n *Alias) Position() Pos          { return n.Pos }
func (n *If) Position() Pos             { return n.Pos }
func (n *For) Position() Pos            { return n.Pos }
func (n *While) Position() Pos          { return n.Pos }
func (n *With) Position() Pos           { return n.Pos }
func (n *WithItem) Position() Pos       { return n.Pos }
func (n *Try) Position() Pos            { return n.Pos }
func (n *ExceptHandler) Position() Pos  { return n.Pos }
func (n *KeywordStmt) Position() Pos    { return n.Pos }
func (n *Match) Position() Pos          { return n.Pos }
func (n *MatchCase) Position() Pos      { return n.Pos }
func (n *MatchValue) Position() Pos     { return n.Pos }
func (n *MatchSingleton) Position() Pos { return n.Pos }
func (n *MatchAs) Position() Pos        { return n.Pos }
func (n *MatchOr) Position() Pos        { return n.Pos }
func (n *MatchSequence) Position() Pos  { return n.Pos }
func (n *MatchStar) Position() Pos      { return n.Pos }
func (n *MatchMapping) Position() Pos   { return n.Pos }
func (n *MatchClass) Position() Pos     { return n.Pos }
func (n *Ident) Position() Pos          { return n.Pos }
func (n *Name) Position() Pos           { return n.Pos }
func (n *Attribute) Position() Pos      { return n.Pos }
func (n *Constant) Position() Pos       { return n.Pos }
func (n *Call) Position() Pos           { return n.Pos }
func (n *Keyword) Position() Pos        { return n.Pos }
func (n *Starred) Position() Pos        { return n.Pos }
func (n *Subscript) Position() Pos      { return n.Pos }
func (n *Slice) Position() Pos          { return n.Pos }
func (n *Tuple) Position() Pos          { return n.Pos }
func (n *List) Position() Pos           { return n.Pos }
func (n *Set) Position() Pos            { return n.Pos }
func (n *Dict) Position() Pos           { return n.Pos }
func (n *UnaryOp) Position() Pos        { return n.Pos }
func (n *BinOp) Position() Pos          { return n.Pos }
func (n *Lambda) Position() Pos         { return n.Pos }

func (*ClassDef) stmtNode()    {}
func (*FunctionDef) stmtNode() {}
func (*Assign) stmtNode()      {}
func (*AnnAssign) stmtNode()   {}
func (*AugAssign) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Return) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*With) stmtNode()        {}
func (*Try) stmtNode()         {}
func (*KeywordStmt) stmtNode() {}
func (*Match) stmtNode()       {}

func (*MatchValue) patternNode()     {}
func (*MatchSingleton) patternNode() {}
func (*MatchAs) patternNode()        {}
func (*MatchOr) patternNode()        {}
func (*MatchSequence) patternNode()  {}
func (*MatchStar) patternNode()      {}
func (*MatchMapping) patternNode()   {}
func (*MatchClass) patternNode()     {}

func (*Name) exprNode()      {}
func (*Attribute) exprNode() {}
func (*Constant) exprNode()  {}
func (*Call) exprNode()      {}
func (*Keyword) exprNode()   {}
func (*Starred) exprNode()   {}
func (*Subscript) exprNode() {}
func (*Slice) exprNode()     {}
func (*Tuple) exprNode()     {}
func (*List) exprNode()      {}
func (*Set) exprNode()       {}
func (*Dict) exprNode()      {}
func (*UnaryOp) exprNode()   {}
func (*BinOp) exprNode()     {}
func (*Lambda) exprNode()    {}

// IsWildcard says if the pattern is the bare "_" catch-all.
func (n *MatchAs) IsWildcard() bool {
	return n.Pattern == nil && n.Name == ""
}
