// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ast

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parse parses a source file into AST.
// If any errors are encountered, returns nil.
func Parse(data []byte, filename string, errorHandler ErrorHandler) *File {
	p := newParser(data, filename, errorHandler)
	file := &File{
		Pos:  Pos{File: filename, Line: 1, Col: 1},
		Name: filename,
	}
	for p.tok != tokEOF {
		file.Body = append(file.Body, p.parseTopRecover()...)
	}
	if !p.s.Ok() {
		return nil
	}
	return file
}

// ParseGlob parses all files matching glob.
// If any of the files fails to parse, returns nil.
func ParseGlob(glob string, errorHandler ErrorHandler) []*File {
	if errorHandler == nil {
		errorHandler = LoggingHandler
	}
	files, err := filepath.Glob(glob)
	if err != nil {
		errorHandler(Pos{}, fmt.Sprintf("failed to find input files: %v", err))
		return nil
	}
	if len(files) == 0 {
		errorHandler(Pos{}, fmt.Sprintf("no files matched by glob %q", glob))
		return nil
	}
	var res []*File
	ok := true
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			errorHandler(Pos{}, fmt.Sprintf("failed to read input file: %v", err))
			return nil
		}
		file := Parse(data, filepath.Base(f), errorHandler)
		if file == nil {
			ok = false
		}
		res = append(res, file)
	}
	if !ok {
		return nil
	}
	return res
}

// Hard keywords can't be used as names. Soft keywords (match, case, _, type)
// are recognized by position only.
var keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

type tokenInfo struct {
	tok token
	lit string
	pos Pos
}

type parser struct {
	s    *scanner
	toks []tokenInfo
	idx  int

	// Current token:
	tok token
	lit string
	pos Pos

	prev   token
	indent int
	noIn   bool // "in" terminates the expression (for loop targets)
}

func newParser(data []byte, filename string, errorHandler ErrorHandler) *parser {
	p := &parser{s: newScanner(data, filename, errorHandler)}
	for {
		tok, lit, pos := p.s.Scan()
		p.toks = append(p.toks, tokenInfo{tok, lit, pos})
		if tok == tokEOF {
			break
		}
	}
	p.next()
	return p
}

// Skip parsing till the start of the next top-level statement, for error recovery.
var errSkipStmt = errors.New("")

func (p *parser) parseTopRecover() (stmts []Stmt) {
	defer func() {
		switch err := recover(); err {
		case nil:
		case errSkipStmt:
			p.skipStatement()
			stmts = nil
		default:
			panic(err)
		}
	}()
	p.noIn = false
	if p.tok == tokIndent {
		p.fail("unexpected indent")
	}
	return p.parseStatement()
}

func (p *parser) skipStatement() {
	for p.tok != tokEOF {
		p.next()
		if p.indent == 0 && (p.prev == tokNewLine || p.prev == tokDedent) &&
			p.tok != tokIndent && p.tok != tokDedent && p.tok != tokNewLine {
			return
		}
	}
}

func (p *parser) next() {
	p.prev = p.tok
	t := p.toks[min(p.idx, len(p.toks)-1)]
	p.idx++
	p.tok, p.lit, p.pos = t.tok, t.lit, t.pos
	switch p.tok {
	case tokIndent:
		p.indent++
	case tokDedent:
		p.indent--
	}
}

// peek returns the n-th token after the current one.
func (p *parser) peek(n int) tokenInfo {
	return p.toks[min(p.idx-1+n, len(p.toks)-1)]
}

func (p *parser) consume(tok token) {
	p.expect(tok)
	p.next()
}

func (p *parser) tryConsume(tok token) bool {
	if p.tok != tok {
		return false
	}
	p.next()
	return true
}

func (p *parser) expect(tokens ...token) {
	for _, tok := range tokens {
		if p.tok == tok {
			return
		}
	}
	if p.tok == tokIllegal {
		// Scanner has already produced an error for this one.
		panic(errSkipStmt)
	}
	var str []string
	for _, tok := range tokens {
		str = append(str, tok.String())
	}
	p.fail("unexpected %v, expecting %v", p.describe(), strings.Join(str, ", "))
}

func (p *parser) fail(msg string, args ...interface{}) {
	p.s.Error(p.pos, msg, args...)
	panic(errSkipStmt)
}

func (p *parser) describe() string {
	switch p.tok {
	case tokIdent, tokOp, tokAugAssign:
		return fmt.Sprintf("%q", p.lit)
	case tokInt, tokFloat:
		return fmt.Sprintf("%v %v", p.tok, p.lit)
	}
	return p.tok.String()
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok == tokIdent && p.lit == kw
}

func (p *parser) isOp(op string) bool {
	return p.tok == tokOp && p.lit == op
}

func (p *parser) consumeKeyword(kw string) {
	if !p.isKeyword(kw) {
		p.fail("unexpected %v, expecting %q", p.describe(), kw)
	}
	p.next()
}

func (p *parser) parseStatement() []Stmt {
	if p.isOp("@") {
		return []Stmt{p.parseDecorated()}
	}
	if p.tok != tokIdent {
		return p.parseSimpleStatements()
	}
	pos := p.pos
	switch p.lit {
	case "class":
		return []Stmt{p.parseClass(nil)}
	case "def":
		return []Stmt{p.parseDef(pos, nil, false)}
	case "async":
		p.next()
		switch {
		case p.isKeyword("def"):
			return []Stmt{p.parseDef(pos, nil, true)}
		case p.isKeyword("for"):
			return []Stmt{p.parseFor(pos, true)}
		case p.isKeyword("with"):
			return []Stmt{p.parseWith(pos, true)}
		}
		p.fail("unexpected %v after \"async\"", p.describe())
	case "if":
		return []Stmt{p.parseIf()}
	case "for":
		return []Stmt{p.parseFor(pos, false)}
	case "while":
		return []Stmt{p.parseWhile()}
	case "with":
		return []Stmt{p.parseWith(pos, false)}
	case "try":
		return []Stmt{p.parseTry()}
	case "match":
		if p.isMatchStmt() {
			return []Stmt{p.parseMatch()}
		}
	}
	return p.parseSimpleStatements()
}

func (p *parser) parseDecorated() Stmt {
	var decorators []Expr
	for p.isOp("@") {
		p.next()
		decorators = append(decorators, p.parseExpr())
		p.consume(tokNewLine)
	}
	pos := p.pos
	switch {
	case p.isKeyword("class"):
		return p.parseClass(decorators)
	case p.isKeyword("def"):
		return p.parseDef(pos, decorators, false)
	case p.isKeyword("async"):
		p.next()
		return p.parseDef(pos, decorators, true)
	}
	p.fail("unexpected %v, expecting function or class definition", p.describe())
	panic("not reachable")
}

// parseBlock parses the body of a compound statement after the colon:
// either an indented block or simple statements on the same line.
func (p *parser) parseBlock() []Stmt {
	if !p.tryConsume(tokNewLine) {
		return p.parseSimpleStatements()
	}
	if p.tok != tokIndent {
		p.fail("expected an indented block")
	}
	p.next()
	var body []Stmt
	for p.tok != tokDedent && p.tok != tokEOF {
		body = append(body, p.parseStatement()...)
	}
	p.consume(tokDedent)
	return body
}

func (p *parser) parseElse() []Stmt {
	if !p.isKeyword("else") {
		return nil
	}
	p.next()
	p.consume(tokColon)
	return p.parseBlock()
}

func (p *parser) parseClass(decorators []Expr) *ClassDef {
	cls := &ClassDef{
		Pos:        p.pos,
		Decorators: decorators,
	}
	p.consumeKeyword("class")
	cls.Name = p.parseIdent()
	if p.tryConsume(tokLParen) {
		old := p.enterBrackets()
		for p.tok != tokRParen {
			switch arg := p.parseArg().(type) {
			case *Keyword:
				cls.Keywords = append(cls.Keywords, arg)
			default:
				cls.Bases = append(cls.Bases, arg)
			}
			if !p.tryConsume(tokComma) {
				break
			}
		}
		p.noIn = old
		p.consume(tokRParen)
	}
	p.consume(tokColon)
	cls.Body = p.parseBlock()
	return cls
}

func (p *parser) parseDef(pos Pos, decorators []Expr, async bool) *FunctionDef {
	fn := &FunctionDef{
		Pos:        pos,
		Async:      async,
		Decorators: decorators,
	}
	p.consumeKeyword("def")
	fn.Name = p.parseIdent()
	p.consume(tokLParen)
	old := p.enterBrackets()
	fn.Params = p.parseParams(tokRParen, true)
	p.noIn = old
	p.consume(tokRParen)
	if p.tryConsume(tokArrow) {
		fn.Returns = p.parseExpr()
	}
	p.consume(tokColon)
	fn.Body = p.parseBlock()
	return fn
}

func (p *parser) parseParams(closing token, annotations bool) []*Param {
	var params []*Param
	for p.tok != closing {
		prm := &Param{Pos: p.pos}
		if p.isOp("*") || p.isOp("**") || p.isOp("/") {
			prm.Star = p.lit
			p.next()
			if prm.Star != "/" && p.tok == tokIdent {
				prm.Name = p.parseIdent().Name
			}
		} else {
			prm.Name = p.parseIdent().Name
		}
		if annotations && prm.Name != "" && p.tryConsume(tokColon) {
			prm.Annotation = p.parseExpr()
		}
		if prm.Name != "" && p.tryConsume(tokEq) {
			prm.Default = p.parseExpr()
		}
		params = append(params, prm)
		if !p.tryConsume(tokComma) {
			break
		}
	}
	return params
}

// parseIf parses both "if" and "elif" clauses.
func (p *parser) parseIf() *If {
	stmt := &If{Pos: p.pos}
	p.next()
	stmt.Test = p.parseExpr()
	p.consume(tokColon)
	stmt.Body = p.parseBlock()
	if p.isKeyword("elif") {
		stmt.Orelse = []Stmt{p.parseIf()}
	} else {
		stmt.Orelse = p.parseElse()
	}
	return stmt
}

func (p *parser) parseFor(pos Pos, async bool) *For {
	stmt := &For{Pos: pos, Async: async}
	p.consumeKeyword("for")
	stmt.Target = p.parseTargetList()
	p.consumeKeyword("in")
	stmt.Iter = p.parseExprList()
	p.consume(tokColon)
	stmt.Body = p.parseBlock()
	stmt.Orelse = p.parseElse()
	return stmt
}

func (p *parser) parseWhile() *While {
	stmt := &While{Pos: p.pos}
	p.next()
	stmt.Test = p.parseExpr()
	p.consume(tokColon)
	stmt.Body = p.parseBlock()
	stmt.Orelse = p.parseElse()
	return stmt
}

func (p *parser) parseWith(pos Pos, async bool) *With {
	stmt := &With{Pos: pos, Async: async}
	p.consumeKeyword("with")
	for {
		item := &WithItem{Pos: p.pos, Context: p.parseExpr()}
		if p.isKeyword("as") {
			p.next()
			item.Target = p.parseExpr()
		}
		stmt.Items = append(stmt.Items, item)
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.consume(tokColon)
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *parser) parseTry() *Try {
	stmt := &Try{Pos: p.pos}
	p.next()
	p.consume(tokColon)
	stmt.Body = p.parseBlock()
	for p.isKeyword("except") {
		h := &ExceptHandler{Pos: p.pos}
		p.next()
		if p.isOp("*") {
			p.next()
		}
		if p.tok != tokColon {
			h.Type = p.parseExprList()
			if p.isKeyword("as") {
				p.next()
				h.Name = p.parseIdent().Name
			}
		}
		p.consume(tokColon)
		h.Body = p.parseBlock()
		stmt.Handlers = append(stmt.Handlers, h)
	}
	stmt.Orelse = p.parseElse()
	if p.isKeyword("finally") {
		p.next()
		p.consume(tokColon)
		stmt.Finalbody = p.parseBlock()
	}
	if len(stmt.Handlers) == 0 && stmt.Finalbody == nil {
		p.fail("expected 'except' or 'finally' block")
	}
	return stmt
}

// isMatchStmt says if the soft keyword "match" at the current position starts
// a match statement: the logical line must end with a colon followed by an
// indented block.
func (p *parser) isMatchStmt() bool {
	switch p.peek(1).tok {
	case tokNewLine, tokEOF, tokEq, tokAugAssign, tokDot, tokColon, tokComma, tokSemicolon:
		return false
	}
	depth := 0
	colon := false
	for i := p.idx; i < len(p.toks); i++ {
		switch t := p.toks[i]; t.tok {
		case tokLParen, tokLBrack, tokLBrace:
			depth++
		case tokRParen, tokRBrack, tokRBrace:
			depth--
		case tokNewLine, tokEOF:
			return colon && i+1 < len(p.toks) && p.toks[i+1].tok == tokIndent
		}
		colon = depth == 0 && p.toks[i].tok == tokColon
	}
	return false
}

func (p *parser) parseMatch() *Match {
	stmt := &Match{Pos: p.pos}
	p.next()
	stmt.Subject = p.parseExprList()
	p.consume(tokColon)
	p.consume(tokNewLine)
	if p.tok != tokIndent {
		p.fail("expected an indented block")
	}
	p.next()
	for p.tok != tokDedent && p.tok != tokEOF {
		if !p.isKeyword("case") {
			p.fail("unexpected %v, expecting \"case\"", p.describe())
		}
		stmt.Cases = append(stmt.Cases, p.parseCase())
	}
	p.consume(tokDedent)
	return stmt
}

func (p *parser) parseCase() *MatchCase {
	c := &MatchCase{Pos: p.pos}
	p.next()
	c.Pattern = p.parsePatternTop()
	if p.isKeyword("if") {
		p.next()
		c.Guard = p.parseExpr()
	}
	p.consume(tokColon)
	c.Body = p.parseBlock()
	return c
}

func (p *parser) parseSimpleStatements() []Stmt {
	var stmts []Stmt
	for {
		stmts = append(stmts, p.parseSmallStatement())
		if !p.tryConsume(tokSemicolon) || p.tok == tokNewLine {
			break
		}
	}
	p.consume(tokNewLine)
	return stmts
}

func (p *parser) parseSmallStatement() Stmt {
	pos := p.pos
	if p.tok == tokIdent {
		switch p.lit {
		case "pass":
			p.next()
			return &Pass{Pos: pos}
		case "return":
			p.next()
			ret := &Return{Pos: pos}
			if p.canStartExpr() {
				ret.Value = p.parseExprList()
			}
			return ret
		case "import":
			return p.parseImport()
		case "from":
			return p.parseImportFrom()
		case "break", "continue", "raise", "del", "assert", "global", "nonlocal":
			return p.parseKeywordStmt()
		}
	}
	target := p.parseExprList()
	switch p.tok {
	case tokColon:
		p.next()
		stmt := &AnnAssign{
			Pos:        pos,
			Target:     target,
			Annotation: p.parseExpr(),
		}
		if p.tryConsume(tokEq) {
			stmt.Value = p.parseExprList()
		}
		return stmt
	case tokEq:
		exprs := []Expr{target}
		for p.tryConsume(tokEq) {
			exprs = append(exprs, p.parseExprList())
		}
		return &Assign{
			Pos:     pos,
			Targets: exprs[:len(exprs)-1],
			Value:   exprs[len(exprs)-1],
		}
	case tokAugAssign:
		op := p.lit
		p.next()
		return &AugAssign{
			Pos:    pos,
			Target: target,
			Op:     op,
			Value:  p.parseExprList(),
		}
	}
	return &ExprStmt{Pos: pos, Value: target}
}

func (p *parser) parseKeywordStmt() *KeywordStmt {
	stmt := &KeywordStmt{Pos: p.pos, Keyword: p.lit}
	p.next()
	for p.canStartExpr() {
		stmt.Values = append(stmt.Values, p.parseExpr())
		if p.isKeyword("from") {
			p.next()
			continue
		}
		if !p.tryConsume(tokComma) {
			break
		}
	}
	return stmt
}

func (p *parser) parseImport() *Import {
	stmt := &Import{Pos: p.pos}
	p.next()
	for {
		stmt.Names = append(stmt.Names, p.parseAlias(true))
		if !p.tryConsume(tokComma) {
			break
		}
	}
	return stmt
}

func (p *parser) parseImportFrom() *ImportFrom {
	stmt := &ImportFrom{Pos: p.pos}
	p.next()
	for p.tok == tokDot || p.tok == tokEllipsis {
		stmt.Module += p.lit
		p.next()
	}
	if !p.isKeyword("import") {
		stmt.Module += p.parseDottedName()
	}
	p.consumeKeyword("import")
	if p.isOp("*") {
		stmt.Names = []*Alias{{Pos: p.pos, Name: "*"}}
		p.next()
		return stmt
	}
	paren := p.tryConsume(tokLParen)
	for !paren || p.tok != tokRParen {
		stmt.Names = append(stmt.Names, p.parseAlias(false))
		if !p.tryConsume(tokComma) {
			break
		}
	}
	if paren {
		p.consume(tokRParen)
	}
	return stmt
}

func (p *parser) parseAlias(dotted bool) *Alias {
	alias := &Alias{Pos: p.pos}
	if dotted {
		alias.Name = p.parseDottedName()
	} else {
		alias.Name = p.parseIdent().Name
	}
	if p.isKeyword("as") {
		p.next()
		alias.AsName = p.parseIdent().Name
	}
	return alias
}

func (p *parser) parseDottedName() string {
	name := p.parseIdent().Name
	for p.tryConsume(tokDot) {
		name += "." + p.parseIdent().Name
	}
	return name
}

func (p *parser) parseIdent() *Ident {
	p.expect(tokIdent)
	if keywords[p.lit] {
		p.fail("unexpected keyword %q, expecting identifier", p.lit)
	}
	ident := &Ident{
		Pos:  p.pos,
		Name: p.lit,
	}
	p.next()
	return ident
}

// Expressions.

func (p *parser) enterBrackets() bool {
	old := p.noIn
	p.noIn = false
	return old
}

func (p *parser) canStartExpr() bool {
	switch p.tok {
	case tokIdent:
		switch p.lit {
		case "not", "lambda", "await", "yield":
			return true
		}
		return !keywords[p.lit]
	case tokInt, tokFloat, tokString, tokLParen, tokLBrack, tokLBrace, tokEllipsis:
		return true
	case tokOp:
		switch p.lit {
		case "-", "+", "~", "*", "**":
			return true
		}
	}
	return false
}

// parseExprList parses comma-separated expressions forming an unparenthesized tuple.
func (p *parser) parseExprList() Expr {
	pos := p.pos
	e := p.parseExpr()
	if p.tok != tokComma {
		return e
	}
	tuple := &Tuple{Pos: pos, Elts: []Expr{e}}
	for p.tryConsume(tokComma) && p.canStartExpr() {
		tuple.Elts = append(tuple.Elts, p.parseExpr())
	}
	return tuple
}

// parseTargetList parses loop targets, where "in" ends the list.
func (p *parser) parseTargetList() Expr {
	old := p.noIn
	p.noIn = true
	e := p.parseExprList()
	p.noIn = old
	return e
}

func (p *parser) parseExpr() Expr {
	left := p.parseOperand()
	for {
		op, ok := p.binaryOp()
		if !ok {
			return left
		}
		var right Expr
		if op == "for" || op == "async for" {
			right = p.parseTargetList()
		} else {
			right = p.parseOperand()
		}
		left = &BinOp{
			Pos:   left.Position(),
			Left:  left,
			Op:    op,
			Right: right,
		}
	}
}

func (p *parser) parseOperand() Expr {
	if p.isKeyword("lambda") {
		return p.parseLambda()
	}
	return p.parseUnary()
}

func (p *parser) binaryOp() (string, bool) {
	switch p.tok {
	case tokOp:
		if p.lit == "~" {
			return "", false
		}
		op := p.lit
		p.next()
		return op, true
	case tokIdent:
		switch p.lit {
		case "and", "or", "if", "else", "for":
			op := p.lit
			p.next()
			return op, true
		case "is":
			p.next()
			if p.isKeyword("not") {
				p.next()
				return "is not", true
			}
			return "is", true
		case "in":
			if p.noIn {
				return "", false
			}
			p.next()
			return "in", true
		case "not":
			if next := p.peek(1); next.tok == tokIdent && next.lit == "in" {
				p.next()
				p.next()
				return "not in", true
			}
		case "async":
			if next := p.peek(1); next.tok == tokIdent && next.lit == "for" {
				p.next()
				p.next()
				return "async for", true
			}
		}
	}
	return "", false
}

func (p *parser) parseUnary() Expr {
	pos := p.pos
	switch {
	case p.isOp("-") || p.isOp("+") || p.isOp("~") || p.isKeyword("not") || p.isKeyword("await"):
		op := p.lit
		p.next()
		return &UnaryOp{Pos: pos, Op: op, Operand: p.parseUnary()}
	case p.isOp("*") || p.isOp("**"):
		double := p.lit == "**"
		p.next()
		return &Starred{Pos: pos, Value: p.parseUnary(), Double: double}
	case p.isKeyword("yield"):
		p.next()
		op := "yield"
		if p.isKeyword("from") {
			p.next()
			op = "yield from"
		}
		u := &UnaryOp{Pos: pos, Op: op}
		if p.canStartExpr() {
			u.Operand = p.parseExprList()
		}
		return u
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() Expr {
	e := p.parseAtom()
	for {
		switch p.tok {
		case tokDot:
			p.next()
			e = &Attribute{
				Pos:   e.Position(),
				Value: e,
				Attr:  p.parseIdent().Name,
			}
		case tokLParen:
			e = p.parseCall(e)
		case tokLBrack:
			e = p.parseSubscript(e)
		default:
			return e
		}
	}
}

func (p *parser) parseCall(fn Expr) *Call {
	call := &Call{Pos: fn.Position(), Func: fn}
	p.consume(tokLParen)
	old := p.enterBrackets()
	for p.tok != tokRParen {
		call.Args = append(call.Args, p.parseArg())
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.noIn = old
	p.consume(tokRParen)
	return call
}

func (p *parser) parseArg() Expr {
	if p.tok == tokIdent && !keywords[p.lit] && p.peek(1).tok == tokEq {
		kw := &Keyword{Pos: p.pos, Arg: p.lit}
		p.next()
		p.next()
		kw.Value = p.parseExpr()
		return kw
	}
	return p.parseExpr()
}

func (p *parser) parseSubscript(value Expr) *Subscript {
	sub := &Subscript{Pos: value.Position(), Value: value}
	p.consume(tokLBrack)
	old := p.enterBrackets()
	for p.tok != tokRBrack {
		sub.Index = append(sub.Index, p.parseSliceItem())
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.noIn = old
	p.consume(tokRBrack)
	return sub
}

func (p *parser) parseSliceItem() Expr {
	pos := p.pos
	var lower Expr
	if p.tok != tokColon {
		lower = p.parseExpr()
		if p.tok != tokColon {
			return lower
		}
	}
	sl := &Slice{Pos: pos, Lower: lower}
	p.consume(tokColon)
	if p.canStartExpr() {
		sl.Upper = p.parseExpr()
	}
	if p.tryConsume(tokColon) && p.canStartExpr() {
		sl.Step = p.parseExpr()
	}
	return sl
}

func (p *parser) parseLambda() *Lambda {
	lambda := &Lambda{Pos: p.pos}
	p.next()
	lambda.Params = p.parseParams(tokColon, false)
	p.consume(tokColon)
	lambda.Body = p.parseExpr()
	return lambda
}

func (p *parser) parseAtom() Expr {
	pos := p.pos
	switch p.tok {
	case tokIdent:
		if keywords[p.lit] {
			p.fail("unexpected keyword %q", p.lit)
		}
		name := p.lit
		p.next()
		switch name {
		case "None", "True", "False":
			return &Constant{Pos: pos, Kind: ConstKeyword, Value: name}
		}
		return &Name{Pos: pos, Id: name}
	case tokInt, tokFloat:
		return p.parseNumber()
	case tokString:
		var parts []string
		for p.tok == tokString {
			parts = append(parts, p.lit)
			p.next()
		}
		return &Constant{Pos: pos, Kind: ConstString, Value: strings.Join(parts, " ")}
	case tokEllipsis:
		p.next()
		return &Constant{Pos: pos, Kind: ConstEllipsis, Value: "..."}
	case tokLParen:
		return p.parseParen()
	case tokLBrack:
		return p.parseListDisplay()
	case tokLBrace:
		return p.parseBraceDisplay()
	}
	p.expect(tokIdent, tokInt, tokFloat, tokString, tokLParen, tokLBrack, tokLBrace)
	panic("not reachable")
}

func (p *parser) parseNumber() *Constant {
	p.expect(tokInt, tokFloat)
	c := &Constant{Pos: p.pos, Kind: ConstInt, Value: p.lit}
	if p.tok == tokFloat {
		c.Kind = ConstFloat
	}
	p.next()
	return c
}

func (p *parser) parseParen() Expr {
	pos := p.pos
	p.consume(tokLParen)
	old := p.enterBrackets()
	if p.tryConsume(tokRParen) {
		p.noIn = old
		return &Tuple{Pos: pos}
	}
	e := p.parseExpr()
	if p.tok == tokComma {
		tuple := &Tuple{Pos: pos, Elts: []Expr{e}}
		for p.tryConsume(tokComma) && p.tok != tokRParen {
			tuple.Elts = append(tuple.Elts, p.parseExpr())
		}
		e = tuple
	}
	p.noIn = old
	p.consume(tokRParen)
	return e
}

func (p *parser) parseListDisplay() *List {
	list := &List{Pos: p.pos}
	p.consume(tokLBrack)
	old := p.enterBrackets()
	for p.tok != tokRBrack {
		list.Elts = append(list.Elts, p.parseExpr())
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.noIn = old
	p.consume(tokRBrack)
	return list
}

func (p *parser) parseBraceDisplay() Expr {
	pos := p.pos
	p.consume(tokLBrace)
	old := p.enterBrackets()
	dict := &Dict{Pos: pos}
	set := &Set{Pos: pos}
	for p.tok != tokRBrace {
		if p.isOp("**") {
			p.next()
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseExpr())
		} else {
			e := p.parseExpr()
			if p.tryConsume(tokColon) {
				dict.Keys = append(dict.Keys, e)
				dict.Values = append(dict.Values, p.parseExpr())
			} else {
				set.Elts = append(set.Elts, e)
			}
		}
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.noIn = old
	if len(set.Elts) != 0 && len(dict.Keys) != 0 {
		p.fail("mixed dict and set display")
	}
	p.consume(tokRBrace)
	if len(set.Elts) != 0 {
		return set
	}
	return dict
}

// Patterns.

func (p *parser) parsePatternTop() Pattern {
	pos := p.pos
	pat := p.parseAsPattern()
	if p.tok != tokComma {
		return pat
	}
	seq := &MatchSequence{Pos: pos, Patterns: []Pattern{pat}}
	for p.tryConsume(tokComma) && p.tok != tokColon && !p.isKeyword("if") {
		seq.Patterns = append(seq.Patterns, p.parseAsPattern())
	}
	return seq
}

func (p *parser) parseAsPattern() Pattern {
	pos := p.pos
	pat := p.parseOrPattern()
	if !p.isKeyword("as") {
		return pat
	}
	p.next()
	return &MatchAs{Pos: pos, Pattern: pat, Name: p.parseIdent().Name}
}

func (p *parser) parseOrPattern() Pattern {
	pos := p.pos
	pat := p.parseClosedPattern()
	if !p.isOp("|") {
		return pat
	}
	or := &MatchOr{Pos: pos, Patterns: []Pattern{pat}}
	for p.isOp("|") {
		p.next()
		or.Patterns = append(or.Patterns, p.parseClosedPattern())
	}
	return or
}

func (p *parser) parseClosedPattern() Pattern {
	pos := p.pos
	switch p.tok {
	case tokIdent:
		switch p.lit {
		case "None", "True", "False":
			v := p.lit
			p.next()
			return &MatchSingleton{Pos: pos, Value: v}
		}
		e := p.parseDottedExpr()
		if p.tok == tokLParen {
			return p.parseClassPattern(e)
		}
		if name, ok := e.(*Name); ok {
			if name.Id == "_" {
				return &MatchAs{Pos: pos}
			}
			return &MatchAs{Pos: pos, Name: name.Id}
		}
		return &MatchValue{Pos: pos, Value: e}
	case tokInt, tokFloat, tokString:
		return &MatchValue{Pos: pos, Value: p.parseLiteralExpr()}
	case tokOp:
		switch p.lit {
		case "-":
			return &MatchValue{Pos: pos, Value: p.parseLiteralExpr()}
		case "*":
			p.next()
			name := p.parseIdent().Name
			if name == "_" {
				name = ""
			}
			return &MatchStar{Pos: pos, Name: name}
		}
	case tokLParen:
		p.next()
		if p.tryConsume(tokRParen) {
			return &MatchSequence{Pos: pos}
		}
		pat := p.parseAsPattern()
		if p.tok == tokComma {
			seq := &MatchSequence{Pos: pos, Patterns: []Pattern{pat}}
			for p.tryConsume(tokComma) && p.tok != tokRParen {
				seq.Patterns = append(seq.Patterns, p.parseAsPattern())
			}
			pat = seq
		}
		p.consume(tokRParen)
		return pat
	case tokLBrack:
		p.next()
		seq := &MatchSequence{Pos: pos}
		for p.tok != tokRBrack {
			seq.Patterns = append(seq.Patterns, p.parseAsPattern())
			if !p.tryConsume(tokComma) {
				break
			}
		}
		p.consume(tokRBrack)
		return seq
	case tokLBrace:
		return p.parseMappingPattern()
	}
	p.fail("unexpected %v, expecting pattern", p.describe())
	panic("not reachable")
}

func (p *parser) parseDottedExpr() Expr {
	pos := p.pos
	var e Expr = &Name{Pos: pos, Id: p.parseIdent().Name}
	for p.tryConsume(tokDot) {
		e = &Attribute{Pos: pos, Value: e, Attr: p.parseIdent().Name}
	}
	return e
}

// parseLiteralExpr parses literals allowed in value patterns:
// strings, signed numbers and complex numbers ("1+2j").
func (p *parser) parseLiteralExpr() Expr {
	pos := p.pos
	if p.tok == tokString {
		return p.parseAtom()
	}
	var e Expr
	if p.isOp("-") {
		p.next()
		e = &UnaryOp{Pos: pos, Op: "-", Operand: p.parseNumber()}
	} else {
		e = p.parseNumber()
	}
	if p.isOp("+") || p.isOp("-") {
		op := p.lit
		p.next()
		e = &BinOp{Pos: pos, Left: e, Op: op, Right: p.parseNumber()}
	}
	return e
}

func (p *parser) parseClassPattern(cls Expr) *MatchClass {
	pat := &MatchClass{Pos: cls.Position(), Cls: cls}
	p.consume(tokLParen)
	for p.tok != tokRParen {
		if p.tok == tokIdent && p.peek(1).tok == tokEq {
			pat.KwdAttrs = append(pat.KwdAttrs, p.lit)
			p.next()
			p.next()
			pat.KwdPatterns = append(pat.KwdPatterns, p.parseAsPattern())
		} else {
			pat.Patterns = append(pat.Patterns, p.parseAsPattern())
		}
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.consume(tokRParen)
	return pat
}

func (p *parser) parseMappingPattern() *MatchMapping {
	pat := &MatchMapping{Pos: p.pos}
	p.consume(tokLBrace)
	for p.tok != tokRBrace {
		if p.isOp("**") {
			p.next()
			pat.Rest = p.parseIdent().Name
		} else {
			var key Expr
			switch {
			case p.isKeyword("None") || p.isKeyword("True") || p.isKeyword("False"):
				key = &Constant{Pos: p.pos, Kind: ConstKeyword, Value: p.lit}
				p.next()
			case p.tok == tokIdent:
				key = p.parseDottedExpr()
			default:
				key = p.parseLiteralExpr()
			}
			p.consume(tokColon)
			pat.Keys = append(pat.Keys, key)
			pat.Patterns = append(pat.Patterns, p.parseAsPattern())
		}
		if !p.tryConsume(tokComma) {
			break
		}
	}
	p.consume(tokRBrace)
	return pat
}
