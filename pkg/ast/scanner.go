// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ast

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
)

type token int

const (
	tokIllegal token = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokOp
	tokAugAssign

	tokNewLine
	tokIndent
	tokDedent
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokLBrace
	tokRBrace
	tokColon
	tokComma
	tokSemicolon
	tokDot
	tokEq
	tokArrow
	tokEllipsis

	tokEOF
)

var punctuation = [256]token{
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBrack,
	']': tokRBrack,
	'{': tokLBrace,
	'}': tokRBrace,
	',': tokComma,
	';': tokSemicolon,
}

var tok2str = [...]string{
	tokIllegal:   "ILLEGAL",
	tokIdent:     "identifier",
	tokInt:       "int",
	tokFloat:     "float",
	tokString:    "string",
	tokOp:        "operator",
	tokAugAssign: "augmented assignment",
	tokNewLine:   "NEWLINE",
	tokIndent:    "INDENT",
	tokDedent:    "DEDENT",
	tokColon:     "':'",
	tokDot:       "'.'",
	tokEq:        "'='",
	tokArrow:     "'->'",
	tokEllipsis:  "'...'",
	tokEOF:       "EOF",
}

func init() {
	for ch, tok := range punctuation {
		if tok == tokIllegal {
			continue
		}
		tok2str[tok] = fmt.Sprintf("%q", ch)
	}
}

func (tok token) String() string {
	return tok2str[tok]
}

// Longest operators go first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", ":=", "**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">", "=", ".", ":",
}

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

type scanner struct {
	data         []byte
	filename     string
	errorHandler ErrorHandler

	ch   byte
	off  int
	line int
	col  int

	atLineStart bool
	depth       int // bracket nesting, newlines are insignificant inside
	indents     []int
	pending     []int // number of DEDENT tokens still to emit

	errors int
}

func newScanner(data []byte, filename string, errorHandler ErrorHandler) *scanner {
	if errorHandler == nil {
		errorHandler = LoggingHandler
	}
	s := &scanner{
		data:         normalizeNewlines(data),
		filename:     filename,
		errorHandler: errorHandler,
		off:          -1,
		atLineStart:  true,
		indents:      []int{0},
	}
	s.next()
	return s
}

// normalizeNewlines turns CRLF and lone CR line endings into LF.
// Offsets in Pos refer to the normalized data.
func normalizeNewlines(data []byte) []byte {
	if bytes.IndexByte(data, '\r') == -1 {
		return data
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}

type ErrorHandler func(pos Pos, msg string)

func LoggingHandler(pos Pos, msg string) {
	fmt.Fprintf(os.Stderr, "%v: %v\n", pos, msg)
}

func (pos Pos) String() string {
	if pos.Col == 0 {
		return fmt.Sprintf("%v:%v", pos.File, pos.Line)
	}
	return fmt.Sprintf("%v:%v:%v", pos.File, pos.Line, pos.Col)
}

// Less orders positions by file, line and column.
func (pos Pos) Less(other Pos) bool {
	if pos.File != other.File {
		return pos.File < other.File
	}
	if pos.Line != other.Line {
		return pos.Line < other.Line
	}
	return pos.Col < other.Col
}

func (s *scanner) Scan() (tok token, lit string, pos Pos) {
	if len(s.pending) != 0 {
		s.pending = s.pending[1:]
		return tokDedent, "", s.pos()
	}
	if s.atLineStart {
		s.atLineStart = false
		if tok, ok := s.scanIndent(); ok {
			return tok, "", s.pos()
		}
	}
	s.skipWhitespace()
	pos = s.pos()
	switch {
	case s.eof():
		tok = tokEOF
	case s.ch == '\n':
		tok = tokNewLine
		s.atLineStart = true
		s.next()
	case s.ch == '"' || s.ch == '\'':
		tok = tokString
		lit = s.scanStr(pos)
	case s.ch >= '0' && s.ch <= '9' || s.ch == '.' && isDigit(s.peek(1)):
		tok, lit = s.scanNumber(pos)
	case isIdentStart(s.ch):
		tok, lit = s.scanIdent(pos)
	case punctuation[s.ch] != tokIllegal:
		tok = punctuation[s.ch]
		switch tok {
		case tokLParen, tokLBrack, tokLBrace:
			s.depth++
		case tokRParen, tokRBrack, tokRBrace:
			if s.depth > 0 {
				s.depth--
			}
		}
		lit = string(s.ch)
		s.next()
	default:
		tok, lit = s.scanOp(pos)
	}
	return
}

// scanIndent consumes blank lines and the indentation of the next logical line
// and returns INDENT or DEDENT if the indentation level changes.
func (s *scanner) scanIndent() (token, bool) {
	width := 0
	for {
		switch s.ch {
		case ' ':
			width++
			s.next()
			continue
		case '\t':
			width += 8 - width%8
			s.next()
			continue
		case '\f':
			width = 0
			s.next()
			continue
		case '#':
			for !s.eof() && s.ch != '\n' {
				s.next()
			}
			continue
		case '\n':
			if !s.eof() {
				width = 0
				s.next()
				continue
			}
		}
		break
	}
	if s.eof() {
		width = 0
	}
	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		return tokIndent, true
	case width < top:
		dedents := 0
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			dedents++
		}
		if s.indents[len(s.indents)-1] != width {
			s.Error(s.pos(), "unindent does not match any outer indentation level")
		}
		for i := 1; i < dedents; i++ {
			s.pending = append(s.pending, width)
		}
		return tokDedent, true
	}
	return tokIllegal, false
}

func (s *scanner) scanStr(pos Pos) string {
	quote := s.ch
	triple := s.peek(1) == quote && s.peek(2) == quote
	if triple {
		s.next()
		s.next()
	}
	for s.next(); ; s.next() {
		if s.eof() || s.ch == '\n' && !triple {
			s.Error(pos, "string literal is not terminated")
			return ""
		}
		if s.ch == '\\' {
			s.next()
			continue
		}
		if s.ch != quote {
			continue
		}
		if !triple {
			break
		}
		if s.peek(1) == quote && s.peek(2) == quote {
			s.next()
			s.next()
			break
		}
	}
	s.next()
	return string(s.data[pos.Off:s.off])
}

func (s *scanner) scanNumber(pos Pos) (token, string) {
	hex := s.ch == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X')
	var prev byte
	for isIdentChar(s.ch) || s.ch == '.' ||
		(s.ch == '+' || s.ch == '-') && !hex && (prev == 'e' || prev == 'E') {
		prev = s.ch
		s.next()
	}
	lit := string(s.data[pos.Off:s.off])
	clean := strings.ReplaceAll(lit, "_", "")
	if _, ok := new(big.Int).SetString(clean, 0); ok {
		return tokInt, lit
	}
	clean = strings.TrimRight(clean, "jJ")
	if _, err := strconv.ParseFloat(clean, 64); err == nil {
		return tokFloat, lit
	}
	s.Error(pos, "bad number literal %q", lit)
	return tokInt, "0"
}

func (s *scanner) scanIdent(pos Pos) (token, string) {
	for isIdentChar(s.ch) {
		s.next()
	}
	lit := string(s.data[pos.Off:s.off])
	if (s.ch == '"' || s.ch == '\'') && stringPrefixes[strings.ToLower(lit)] {
		return tokString, s.scanStr(pos)
	}
	return tokIdent, lit
}

func (s *scanner) scanOp(pos Pos) (token, string) {
	rest := s.data[s.off:]
	for _, op := range operators {
		if !strings.HasPrefix(string(rest[:min(len(rest), len(op))]), op) {
			continue
		}
		for range op {
			s.next()
		}
		switch {
		case op == "=":
			return tokEq, op
		case op == ".":
			return tokDot, op
		case op == ":":
			return tokColon, op
		case op == "...":
			return tokEllipsis, op
		case op == "->":
			return tokArrow, op
		case len(op) > 1 && op[len(op)-1] == '=' &&
			op != "==" && op != "<=" && op != ">=" && op != "!=" && op != ":=":
			return tokAugAssign, op
		}
		return tokOp, op
	}
	s.Error(pos, "illegal character %#U", s.ch)
	s.next()
	return tokIllegal, ""
}

func (s *scanner) Error(pos Pos, msg string, args ...interface{}) {
	s.errors++
	s.errorHandler(pos, fmt.Sprintf(msg, args...))
}

func (s *scanner) Ok() bool {
	return s.errors == 0
}

func (s *scanner) next() {
	s.off++
	if s.off == len(s.data) {
		// Always emit NEWLINE before EOF.
		// Makes lots of things simpler as we always
		// want to treat EOF as NEWLINE as well.
		s.ch = '\n'
		s.advanceLine()
		return
	}
	if s.off > len(s.data) {
		s.off = len(s.data) + 1
		s.ch = 0
		return
	}
	s.advanceLine()
	s.ch = s.data[s.off]
	if s.ch == 0 {
		s.Error(s.pos(), "illegal character \\x00")
	}
}

func (s *scanner) advanceLine() {
	if s.off == 0 || s.data[s.off-1] == '\n' {
		s.line++
		s.col = 0
	}
	s.col++
}

func (s *scanner) eof() bool {
	return s.off > len(s.data)
}

func (s *scanner) peek(n int) byte {
	if s.off+n >= len(s.data) {
		return 0
	}
	return s.data[s.off+n]
}

func (s *scanner) skipWhitespace() {
	for {
		switch {
		case s.ch == ' ' || s.ch == '\t' || s.ch == '\f':
			s.next()
		case s.ch == '\n' && s.depth > 0 && !s.eof():
			s.next()
		case s.ch == '\\' && s.peek(1) == '\n':
			s.next()
			s.next()
		case s.ch == '#':
			for !s.eof() && s.ch != '\n' {
				s.next()
			}
		default:
			return
		}
	}
}

func (s *scanner) pos() Pos {
	off := s.off
	if off > len(s.data) {
		off = len(s.data)
	}
	return Pos{
		File: s.filename,
		Off:  off,
		Line: s.line,
		Col:  s.col,
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
