// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package ast

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"
)

// ErrorMatcher matches errors reported for a test file against "### message"
// markers placed at the end of the lines where the errors are expected.
type ErrorMatcher struct {
	t      *testing.T
	Data   []byte
	expect []*errorDesc
	got    []*errorDesc
}

type errorDesc struct {
	file    string
	line    int
	col     int
	text    string
	matched bool
}

func NewErrorMatcher(t *testing.T, file string) *ErrorMatcher {
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to open input file: %v", err)
	}
	var stripped []byte
	var errors []*errorDesc
	s := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; s.Scan(); i++ {
		ln := s.Bytes()
		for {
			pos := bytes.LastIndex(ln, []byte("###"))
			if pos == -1 {
				break
			}
			errors = append(errors, &errorDesc{
				file: file,
				line: i,
				text: strings.TrimSpace(string(ln[pos+3:])),
			})
			ln = ln[:pos]
		}
		stripped = append(stripped, bytes.TrimRight(ln, " \t")...)
		stripped = append(stripped, '\n')
	}
	if err := s.Err(); err != nil {
		t.Fatalf("failed to scan input file: %v", err)
	}
	return &ErrorMatcher{
		t:      t,
		Data:   stripped,
		expect: errors,
	}
}

func (em *ErrorMatcher) ErrorHandler(pos Pos, msg string) {
	em.got = append(em.got, &errorDesc{
		file: pos.File,
		line: pos.Line,
		col:  pos.Col,
		text: msg,
	})
}

func (em *ErrorMatcher) Count() int {
	return len(em.got)
}

func (em *ErrorMatcher) Check() {
	em.t.Helper()
nextErr:
	for _, e := range em.got {
		for _, want := range em.expect {
			if want.matched || want.line != e.line || want.text != e.text {
				continue
			}
			want.matched = true
			continue nextErr
		}
		em.t.Errorf("unexpected error:\n%v:%v:%v: %v", e.file, e.line, e.col, e.text)
	}
	for _, want := range em.expect {
		if want.matched {
			continue
		}
		em.t.Errorf("unmatched error:\n%v:%v: %v", want.file, want.line, want.text)
	}
}

func (em *ErrorMatcher) DumpErrors() {
	em.t.Helper()
	for _, e := range em.got {
		em.t.Logf("%v:%v:%v: %v", e.file, e.line, e.col, e.text)
	}
}
