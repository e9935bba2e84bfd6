// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mexcheck/mexcheck/pkg/ast"
)

// Code identifies diagnostics produced by the checker.
const Code = "MEX001"

const notExhaustive = "match statement is not exhaustive"

// Diagnostic reports one non-exhaustive match statement.
type Diagnostic struct {
	Pos     ast.Pos
	Code    string
	Message string
	// Enum and Missing repeat the analysis result, Enum is empty on the generic path.
	Enum    string
	Missing []string
}

func newDiagnostic(m *ast.Match, res Result) *Diagnostic {
	return &Diagnostic{
		Pos:     m.Pos,
		Code:    Code,
		Message: res.Message(),
		Enum:    res.Enum,
		Missing: res.Missing,
	}
}

// Message renders the result the way diagnostics print it:
//
//	match statement is not exhaustive: Missing enum values for ['BLUE', 'GREEN']
func (res Result) Message() string {
	if res.Exhaustive {
		return ""
	}
	if len(res.Missing) == 0 {
		return notExhaustive
	}
	quoted := make([]string, len(res.Missing))
	for i, member := range res.Missing {
		quoted[i] = "'" + member + "'"
	}
	return fmt.Sprintf("%v: Missing enum values for [%v]", notExhaustive, strings.Join(quoted, ", "))
}

// Line returns the 1-based line of the match statement.
func (d *Diagnostic) Line() int {
	return d.Pos.Line
}

// Column returns the 0-based column offset of the match statement.
func (d *Diagnostic) Column() int {
	return d.Pos.Col - 1
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%v:%v:%v: %v %v", d.Pos.File, d.Line(), d.Column(), d.Code, d.Message)
}

// SortDiagnostics orders diagnostics by file and position.
func SortDiagnostics(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos.Less(diags[j].Pos)
	})
}
