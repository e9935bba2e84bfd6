// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package exhaustive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mexcheck/mexcheck/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	file := ast.Parse([]byte(src), "test.py", func(pos ast.Pos, msg string) {
		t.Errorf("%v: %v", pos, msg)
	})
	require.NotNil(t, file)
	return file
}

const colorsEnum = `
class Colors(Enum):
    RED = 1
    GREEN = 2
    BLUE = 3
`

func TestScenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src     string
		message string
	}{
		{
			src: "match x:\n    case 1:\n        pass\n    case _:\n        pass\n",
		},
		{
			src:     "match x:\n    case 1:\n        pass\n",
			message: "match statement is not exhaustive",
		},
		{
			src: colorsEnum + `
match x:
    case Colors.RED:
        pass
    case Colors.GREEN:
        pass
    case Colors.BLUE:
        pass
`,
		},
		{
			src: colorsEnum + `
match x:
    case Colors.RED:
        pass
    case Colors.GREEN:
        pass
`,
			message: "match statement is not exhaustive: Missing enum values for ['BLUE']",
		},
		{
			src: colorsEnum + `
match x:
    case Colors.RED:
        pass
`,
			message: "match statement is not exhaustive: Missing enum values for ['BLUE', 'GREEN']",
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i+1), func(t *testing.T) {
			diags := NewChecker(parseSource(t, test.src), nil).Run()
			if test.message == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, Code, diags[0].Code)
			assert.Equal(t, test.message, diags[0].Message)
		})
	}
}

func TestData(t *testing.T) {
	t.Parallel()
	configs := map[string]*Config{
		"default.py":        {Procs: 1},
		"bind.py":           {BindSubjects: true, Procs: 1},
		"ignore_guarded.py": {IgnoreGuarded: true, Procs: 1},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			em := ast.NewErrorMatcher(t, filepath.Join("testdata", name))
			file := ast.Parse(em.Data, name, em.ErrorHandler)
			if file == nil {
				em.DumpErrors()
				t.Fatalf("parsing failed")
			}
			checker := NewChecker(file, cfg)
			diags := checker.Run()
			for _, diag := range diags {
				em.ErrorHandler(diag.Pos, diag.Code+" "+diag.Message)
			}
			em.Check()

			parallel, err := checker.CheckParallel(context.Background(), 4)
			require.NoError(t, err)
			if diff := cmp.Diff(diags, parallel); diff != "" {
				t.Fatalf("parallel results differ:\n%v", diff)
			}
			// Results only depend on the tree.
			if diff := cmp.Diff(diags, NewChecker(file, cfg).Run()); diff != "" {
				t.Fatalf("second run differs:\n%v", diff)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	file := parseSource(t, `
class Members(Enum):
    A = 1
    B = C = 2
    D, E = 3, 4
    F: int = 5
    A = 6
    G = 7
    x.y = 8

    def method(self):
        H = 8


class Dup(Enum):
    X = 1


class Plain:
    P = 1


class Qualified(enum.Enum):
    Q = 1


def factory():
    class Nested(IntFlag, Enum):
        N = 1
    return Nested


class Second(Enum):
    pass


class Dup(Enum):
    Z = 1
`)
	reg := BuildRegistry(file)
	var got []string
	for _, def := range reg.Enums() {
		got = append(got, fmt.Sprintf("%v%v", def.Name, def.Members))
	}
	assert.Equal(t, []string{"Members[A G]", "Dup[Z]", "Nested[N]", "Second[]"}, got)
	assert.Equal(t, 4, reg.Len())
	assert.Nil(t, reg.Lookup("Plain"))
	assert.Nil(t, reg.Lookup("Qualified"))
	members := reg.Lookup("Members")
	require.NotNil(t, members)
	assert.True(t, members.Has("A"))
	assert.False(t, members.Has("B"))
	assert.False(t, members.Has("H"))
	assert.Equal(t, 37, reg.Lookup("Dup").Pos.Line)
}

func testEnum(name string, members ...string) *EnumDef {
	def := &EnumDef{
		Name:    name,
		members: make(map[string]bool),
	}
	for _, member := range members {
		def.Members = append(def.Members, member)
		def.members[member] = true
	}
	return def
}

func makeMatch(subject ast.Expr, patterns ...ast.Pattern) *ast.Match {
	m := &ast.Match{Subject: subject}
	for _, pat := range patterns {
		m.Cases = append(m.Cases, &ast.MatchCase{Pattern: pat, Body: []ast.Stmt{&ast.Pass{}}})
	}
	return m
}

func memberPattern(enum, member string) ast.Pattern {
	return &ast.MatchValue{Value: &ast.Attribute{Value: &ast.Name{Id: enum}, Attr: member}}
}

func TestAnalyzeSubsets(t *testing.T) {
	t.Parallel()
	declared := []string{"DELTA", "ALPHA", "CHARLIE", "BRAVO"}
	def := testEnum("Letters", declared...)
	subject := &ast.Name{Id: "letter"}
	for mask := 0; mask < 1<<len(declared); mask++ {
		var patterns []ast.Pattern
		var missing []string
		for i, member := range declared {
			if mask&(1<<i) != 0 {
				patterns = append(patterns, memberPattern("Letters", member))
			} else {
				missing = append(missing, member)
			}
		}
		sort.Strings(missing)
		res := Analyze(makeMatch(subject, patterns...), []*EnumDef{def}, Options{})
		assert.Equal(t, len(missing) == 0, res.Exhaustive, "mask %v", mask)
		assert.Equal(t, missing, res.Missing, "mask %v", mask)
		if !res.Exhaustive {
			assert.Equal(t, "Letters", res.Enum)
		}

		// A wildcard anywhere makes any match exhaustive.
		for pos := 0; pos <= len(patterns); pos++ {
			withWildcard := append(append(append([]ast.Pattern{}, patterns[:pos]...), &ast.MatchAs{}), patterns[pos:]...)
			res := Analyze(makeMatch(subject, withWildcard...), []*EnumDef{def}, Options{})
			assert.Equal(t, Result{Exhaustive: true}, res, "mask %v pos %v", mask, pos)
		}

		// Computed subjects never get a member list.
		computed := &ast.Call{Func: &ast.Name{Id: "get"}}
		res = Analyze(makeMatch(computed, patterns...), []*EnumDef{def}, Options{})
		assert.Equal(t, Result{}, res, "mask %v", mask)
	}
}

func TestAnalyzeCandidates(t *testing.T) {
	t.Parallel()
	subject := &ast.Name{Id: "x"}
	colors := testEnum("Colors", "RED", "GREEN")
	shape := testEnum("Shape", "SQUARE")
	empty := testEnum("Empty")
	tests := []struct {
		candidates []*EnumDef
		patterns   []ast.Pattern
		opts       Options
		want       Result
	}{
		{
			candidates: nil,
			patterns:   []ast.Pattern{memberPattern("Colors", "RED")},
			want:       Result{},
		},
		{
			candidates: []*EnumDef{empty},
			patterns:   []ast.Pattern{&ast.MatchValue{Value: &ast.Constant{Kind: ast.ConstInt, Value: "1"}}},
			want:       Result{},
		},
		{
			candidates: []*EnumDef{colors, shape},
			patterns:   []ast.Pattern{memberPattern("Colors", "RED"), memberPattern("Colors", "GREEN")},
			want:       Result{Enum: "Shape", Missing: []string{"SQUARE"}},
		},
		{
			candidates: []*EnumDef{shape, colors},
			patterns:   []ast.Pattern{memberPattern("Colors", "RED")},
			want:       Result{Enum: "Shape", Missing: []string{"SQUARE"}},
		},
		{
			candidates: []*EnumDef{empty, shape},
			patterns:   []ast.Pattern{memberPattern("Shape", "SQUARE")},
			want:       Result{Exhaustive: true},
		},
		{
			candidates: []*EnumDef{shape},
			patterns:   []ast.Pattern{&ast.MatchAs{Name: "other"}},
			want:       Result{Enum: "Shape", Missing: []string{"SQUARE"}},
		},
		{
			candidates: []*EnumDef{shape},
			patterns: []ast.Pattern{&ast.MatchOr{Patterns: []ast.Pattern{
				memberPattern("Shape", "SQUARE"),
				memberPattern("Shape", "CIRCLE"),
			}}},
			want: Result{Enum: "Shape", Missing: []string{"SQUARE"}},
		},
	}
	for i, test := range tests {
		res := Analyze(makeMatch(subject, test.patterns...), test.candidates, test.opts)
		assert.Equal(t, test.want, res, "test #%v", i)
	}
}

func TestGuards(t *testing.T) {
	t.Parallel()
	shape := testEnum("Shape", "SQUARE")
	m := makeMatch(&ast.Name{Id: "s"}, memberPattern("Shape", "SQUARE"))
	m.Cases[0].Guard = &ast.Name{Id: "flag"}
	assert.Equal(t, Result{Exhaustive: true}, Analyze(m, []*EnumDef{shape}, Options{}))
	assert.Equal(t, Result{Enum: "Shape", Missing: []string{"SQUARE"}},
		Analyze(m, []*EnumDef{shape}, Options{IgnoreGuarded: true}))

	wildcard := makeMatch(&ast.Name{Id: "s"}, &ast.MatchAs{})
	wildcard.Cases[0].Guard = &ast.Name{Id: "flag"}
	assert.Equal(t, Arm{Kind: OtherArm, Guarded: true}, ClassifyArm(wildcard.Cases[0]))
	assert.False(t, Analyze(wildcard, nil, Options{}).Exhaustive)
}

func TestClassifyArm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pattern ast.Pattern
		want    Arm
	}{
		{memberPattern("Colors", "RED"), Arm{Kind: ValueArm, Member: "RED"}},
		{&ast.MatchAs{}, Arm{Kind: WildcardArm}},
		{&ast.MatchOr{Patterns: []ast.Pattern{memberPattern("Colors", "RED"), memberPattern("Colors", "GREEN")}},
			Arm{Kind: OtherArm}},
		{&ast.MatchAs{Name: "x"}, Arm{Kind: OtherArm}},
		{&ast.MatchAs{Pattern: &ast.MatchAs{}, Name: "x"}, Arm{Kind: OtherArm}},
		{&ast.MatchValue{Value: &ast.Constant{Kind: ast.ConstString, Value: "'a'"}}, Arm{Kind: OtherArm}},
		{&ast.MatchSingleton{Value: "None"}, Arm{Kind: OtherArm}},
		{&ast.MatchSequence{}, Arm{Kind: OtherArm}},
		{&ast.MatchClass{Cls: &ast.Name{Id: "Point"}}, Arm{Kind: OtherArm}},
	}
	for _, test := range tests {
		got := ClassifyArm(&ast.MatchCase{Pattern: test.pattern})
		assert.Equal(t, test.want, got, ast.FormatPattern(test.pattern))
	}
	assert.Equal(t, "value", ValueArm.String())
	assert.Equal(t, "wildcard", WildcardArm.String())
	assert.Equal(t, "other", OtherArm.String())
}

func TestDiagnostic(t *testing.T) {
	t.Parallel()
	file := parseSource(t, colorsEnum+"\ndef f(c):\n    match c:\n        case Colors.RED:\n            pass\n")
	diags := NewChecker(file, nil).Run()
	require.Len(t, diags, 1)
	diag := diags[0]
	assert.Equal(t, 8, diag.Line())
	assert.Equal(t, 4, diag.Column())
	assert.Equal(t, "Colors", diag.Enum)
	assert.Equal(t, []string{"BLUE", "GREEN"}, diag.Missing)
	assert.Equal(t, "test.py:8:4: MEX001 match statement is not exhaustive: "+
		"Missing enum values for ['BLUE', 'GREEN']", diag.String())

	assert.Equal(t, "", Result{Exhaustive: true}.Message())

	sorted := []*Diagnostic{
		{Pos: ast.Pos{File: "b.py", Line: 1, Col: 1}},
		{Pos: ast.Pos{File: "a.py", Line: 7, Col: 5}},
		{Pos: ast.Pos{File: "a.py", Line: 7, Col: 1}},
	}
	SortDiagnostics(sorted)
	var order []string
	for _, d := range sorted {
		order = append(order, d.Pos.String())
	}
	assert.Equal(t, []string{"a.py:7:1", "a.py:7:5", "b.py:1:1"}, order)
}

func TestCheckParallelCanceled(t *testing.T) {
	t.Parallel()
	file := parseSource(t, "match x:\n    case 1:\n        pass\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewChecker(file, nil).CheckParallel(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

type testHost struct {
	name     string
	version  string
	checkers []Factory
}

func (host *testHost) RegisterChecker(name, version string, factory Factory) {
	host.name = name
	host.version = version
	host.checkers = append(host.checkers, factory)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	host := new(testHost)
	Register(host)
	assert.Equal(t, "flake8-match-exhaustiveness", host.name)
	assert.Equal(t, "0.1.0", host.version)
	require.Len(t, host.checkers, 1)
	file := parseSource(t, "match x:\n    case 1:\n        pass\n")
	diags := host.checkers[0](file, DefaultConfig()).Run()
	assert.Len(t, diags, 1)
}

func TestConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "mex.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(
		"bind_subjects: true\nexclude: [\"build/**\", \"**/*_pb2.py\"]\n"), 0644))
	cfg, err := LoadConfig(yamlFile)
	require.NoError(t, err)
	assert.True(t, cfg.BindSubjects)
	assert.False(t, cfg.IgnoreGuarded)
	assert.Equal(t, DefaultConfig().Procs, cfg.Procs)
	for file, excluded := range map[string]bool{
		"build/a.py":        true,
		"./build/c.py":      true,
		"src/api_pb2.py":    true,
		"src/main.py":       false,
		"tests/build/b.py":  false,
		"build.py":          false,
		"deep/x/y/m_pb2.py": true,
	} {
		assert.Equal(t, excluded, cfg.Excluded(file), file)
	}

	jsonFile := filepath.Join(dir, "mex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{
	# guarded arms do not count
	"ignore_guarded": true,
	"procs": 3
}`), 0644))
	cfg, err = LoadConfig(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, &Config{IgnoreGuarded: true, Procs: 3}, cfg)

	for data, wantErr := range map[string]string{
		"procs: 0\n":          "procs must be positive",
		"exclude: [\"[\"]\n":  `bad exclude pattern "["`,
		"unknown_option: 1\n": "failed to parse config file",
	} {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte(data), 0644))
		_, err := LoadConfig(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), wantErr)
	}
}
