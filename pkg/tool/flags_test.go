// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	type Values struct {
		Foo bool
		Bar int
		Baz string
	}
	type Test struct {
		args string
		vals *Values
		pos  []string
	}
	tests := []Test{
		{"", &Values{false, 1, "baz"}, nil},
		{"-foo -bar=2", &Values{true, 2, "baz"}, nil},
		{"-foo -bar=2 -qux", nil, nil},
		{"a -foo b -bar 3 c", &Values{true, 3, "baz"}, []string{"a", "b", "c"}},
		{"-baz=x a -- -foo b", &Values{false, 1, "x"}, []string{"a", "-foo", "b"}},
		{"a b", &Values{false, 1, "baz"}, []string{"a", "b"}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			vals := new(Values)
			flags := flag.NewFlagSet("", flag.ContinueOnError)
			flags.SetOutput(io.Discard)
			flags.BoolVar(&vals.Foo, "foo", false, "")
			flags.IntVar(&vals.Bar, "bar", 1, "")
			flags.StringVar(&vals.Baz, "baz", "baz", "")
			var args []string
			if test.args != "" {
				args = strings.Split(test.args, " ")
			}
			pos, err := ParseFlags(flags, args)
			if test.vals == nil {
				if err == nil {
					t.Fatalf("parsing did not fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("parsing failed: %v", err)
			}
			if diff := cmp.Diff(test.vals, vals); diff != "" {
				t.Fatal(diff)
			}
			assert.Equal(t, test.pos, pos)
		})
	}
}

func TestInitFlags(t *testing.T) {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	args, stop, err := InitFlags(flags, []string{"dir", "-cpuprofile="})
	require.NoError(t, err)
	stop()
	assert.Equal(t, []string{"dir"}, args)

	_, _, err = InitFlags(flag.NewFlagSet("", flag.ContinueOnError), []string{"-nosuchflag"})
	assert.Error(t, err)
}

func TestListFlag(t *testing.T) {
	var list ListFlag
	require.NoError(t, list.Set("a, b"))
	require.NoError(t, list.Set("c"))
	if diff := cmp.Diff(ListFlag{"a", "b", "c"}, list); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "a,b,c", list.String())
	assert.Error(t, list.Set("d,,e"))
}
