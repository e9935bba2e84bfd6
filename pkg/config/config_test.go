// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Nested struct {
	Aaa int
	Bbb string
}

type Config struct {
	Foo int
	Bar string
	Qux []string
	Box Nested
	Boq *Nested
}

func TestLoad(t *testing.T) {
	t.Parallel()
	tests := []struct {
		yaml   bool
		input  string
		output Config
		err    string
	}{
		{
			input:  `{"foo": 42}`,
			output: Config{Foo: 42},
		},
		{
			input:  `{"BAR": "Baz", "foo": 42}`,
			output: Config{Foo: 42, Bar: "Baz"},
		},
		{
			input: `{"foobar": 42}`,
			err:   `json: unknown field "foobar"`,
		},
		{
			input: "# comment\n{\n\t# another one\n\t\"qux\": [\"aaa\", \"bbb\"]\n}\n",
			output: Config{
				Qux: []string{"aaa", "bbb"},
			},
		},
		{
			input: `{"foo": 1, "boq": {"aaa": 12, "bbb": "bbb"}}`,
			output: Config{
				Foo: 1,
				Boq: &Nested{Aaa: 12, Bbb: "bbb"},
			},
		},
		{
			yaml:  true,
			input: "foo: 1\nqux: [a, b]\nbox:\n  aaa: 2\n",
			output: Config{
				Foo: 1,
				Qux: []string{"a", "b"},
				Box: Nested{Aaa: 2},
			},
		},
		{
			yaml:  true,
			input: "# nothing here\n",
		},
		{
			yaml:  true,
			input: "foo: 1\nfoobar: 2\n",
			err:   "field foobar not found",
		},
		{
			yaml:  true,
			input: "foo: [1\n",
			err:   "failed to parse config file",
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var cfg Config
			var err error
			if test.yaml {
				err = LoadYAML([]byte(test.input), &cfg)
			} else {
				err = LoadData([]byte(test.input), &cfg)
			}
			if test.err != "" {
				assert.ErrorContains(t, err, test.err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(test.output, cfg); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "cfg.yml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("bar: yaml\n"), 0644))
	jsonFile := filepath.Join(dir, "cfg.cfg")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"bar": "json"}`), 0644))

	var cfg Config
	require.NoError(t, LoadFile(yamlFile, &cfg))
	assert.Equal(t, "yaml", cfg.Bar)
	require.NoError(t, LoadFile(jsonFile, &cfg))
	assert.Equal(t, "json", cfg.Bar)

	assert.EqualError(t, LoadFile("", &cfg), "no config file specified")
	assert.ErrorContains(t, LoadFile(filepath.Join(dir, "missing.yml"), &cfg), "failed to read config file")
}

func TestLoadBadType(t *testing.T) {
	t.Parallel()
	want := "config type is not pointer to struct"
	if err := LoadData([]byte("{}"), 1); err == nil || err.Error() != want {
		t.Fatalf("got '%v', want '%v'", err, want)
	}
	i := 0
	if err := LoadYAML([]byte("{}"), &i); err == nil || err.Error() != want {
		t.Fatalf("got '%v', want '%v'", err, want)
	}
	s := struct{}{}
	if err := LoadData([]byte("{}"), s); err == nil || err.Error() != want {
		t.Fatalf("got '%v', want '%v'", err, want)
	}
}
