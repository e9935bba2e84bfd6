// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"errors"
	"flag"
	"strings"
)

// ParseFlags parses args allowing flags to be interleaved with positional
// arguments ("mex-check src -bind tests"). Everything after "--" is positional.
// Returns positional arguments in their original order.
func ParseFlags(set *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := set.Parse(args); err != nil {
			return nil, err
		}
		rest := set.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed != 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// ListFlag collects values of a flag that may be repeated and may hold
// several comma-separated values, e.g. "-exclude=a,b -exclude=c".
type ListFlag []string

func (l *ListFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *ListFlag) Set(value string) error {
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return errors.New("empty list element")
		}
		*l = append(*l, elem)
	}
	return nil
}
