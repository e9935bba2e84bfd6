// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"flag"
	"fmt"
	"os"
)

// InitFlags handles common tasks for command line tools:
//   - parses flags, which may follow positional arguments (see ParseFlags)
//   - adds support for cpu/mem profiling (-cpuprofile/memprofile flags)
//
// Returns positional arguments and a function that flushes profiles
// and must be called before exit. Use as:
//
//	args, stop, err := tool.InitFlags(flags, os.Args[1:])
//	if err != nil {
//		tool.Fail(err)
//	}
//	defer stop()
func InitFlags(set *flag.FlagSet, args []string) ([]string, func(), error) {
	cpuprof := set.String("cpuprofile", "", "write CPU profile to this file")
	memprof := set.String("memprofile", "", "write memory profile to this file")
	positional, err := ParseFlags(set, args)
	if err != nil {
		return nil, nil, err
	}
	return positional, installProfiling(*cpuprof, *memprof), nil
}

func Failf(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}
