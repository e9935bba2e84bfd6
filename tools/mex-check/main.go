// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// mex-check reports match statements over enum values that do not handle
// every member of the enum. Arguments are Python files or directories,
// directories are searched for *.py files recursively:
//
//	mex-check -config mex.yaml src tests -exclude '**/*_pb2.py'
//
// The exit status is 1 if any diagnostics are reported or any file fails to parse.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/mexcheck/mexcheck/pkg/ast"
	"github.com/mexcheck/mexcheck/pkg/exhaustive"
	"github.com/mexcheck/mexcheck/pkg/log"
	"github.com/mexcheck/mexcheck/pkg/stats"
	"github.com/mexcheck/mexcheck/pkg/tool"
	"golang.org/x/sync/errgroup"
)

var (
	statFiles = stats.Create("files", "Python files checked",
		stats.Console, stats.Prometheus("mex_files_checked"))
	statParseErrors = stats.Create("parse errors", "Files that failed to parse",
		stats.Console, stats.Prometheus("mex_parse_failures"))
	statEnums = stats.Create("enums", "Enums per checked file",
		stats.Distribution{}, stats.Prometheus("mex_enums_per_file"))
)

func main() {
	code, err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		tool.Fail(err)
	}
	os.Exit(code)
}

func run(args []string, stdout, stderr io.Writer) (int, error) {
	flags := flag.NewFlagSet("mex-check", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		flagConfig        = flags.String("config", "", "YAML or JSON config file")
		flagBind          = flags.Bool("bind", false, "check match subjects only against the enum they are annotated with")
		flagIgnoreGuarded = flags.Bool("ignore-guarded", false, "arms with a guard do not cover their enum member")
		flagProcs         = flags.Int("procs", 0, "number of files checked in parallel (default: from config)")
		flagDumpEnums     = flags.Bool("dump-enums", false, "print enums found in the checked files")
		flagJSON          = flags.Bool("json", false, "print diagnostics as a JSON report")
		flagStats         = flags.Bool("stats", false, "print checker statistics to stderr")
		flagMetrics       = flags.String("metrics", "", "write metrics in the Prometheus text format to this file")
		flagVerbose       = flags.Int("vv", 0, "verbosity")
		flagExclude       tool.ListFlag
	)
	flags.Var(&flagExclude, "exclude", "comma-separated globs of files to skip (can be repeated)")
	paths, stop, err := tool.InitFlags(flags, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, nil
		}
		return 0, err
	}
	defer stop()
	log.SetVerbosity(*flagVerbose)
	if len(paths) == 0 {
		return 0, errors.New("usage: mex-check [flags] files... or dirs...")
	}

	cfg := exhaustive.DefaultConfig()
	if *flagConfig != "" {
		if cfg, err = exhaustive.LoadConfig(*flagConfig); err != nil {
			return 0, err
		}
	}
	cfg.BindSubjects = cfg.BindSubjects || *flagBind
	cfg.IgnoreGuarded = cfg.IgnoreGuarded || *flagIgnoreGuarded
	if *flagProcs != 0 {
		cfg.Procs = *flagProcs
	}
	cfg.Exclude = append(cfg.Exclude, flagExclude...)
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	files, err := findFiles(paths, cfg)
	if err != nil {
		return 0, err
	}
	log.Logf(0, "checking %v files", len(files))
	host := new(checkerHost)
	exhaustive.Register(host)
	results, err := host.checkFiles(context.Background(), files, cfg)
	if err != nil {
		return 0, err
	}

	var diags []*exhaustive.Diagnostic
	failed := 0
	for _, res := range results {
		stderr.Write(res.parseErrors.Bytes())
		if res.failed {
			failed++
			continue
		}
		diags = append(diags, res.diags...)
	}
	exhaustive.SortDiagnostics(diags)
	if *flagDumpEnums {
		dumpEnums(stdout, results)
	}
	if *flagJSON {
		if err := writeReport(stdout, results, diags); err != nil {
			return 0, err
		}
	} else {
		for _, diag := range diags {
			fmt.Fprintf(stdout, "%v\n", diag)
		}
	}
	if *flagStats {
		for _, stat := range stats.Collect(stats.Console) {
			fmt.Fprintf(stderr, "%-24v: %v\n", stat.Name, stat.Value)
		}
	}
	if *flagMetrics != "" {
		if err := writeMetrics(*flagMetrics); err != nil {
			return 0, err
		}
	}
	if len(diags) != 0 || failed != 0 {
		return 1, nil
	}
	return 0, nil
}

// findFiles expands directories into the *.py files they contain
// and drops excluded files. Files named explicitly are never dropped
// because of their extension.
func findFiles(paths []string, cfg *exhaustive.Config) ([]string, error) {
	var files []string
	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %v: %w", path, err)
		}
		if !st.IsDir() {
			if !cfg.Excluded(path) {
				files = append(files, path)
			}
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(path), "**/*.py", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to search %v: %w", path, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			file := filepath.Join(path, filepath.FromSlash(match))
			if cfg.Excluded(file) {
				log.Logf(1, "%v: excluded", file)
				continue
			}
			files = append(files, file)
		}
	}
	return files, nil
}

type fileResult struct {
	file        string
	failed      bool
	parseErrors bytes.Buffer
	enums       []*exhaustive.EnumDef
	diags       []*exhaustive.Diagnostic
}

// checkerHost runs the checkers registered with it on every file.
type checkerHost struct {
	factories []exhaustive.Factory
}

func (host *checkerHost) RegisterChecker(name, version string, factory exhaustive.Factory) {
	log.Logf(1, "loaded checker %v %v", name, version)
	host.factories = append(host.factories, factory)
}

// checkFiles checks up to cfg.Procs files in parallel.
// A single file gets the parallelism for its match statements instead.
func (host *checkerHost) checkFiles(ctx context.Context, files []string, cfg *exhaustive.Config) (
	[]*fileResult, error) {
	matchProcs := 1
	if len(files) == 1 {
		matchProcs = cfg.Procs
	}
	results := make([]*fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Procs)
	for i, file := range files {
		g.Go(func() error {
			res, err := host.checkFile(ctx, file, cfg, matchProcs)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (host *checkerHost) checkFile(ctx context.Context, filename string, cfg *exhaustive.Config,
	matchProcs int) (*fileResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", filename, err)
	}
	statFiles.Add(1)
	res := &fileResult{file: filename}
	file := ast.Parse(data, filename, func(pos ast.Pos, msg string) {
		fmt.Fprintf(&res.parseErrors, "%v: %v\n", pos, msg)
	})
	if file == nil {
		statParseErrors.Add(1)
		res.failed = true
		return res, nil
	}
	for _, factory := range host.factories {
		checker := factory(file, cfg)
		res.enums = append(res.enums, checker.Registry().Enums()...)
		diags, err := checker.CheckParallel(ctx, matchProcs)
		if err != nil {
			return nil, err
		}
		res.diags = append(res.diags, diags...)
	}
	statEnums.Add(len(res.enums))
	return res, nil
}

func dumpEnums(w io.Writer, results []*fileResult) {
	for _, res := range results {
		for _, def := range res.enums {
			fmt.Fprintf(w, "%v: enum %v [%v]\n", def.Pos, def.Name, strings.Join(def.Members, ", "))
		}
	}
}

type report struct {
	RunID       string        `json:"run_id"`
	Checker     string        `json:"checker"`
	Version     string        `json:"version"`
	Files       int           `json:"files"`
	Failed      []string      `json:"failed,omitempty"`
	Diagnostics []*reportDiag `json:"diagnostics"`
}

type reportDiag struct {
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Column  int      `json:"column"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Enum    string   `json:"enum,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func writeReport(w io.Writer, results []*fileResult, diags []*exhaustive.Diagnostic) error {
	rep := &report{
		RunID:       uuid.New().String(),
		Checker:     exhaustive.Name,
		Version:     exhaustive.Version,
		Files:       len(results),
		Diagnostics: []*reportDiag{},
	}
	for _, res := range results {
		if res.failed {
			rep.Failed = append(rep.Failed, res.file)
		}
	}
	for _, diag := range diags {
		rep.Diagnostics = append(rep.Diagnostics, &reportDiag{
			File:    diag.Pos.File,
			Line:    diag.Line(),
			Column:  diag.Column(),
			Code:    diag.Code,
			Message: diag.Message,
			Enum:    diag.Enum,
			Missing: diag.Missing,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(rep)
}

func writeMetrics(filename string) error {
	buf := new(bytes.Buffer)
	if err := stats.WritePrometheus(buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
