package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"futil/internal/compiler"
	"futil/internal/errors"
	"futil/internal/ir"
	"futil/internal/sched"
)

// compileFiles compiles each path on its own goroutine. Every file gets its
// own IR context, so nothing is shared between workers except the read-only
// primitive library and the stateless passes. Results keep argument order.
func compileFiles(ctx context.Context, paths []string, opts compiler.Options) ([]*compiler.Result, error) {
	results := make([]*compiler.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			res, err := compiler.Compile(path, string(source), opts)
			if err != nil {
				return fmt.Errorf("%s: internal compiler error: %w", path, err)
			}
			log.Debugf("%s compiled in %s", path, formatDuration(res.Duration))
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// render prints the diagnostics of res and, when it compiled, the requested
// output. It reports whether res is free of errors.
func render(w io.Writer, res *compiler.Result, cfg config) bool {
	if len(res.Diagnostics) > 0 {
		reporter := errors.NewErrorReporter(res.Filename, res.Source)
		fmt.Fprint(w, reporter.FormatAll(res.Diagnostics))
	}
	if res.Failed() {
		return false
	}

	switch cfg.emit {
	case "ir":
		fmt.Fprint(w, ir.PrintContext(res.Context))
	case "ast":
		fmt.Fprintln(w, res.Namespace.String())
	}

	if cfg.schedule {
		for _, comp := range res.Context.Components {
			trace, err := sched.Schedule(comp, &sched.ScriptOracle{})
			if err != nil {
				fmt.Fprintf(w, "schedule %s: %v\n", comp.Name, err)
				return false
			}
			fmt.Fprintf(w, "schedule %s:\n%s\n", comp.Name, trace)
		}
	}
	return true
}
