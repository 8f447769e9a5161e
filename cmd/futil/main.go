// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"futil/internal/compiler"
	"futil/internal/passes"
	"futil/internal/primitives"
)

var log = commonlog.GetLogger("futil.cli")

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: futil [flags] <file.futil>...\n\nFlags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "\nPasses: %v\n", passes.Names())
}

func main() {
	var cfg config
	flag.StringVar(&cfg.libPath, "lib", "", "YAML file with extra primitive definitions")
	flag.StringVar(&cfg.passList, "passes", "default", "comma-separated passes to run (\"default\" expands to the standard pipeline)")
	flag.StringVar(&cfg.emit, "emit", "ir", "what to print on success: ir, ast or none")
	flag.BoolVar(&cfg.schedule, "schedule", false, "print each component's activation trace under unit latencies")
	flag.BoolVar(&cfg.noPasses, "no-passes", false, "stop after lowering")
	watch := flag.Bool("watch", false, "recompile whenever an input file changes")
	verbosity := flag.Int("v", 0, "log verbosity")
	flag.Usage = usage
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	opts, err := cfg.options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *watch {
		if err := watchFiles(ctx, flag.Args(), opts, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
			os.Exit(1)
		}
		return
	}

	if !run(ctx, flag.Args(), opts, cfg) {
		os.Exit(1)
	}
}

type config struct {
	libPath  string
	passList string
	emit     string
	schedule bool
	noPasses bool
}

func (c config) options() (compiler.Options, error) {
	var opts compiler.Options

	lib := primitives.Default()
	if c.libPath != "" {
		extra, err := primitives.LoadFile(c.libPath)
		if err != nil {
			return opts, err
		}
		lib.Merge(extra)
	}
	opts.Library = lib

	pipeline, err := passes.ParsePipeline(c.passList)
	if err != nil {
		return opts, err
	}
	opts.Pipeline = pipeline
	opts.SkipPasses = c.noPasses

	switch c.emit {
	case "ir", "ast", "none":
	default:
		return opts, fmt.Errorf("unknown -emit value %q (want ir, ast or none)", c.emit)
	}
	return opts, nil
}

// run compiles every path and prints the results in argument order. It
// reports whether all files compiled without errors.
func run(ctx context.Context, paths []string, opts compiler.Options, cfg config) bool {
	startTime := time.Now()

	results, err := compileFiles(ctx, paths, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		return false
	}

	ok := true
	for _, res := range results {
		if !render(os.Stdout, res, cfg) {
			ok = false
		}
	}

	duration := formatDuration(time.Since(startTime))
	if ok {
		color.Green("Successfully compiled %d file(s) in %s", len(results), duration)
	} else {
		color.Red("Compilation failed after %s", duration)
	}
	return ok
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
