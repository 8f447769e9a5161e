// Package compiler runs the frontend, lowering and pass pipeline over one
// source file. It is shared by the command line driver, the REPL and the
// language server.
package compiler

import (
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"futil/grammar"
	"futil/internal/ast"
	"futil/internal/errors"
	"futil/internal/ir"
	"futil/internal/passes"
	"futil/internal/primitives"
)

var log = commonlog.GetLogger("futil.compiler")

// Options select the primitive library and the passes to run. Zero values
// mean the built-in library and the default pipeline.
type Options struct {
	Library  *primitives.Library
	Pipeline *passes.Pipeline
	// SkipPasses stops after lowering.
	SkipPasses bool
}

// Result holds whatever stages completed. Namespace is nil on a syntax
// error; Context is nil when lowering never ran.
type Result struct {
	Filename    string
	Source      string
	Namespace   *ast.Namespace
	Context     *ir.Context
	Diagnostics []errors.CompilerError
	Duration    time.Duration
}

// Failed reports whether any stage produced an error diagnostic.
func (r *Result) Failed() bool {
	return errors.HasErrors(r.Diagnostics)
}

// Compile parses, lowers and runs the pass pipeline over source. User
// errors are returned as diagnostics; the error result is only used for an
// IR invariant violation, which means a pass is broken.
func Compile(filename, source string, opts Options) (*Result, error) {
	start := time.Now()
	res := &Result{Filename: filename, Source: source}
	defer func() { res.Duration = time.Since(start) }()

	ns, err := grammar.ParseString(filename, source)
	if err != nil {
		var syntaxErr *grammar.SyntaxError
		if pkgerrors.As(err, &syntaxErr) {
			res.Diagnostics = append(res.Diagnostics, syntaxErr.Diagnostic())
			return res, nil
		}
		return res, err
	}
	res.Namespace = ns

	lib := opts.Library
	if lib == nil {
		lib = primitives.Default()
	}
	ctx, diags := ir.BuildContext(ns, lib)
	res.Context = ctx
	res.Diagnostics = append(res.Diagnostics, diags...)
	if errors.HasErrors(diags) || opts.SkipPasses {
		return res, nil
	}

	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = passes.DefaultPipeline()
	}
	diags, err = pipeline.Run(ctx)
	res.Diagnostics = append(res.Diagnostics, diags...)
	if err != nil {
		log.Errorf("%s: %+v", filename, err)
		return res, err
	}

	log.Debugf("compiled %s: %d components, %d diagnostics", filename, len(ctx.Components), len(res.Diagnostics))
	return res, nil
}
