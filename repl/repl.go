// Package repl is an interactive shell that compiles namespaces typed at
// the prompt and prints their IR.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"futil/internal/compiler"
	futilerrors "futil/internal/errors"
	"futil/internal/ir"
	"futil/internal/passes"
	"futil/internal/sched"
)

const (
	PROMPT      = ">> "
	CONTINUE    = ".. "
	historyFile = ".futil_history"
)

// Session holds the shell's settings between inputs.
type Session struct {
	opts     compiler.Options
	showAST  bool
	schedule bool
}

func NewSession(opts compiler.Options) *Session {
	return &Session{opts: opts}
}

// Eval handles one complete input: a ":" command or a namespace.
func (s *Session) Eval(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", true
	}
	if strings.HasPrefix(input, ":") {
		return s.command(input)
	}

	res, err := compiler.Compile("<repl>", input, s.opts)
	if err != nil {
		return color.RedString("internal error: %v", err), true
	}

	var out strings.Builder
	if len(res.Diagnostics) > 0 {
		out.WriteString(futilerrors.NewErrorReporter("<repl>", input).FormatAll(res.Diagnostics))
	}
	if res.Failed() {
		return out.String(), true
	}

	if s.showAST {
		out.WriteString(res.Namespace.String())
		out.WriteByte('\n')
	}
	out.WriteString(ir.PrintContext(res.Context))
	if s.schedule {
		for _, comp := range res.Context.Components {
			trace, err := sched.Schedule(comp, &sched.ScriptOracle{})
			if err != nil {
				fmt.Fprintf(&out, "schedule %s: %v\n", comp.Name, err)
				continue
			}
			fmt.Fprintf(&out, "schedule %s:\n%s\n", comp.Name, trace)
		}
	}
	return out.String(), true
}

func (s *Session) command(input string) (string, bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return "", false
	case ":ast":
		s.showAST = !s.showAST
		return fmt.Sprintf("ast output %s", onOff(s.showAST)), true
	case ":schedule":
		s.schedule = !s.schedule
		return fmt.Sprintf("schedule output %s", onOff(s.schedule)), true
	case ":passes":
		if len(fields) == 1 {
			return "available passes: " + strings.Join(passes.Names(), ", "), true
		}
		p, err := passes.ParsePipeline(strings.Join(fields[1:], ","))
		if err != nil {
			return color.RedString("%v", err), true
		}
		s.opts.Pipeline = p
		return fmt.Sprintf("pipeline set to %d pass(es)", len(p.Passes())), true
	}
	return "unknown command. Commands: :ast, :schedule, :passes [names], :quit", true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Incomplete reports whether src has unclosed braces, in which case the
// shell keeps reading lines.
func Incomplete(src string) bool {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return depth > 0
}

// Start runs the shell on the terminal until :quit or end of input.
func Start(s *Session) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := read(ln)
		if !ok {
			fmt.Println()
			return
		}
		out, more := s.Eval(src)
		if out != "" {
			fmt.Println(strings.TrimRight(out, "\n"))
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
		if !more {
			return
		}
	}
}

func read(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUE
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
