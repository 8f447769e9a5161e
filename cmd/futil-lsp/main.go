// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"futil/internal/compiler"
	"futil/internal/lsp"
	"futil/internal/primitives"
)

const lsName = "futil"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	verbosity := flag.Int("v", 1, "log verbosity")
	logFile := flag.String("log", "", "write logs to this file instead of stderr")
	libPath := flag.String("lib", "", "YAML file with extra primitive definitions")
	flag.Parse()

	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(*verbosity, path)
	log := commonlog.GetLogger("futil.lsp")

	lib := primitives.Default()
	if *libPath != "" {
		extra, err := primitives.LoadFile(*libPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "futil-lsp: %v\n", err)
			os.Exit(1)
		}
		lib.Merge(extra)
	}

	futilHandler := lsp.NewFutilHandler(compiler.Options{Library: lib})

	handler = protocol.Handler{
		Initialize:                     futilHandler.Initialize,
		Initialized:                    futilHandler.Initialized,
		Shutdown:                       futilHandler.Shutdown,
		SetTrace:                       futilHandler.SetTrace,
		TextDocumentDidOpen:            futilHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           futilHandler.TextDocumentDidClose,
		TextDocumentDidChange:          futilHandler.TextDocumentDidChange,
		TextDocumentCompletion:         futilHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: futilHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s language server %s", lsName, version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}
