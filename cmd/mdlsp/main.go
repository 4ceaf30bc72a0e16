// Command mdlsp runs a language server for markdown documents, speaking
// LSP over standard input and output.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/fluidfractal/mdtree/pkg/lsp"
	"github.com/sourcegraph/jsonrpc2"
)

var logPath = flag.String("log", "", "log JSON-RPC traffic to the named file")

func main() {
	flag.Parse()

	var opts []jsonrpc2.ConnOpt
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, jsonrpc2.LogMessages(log.New(f, "", log.LstdFlags)))
	}
	if err := lsp.Run(context.Background(), os.Stdin, os.Stdout, opts...); err != nil {
		log.Fatal(err)
	}
}
