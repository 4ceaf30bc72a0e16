// Command mdtrace parses markdown from standard input and prints the
// parse tree in an indented debug format.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"github.com/fluidfractal/mdtree/pkg/md"
	"github.com/mattn/go-isatty"
)

func main() {
	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	doc, err := md.Parse(md.Source{Name: "stdin", Code: string(text)})
	if err != nil {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			diag.ShowError(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}
	fmt.Print(md.ToTrace(doc))
}
