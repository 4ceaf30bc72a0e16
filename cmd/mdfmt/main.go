// Command mdfmt reformats markdown sources in a canonical style.
//
// With no arguments it reads markdown from standard input and writes the
// formatted text to standard output. With file arguments it formats each
// file, printing the result unless -w is given, in which case the file is
// overwritten in place.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"github.com/fluidfractal/mdtree/pkg/md"
	"github.com/mattn/go-isatty"
)

var overwrite = flag.Bool("w", false, "write result back to the source file")

func main() {
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		text, err := io.ReadAll(os.Stdin)
		handleReadError("stdin", err)
		result, err := format("stdin", string(text))
		handleParseError(err)
		fmt.Print(result)
		return
	}
	for _, file := range files {
		textBytes, err := os.ReadFile(file)
		handleReadError(file, err)
		result, err := format(file, string(textBytes))
		handleParseError(err)
		if *overwrite {
			err := os.WriteFile(file, []byte(result), 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", file, err)
				os.Exit(2)
			}
		} else {
			fmt.Print(result)
		}
	}
}

func format(name, text string) (string, error) {
	doc, err := md.Parse(md.Source{Name: name, Code: text})
	if err != nil {
		return "", err
	}
	return md.ToMarkdown(doc), nil
}

func handleReadError(name string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", name, err)
		os.Exit(2)
	}
}

// handleParseError reports a parse error and exits. The error message
// already names the source, so there is nothing to add here; a terminal
// gets the rich multi-line form.
func handleParseError(err error) {
	if err == nil {
		return
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		diag.ShowError(os.Stderr, err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(2)
}
