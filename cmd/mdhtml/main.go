// Command mdhtml converts markdown to HTML.
//
// With no arguments it reads markdown from standard input. With file
// arguments it converts each file, concatenating the rendered HTML on
// standard output or, with -o, into the named file. A failing file does
// not stop the remaining files from being converted.
//
// With -cache, renderings are stored in a bbolt file keyed by the source
// text, so unchanged inputs skip the parse entirely on later runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"github.com/fluidfractal/mdtree/pkg/errutil"
	"github.com/fluidfractal/mdtree/pkg/md"
	"github.com/fluidfractal/mdtree/pkg/store"
	"github.com/mattn/go-isatty"
)

var (
	outPath   = flag.String("o", "", "write HTML to the named file instead of stdout")
	cachePath = flag.String("cache", "", "cache renderings in the named bbolt file")
)

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			diag.ShowError(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}
}

func run(files []string) error {
	var cache *store.Store
	if *cachePath != "" {
		var err error
		cache, err = store.Open(*cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if len(files) == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %v", err)
		}
		html, err := render(cache, "stdin", string(text))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, html)
		return err
	}

	var errs []error
	for _, file := range files {
		textBytes, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %v", file, err))
			continue
		}
		html, err := render(cache, file, string(textBytes))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := io.WriteString(out, html); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %v", file, err))
		}
	}
	return errutil.Multi(errs...)
}

func render(cache *store.Store, name, text string) (string, error) {
	if cache != nil {
		html, err := cache.GetHTML(text)
		if err == nil {
			return html, nil
		} else if !errors.Is(err, store.ErrNoCachedHTML) {
			return "", err
		}
	}
	doc, err := md.Parser{FrontMatter: true}.Parse(md.Source{Name: name, Code: text})
	if err != nil {
		return "", err
	}
	html := md.ToHTML(doc)
	if cache != nil {
		if err := cache.PutHTML(text, html); err != nil {
			return "", err
		}
	}
	return html, nil
}
