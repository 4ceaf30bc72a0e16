package md

import (
	"bytes"
	"errors"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"github.com/fluidfractal/mdtree/pkg/strutil"
)

// parser keeps the cursor of a parse. Recognizers advance pos on success
// and restore it before reporting a non-match, so backtracking is just
// remembering an int.
type parser struct {
	srcName string
	src     string
	pos     int
	// Nesting level of the current document; incremented for each nested
	// document parsed for a block quote or an HTML element.
	depth int
}

// Block quotes and HTML elements nest by re-entering the whole pipeline, so
// bound the recursion.
const maxNestingDepth = 64

func (ps *parser) eof() bool { return ps.pos == len(ps.src) }

func (ps *parser) rest() string { return ps.src[ps.pos:] }

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

// peekLine returns the rest of the current line, without the line ending.
func (ps *parser) peekLine() string {
	rest := ps.rest()
	return strings.TrimSuffix(rest[:strutil.FindFirstEOL(rest)], "\r")
}

// takeLine consumes the rest of the current line, including the line
// ending, and returns the line without the ending.
func (ps *parser) takeLine() string {
	rest := ps.rest()
	eol := strutil.FindFirstEOL(rest)
	ps.pos += eol
	if !ps.eof() {
		ps.pos++
	}
	return strings.TrimSuffix(rest[:eol], "\r")
}

// subDocument parses nested markdown text through the full pipeline, with
// its own reference scope. Positions in the returned blocks index into
// text, not into the outer source.
func (ps *parser) subDocument(text string) ([]Block, error) {
	sub := &parser{srcName: ps.srcName, src: text, depth: ps.depth + 1}
	if sub.depth > maxNestingDepth {
		return nil, sub.errorp(diag.Ranging{From: 0, To: len(text)},
			errors.New("exceeded maximum nesting depth"))
	}
	return sub.document()
}

// Error is a markdown parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

// ErrorTag implements [diag.ErrorTag].
func (ErrorTag) ErrorTag() string { return "markdown error" }

// UnpackErrors returns the constituent markdown errors if the given error
// contains one or more of them. Otherwise it returns nil.
func UnpackErrors(e error) []*Error {
	if errs := diag.UnpackErrors[ErrorTag](e); len(errs) > 0 {
		return errs
	}
	return nil
}

func (ps *parser) errorp(r diag.Ranger, e error) *Error {
	return &Error{
		Message: e.Error(),
		Context: *diag.NewContext(ps.srcName, ps.src, r),
	}
}

// wrapNested reports a failure from a nested parse as a single error
// spanning the enclosing block. Positions inside the nested text are not
// mapped back to the outer document.
func (ps *parser) wrapNested(r diag.Ranger, err error) *Error {
	msg := err.Error()
	if errs := UnpackErrors(err); len(errs) > 0 {
		msg = errs[0].Message
	}
	return ps.errorp(r, errors.New(msg))
}

func newError(text string, shouldbe ...string) error {
	if len(shouldbe) == 0 {
		return errors.New(text)
	}
	var buf bytes.Buffer
	if len(text) > 0 {
		buf.WriteString(text + ", ")
	}
	buf.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			buf.WriteString(" or ")
		} else {
			buf.WriteString(", ")
		}
		buf.WriteString(opt)
	}
	return errors.New(buf.String())
}
