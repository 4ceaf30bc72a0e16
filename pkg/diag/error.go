package diag

import (
	"fmt"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/strutil"
)

// Error represents an error with context that can be shown.
type Error[T ErrorTag] struct {
	Message string
	Context Context
}

// ErrorTag parameterizes [Error] by the kind of error. It should be a
// zero-sized type, with the ErrorTag method returning the name of the kind.
type ErrorTag interface {
	ErrorTag() string
}

func errorTag[T ErrorTag]() string {
	var tag T
	return tag.ErrorTag()
}

// Variables controlling the style of the message in Show.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	return errorTag[T]() + ": " + e.errorSansTag()
}

func (e *Error[T]) errorSansTag() string {
	return e.Context.describeStart() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n",
		strutil.Title(errorTag[T]()), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

// PackErrors packs multiple instances of [Error] with the same tag into one
// error:
//
//   - If called with no errors, it returns nil.
//
//   - If called with one error, it returns that error itself.
//
//   - If called with more than one error, it returns an error that combines
//     all of them. The returned error also implements [Shower], and its Error
//     and Show methods only show the individual errors, not the combined
//     error itself.
func PackErrors[T ErrorTag](errs []*Error[T]) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return multipleErrors[T]{errs}
	}
}

// UnpackErrors returns the constituent [Error] instances in an error if it is
// built from [PackErrors]. Otherwise it returns nil.
func UnpackErrors[T ErrorTag](err error) []*Error[T] {
	switch err := err.(type) {
	case *Error[T]:
		return []*Error[T]{err}
	case multipleErrors[T]:
		return err.errors
	default:
		return nil
	}
}

type multipleErrors[T ErrorTag] struct {
	errors []*Error[T]
}

func (es multipleErrors[T]) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "multiple %ss: ", errorTag[T]())
	for i, e := range es.errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.errorSansTag())
	}
	return sb.String()
}

func (es multipleErrors[T]) Show(indent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Multiple %ss:", errorTag[T]())
	for _, e := range es.errors {
		sb.WriteString("\n" + indent + "  ")
		sb.WriteString(e.Show(indent + "  "))
	}
	return sb.String()
}
