package strutil

import (
	"testing"

	. "github.com/fluidfractal/mdtree/pkg/tt"
)

func TestJoinLines(t *testing.T) {
	Test(t, Fn("JoinLines", JoinLines), Table{
		Args([]string(nil)).Rets(""),
		Args([]string{"foo"}).Rets("foo\n"),
		Args([]string{"foo", "bar"}).Rets("foo\nbar\n"),
	})
}
