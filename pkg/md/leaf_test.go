package md

import (
	"strings"
	"testing"

	"github.com/fluidfractal/mdtree/pkg/tt"
)

var Args = tt.Args

func TestIsFenceCloser(t *testing.T) {
	tt.Test(t, tt.Fn("isFenceCloser", isFenceCloser), tt.Table{
		Args("```", byte('`'), 3).Rets(true),
		Args("`````", byte('`'), 3).Rets(true),
		Args("``", byte('`'), 3).Rets(false),
		Args("  ```", byte('`'), 3).Rets(true),
		Args("    ```", byte('`'), 3).Rets(false),
		Args("``` x", byte('`'), 3).Rets(false),
		Args("```  \t", byte('`'), 3).Rets(true),
		Args("~~~", byte('`'), 3).Rets(false),
		Args("~~~~", byte('~'), 4).Rets(true),
		Args("~~~", byte('~'), 4).Rets(false),
	})
}

func TestDropTrailingHashes(t *testing.T) {
	tt.Test(t, tt.Fn("dropTrailingHashes", dropTrailingHashes), tt.Table{
		Args("Title ##").Rets("Title"),
		Args("Title##").Rets("Title"),
		Args("Title").Rets("Title"),
		Args("#").Rets(""),
		Args("x # #").Rets("x"),
		Args("a # b").Rets("a # b"),
		Args("#x#").Rets("#x"),
	})
}

func TestSplitTableRow(t *testing.T) {
	tt.Test(t, tt.Fn("splitTableRow", splitTableRow), tt.Table{
		Args("| a | b |").Rets([]string{"a", "b"}),
		Args("a | b").Rets([]string{"a", "b"}),
		Args("|a|").Rets([]string{"a"}),
		Args(`a \| b | c`).Rets([]string{"a | b", "c"}),
		Args("| |").Rets([]string{""}),
		Args("abc").Rets([]string{"abc"}),
		Args(":--- | ---:").Rets([]string{":---", "---:"}),
	})
}

func TestAngleBracketTextLine(t *testing.T) {
	tt.Test(t, tt.Fn("angleBracketTextLine", angleBracketTextLine), tt.Table{
		Args("< 2").Rets(true),
		Args("<> x").Rets(true),
		Args("<https://example.com>").Rets(true),
		Args("<user@example.com>").Rets(true),
		Args("<a+b@c>").Rets(true),
		Args("<x-y.z>").Rets(true),
		Args("<div>").Rets(false),
		Args("<div class=x>").Rets(false),
		Args("<3x>").Rets(false),
		Args("<x").Rets(false),
		Args("<").Rets(false),
		Args("a<b").Rets(false),
		Args("<!doctype html>").Rets(false),
	})
}

func TestTaskBox(t *testing.T) {
	tt.Test(t, tt.Fn("taskBox", taskBox), tt.Table{
		Args("[x] done").Rets(Complete, "done", true),
		Args("[X] done").Rets(Complete, "done", true),
		Args("[ ] todo").Rets(Incomplete, "todo", true),
		Args("[x]").Rets(Complete, "", true),
		Args("[x]\tz").Rets(Complete, "z", true),
		Args("[x]done").Rets(NoTask, "", false),
		Args("[y] x").Rets(NoTask, "", false),
		Args("plain").Rets(NoTask, "", false),
	})
}

func TestOrderedItem(t *testing.T) {
	tt.Test(t, tt.Fn("orderedItem", orderedItem), tt.Table{
		Args("1. a").Rets(1, byte('.'), "a", true),
		Args("3) b").Rets(3, byte(')'), "b", true),
		Args("1991. x").Rets(1991, byte('.'), "x", true),
		Args("2.   x").Rets(2, byte('.'), "x", true),
		Args("2.\t\tx").Rets(2, byte('.'), "x", true),
		Args("1. ").Rets(1, byte('.'), "", true),
		Args("1234567890. x").Rets(0, byte(0), "", false),
		Args("1.a").Rets(0, byte(0), "", false),
		Args("a. x").Rets(0, byte(0), "", false),
	})
}

func TestParseLinkLabel(t *testing.T) {
	tt.Test(t, tt.Fn("parseLinkLabel", parseLinkLabel), tt.Table{
		Args("[foo]: /url").Rets("foo", 5, true),
		Args("[]").Rets("", 2, true),
		Args(`[a\]b] x`).Rets(`a\]b`, 6, true),
		Args("[no close").Rets("", 0, false),
		Args("[a[b]]").Rets("", 0, false),
		Args("plain").Rets("", 0, false),
		Args("[" + strings.Repeat("a", 1200) + "]").Rets("", 0, false),
	})
}

func TestNormalizeLabel(t *testing.T) {
	tt.Test(t, tt.Fn("normalizeLabel", normalizeLabel), tt.Table{
		Args("Foo").Rets("foo"),
		Args("  a \t b  ").Rets("a b"),
		Args("A\nB").Rets("a b"),
		Args("Straße").Rets("strasse"),
	})
}

func TestNormalizeCodeSpanContent(t *testing.T) {
	tt.Test(t, tt.Fn("normalizeCodeSpanContent", normalizeCodeSpanContent), tt.Table{
		Args(" `x` ").Rets("`x`"),
		Args("a\nb").Rets("a b"),
		Args("  a  ").Rets(" a "),
		Args("   ").Rets("   "),
		Args(" a").Rets(" a"),
		Args("\r\nx\r").Rets("x"),
	})
}
