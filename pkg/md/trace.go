package md

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/strutil"
)

// ToTrace renders an indented structural dump of the document tree. It is
// mainly useful in tests and for debugging.
func ToTrace(doc *Document) string {
	var t tracer
	for _, b := range doc.Blocks {
		t.block(0, b)
	}
	return strutil.JoinLines(t.lines)
}

type tracer struct {
	lines []string
}

func (t *tracer) emit(indent int, s string) {
	t.lines = append(t.lines, strings.Repeat("  ", indent)+s)
}

func (t *tracer) block(indent int, b Block) {
	switch b := b.(type) {
	case *Heading:
		t.emit(indent, fmt.Sprintf("Heading Level=%d", b.Level))
		t.inlines(indent+1, b.Content)
	case *Paragraph:
		t.emit(indent, "Paragraph")
		t.inlines(indent+1, b.Content)
	case *CodeBlock:
		if b.Language != "" {
			t.emit(indent, fmt.Sprintf("CodeBlock Language=%q", b.Language))
		} else {
			t.emit(indent, "CodeBlock")
		}
		if b.Body != "" {
			for _, line := range strings.Split(b.Body, "\n") {
				t.emit(indent+1, "| "+line)
			}
		}
	case *ThematicBreak:
		t.emit(indent, "ThematicBreak")
	case *BlockQuote:
		t.emit(indent, "BlockQuote")
		for _, child := range b.Blocks {
			t.block(indent+1, child)
		}
	case *UnorderedList:
		t.emit(indent, "UnorderedList")
		for _, item := range b.Items {
			switch item.Task {
			case Incomplete:
				t.emit(indent+1, "Item Task=[ ]")
			case Complete:
				t.emit(indent+1, "Item Task=[x]")
			default:
				t.emit(indent+1, "Item")
			}
			t.inlines(indent+2, item.Content)
		}
	case *OrderedList:
		t.emit(indent, fmt.Sprintf("OrderedList Start=%d", b.Start))
		for _, item := range b.Items {
			t.emit(indent+1, "Item")
			t.inlines(indent+2, item)
		}
	case *Table:
		t.emit(indent, "Table")
		for _, cell := range b.Header {
			t.emit(indent+1, "HeaderCell Align="+cell.Alignment.String())
			t.inlines(indent+2, cell.Content)
		}
	case *HTMLBlock:
		t.htmlNode(indent, b.Node)
	}
}

func (t *tracer) htmlNode(indent int, n HTMLNode) {
	switch n := n.(type) {
	case *HTMLElement:
		var sb strings.Builder
		sb.WriteString("HTMLElement Tag=" + n.Tag)
		for _, attr := range n.Attrs {
			fmt.Fprintf(&sb, " %s=%q", attr.Key, attr.Value)
		}
		t.emit(indent, sb.String())
		for _, child := range n.Children {
			t.block(indent+1, child)
		}
	case *HTMLComment:
		t.emit(indent, "HTMLComment "+strconv.Quote(n.Text))
	case *HTMLCdata:
		t.emit(indent, "HTMLCdata "+strconv.Quote(n.Text))
	case *HTMLInstruction:
		t.emit(indent, "HTMLInstruction "+strconv.Quote(n.Text))
	case *HTMLDeclaration:
		t.emit(indent, fmt.Sprintf("HTMLDeclaration Kind=%s Content=%q", n.Kind, n.Content))
	}
}

func (t *tracer) inlines(indent int, content []Inline) {
	for _, n := range content {
		t.inline(indent, n)
	}
}

func (t *tracer) inline(indent int, n Inline) {
	switch n := n.(type) {
	case *Text:
		t.emit(indent, "Text "+strconv.Quote(n.Text))
	case *CodeSpan:
		t.emit(indent, "CodeSpan "+strconv.Quote(n.Text))
	case *Emphasis:
		t.emit(indent, "Emphasis")
		t.inlines(indent+1, n.Content)
	case *Strong:
		t.emit(indent, "Strong")
		t.inlines(indent+1, n.Content)
	case *Strikethrough:
		t.emit(indent, "Strikethrough")
		t.inlines(indent+1, n.Content)
	case *Link:
		t.emit(indent, linkTrace("Link", n.Destination, n.Title))
		t.inlines(indent+1, n.Content)
	case *Image:
		t.emit(indent, linkTrace("Image", n.Destination, n.Title))
		t.inlines(indent+1, n.Content)
	case *HardLineBreak:
		t.emit(indent, "HardLineBreak")
	case *HTMLInline:
		t.htmlNode(indent, n.Node)
	}
}

func linkTrace(kind, dest, title string) string {
	s := fmt.Sprintf("%s Dest=%q", kind, dest)
	if title != "" {
		s += fmt.Sprintf(" Title=%q", title)
	}
	return s
}
