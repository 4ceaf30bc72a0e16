package md

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	escapeHTML = strings.NewReplacer(
		"&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;").Replace
	// Bytes that commonly need percent-encoding in destinations. This is
	// not a full URL encoder; destinations are mostly passed through.
	escapeURL = strings.NewReplacer(
		`"`, "%22", `\`, "%5C", " ", "%20", "`", "%60",
		"[", "%5B", "]", "%5D", "<", "%3C", ">", "%3E").Replace
)

// ToHTML renders the document tree as HTML.
func ToHTML(doc *Document) string {
	var c htmlRenderer
	for _, b := range doc.Blocks {
		c.block(b)
	}
	return c.sb.String()
}

type htmlRenderer struct {
	sb strings.Builder
}

func (c *htmlRenderer) write(s string) { c.sb.WriteString(s) }

func (c *htmlRenderer) writeLine(s string) {
	c.sb.WriteString(s)
	c.sb.WriteByte('\n')
}

func (c *htmlRenderer) block(b Block) {
	switch b := b.(type) {
	case *Heading:
		c.write(fmt.Sprintf("<h%d>", b.Level))
		c.inlines(b.Content)
		c.writeLine(fmt.Sprintf("</h%d>", b.Level))
	case *Paragraph:
		c.write("<p>")
		c.inlines(b.Content)
		c.writeLine("</p>")
	case *CodeBlock:
		var attrs attrBuilder
		if b.Language != "" {
			language, _, _ := strings.Cut(b.Language, " ")
			attrs.set("class", "language-"+language)
		}
		c.write(fmt.Sprintf("<pre><code%s>", &attrs))
		if b.Body != "" {
			c.write(escapeHTML(b.Body))
			c.write("\n")
		}
		c.writeLine("</code></pre>")
	case *ThematicBreak:
		c.writeLine("<hr />")
	case *BlockQuote:
		c.writeLine("<blockquote>")
		for _, child := range b.Blocks {
			c.block(child)
		}
		c.writeLine("</blockquote>")
	case *UnorderedList:
		c.writeLine("<ul>")
		for _, item := range b.Items {
			c.write("<li>")
			switch item.Task {
			case Incomplete:
				c.write(`<input disabled="" type="checkbox" /> `)
			case Complete:
				c.write(`<input checked="" disabled="" type="checkbox" /> `)
			}
			c.inlines(item.Content)
			c.writeLine("</li>")
		}
		c.writeLine("</ul>")
	case *OrderedList:
		var attrs attrBuilder
		if b.Start != 1 {
			attrs.set("start", strconv.Itoa(b.Start))
		}
		c.writeLine(fmt.Sprintf("<ol%s>", &attrs))
		for _, item := range b.Items {
			c.write("<li>")
			c.inlines(item)
			c.writeLine("</li>")
		}
		c.writeLine("</ol>")
	case *Table:
		c.writeLine("<table>")
		c.writeLine("<thead>")
		c.writeLine("<tr>")
		for _, cell := range b.Header {
			var attrs attrBuilder
			if cell.Alignment != NoAlignment {
				attrs.set("align", cell.Alignment.String())
			}
			c.write(fmt.Sprintf("<th%s>", &attrs))
			c.inlines(cell.Content)
			c.writeLine("</th>")
		}
		c.writeLine("</tr>")
		c.writeLine("</thead>")
		c.writeLine("</table>")
	case *HTMLBlock:
		c.htmlNode(b.Node)
	}
}

func (c *htmlRenderer) htmlNode(n HTMLNode) {
	switch n := n.(type) {
	case *HTMLElement:
		var attrs attrBuilder
		for _, attr := range n.Attrs {
			attrs.set(attr.Key, attr.Value)
		}
		if len(n.Children) == 0 && voidElements[n.Tag] {
			c.writeLine(fmt.Sprintf("<%s%s />", n.Tag, &attrs))
			return
		}
		c.writeLine(fmt.Sprintf("<%s%s>", n.Tag, &attrs))
		for _, child := range n.Children {
			c.block(child)
		}
		c.writeLine(fmt.Sprintf("</%s>", n.Tag))
	case *HTMLComment:
		c.writeLine("<!--" + n.Text + "-->")
	case *HTMLCdata:
		c.writeLine("<![CDATA[" + n.Text + "]]>")
	case *HTMLInstruction:
		c.writeLine("<?" + n.Text + "?>")
	case *HTMLDeclaration:
		if n.Content != "" {
			c.writeLine("<!" + n.Kind + " " + n.Content + ">")
		} else {
			c.writeLine("<!" + n.Kind + ">")
		}
	}
}

func (c *htmlRenderer) inlines(content []Inline) {
	for _, n := range content {
		c.inline(n)
	}
}

func (c *htmlRenderer) inline(n Inline) {
	switch n := n.(type) {
	case *Text:
		c.write(escapeHTML(n.Text))
	case *CodeSpan:
		c.write("<code>" + escapeHTML(n.Text) + "</code>")
	case *Emphasis:
		c.write("<em>")
		c.inlines(n.Content)
		c.write("</em>")
	case *Strong:
		c.write("<strong>")
		c.inlines(n.Content)
		c.write("</strong>")
	case *Strikethrough:
		c.write("<del>")
		c.inlines(n.Content)
		c.write("</del>")
	case *Link:
		var attrs attrBuilder
		attrs.set("href", escapeURL(n.Destination))
		if n.Title != "" {
			attrs.set("title", n.Title)
		}
		c.write(fmt.Sprintf("<a%s>", &attrs))
		c.inlines(n.Content)
		c.write("</a>")
	case *Image:
		var attrs attrBuilder
		attrs.set("src", escapeURL(n.Destination))
		attrs.set("alt", PlainText(n.Content))
		if n.Title != "" {
			attrs.set("title", n.Title)
		}
		c.write(fmt.Sprintf("<img%s />", &attrs))
	case *HardLineBreak:
		c.write("<br />\n")
	case *HTMLInline:
		c.htmlNode(n.Node)
	}
}

// PlainText flattens inline content to plain text, dropping all markup.
// It is used for the alt attribute of images, and is useful for outlines
// and titles built from heading content.
func PlainText(content []Inline) string {
	var sb strings.Builder
	writePlainText(&sb, content)
	return sb.String()
}

func writePlainText(sb *strings.Builder, content []Inline) {
	for _, n := range content {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Text)
		case *CodeSpan:
			sb.WriteString(n.Text)
		case *Emphasis:
			writePlainText(sb, n.Content)
		case *Strong:
			writePlainText(sb, n.Content)
		case *Strikethrough:
			writePlainText(sb, n.Content)
		case *Link:
			writePlainText(sb, n.Content)
		case *Image:
			writePlainText(sb, n.Content)
		case *HardLineBreak:
			sb.WriteByte('\n')
		}
	}
}

type attrBuilder struct{ strings.Builder }

func (a *attrBuilder) set(k, v string) { fmt.Fprintf(a, ` %s="%s"`, k, escapeHTML(v)) }
