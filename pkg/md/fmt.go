package md

import (
	"fmt"
	"strings"
)

// ToMarkdown renders the document tree back to markdown in a canonical
// style: ATX headings, fenced code blocks, "> " quote markers, "-" bullets
// and "." numbered items, with sibling blocks separated by blank lines.
// Parsing the output again produces an equivalent tree.
func ToMarkdown(doc *Document) string {
	var c mdRenderer
	c.blocks(doc.Blocks)
	return c.sb.String()
}

type mdRenderer struct {
	sb strings.Builder
	// Markers prefixed to every line, one per enclosing container.
	markers []string
}

func (c *mdRenderer) writeLine(s string) {
	markers := strings.Join(c.markers, "")
	if s == "" {
		markers = strings.TrimRight(markers, " ")
	}
	c.sb.WriteString(markers)
	c.sb.WriteString(s)
	c.sb.WriteByte('\n')
}

func (c *mdRenderer) blocks(blocks []Block) {
	for i, b := range blocks {
		if i > 0 {
			c.writeLine("")
		}
		c.block(b)
	}
}

func (c *mdRenderer) block(b Block) {
	switch b := b.(type) {
	case *Heading:
		text := singleLine(inlineMarkdown(b.Content))
		if strings.HasSuffix(text, "#") {
			// Escape the trailing run so it is not stripped as a closing
			// sequence.
			i := len(text) - 1
			for i > 0 && text[i-1] == '#' {
				i--
			}
			text = text[:i] + `\` + text[i:]
		}
		c.writeLine(strings.Repeat("#", b.Level) + " " + text)
	case *Paragraph:
		for _, line := range strings.Split(inlineMarkdown(b.Content), "\n") {
			c.writeLine(startOfLineEscape(line))
		}
	case *CodeBlock:
		fence := codeFence(b.Language, b.Body)
		c.writeLine(fence + b.Language)
		if b.Body != "" {
			for _, line := range strings.Split(b.Body, "\n") {
				c.writeLine(line)
			}
		}
		c.writeLine(fence)
	case *ThematicBreak:
		c.writeLine("***")
	case *BlockQuote:
		c.markers = append(c.markers, "> ")
		if len(b.Blocks) == 0 {
			c.writeLine("")
		} else {
			c.blocks(b.Blocks)
		}
		c.markers = c.markers[:len(c.markers)-1]
	case *UnorderedList:
		for _, item := range b.Items {
			line := "- "
			switch item.Task {
			case Incomplete:
				line += "[ ] "
			case Complete:
				line += "[x] "
			}
			c.writeLine(line + singleLine(inlineMarkdown(item.Content)))
		}
	case *OrderedList:
		for i, item := range b.Items {
			c.writeLine(fmt.Sprintf("%d. %s", b.Start+i, singleLine(inlineMarkdown(item))))
		}
	case *Table:
		var cells, delims []string
		for _, cell := range b.Header {
			cells = append(cells, singleLine(inlineMarkdown(cell.Content)))
			switch cell.Alignment {
			case AlignLeft:
				delims = append(delims, ":---")
			case AlignCenter:
				delims = append(delims, ":---:")
			case AlignRight:
				delims = append(delims, "---:")
			default:
				delims = append(delims, "---")
			}
		}
		c.writeLine("| " + strings.Join(cells, " | ") + " |")
		c.writeLine("| " + strings.Join(delims, " | ") + " |")
	case *HTMLBlock:
		for _, line := range strings.Split(htmlMarkdown(b.Node), "\n") {
			c.writeLine(line)
		}
	}
}

// startOfLineEscape escapes a leading character that would start another
// block construct when the line is read back.
func startOfLineEscape(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>', '-', '+':
		return `\` + line
	}
	i := 0
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i > 0 && i <= 9 && i+1 < len(line) &&
		(line[i] == '.' || line[i] == ')') &&
		(line[i+1] == ' ' || line[i+1] == '\t') {
		return line[:i] + `\` + line[i:]
	}
	return line
}

// singleLine renders embedded line breaks as character references, for
// constructs that must stay on one line.
func singleLine(s string) string { return strings.ReplaceAll(s, "\n", "&NewLine;") }

// codeFence picks a fence longer than any run of the fence character in
// the body: backticks normally, tildes when the info string contains a
// backtick.
func codeFence(language, body string) string {
	fenceByte := byte('`')
	if strings.ContainsRune(language, '`') {
		fenceByte = '~'
	}
	n := 3
	for _, line := range strings.Split(body, "\n") {
		run := 0
		for i := 0; i < len(line); i++ {
			if line[i] == fenceByte {
				run++
				if run >= n {
					n = run + 1
				}
			} else {
				run = 0
			}
		}
	}
	return strings.Repeat(string(fenceByte), n)
}

func inlineMarkdown(content []Inline) string {
	var sb strings.Builder
	writeInlineMarkdown(&sb, content)
	return sb.String()
}

func writeInlineMarkdown(sb *strings.Builder, content []Inline) {
	for _, n := range content {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(escapeText(n.Text))
		case *CodeSpan:
			writeCodeSpanMarkdown(sb, n.Text)
		case *Emphasis:
			sb.WriteString("*")
			writeInlineMarkdown(sb, n.Content)
			sb.WriteString("*")
		case *Strong:
			sb.WriteString("**")
			writeInlineMarkdown(sb, n.Content)
			sb.WriteString("**")
		case *Strikethrough:
			sb.WriteString("~~")
			writeInlineMarkdown(sb, n.Content)
			sb.WriteString("~~")
		case *Link:
			sb.WriteString("[")
			writeInlineMarkdown(sb, n.Content)
			sb.WriteString("]")
			sb.WriteString(linkTail(n.Destination, n.Title))
		case *Image:
			sb.WriteString("![")
			writeInlineMarkdown(sb, n.Content)
			sb.WriteString("]")
			sb.WriteString(linkTail(n.Destination, n.Title))
		case *HardLineBreak:
			sb.WriteString("\\\n")
		case *HTMLInline:
			writeHTMLMarkdown(sb, n.Node)
		}
	}
}

func writeCodeSpanMarkdown(sb *strings.Builder, text string) {
	maxRun := 0
	run := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	delim := strings.Repeat("`", maxRun+1)
	// A padding space keeps an edge backtick away from the delimiter, and
	// edge spaces from being stripped.
	pad := text != "" && (text[0] == '`' || text[len(text)-1] == '`' ||
		(text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != ""))
	sb.WriteString(delim)
	if pad {
		sb.WriteByte(' ')
	}
	sb.WriteString(text)
	if pad {
		sb.WriteByte(' ')
	}
	sb.WriteString(delim)
}

// escapeText escapes the markdown metacharacters in literal text.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "[]*_`\\&<~|!") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', ']', '*', '_', '`', '\\', '&', '<', '~', '|':
			sb.WriteByte('\\')
		case '!':
			// Only significant before "[".
			if i+1 < len(s) && s[i+1] == '[' {
				sb.WriteByte('\\')
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// linkTail renders the "(destination "title")" tail of a link or image.
func linkTail(dest, title string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	switch {
	case dest == "" && title != "":
		sb.WriteString("<>")
	case strings.ContainsAny(dest, " \t\n()") || strings.HasPrefix(dest, "<"):
		sb.WriteString("<" + escapeLinkPart(dest, "<>") + ">")
	default:
		sb.WriteString(escapeLinkPart(dest, ""))
	}
	if title != "" {
		sb.WriteString(` "` + escapeLinkPart(title, `"`) + `"`)
	}
	sb.WriteByte(')')
	return sb.String()
}

// escapeLinkPart backslash-escapes backslashes, ampersands and the bytes
// in set.
func escapeLinkPart(s, set string) string {
	if !strings.ContainsAny(s, `\&`+set) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '&' || strings.IndexByte(set, s[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// htmlMarkdown reconstructs the source form of an HTML construct. Markdown
// children are rendered back as markdown between the tags.
func htmlMarkdown(n HTMLNode) string {
	var sb strings.Builder
	writeHTMLMarkdown(&sb, n)
	return sb.String()
}

func writeHTMLMarkdown(sb *strings.Builder, n HTMLNode) {
	switch n := n.(type) {
	case *HTMLElement:
		var attrs attrBuilder
		for _, attr := range n.Attrs {
			attrs.set(attr.Key, attr.Value)
		}
		if len(n.Children) == 0 && voidElements[n.Tag] {
			fmt.Fprintf(sb, "<%s%s />", n.Tag, &attrs)
			return
		}
		fmt.Fprintf(sb, "<%s%s>", n.Tag, &attrs)
		if p, ok := singleParagraph(n.Children); ok {
			writeInlineMarkdown(sb, p.Content)
		} else if len(n.Children) > 0 {
			sb.WriteString("\n" + ToMarkdown(&Document{Blocks: n.Children}))
		}
		fmt.Fprintf(sb, "</%s>", n.Tag)
	case *HTMLComment:
		sb.WriteString("<!--" + n.Text + "-->")
	case *HTMLCdata:
		sb.WriteString("<![CDATA[" + n.Text + "]]>")
	case *HTMLInstruction:
		sb.WriteString("<?" + n.Text + "?>")
	case *HTMLDeclaration:
		if n.Content != "" {
			sb.WriteString("<!" + n.Kind + " " + n.Content + ">")
		} else {
			sb.WriteString("<!" + n.Kind + ">")
		}
	}
}

func singleParagraph(blocks []Block) (*Paragraph, bool) {
	if len(blocks) != 1 {
		return nil, false
	}
	p, ok := blocks[0].(*Paragraph)
	return p, ok
}
