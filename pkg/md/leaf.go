package md

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/diag"
)

// A recognizer attempts to recognize one construct at the cursor. It
// returns a nil block with the cursor unmoved when the construct is
// absent, and a non-nil error when recognition started but the source is
// malformed. Every successful recognition consumes at least one byte.
type recognizer func(*parser) (rawBlock, error)

// The alternatives tried in order at every step. Directly after a
// paragraph line a different table applies: indented code is excluded
// (such a line lazily continues the paragraph), an ordered list may only
// start at 1, and a table delimiter row becomes meaningful.
//
// Populated in init: parseHTMLBlock parses nested content through the
// step loop, which reads the tables back, and Go rejects that cycle in a
// package-level initializer.
var alternatives, alternativesAfterBody []recognizer

func init() {
	alternatives = []recognizer{
		parseBlankLine,
		parseBlockQuoteLine,
		parseFencedCode,
		parseIndentedCode,
		parseThematicBreak,
		parseUnorderedList,
		parseOrderedList,
		parseHeading,
		parseHTMLBlock,
		parseBodyLine,
	}
	alternativesAfterBody = []recognizer{
		parseBlankLine,
		parseBlockQuoteLine,
		parseFencedCode,
		parseThematicBreak,
		parseUnorderedList,
		parseOrderedListAfterBody,
		parseHeading,
		parseTableDelimiter,
		parseHTMLBlock,
		parseBodyLine,
	}
}

// parseBlankLine recognizes a line of only whitespace. A run of trailing
// whitespace at the end of input does not match; it falls through to
// parseBodyLine and is dropped as an empty paragraph later.
func parseBlankLine(ps *parser) (rawBlock, error) {
	begin := ps.pos
	for !ps.eof() {
		switch ps.src[ps.pos] {
		case ' ', '\t', '\r':
			ps.pos++
		case '\n':
			ps.pos++
			return &rawBlankLine{Ranging: diag.Ranging{From: begin, To: ps.pos}}, nil
		default:
			ps.pos = begin
			return nil, nil
		}
	}
	ps.pos = begin
	return nil, nil
}

// parseBlockQuoteLine recognizes one ">" line, stripping the marker and at
// most one space after it.
func parseBlockQuoteLine(ps *parser) (rawBlock, error) {
	line := ps.peekLine()
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i == len(line) || line[i] != '>' {
		return nil, nil
	}
	i++
	if i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	begin := ps.pos
	ps.takeLine()
	return &rawBlockQuote{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		text:    line[i:],
	}, nil
}

// parseFencedCode recognizes a fenced code block opened at the first
// column. The closing fence must be at least as long as the opening one
// and use the same character; the end of input also closes the block.
func parseFencedCode(ps *parser) (rawBlock, error) {
	if !ps.hasPrefix("```") && !ps.hasPrefix("~~~") {
		return nil, nil
	}
	begin := ps.pos
	opener := ps.takeLine()
	fenceByte := opener[0]
	n := 1
	for n < len(opener) && opener[n] == fenceByte {
		n++
	}
	language := strings.Trim(opener[n:], " \t")
	if fenceByte == '`' && strings.ContainsRune(language, '`') {
		// The info string of a backtick fence cannot contain backticks.
		ps.pos = begin
		return nil, nil
	}
	var lines []string
	for !ps.eof() {
		if isFenceCloser(ps.peekLine(), fenceByte, n) {
			ps.takeLine()
			break
		}
		lines = append(lines, ps.takeLine())
	}
	return &rawCode{
		Ranging:  diag.Ranging{From: begin, To: ps.pos},
		language: language,
		body:     strings.Join(lines, "\n"),
	}, nil
}

// isFenceCloser reports whether line closes a fence of n copies of
// fenceByte: at most 3 leading spaces, at least n fence characters, then
// only whitespace.
func isFenceCloser(line string, fenceByte byte, n int) bool {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	run := 0
	for i < len(line) && line[i] == fenceByte {
		i++
		run++
	}
	return run >= n && strings.Trim(line[i:], " \t") == ""
}

// An indented code line starts with one tab, or spaces and a tab adding up
// to at least 4 columns.
var indentedCodePrefixes = []string{"    ", "   \t", "  \t", " \t", "\t"}

func parseIndentedCode(ps *parser) (rawBlock, error) {
	for _, prefix := range indentedCodePrefixes {
		if ps.hasPrefix(prefix) {
			begin := ps.pos
			ps.pos += len(prefix)
			line := ps.takeLine()
			return &rawIndentedCode{
				Ranging: diag.Ranging{From: begin, To: ps.pos},
				body:    line,
			}, nil
		}
	}
	return nil, nil
}

var thematicBreakRegexp = regexp.MustCompile(
	`^ {0,3}((?:-[ \t]*){3,}|(?:_[ \t]*){3,}|(?:\*[ \t]*){3,})$`)

func parseThematicBreak(ps *parser) (rawBlock, error) {
	if !thematicBreakRegexp.MatchString(ps.peekLine()) {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	return &rawThematicBreak{Ranging: diag.Ranging{From: begin, To: ps.pos}}, nil
}

// parseUnorderedList recognizes a run of single-line bullet items sharing
// the same marker. Continuation lines are consumed here, so a line like
// "- - -" inside a list is an item rather than a thematic break.
func parseUnorderedList(ps *parser) (rawBlock, error) {
	marker, item, ok := unorderedItem(ps.peekLine())
	if !ok {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	items := []rawListItem{item}
	for !ps.eof() {
		m, it, ok := unorderedItem(ps.peekLine())
		if !ok || m != marker {
			break
		}
		ps.takeLine()
		items = append(items, it)
	}
	return &rawUnorderedList{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		items:   items,
	}, nil
}

// unorderedItem recognizes one bullet item line: a "-", "+" or "*" marker
// at the first column followed by one or more spaces or tabs, then an
// optional task box.
func unorderedItem(line string) (marker byte, item rawListItem, ok bool) {
	if len(line) < 2 || !isBullet(line[0]) || (line[1] != ' ' && line[1] != '\t') {
		return 0, rawListItem{}, false
	}
	text := strings.TrimLeft(line[1:], " \t")
	task := NoTask
	if t, rest, ok := taskBox(text); ok {
		task = t
		text = rest
	}
	return line[0], rawListItem{task: task, text: unparsed{text}}, true
}

func isBullet(b byte) bool { return b == '-' || b == '+' || b == '*' }

// taskBox recognizes a "[ ]", "[x]" or "[X]" task box followed by
// whitespace or the end of the line.
func taskBox(text string) (Task, string, bool) {
	if len(text) < 3 || text[0] != '[' || text[2] != ']' {
		return NoTask, "", false
	}
	var task Task
	switch text[1] {
	case ' ':
		task = Incomplete
	case 'x', 'X':
		task = Complete
	default:
		return NoTask, "", false
	}
	rest := text[3:]
	if rest == "" {
		return task, "", true
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return NoTask, "", false
	}
	return task, rest[1:], true
}

func parseOrderedList(ps *parser) (rawBlock, error) {
	return parseOrderedListFrom(ps, false)
}

// parseOrderedListAfterBody is like parseOrderedList, except that the
// first item must be numbered 1. Otherwise a line like "1991. A great
// year" would cut the paragraph before it short.
func parseOrderedListAfterBody(ps *parser) (rawBlock, error) {
	return parseOrderedListFrom(ps, true)
}

func parseOrderedListFrom(ps *parser, onlyStartAt1 bool) (rawBlock, error) {
	start, delimiter, text, ok := orderedItem(ps.peekLine())
	if !ok || (onlyStartAt1 && start != 1) {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	items := []unparsed{{text}}
	for !ps.eof() {
		_, d, text, ok := orderedItem(ps.peekLine())
		if !ok || d != delimiter {
			break
		}
		ps.takeLine()
		items = append(items, unparsed{text})
	}
	return &rawOrderedList{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		start:   start,
		items:   items,
	}, nil
}

// orderedItem recognizes one numbered item line: one to nine digits at the
// first column, a "." or ")" delimiter, then one or more spaces or tabs.
func orderedItem(line string) (start int, delimiter byte, text string, ok bool) {
	i := 0
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == 0 || i > 9 || i+1 >= len(line) {
		return 0, 0, "", false
	}
	if line[i] != '.' && line[i] != ')' {
		return 0, 0, "", false
	}
	if line[i+1] != ' ' && line[i+1] != '\t' {
		return 0, 0, "", false
	}
	start, _ = strconv.Atoi(line[:i])
	return start, line[i], strings.TrimLeft(line[i+1:], " \t"), true
}

// parseHeading recognizes an ATX heading: up to 6 "#" at the first column.
// A space after the markers is not required, and a line with 7 or more
// markers is not a heading.
func parseHeading(ps *parser) (rawBlock, error) {
	line := ps.peekLine()
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	return &rawHeading{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		level:   level,
		text:    unparsed{dropTrailingHashes(strings.Trim(line[level:], " \t"))},
	}, nil
}

// dropTrailingHashes strips closing runs of "#" from a heading, like the
// trailing "##" in "## Title ##".
func dropTrailingHashes(text string) string {
	for strings.HasSuffix(text, "#") {
		text = strings.TrimRight(strings.TrimRight(text, "#"), " \t")
	}
	return text
}

var tableDelimiterCellRegexp = regexp.MustCompile(`^(:?)-+(:?)$`)

// parseTableDelimiter recognizes a table delimiter row like
// "| :-- | :-: |". The row must contain at least one "|"; the source line
// is retained so that a failed table match can keep it as paragraph text.
func parseTableDelimiter(ps *parser) (rawBlock, error) {
	line := ps.peekLine()
	if !strings.ContainsRune(line, '|') {
		return nil, nil
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return nil, nil
	}
	alignments := make([]Alignment, len(cells))
	for i, cell := range cells {
		m := tableDelimiterCellRegexp.FindStringSubmatch(cell)
		if m == nil {
			return nil, nil
		}
		switch {
		case m[1] == ":" && m[2] == ":":
			alignments[i] = AlignCenter
		case m[1] == ":":
			alignments[i] = AlignLeft
		case m[2] == ":":
			alignments[i] = AlignRight
		}
	}
	begin := ps.pos
	ps.takeLine()
	return &rawTableDelimiter{
		Ranging:    diag.Ranging{From: begin, To: ps.pos},
		alignments: alignments,
		line:       line,
	}, nil
}

// splitTableRow splits a table row on unescaped "|", trimming each cell
// and dropping the empty edge cells produced by leading and trailing
// delimiters.
func splitTableRow(line string) []string {
	var cells []string
	var sb strings.Builder
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if i+1 < len(line) && line[i+1] == '|' {
				sb.WriteByte('|')
				i++
			} else {
				sb.WriteByte('\\')
			}
		case '|':
			cells = append(cells, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(line[i])
		}
	}
	cells = append(cells, sb.String())
	if len(cells) > 0 && strings.Trim(cells[0], " \t") == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.Trim(cells[len(cells)-1], " \t") == "" {
		cells = cells[:len(cells)-1]
	}
	for i, cell := range cells {
		cells[i] = strings.Trim(cell, " \t")
	}
	return cells
}

// parseHTMLBlock parses an embedded HTML construct starting at the cursor.
func parseHTMLBlock(ps *parser) (rawBlock, error) {
	if ps.eof() || ps.src[ps.pos] != '<' {
		return nil, nil
	}
	begin := ps.pos
	node, err := ps.parseHTMLNode()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return &rawHTML{Ranging: diag.Ranging{From: begin, To: ps.pos}, node: node}, nil
}

// parseBodyLine accepts any line as paragraph text. It is the final
// alternative and always matches.
func parseBodyLine(ps *parser) (rawBlock, error) {
	begin := ps.pos
	line := ps.takeLine()
	return &rawBody{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		text:    unparsed{line},
	}, nil
}

// parseAngleBracketLine keeps a line that starts like an autolink out of
// the HTML block parser, so that "<https://example.com>" becomes a
// paragraph with a link rather than an HTML element.
func parseAngleBracketLine(ps *parser) (rawBlock, error) {
	line := ps.peekLine()
	if !angleBracketTextLine(line) {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	return &rawBody{
		Ranging: diag.Ranging{From: begin, To: ps.pos},
		text:    unparsed{line},
	}, nil
}

// angleBracketTextLine reports whether a line starting with "<" should be
// treated as paragraph text: "<" followed by whitespace or ">", or a run
// of letters, digits and "-" that continues with a character impossible in
// a tag name.
func angleBracketTextLine(line string) bool {
	if len(line) < 2 || line[0] != '<' {
		return false
	}
	switch line[1] {
	case ' ', '\t', '>':
		return true
	}
	if !isASCIILetter(line[1]) {
		return false
	}
	i := 2
	for i < len(line) && (isAlphanumeric(line[i]) || line[i] == '-') {
		i++
	}
	if i == len(line) {
		return false
	}
	switch line[i] {
	case ':', '@', '\\', '+', '.':
		return true
	}
	return false
}

// parseLinkReferenceDefinition parses a link reference definition like
// "[label]: destination "title"". Definitions are tried at every step, so
// they may also interrupt a paragraph. The destination may sit on the line
// after the label, and the title on the line after the destination; a
// title that turns out not to be followed by a blank rest of line is
// re-read as ordinary block content.
func parseLinkReferenceDefinition(ps *parser) (linkReferenceDefinition, bool) {
	begin := ps.pos
	fail := func() (linkReferenceDefinition, bool) {
		ps.pos = begin
		return linkReferenceDefinition{}, false
	}
	for i := 0; i < 3 && !ps.eof() && ps.src[ps.pos] == ' '; i++ {
		ps.pos++
	}
	label, n, ok := parseLinkLabel(ps.rest())
	if !ok || strings.Trim(label, " \t\r\n") == "" {
		return fail()
	}
	ps.pos += n
	if ps.eof() || ps.src[ps.pos] != ':' {
		return fail()
	}
	ps.pos++
	ps.skipLinkSpace()
	dest, ok := ps.parseLinkDestination()
	if !ok {
		return fail()
	}
	afterDest := ps.pos
	if ps.skipLinkSpace() > 0 {
		if title, ok := ps.parseLinkTitle(); ok && ps.restOfLineBlank() {
			return linkReferenceDefinition{label: label, destination: dest, title: title}, true
		}
	}
	ps.pos = afterDest
	if !ps.restOfLineBlank() {
		return fail()
	}
	return linkReferenceDefinition{label: label, destination: dest}, true
}

// skipLinkSpace consumes spaces, tabs and at most one newline, returning
// the number of bytes consumed.
func (ps *parser) skipLinkSpace() int {
	begin := ps.pos
	sawNewline := false
	for !ps.eof() {
		switch c := ps.src[ps.pos]; {
		case c == ' ' || c == '\t' || c == '\r':
			ps.pos++
		case c == '\n' && !sawNewline:
			sawNewline = true
			ps.pos++
		default:
			return ps.pos - begin
		}
	}
	return ps.pos - begin
}

// parseLinkDestination parses a link destination, either wrapped in angle
// brackets or a bare run of non-whitespace characters.
func (ps *parser) parseLinkDestination() (string, bool) {
	if ps.eof() {
		return "", false
	}
	var sb strings.Builder
	if ps.src[ps.pos] == '<' {
		ps.pos++
		for !ps.eof() {
			switch c := ps.src[ps.pos]; c {
			case '>':
				ps.pos++
				return html.UnescapeString(sb.String()), true
			case '\n', '<':
				return "", false
			case '\\':
				b, next := backslashEscape(ps.src, ps.pos)
				sb.WriteByte(b)
				ps.pos = next
			default:
				sb.WriteByte(c)
				ps.pos++
			}
		}
		return "", false
	}
	for !ps.eof() {
		c := ps.src[ps.pos]
		if c <= ' ' {
			break
		}
		if c == '\\' {
			b, next := backslashEscape(ps.src, ps.pos)
			sb.WriteByte(b)
			ps.pos = next
		} else {
			sb.WriteByte(c)
			ps.pos++
		}
	}
	if sb.Len() == 0 {
		return "", false
	}
	return html.UnescapeString(sb.String()), true
}

// parseLinkTitle parses a link title in double quotes, single quotes or
// parentheses. Unlike in an inline link tail, the title may contain
// newlines.
func (ps *parser) parseLinkTitle() (string, bool) {
	if ps.eof() {
		return "", false
	}
	opener := ps.src[ps.pos]
	closer := opener
	switch opener {
	case '"', '\'':
	case '(':
		closer = ')'
	default:
		return "", false
	}
	ps.pos++
	var sb strings.Builder
	for !ps.eof() {
		switch c := ps.src[ps.pos]; c {
		case closer:
			ps.pos++
			return html.UnescapeString(sb.String()), true
		case opener:
			return "", false
		case '\\':
			b, next := backslashEscape(ps.src, ps.pos)
			sb.WriteByte(b)
			ps.pos = next
		default:
			sb.WriteByte(c)
			ps.pos++
		}
	}
	return "", false
}

// restOfLineBlank consumes the rest of the line, including the line
// ending, if it holds only whitespace.
func (ps *parser) restOfLineBlank() bool {
	begin := ps.pos
	for !ps.eof() {
		switch ps.src[ps.pos] {
		case ' ', '\t', '\r':
			ps.pos++
		case '\n':
			ps.pos++
			return true
		default:
			ps.pos = begin
			return false
		}
	}
	return true
}
