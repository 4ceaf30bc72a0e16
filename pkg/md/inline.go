package md

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parseInlines parses inline markup into its node sequence, resolving
// reference links against refs.
func parseInlines(ps *parser, text string, refs refMap) ([]Inline, error) {
	p := inlineParser{ps: ps, text: text, refs: refs, delims: makeDelimStack()}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.buf.inlines(), nil
}

type inlineParser struct {
	ps     *parser
	text   string
	pos    int
	refs   refMap
	delims delimStack
	buf    buffer
}

var (
	entityRegexp = regexp.MustCompile(`^&(?:[a-zA-Z0-9]+|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`)

	// Scheme and content of URI autolinks, from the CommonMark spec.
	autolinkRegexp = regexp.MustCompile(`^<` +
		`[a-zA-Z][a-zA-Z0-9+.-]{1,31}` +
		`:[^\x00-\x19 <>]*` +
		`>`)
	emailAutolinkRegexp = regexp.MustCompile(
		`^<[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+` +
			`@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
			`(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*>`)
)

func (p *inlineParser) run() error {
	for p.pos < len(p.text) {
		b := p.text[p.pos]
		begin := p.pos
		p.pos++

		parseText := func() {
			for p.pos < len(p.text) && !isMeta(p.text[p.pos]) {
				p.pos++
			}
			p.buf.push(piece{text: p.text[begin:p.pos]})
		}

		switch b {
		case '[':
			bufIdx := p.buf.push(piece{text: "["})
			p.delims.push(&delim{typ: '[', bufIdx: bufIdx, srcPos: p.pos})
		case '!':
			if p.pos < len(p.text) && p.text[p.pos] == '[' {
				p.pos++
				bufIdx := p.buf.push(piece{text: "!["})
				p.delims.push(&delim{typ: '!', bufIdx: bufIdx, srcPos: p.pos})
			} else {
				parseText()
			}
		case ']':
			p.resolveLink(begin)
		case '*', '_', '~':
			p.pos += len(findRun(p.text[p.pos:], b))
			if b == '~' && p.pos-begin != 2 {
				// Only "~~" delimits strikethrough.
				p.buf.push(piece{text: p.text[begin:p.pos]})
				continue
			}
			canOpen, canClose := flanking(p.text, begin, p.pos, b)
			bufIdx := p.buf.push(piece{text: p.text[begin:p.pos]})
			p.delims.push(&delim{typ: b, bufIdx: bufIdx,
				n: p.pos - begin, canOpen: canOpen, canClose: canClose})
		case '`':
			p.pos += len(findRun(p.text[p.pos:], '`'))
			run := p.text[begin:p.pos]
			closer := findBacktickRun(p.text, run, p.pos)
			if closer == -1 {
				parseText()
				continue
			}
			p.buf.push(piece{node: &CodeSpan{
				Text: normalizeCodeSpanContent(p.text[p.pos:closer])}})
			p.pos = closer + len(run)
		case '<':
			if autolink := autolinkRegexp.FindString(p.text[begin:]); autolink != "" {
				p.pos = begin + len(autolink)
				text := autolink[1 : len(autolink)-1]
				p.buf.push(piece{node: &Link{
					Destination: text,
					Content:     []Inline{&Text{Text: text}}}})
				continue
			}
			if autolink := emailAutolinkRegexp.FindString(p.text[begin:]); autolink != "" {
				p.pos = begin + len(autolink)
				text := autolink[1 : len(autolink)-1]
				p.buf.push(piece{node: &Link{
					Destination: "mailto:" + text,
					Content:     []Inline{&Text{Text: text}}}})
				continue
			}
			sub := &parser{srcName: p.ps.srcName, src: p.text, pos: begin, depth: p.ps.depth}
			node, err := sub.parseHTMLNode()
			if err != nil {
				return err
			}
			if node != nil {
				p.buf.push(piece{node: &HTMLInline{Node: node}})
				p.pos = sub.pos
				continue
			}
			parseText()
		case '&':
			if entity := entityRegexp.FindString(p.text[begin:]); entity != "" {
				p.buf.push(piece{text: html.UnescapeString(entity)})
				p.pos = begin + len(entity)
			} else {
				parseText()
			}
		case '\\':
			if p.pos < len(p.text) && isASCIIPunct[p.text[p.pos]] {
				begin++
				p.pos++
			}
			parseText()
		case '\n':
			p.lineBreak()
		default:
			parseText()
		}
	}
	p.processEmphasis(p.delims.bottom)
	return nil
}

// lineBreak handles a newline: trailing spaces or a trailing backslash on
// the line before it make a hard break, and leading spaces of the next
// line are skipped either way.
func (p *inlineParser) lineBreak() {
	hard := false
	if len(p.buf.pieces) > 0 {
		last := &p.buf.pieces[len(p.buf.pieces)-1]
		if last.node == nil && last.opens == nil && last.closes == 0 {
			if strings.HasSuffix(last.text, "\\") {
				hard = true
				last.text = last.text[:len(last.text)-1]
			} else {
				hard = strings.HasSuffix(last.text, "  ")
				last.text = strings.TrimRight(last.text, " ")
			}
		}
	}
	if hard {
		p.buf.push(piece{node: &HardLineBreak{}})
	} else {
		p.buf.push(piece{text: "\n"})
	}
	for p.pos < len(p.text) && p.text[p.pos] == ' ' {
		p.pos++
	}
}

// resolveLink handles a "]" at begin: find the matching opener, then try
// an inline tail and the reference forms in turn. When nothing resolves,
// the bracket pair is literal text.
func (p *inlineParser) resolveLink(begin int) {
	var opener *delim
	for d := p.delims.top.prev; d != p.delims.bottom; d = d.prev {
		if d.typ == '[' || d.typ == '!' {
			opener = d
			break
		}
	}
	if opener == nil || opener.inactive {
		if opener != nil {
			unlink(opener)
		}
		p.buf.push(piece{text: "]"})
		return
	}
	dest, title, n, ok := p.linkTarget(opener, begin)
	if !ok {
		unlink(opener)
		p.buf.push(piece{text: "]"})
		return
	}
	p.pos += n
	p.processEmphasis(opener)
	if opener.typ == '[' {
		// Links cannot contain links: deactivate every opener further out.
		for d := opener.prev; d != p.delims.bottom; d = d.prev {
			if d.typ == '[' {
				d.inactive = true
			}
		}
	}
	unlink(opener)
	var m *marker
	if opener.typ == '[' {
		m = &marker{wrap: func(content []Inline) Inline {
			return &Link{Destination: dest, Title: title, Content: content}
		}}
	} else {
		m = &marker{wrap: func(content []Inline) Inline {
			return &Image{Destination: dest, Title: title, Content: content}
		}}
	}
	p.buf.pieces[opener.bufIdx] = piece{opens: []*marker{m}}
	p.buf.push(piece{closes: 1})
}

// linkTarget resolves the destination and title of the bracketed range
// ending at the "]" at begin: first an inline "(destination title)" tail,
// then a full, collapsed or shortcut reference against the reference
// mapping. n is the number of bytes consumed after the "]".
func (p *inlineParser) linkTarget(opener *delim, begin int) (dest, title string, n int, ok bool) {
	tail := p.text[p.pos:]
	if n, dest, title := parseLinkTail(tail); n != -1 {
		return dest, title, n, true
	}
	bracketed := p.text[opener.srcPos:begin]
	if label, labelLen, ok := parseLinkLabel(tail); ok {
		if label == "" {
			// Collapsed reference like "[text][]".
			if def, ok := p.refs[normalizeLabel(bracketed)]; ok {
				return def.destination, def.title, labelLen, true
			}
			return "", "", 0, false
		}
		// Full reference like "[text][label]". When the label does not
		// resolve, nothing after the "]" is consumed, so the trailing
		// "[label]" is read again as ordinary text.
		if def, ok := p.refs[normalizeLabel(label)]; ok {
			return def.destination, def.title, labelLen, true
		}
		return "", "", 0, false
	}
	// Shortcut reference like "[text]".
	if def, ok := p.refs[normalizeLabel(bracketed)]; ok {
		return def.destination, def.title, 0, true
	}
	return "", "", 0, false
}

// parseLinkLabel parses a bracketed link label at the start of s,
// returning the label text and the number of bytes consumed including both
// brackets. Labels cannot contain unescaped brackets and are capped at 999
// bytes.
func parseLinkLabel(s string) (label string, n int, ok bool) {
	if s == "" || s[0] != '[' {
		return "", 0, false
	}
	for i := 1; i < len(s) && i <= 1000; i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			return "", 0, false
		case ']':
			return s[1:i], i + 1, true
		}
	}
	return "", 0, false
}

// A node in the delimiter "stack" (which is actually a doubly linked
// list).
type delim struct {
	typ    byte
	bufIdx int
	prev   *delim
	next   *delim
	// Source position just after the bracket; only used when typ is "["
	// or "!".
	srcPos   int
	inactive bool
	// Only used when typ is "*", "_" or "~".
	n        int
	canOpen  bool
	canClose bool
}

type delimStack struct {
	bottom, top *delim
}

func makeDelimStack() delimStack {
	bottom := &delim{}
	top := &delim{prev: bottom}
	bottom.next = top
	return delimStack{bottom, top}
}

func (s *delimStack) push(n *delim) {
	n.prev = s.top.prev
	n.next = s.top
	s.top.prev.next = n
	s.top.prev = n
}

func unlink(n *delim) {
	n.next.prev = n.prev
	n.prev.next = n.next
}

// flanking implements the flanking rules deciding whether a delimiter run
// spanning [begin, end) can open or close emphasis. The "_" delimiter
// additionally may not open or close within a word.
func flanking(text string, begin, end int, typ byte) (canOpen, canClose bool) {
	next, lNext := utf8.DecodeRuneInString(text[end:])
	prev, lPrev := utf8.DecodeLastRuneInString(text[:begin])
	leftFlanking := lNext > 0 && !unicode.IsSpace(next) &&
		(!unicode.IsPunct(next) ||
			lPrev == 0 || unicode.IsSpace(prev) || unicode.IsPunct(prev))
	rightFlanking := lPrev > 0 && !unicode.IsSpace(prev) &&
		(!unicode.IsPunct(prev) ||
			lNext == 0 || unicode.IsSpace(next) || unicode.IsPunct(next))
	if typ == '_' {
		canOpen = leftFlanking && (!rightFlanking || (lPrev > 0 && unicode.IsPunct(prev)))
		canClose = rightFlanking && (!leftFlanking || (lNext > 0 && unicode.IsPunct(next)))
		return canOpen, canClose
	}
	return leftFlanking, rightFlanking
}

// processEmphasis matches emphasis delimiters above bottom, rewriting the
// matched runs' pieces in place.
func (p *inlineParser) processEmphasis(bottom *delim) {
	var openersBottom [3][3][2]*delim
	for closer := bottom.next; closer != nil; {
		if !closer.canClose {
			closer = closer.next
			continue
		}
		openerBottom := &openersBottom[delimTypeIndex(closer.typ)][closer.n%3][b2i(closer.canOpen)]
		if *openerBottom == nil {
			*openerBottom = bottom
		}
		var opener *delim
		for d := closer.prev; d != *openerBottom; d = d.prev {
			if d.canOpen && d.typ == closer.typ &&
				((!d.canClose && !closer.canOpen) ||
					(d.n+closer.n)%3 != 0 ||
					(d.n%3 == 0 && closer.n%3 == 0)) {
				opener = d
				break
			}
		}
		if opener == nil {
			*openerBottom = closer.prev
			if !closer.canOpen {
				unlink(closer)
			}
			closer = closer.next
			continue
		}
		openerPiece := &p.buf.pieces[opener.bufIdx]
		closerPiece := &p.buf.pieces[closer.bufIdx]
		var m *marker
		switch {
		case closer.typ == '~':
			m = &marker{wrap: func(content []Inline) Inline {
				return &Strikethrough{Content: content}
			}}
			openerPiece.text = openerPiece.text[2:]
			closerPiece.text = closerPiece.text[2:]
		case len(openerPiece.text) >= 2 && len(closerPiece.text) >= 2:
			m = &marker{wrap: func(content []Inline) Inline {
				return &Strong{Content: content}
			}}
			openerPiece.text = openerPiece.text[2:]
			closerPiece.text = closerPiece.text[2:]
		default:
			m = &marker{wrap: func(content []Inline) Inline {
				return &Emphasis{Content: content}
			}}
			openerPiece.text = openerPiece.text[1:]
			closerPiece.text = closerPiece.text[1:]
		}
		openerPiece.opens = append(openerPiece.opens, m)
		closerPiece.closes++
		opener.next = closer
		closer.prev = opener
		if openerPiece.text == "" {
			unlink(opener)
		}
		if closerPiece.text == "" {
			next := closer.next
			unlink(closer)
			closer = next
		}
	}
}

func delimTypeIndex(typ byte) int {
	switch typ {
	case '*':
		return 0
	case '_':
		return 1
	default:
		return 2
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// linkTailParser parses the "(destination title)" tail after the "]" that
// closes the text of a link or image.
type linkTailParser struct {
	text string
	pos  int
}

// parseLinkTail parses a link tail at the start of text, returning the
// number of bytes consumed, the destination and the title. On failure the
// first return value is -1.
func parseLinkTail(text string) (n int, dest, title string) {
	p := linkTailParser{text, 0}
	return p.parse()
}

func (p *linkTailParser) parse() (n int, dest, title string) {
	if len(p.text) < 2 || p.text[0] != '(' {
		return -1, "", ""
	}
	p.pos = 1
	p.skipWhitespaces()
	if p.pos == len(p.text) {
		return -1, "", ""
	}
	var destBuilder strings.Builder
	if p.text[p.pos] == '<' {
		p.pos++
	angleDest:
		for {
			if p.pos == len(p.text) {
				return -1, "", ""
			}
			switch p.text[p.pos] {
			case '>':
				p.pos++
				break angleDest
			case '<', '\n':
				return -1, "", ""
			case '\\':
				b, next := backslashEscape(p.text, p.pos)
				destBuilder.WriteByte(b)
				p.pos = next
			default:
				destBuilder.WriteByte(p.text[p.pos])
				p.pos++
			}
		}
	} else {
		parenBalance := 0
	bareDest:
		for p.pos < len(p.text) {
			switch c := p.text[p.pos]; {
			case isWhitespace(c) || isASCIIControl(c):
				break bareDest
			case c == '(':
				parenBalance++
				destBuilder.WriteByte(c)
				p.pos++
			case c == ')':
				if parenBalance == 0 {
					break bareDest
				}
				parenBalance--
				destBuilder.WriteByte(c)
				p.pos++
			case c == '\\':
				b, next := backslashEscape(p.text, p.pos)
				destBuilder.WriteByte(b)
				p.pos = next
			default:
				destBuilder.WriteByte(c)
				p.pos++
			}
		}
		if parenBalance != 0 {
			return -1, "", ""
		}
	}
	p.skipWhitespaces()
	if p.pos == len(p.text) {
		return -1, "", ""
	}
	var titleBuilder strings.Builder
	if opener := p.text[p.pos]; opener == '"' || opener == '\'' || opener == '(' {
		closer := opener
		if opener == '(' {
			closer = ')'
		}
		p.pos++
	titleLoop:
		for {
			if p.pos == len(p.text) {
				return -1, "", ""
			}
			switch c := p.text[p.pos]; {
			case c == closer:
				p.pos++
				break titleLoop
			case c == opener:
				return -1, "", ""
			case c == '\\':
				b, next := backslashEscape(p.text, p.pos)
				titleBuilder.WriteByte(b)
				p.pos = next
			default:
				titleBuilder.WriteByte(c)
				p.pos++
			}
		}
		p.skipWhitespaces()
		if p.pos == len(p.text) {
			return -1, "", ""
		}
	}
	if p.text[p.pos] != ')' {
		return -1, "", ""
	}
	p.pos++
	return p.pos,
		html.UnescapeString(destBuilder.String()),
		html.UnescapeString(titleBuilder.String())
}

func (p *linkTailParser) skipWhitespaces() {
	for p.pos < len(p.text) && isWhitespace(p.text[p.pos]) {
		p.pos++
	}
}

// The intermediate representation of inline content: a flat buffer of
// pieces. The delimiter algorithm rewrites pieces in place; the buffer is
// assembled into the final tree at the very end.
type buffer struct {
	pieces []piece
}

func (b *buffer) push(p piece) int {
	b.pieces = append(b.pieces, p)
	return len(b.pieces) - 1
}

// piece is one unit of the buffer: literal text, one completed node, or
// open and close points of enclosing nodes determined by the delimiter
// algorithm. Within a piece, close points apply first, then the text or
// node, then the open points from last-added to first-added.
type piece struct {
	text   string
	node   Inline
	opens  []*marker
	closes int
}

// marker opens one enclosing inline node; wrap receives the content
// between the marker and its matching close point.
type marker struct {
	wrap func([]Inline) Inline
}

// inlines assembles the piece buffer into the final inline sequence. The
// delimiter algorithm guarantees that open and close points are balanced.
func (b *buffer) inlines() []Inline {
	type frame struct {
		wrap    func([]Inline) Inline
		content []Inline
	}
	stack := []frame{{}}
	appendNode := func(n Inline) {
		f := &stack[len(stack)-1]
		f.content = append(f.content, n)
	}
	for _, p := range b.pieces {
		for i := 0; i < p.closes; i++ {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			appendNode(top.wrap(top.content))
		}
		if p.text != "" {
			f := &stack[len(stack)-1]
			if t, ok := lastText(f.content); ok {
				t.Text += p.text
			} else {
				appendNode(&Text{Text: p.text})
			}
		}
		if p.node != nil {
			appendNode(p.node)
		}
		for i := len(p.opens) - 1; i >= 0; i-- {
			wrap := p.opens[i].wrap
			stack = append(stack, frame{wrap: wrap})
		}
	}
	return stack[0].content
}

func lastText(content []Inline) (*Text, bool) {
	if len(content) == 0 {
		return nil, false
	}
	t, ok := content[len(content)-1].(*Text)
	return t, ok
}

// findRun returns the prefix of s consisting of the byte b.
func findRun(s string, b byte) string {
	i := 0
	for i < len(s) && s[i] == b {
		i++
	}
	return s[:i]
}

// findBacktickRun finds the next occurrence in s of a backtick run of
// exactly the same length as run, starting from i. It returns -1 when no
// such run exists.
func findBacktickRun(s, run string, i int) int {
	for i < len(s) {
		j := strings.Index(s[i:], run)
		if j == -1 {
			return -1
		}
		j += i
		if j+len(run) == len(s) || s[j+len(run)] != '`' {
			return j
		}
		// Too long; skip past this run.
		for j < len(s) && s[j] == '`' {
			j++
		}
		i = j
	}
	return -1
}

var lineEndingToSpace = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// normalizeCodeSpanContent converts line endings to spaces, and strips one
// space from both ends if the content has a space on both ends but is not
// all spaces.
func normalizeCodeSpanContent(s string) string {
	s = lineEndingToSpace.Replace(s)
	if len(s) > 1 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		return s[1 : len(s)-1]
	}
	return s
}

// backslashEscape handles a backslash at s[i], returning the byte it
// stands for and the index just after it. Only ASCII punctuation can be
// escaped.
func backslashEscape(s string, i int) (byte, int) {
	if i+1 < len(s) && isASCIIPunct[s[i+1]] {
		return s[i+1], i + 2
	}
	return '\\', i + 1
}

var isASCIIPunct = map[byte]bool{
	'!': true, '"': true, '#': true, '$': true, '%': true, '&': true,
	'\'': true, '(': true, ')': true, '*': true, '+': true, ',': true,
	'-': true, '.': true, '/': true, ':': true, ';': true, '<': true,
	'=': true, '>': true, '?': true, '@': true, '[': true, '\\': true,
	']': true, '^': true, '_': true, '`': true, '{': true, '|': true,
	'}': true, '~': true,
}

// isMeta reports whether b can start a non-text construct or affects the
// parsing of surrounding text, and thus ends a run of plain text.
func isMeta(b byte) bool {
	switch b {
	case '!', '[', ']', '*', '_', '~', '`', '\\', '&', '<', '\n':
		return true
	default:
		return false
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isASCIILetter(b byte) bool { return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') }

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func isAlphanumeric(b byte) bool { return isASCIILetter(b) || isDigit(b) }

func isASCIIControl(b byte) bool { return b < 0x20 }
