// Package md implements a CommonMark-flavored markdown parser producing a
// document tree.
//
// Parsing runs in two passes. The first pass segments the source into raw
// blocks and collects link reference definitions, which may be defined
// after their first use. The second pass parses every raw block's pending
// inline content against the complete reference set, re-entering the whole
// pipeline for the text of block quotes and of embedded HTML elements.
//
// The grammar follows CommonMark for the constructs it implements, with
// deliberate simplifications: setext headings are not recognized, list
// items are single lines, tables consist of a header row only, and code
// fences as well as list markers must start at the first column.
package md

import (
	"strings"

	"golang.org/x/text/cases"
)

// Source describes a piece of markdown source text.
type Source struct {
	// Name describes the source, usually a filename. It is only used in
	// error messages.
	Name string
	// Code is the source text.
	Code string
}

// Parser holds the options of a parse. The zero value is a valid
// configuration.
type Parser struct {
	// FrontMatter extracts a YAML front matter block delimited by "---"
	// lines at the very top of the document.
	FrontMatter bool
}

// Parse parses src into a document tree with the default options.
func Parse(src Source) (*Document, error) {
	return Parser{}.Parse(src)
}

// Parse parses src into a document tree. A non-nil error contains one or
// more [Error] values, retrievable with [UnpackErrors].
func (cfg Parser) Parse(src Source) (*Document, error) {
	ps := &parser{srcName: src.Name, src: src.Code}
	doc := &Document{}
	if cfg.FrontMatter {
		fm, err := ps.parseFrontMatter()
		if err != nil {
			return nil, err
		}
		doc.FrontMatter = fm
	}
	blocks, err := ps.document()
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks
	return doc, nil
}

// document runs both passes over the source from the cursor onwards.
func (ps *parser) document() ([]Block, error) {
	var st state
	for !ps.eof() {
		if err := st.step(ps); err != nil {
			return nil, err
		}
	}
	return st.finish(ps)
}

// step recognizes one construct at the cursor and folds it into the
// state. Two recognitions precede the alternative table: a line that
// starts like an autolink bypasses the HTML block parser, and a link
// reference definition produces no block at all.
func (st *state) step(ps *parser) error {
	if b, err := parseAngleBracketLine(ps); err != nil {
		return err
	} else if b != nil {
		st.merge(b)
		return nil
	}
	if def, ok := parseLinkReferenceDefinition(ps); ok {
		st.refs = append(st.refs, def)
		return nil
	}
	alts := alternatives
	if _, ok := st.mostRecent().(*rawBody); ok {
		alts = alternativesAfterBody
	}
	for _, alt := range alts {
		b, err := alt(ps)
		if err != nil {
			return err
		}
		if b != nil {
			st.merge(b)
			return nil
		}
	}
	panic("unreachable")
}

// finish runs the second pass: the collected definitions are folded into a
// reference mapping and each raw block's pending inline text is parsed
// against it, in document order.
func (st *state) finish(ps *parser) ([]Block, error) {
	refs := foldReferences(st.refs)
	var blocks []Block
	for _, rb := range st.blocks {
		b, err := ps.convert(rb, refs)
		if err != nil {
			return nil, err
		}
		if b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

// linkReferenceDefinition is one "[label]: destination" line collected
// during the first pass.
type linkReferenceDefinition struct {
	label       string
	destination string
	// title is empty when the definition has none.
	title string
}

type refMap map[string]linkReferenceDefinition

// foldReferences resolves the collected definitions into a lookup map. On
// duplicate labels the definition earliest in the document wins.
func foldReferences(defs []linkReferenceDefinition) refMap {
	refs := make(refMap, len(defs))
	for _, def := range defs {
		label := normalizeLabel(def.label)
		if _, ok := refs[label]; !ok {
			refs[label] = def
		}
	}
	return refs
}

// normalizeLabel prepares a reference label for matching: internal
// whitespace collapses to single spaces and the result is case-folded.
func normalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

func (ps *parser) convert(rb rawBlock, refs refMap) (Block, error) {
	switch rb := rb.(type) {
	case *rawBlankLine:
		return nil, nil
	case *rawHeading:
		if rb.level < 1 || rb.level > 6 {
			panic("unreachable")
		}
		content, err := ps.inlines(rb.text, rb, refs)
		if err != nil {
			return nil, err
		}
		return &Heading{Ranging: rb.Ranging, Level: rb.level, Content: content}, nil
	case *rawBody:
		content, err := ps.inlines(rb.text, rb, refs)
		if err != nil {
			return nil, err
		}
		if len(content) == 0 {
			// A paragraph that parses to nothing is dropped, like one made
			// of trailing whitespace at the end of input.
			return nil, nil
		}
		return &Paragraph{Ranging: rb.Ranging, Content: content}, nil
	case *rawCode:
		return &CodeBlock{Ranging: rb.Ranging, Language: rb.language, Body: rb.body}, nil
	case *rawIndentedCode:
		return &CodeBlock{Ranging: rb.Ranging, Body: rb.body}, nil
	case *rawThematicBreak:
		return &ThematicBreak{Ranging: rb.Ranging}, nil
	case *rawBlockQuote:
		blocks, err := ps.subDocument(rb.text)
		if err != nil {
			return nil, ps.wrapNested(rb, err)
		}
		return &BlockQuote{Ranging: rb.Ranging, Blocks: blocks}, nil
	case *rawUnorderedList:
		items := make([]ListItem, len(rb.items))
		for i, item := range rb.items {
			content, err := ps.inlines(item.text, rb, refs)
			if err != nil {
				return nil, err
			}
			items[i] = ListItem{Task: item.task, Content: content}
		}
		return &UnorderedList{Ranging: rb.Ranging, Items: items}, nil
	case *rawOrderedList:
		items := make([][]Inline, len(rb.items))
		for i, text := range rb.items {
			content, err := ps.inlines(text, rb, refs)
			if err != nil {
				return nil, err
			}
			items[i] = content
		}
		return &OrderedList{Ranging: rb.Ranging, Start: rb.start, Items: items}, nil
	case *rawTable:
		header := make([]TableCell, len(rb.header))
		for i, cell := range rb.header {
			content, err := ps.inlines(cell.label, rb, refs)
			if err != nil {
				return nil, err
			}
			header[i] = TableCell{Alignment: cell.alignment, Content: content}
		}
		return &Table{Ranging: rb.Ranging, Header: header}, nil
	case *rawHTML:
		return &HTMLBlock{Ranging: rb.Ranging, Node: rb.node}, nil
	}
	panic("unreachable")
}

// inlines parses one pending inline text. The surrounding whitespace is
// insignificant, and a failure is reported as a single error spanning the
// enclosing block.
func (ps *parser) inlines(u unparsed, r rawBlock, refs refMap) ([]Inline, error) {
	text := strings.Trim(u.text, " \t")
	if text == "" {
		return nil, nil
	}
	content, err := parseInlines(ps, text, refs)
	if err != nil {
		return nil, ps.wrapNested(r, err)
	}
	return content, nil
}
