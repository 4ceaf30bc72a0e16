package md

import (
	"strings"

	"github.com/fluidfractal/mdtree/pkg/diag"
)

// unparsed wraps inline text pending the second pass. The first pass only
// ever concatenates it or checks it for emptiness; it is never interpreted
// structurally before all link reference definitions have been collected.
type unparsed struct {
	text string
}

// rawBlock is one segmented but not yet inline-parsed block, the unit the
// first pass produces at every step.
type rawBlock interface {
	diag.Ranger
	rawBlock()
}

type rawHeading struct {
	diag.Ranging
	level int
	text  unparsed
}

// rawBody is a paragraph in the making. Adjacent bodies merge, and several
// constructs behave differently directly after one.
type rawBody struct {
	diag.Ranging
	text unparsed
}

// rawCode is a fenced code block. Its body is one or more literal lines
// joined with "\n", without a trailing newline.
type rawCode struct {
	diag.Ranging
	language string
	body     string
}

// rawIndentedCode is a single indented code line; adjacent ones merge.
type rawIndentedCode struct {
	diag.Ranging
	body string
}

type rawThematicBreak struct {
	diag.Ranging
}

// rawBlankLine never reaches the final tree; it exists so that paragraph
// and quote runs stop merging across it.
type rawBlankLine struct {
	diag.Ranging
}

// rawBlockQuote accumulates the stripped text of ">" lines. The text is
// parsed as a nested document in the second pass.
type rawBlockQuote struct {
	diag.Ranging
	text string
}

type rawListItem struct {
	task Task
	text unparsed
}

type rawUnorderedList struct {
	diag.Ranging
	items []rawListItem
}

type rawOrderedList struct {
	diag.Ranging
	start int
	items []unparsed
}

// rawTableDelimiter is transient: merging always either combines it with
// the preceding body into a table or keeps its source line as paragraph
// text.
type rawTableDelimiter struct {
	diag.Ranging
	alignments []Alignment
	line       string
}

type rawTableCell struct {
	alignment Alignment
	label     unparsed
}

// rawTable holds the recognized header row. Rows below the delimiter are
// never collected.
type rawTable struct {
	diag.Ranging
	header []rawTableCell
}

type rawHTML struct {
	diag.Ranging
	node HTMLNode
}

func (*rawHeading) rawBlock()        {}
func (*rawBody) rawBlock()           {}
func (*rawCode) rawBlock()           {}
func (*rawIndentedCode) rawBlock()   {}
func (*rawThematicBreak) rawBlock()  {}
func (*rawBlankLine) rawBlock()      {}
func (*rawBlockQuote) rawBlock()     {}
func (*rawUnorderedList) rawBlock()  {}
func (*rawOrderedList) rawBlock()    {}
func (*rawTableDelimiter) rawBlock() {}
func (*rawTable) rawBlock()          {}
func (*rawHTML) rawBlock()           {}

// state accumulates the first pass: raw blocks in document order, the last
// element being the most recent, and link reference definitions in
// discovery order.
type state struct {
	blocks []rawBlock
	refs   []linkReferenceDefinition
}

func (st *state) mostRecent() rawBlock {
	if len(st.blocks) == 0 {
		return nil
	}
	return st.blocks[len(st.blocks)-1]
}

func (st *state) replaceMostRecent(b rawBlock) {
	st.blocks[len(st.blocks)-1] = b
}

// merge folds a newly recognized raw block into the accumulated blocks,
// either combining it with the most recent block or appending it as a new
// sibling. Combining builds replacement records; it never mutates the old
// ones.
func (st *state) merge(nb rawBlock) {
	switch nb := nb.(type) {
	case *rawCode:
		// A fence directly following another fence continues it. The
		// combined block keeps no language.
		if last, ok := st.mostRecent().(*rawCode); ok {
			st.replaceMostRecent(&rawCode{
				Ranging: diag.MixedRanging(last, nb),
				body:    joinLines(last.body, nb.body),
			})
			return
		}
	case *rawIndentedCode:
		if last, ok := st.mostRecent().(*rawIndentedCode); ok {
			st.replaceMostRecent(&rawIndentedCode{
				Ranging: diag.MixedRanging(last, nb),
				body:    joinLines(last.body, nb.body),
			})
			return
		}
	case *rawBody:
		switch last := st.mostRecent().(type) {
		case *rawBlockQuote:
			// Lazy continuation: a plain line directly after a quote stays
			// in the quote.
			st.replaceMostRecent(&rawBlockQuote{
				Ranging: diag.MixedRanging(last, nb),
				text:    joinUnlessEmpty(last.text, nb.text.text),
			})
			return
		case *rawBody:
			st.replaceMostRecent(&rawBody{
				Ranging: diag.MixedRanging(last, nb),
				text:    unparsed{joinUnlessEmpty(last.text.text, nb.text.text)},
			})
			return
		}
	case *rawBlockQuote:
		if last, ok := st.mostRecent().(*rawBlockQuote); ok {
			st.replaceMostRecent(&rawBlockQuote{
				Ranging: diag.MixedRanging(last, nb),
				text:    joinLines(last.text, nb.text),
			})
			return
		}
	case *rawTableDelimiter:
		if last, ok := st.mostRecent().(*rawBody); ok {
			if header, ok := tableHeader(last.text.text, nb.alignments); ok {
				st.replaceMostRecent(&rawTable{
					Ranging: diag.MixedRanging(last, nb),
					header:  header,
				})
			} else {
				// Cell counts disagree; the delimiter line is just another
				// paragraph line.
				st.replaceMostRecent(&rawBody{
					Ranging: diag.MixedRanging(last, nb),
					text:    unparsed{joinUnlessEmpty(last.text.text, nb.line)},
				})
			}
			return
		}
		st.blocks = append(st.blocks,
			&rawBody{Ranging: nb.Ranging, text: unparsed{nb.line}})
		return
	}
	st.blocks = append(st.blocks, nb)
}

// joinLines joins two accumulated texts with a newline unconditionally.
func joinLines(a, b string) string { return a + "\n" + b }

// joinUnlessEmpty joins two accumulated texts with a newline, except that
// an empty side yields the other side verbatim.
func joinUnlessEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "\n" + b
}

// tableHeader splits a body into header cells matching the delimiter row's
// alignments. It fails when the body spans multiple lines or when the cell
// counts disagree.
func tableHeader(body string, alignments []Alignment) ([]rawTableCell, bool) {
	if strings.Contains(body, "\n") {
		return nil, false
	}
	cells := splitTableRow(body)
	if len(cells) != len(alignments) {
		return nil, false
	}
	header := make([]rawTableCell, len(cells))
	for i, cell := range cells {
		header[i] = rawTableCell{alignment: alignments[i], label: unparsed{cell}}
	}
	return header, true
}
