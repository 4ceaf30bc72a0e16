package md

import "github.com/fluidfractal/mdtree/pkg/diag"

// Document is the parsed form of a markdown document.
type Document struct {
	// FrontMatter is the decoded YAML front matter. It is nil when the
	// document has none or when the parser was not configured to extract
	// it, and non-nil (but possibly empty) when a front matter block was
	// present.
	FrontMatter map[string]any
	// Blocks are the top-level blocks, in document order.
	Blocks []Block
}

// Block is implemented by all block nodes. Every block carries the byte
// range of the source text it was parsed from.
type Block interface {
	diag.Ranger
	block()
}

// Heading is an ATX heading like "# Title".
type Heading struct {
	diag.Ranging
	// Level is the number of leading hash signs, from 1 to 6.
	Level   int
	Content []Inline
}

// Paragraph is a run of plain text lines.
type Paragraph struct {
	diag.Ranging
	Content []Inline
}

// CodeBlock is a fenced or indented code block. Its body is literal text
// and is never parsed for inline markup.
type CodeBlock struct {
	diag.Ranging
	// Language is the trimmed info string of a fenced block. It is empty
	// for indented blocks and for fences without an info string.
	Language string
	Body     string
}

// ThematicBreak is a horizontal rule like "***".
type ThematicBreak struct {
	diag.Ranging
}

// BlockQuote is a run of ">" lines, parsed as a nested document.
type BlockQuote struct {
	diag.Ranging
	Blocks []Block
}

// UnorderedList is a run of bullet list items sharing the same marker.
type UnorderedList struct {
	diag.Ranging
	Items []ListItem
}

// ListItem is one item of an [UnorderedList].
type ListItem struct {
	Task    Task
	Content []Inline
}

// Task is the state of the task box of a list item.
type Task uint8

const (
	// NoTask marks a list item without a task box.
	NoTask Task = iota
	// Incomplete marks a "[ ]" task box.
	Incomplete
	// Complete marks a "[x]" task box.
	Complete
)

// OrderedList is a run of numbered list items sharing the same delimiter.
type OrderedList struct {
	diag.Ranging
	// Start is the number of the first item.
	Start int
	Items [][]Inline
}

// Table is a pipe table. Only the header row is recognized; Rows is always
// empty.
type Table struct {
	diag.Ranging
	Header []TableCell
	Rows   [][]TableCell
}

// TableCell is one cell of a [Table].
type TableCell struct {
	// Alignment of the column, taken from the delimiter row.
	Alignment Alignment
	Content   []Inline
}

// Alignment is the alignment of a table column.
type Alignment uint8

const (
	NoAlignment Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// HTMLBlock is an embedded HTML construct.
type HTMLBlock struct {
	diag.Ranging
	Node HTMLNode
}

func (*Heading) block()       {}
func (*Paragraph) block()     {}
func (*CodeBlock) block()     {}
func (*ThematicBreak) block() {}
func (*BlockQuote) block()    {}
func (*UnorderedList) block() {}
func (*OrderedList) block()   {}
func (*Table) block()         {}
func (*HTMLBlock) block()     {}

// Inline is implemented by all inline nodes.
type Inline interface{ inline() }

// Text is a run of literal text. Backslash escapes and character
// references are already resolved.
type Text struct {
	Text string
}

// CodeSpan is a backtick code span. Its content is literal.
type CodeSpan struct {
	Text string
}

// Emphasis is emphasized content, delimited by single "*" or "_".
type Emphasis struct {
	Content []Inline
}

// Strong is strongly emphasized content, delimited by "**" or "__".
type Strong struct {
	Content []Inline
}

// Strikethrough is struck-through content, delimited by "~~".
type Strikethrough struct {
	Content []Inline
}

// Link is an inline, reference or automatic link.
type Link struct {
	Destination string
	// Title is the link title, or empty when there is none.
	Title   string
	Content []Inline
}

// Image is an image. Content holds the image description, which renderers
// flatten into the alt text.
type Image struct {
	Destination string
	Title       string
	Content     []Inline
}

// HardLineBreak is an explicit line break within a paragraph.
type HardLineBreak struct{}

// HTMLInline is an HTML construct within inline content.
type HTMLInline struct {
	Node HTMLNode
}

func (*Text) inline()          {}
func (*CodeSpan) inline()      {}
func (*Emphasis) inline()      {}
func (*Strong) inline()        {}
func (*Strikethrough) inline() {}
func (*Link) inline()          {}
func (*Image) inline()         {}
func (*HardLineBreak) inline() {}
func (*HTMLInline) inline()    {}
