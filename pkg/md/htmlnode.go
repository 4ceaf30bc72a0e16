package md

import (
	"fmt"
	"io"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"golang.org/x/net/html"
)

// HTMLNode is implemented by all nodes of an embedded HTML tree.
type HTMLNode interface{ htmlNode() }

// HTMLElement is an element like "<div>...</div>".
type HTMLElement struct {
	Tag   string
	Attrs []HTMLAttr
	// Children holds the element's content in document order. Text
	// children are parsed as nested markdown; element and other HTML
	// children appear as HTMLBlock values.
	Children []Block
}

// HTMLAttr is one attribute of an [HTMLElement].
type HTMLAttr struct {
	Key   string
	Value string
}

// HTMLComment is a "<!-- -->" comment.
type HTMLComment struct {
	Text string
}

// HTMLCdata is a "<![CDATA[ ]]>" section.
type HTMLCdata struct {
	Text string
}

// HTMLInstruction is a "<? ?>" processing instruction.
type HTMLInstruction struct {
	Text string
}

// HTMLDeclaration is a "<! >" declaration, like a doctype.
type HTMLDeclaration struct {
	Kind    string
	Content string
}

func (*HTMLElement) htmlNode()     {}
func (*HTMLComment) htmlNode()     {}
func (*HTMLCdata) htmlNode()       {}
func (*HTMLInstruction) htmlNode() {}
func (*HTMLDeclaration) htmlNode() {}

// Void elements have no content and are complete at their start tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// parseHTMLNode consumes one complete HTML construct at the cursor: a
// comment, CDATA section, processing instruction, declaration, or an
// element through its matching end tag. Elements still open at the end of
// input are closed there. It returns a nil node with the cursor unmoved
// when no HTML construct starts at it, and an error on a mismatched end
// tag.
func (ps *parser) parseHTMLNode() (HTMLNode, error) {
	z := html.NewTokenizer(strings.NewReader(ps.rest()))
	begin := ps.pos
	consumed := 0
	type openElement struct {
		el   *HTMLElement
		from int
	}
	var stack []openElement
	attach := func(b Block) {
		top := stack[len(stack)-1]
		top.el.Children = append(top.el.Children, b)
	}
	for {
		tt := z.Next()
		raw := string(z.Raw())
		tokenFrom := begin + consumed
		consumed += len(raw)
		tokenRange := diag.Ranging{From: tokenFrom, To: begin + consumed}

		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, ps.errorp(tokenRange, err)
			}
			if len(stack) == 0 {
				return nil, nil
			}
			// The end of input closes every element still open.
			for len(stack) > 1 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				attach(&HTMLBlock{
					Ranging: diag.Ranging{From: top.from, To: begin + consumed},
					Node:    top.el,
				})
			}
			ps.pos = begin + consumed
			return stack[0].el, nil
		}

		var complete HTMLNode
		switch tt {
		case html.TextToken:
			if len(stack) == 0 {
				return nil, nil
			}
			for _, b := range ps.textChildren(z.Token().Data) {
				attach(b)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			el := &HTMLElement{Tag: t.Data, Attrs: htmlAttrs(t.Attr)}
			if tt == html.StartTagToken && !voidElements[t.Data] {
				stack = append(stack, openElement{el, tokenFrom})
			} else if len(stack) == 0 {
				complete = el
			} else {
				attach(&HTMLBlock{Ranging: tokenRange, Node: el})
			}
		case html.EndTagToken:
			if len(stack) == 0 {
				return nil, nil
			}
			t := z.Token()
			top := stack[len(stack)-1]
			if top.el.Tag != t.Data {
				return nil, ps.errorp(tokenRange, newError(
					fmt.Sprintf("unexpected closing tag </%s>", t.Data),
					"</"+top.el.Tag+">"))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				complete = top.el
			} else {
				attach(&HTMLBlock{
					Ranging: diag.Ranging{From: top.from, To: begin + consumed},
					Node:    top.el,
				})
			}
		case html.CommentToken:
			n := classifyComment(raw)
			if len(stack) == 0 {
				complete = n
			} else {
				attach(&HTMLBlock{Ranging: tokenRange, Node: n})
			}
		case html.DoctypeToken:
			n := &HTMLDeclaration{Kind: "DOCTYPE", Content: z.Token().Data}
			if len(stack) == 0 {
				complete = n
			} else {
				attach(&HTMLBlock{Ranging: tokenRange, Node: n})
			}
		}
		if complete != nil {
			ps.pos = begin + consumed
			return complete, nil
		}
	}
}

// textChildren parses a text child of an element as nested markdown.
// Whitespace-only text yields no blocks, and a failed nested parse
// degrades to no blocks rather than failing the enclosing document.
func (ps *parser) textChildren(text string) []Block {
	if strings.Trim(text, " \t\r\n") == "" {
		return nil
	}
	blocks, err := ps.subDocument(text)
	if err != nil {
		return nil
	}
	return blocks
}

func htmlAttrs(attrs []html.Attribute) []HTMLAttr {
	if len(attrs) == 0 {
		return nil
	}
	converted := make([]HTMLAttr, len(attrs))
	for i, attr := range attrs {
		converted[i] = HTMLAttr{Key: attr.Key, Value: attr.Val}
	}
	return converted
}

// The tokenizer reports comments, CDATA sections, processing instructions
// and non-doctype declarations all as comment tokens; the raw text tells
// them apart.
func classifyComment(raw string) HTMLNode {
	switch {
	case strings.HasPrefix(raw, "<!--"):
		return &HTMLComment{Text: trimDelimiters(raw, "<!--", "-->")}
	case strings.HasPrefix(raw, "<![CDATA["):
		return &HTMLCdata{Text: trimDelimiters(raw, "<![CDATA[", "]]>")}
	case strings.HasPrefix(raw, "<?"):
		text := strings.TrimPrefix(raw, "<?")
		text = strings.TrimSuffix(text, ">")
		text = strings.TrimSuffix(text, "?")
		return &HTMLInstruction{Text: text}
	default:
		inner := trimDelimiters(raw, "<!", ">")
		kind, content, _ := strings.Cut(inner, " ")
		return &HTMLDeclaration{Kind: kind, Content: content}
	}
}

func trimDelimiters(s, opener, closer string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, opener), closer)
}
