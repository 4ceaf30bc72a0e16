package md_test

import (
	"testing"
)

var inlineTestCases = []testCase{
	{
		Name:     "Emphasis/Stars",
		Markdown: "*em* and **strong**\n",
		Trace: dedent(`
			Paragraph
			  Emphasis
			    Text "em"
			  Text " and "
			  Strong
			    Text "strong"
			`),
	},
	{
		Name:     "Emphasis/Em around strong",
		Markdown: "***both***\n",
		Trace: dedent(`
			Paragraph
			  Emphasis
			    Strong
			      Text "both"
			`),
	},
	{
		Name:     "Emphasis/Rule of three",
		Markdown: "*foo**bar**baz*\n",
		Trace: dedent(`
			Paragraph
			  Emphasis
			    Text "foo"
			    Strong
			      Text "bar"
			    Text "baz"
			`),
	},
	{
		Name:     "Emphasis/Star within a word",
		Markdown: "a*b*c\n",
		Trace: dedent(`
			Paragraph
			  Text "a"
			  Emphasis
			    Text "b"
			  Text "c"
			`),
	},
	{
		Name:     "Emphasis/Underscore within a word stays literal",
		Markdown: "a_b_c\n",
		Trace: dedent(`
			Paragraph
			  Text "a_b_c"
			`),
	},
	{
		Name:     "Emphasis/Underscore at word boundaries",
		Markdown: "_em_\n",
		Trace: dedent(`
			Paragraph
			  Emphasis
			    Text "em"
			`),
	},
	{
		Name:     "Strikethrough/Double tilde",
		Markdown: "~~x~~\n",
		Trace: dedent(`
			Paragraph
			  Strikethrough
			    Text "x"
			`),
	},
	{
		Name:     "Strikethrough/Single tilde stays literal",
		Markdown: "~x~\n",
		Trace: dedent(`
			Paragraph
			  Text "~x~"
			`),
	},
	{
		Name:     "Strikethrough/Longer runs stay literal",
		Markdown: "a ~~~x~~~ b\n",
		Trace: dedent(`
			Paragraph
			  Text "a ~~~x~~~ b"
			`),
	},
	{
		Name:     "Code spans/Simple",
		Markdown: "`code`\n",
		Trace: dedent(`
			Paragraph
			  CodeSpan "code"
			`),
	},
	{
		Name:     "Code spans/Backtick in content",
		Markdown: "``a`b``\n",
		Trace: dedent(`
			Paragraph
			  CodeSpan "a` + "`" + `b"
			`),
	},
	{
		Name:     "Code spans/One space stripped from each end",
		Markdown: "`` `x` ``\n",
		Trace: dedent(`
			Paragraph
			  CodeSpan "` + "`x`" + `"
			`),
	},
	{
		Name:     "Code spans/Newline becomes a space",
		Markdown: "`a\nb`\n",
		Trace: dedent(`
			Paragraph
			  CodeSpan "a b"
			`),
	},
	{
		Name:     "Code spans/Unterminated",
		Markdown: "a `b\n",
		Trace: dedent(`
			Paragraph
			  Text "a ` + "`" + `b"
			`),
	},
	{
		Name:     "Escapes/Punctuation",
		Markdown: `\*lit\*` + "\n",
		Trace: dedent(`
			Paragraph
			  Text "*lit*"
			`),
	},
	{
		Name:     "Escapes/Non-punctuation keeps the backslash",
		Markdown: `a\b` + "\n",
		Trace: dedent(`
			Paragraph
			  Text "a\\b"
			`),
	},
	{
		Name:     "Entities/Named and numeric",
		Markdown: "a &amp; &#65; b\n",
		Trace: dedent(`
			Paragraph
			  Text "a & A b"
			`),
	},
	{
		Name:     "Entities/Unknown stays literal",
		Markdown: "&nosuch; x\n",
		Trace: dedent(`
			Paragraph
			  Text "&nosuch; x"
			`),
	},
	{
		Name:     "Line breaks/Two trailing spaces",
		Markdown: "a  \nb\n",
		Trace: dedent(`
			Paragraph
			  Text "a"
			  HardLineBreak
			  Text "b"
			`),
	},
	{
		Name:     "Line breaks/Trailing backslash",
		Markdown: "a\\\nb\n",
		Trace: dedent(`
			Paragraph
			  Text "a"
			  HardLineBreak
			  Text "b"
			`),
	},
	{
		Name:     "Line breaks/Soft",
		Markdown: "a\nb\n",
		Trace: dedent(`
			Paragraph
			  Text "a\nb"
			`),
	},
	{
		Name:     "Links/Inline",
		Markdown: "[text](/url)\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/url"
			    Text "text"
			`),
	},
	{
		Name:     "Links/Inline with title",
		Markdown: "[t](/u \"ti\")\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u" Title="ti"
			    Text "t"
			`),
	},
	{
		Name:     "Links/Formatted text",
		Markdown: "[*em* x](/u)\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u"
			    Emphasis
			      Text "em"
			    Text " x"
			`),
	},
	{
		Name:     "Links/Empty destination",
		Markdown: "[a]()\n",
		Trace: dedent(`
			Paragraph
			  Link Dest=""
			    Text "a"
			`),
	},
	{
		Name:     "Links/Angle destination with spaces",
		Markdown: "[a](</u v>)\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u v"
			    Text "a"
			`),
	},
	{
		Name:     "Links/Escaped parens in destination",
		Markdown: `[a](/u\(x\))` + "\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u(x)"
			    Text "a"
			`),
	},
	{
		Name:     "Links/Balanced parens in destination",
		Markdown: "[a](/u(x))\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u(x)"
			    Text "a"
			`),
	},
	{
		Name:     "Links/Unbalanced paren in destination stays literal",
		Markdown: "[x](a(b )\n",
		Trace: dedent(`
			Paragraph
			  Text "[x](a(b )"
			`),
	},
	{
		Name:     "Links/Image",
		Markdown: "![alt text](/img.png)\n",
		Trace: dedent(`
			Paragraph
			  Image Dest="/img.png"
			    Text "alt text"
			`),
	},
	{
		Name: "Links/Collapsed reference",
		Markdown: dedent(`
			[foo][]

			[foo]: /f
			`),
		Trace: dedent(`
			Paragraph
			  Link Dest="/f"
			    Text "foo"
			`),
	},
	{
		Name: "Links/Shortcut reference",
		Markdown: dedent(`
			[foo]

			[foo]: /f
			`),
		Trace: dedent(`
			Paragraph
			  Link Dest="/f"
			    Text "foo"
			`),
	},
	{
		Name: "Links/Labels are case-insensitive",
		Markdown: dedent(`
			[FOO]

			[foo]: /f
			`),
		Trace: dedent(`
			Paragraph
			  Link Dest="/f"
			    Text "FOO"
			`),
	},
	{
		Name: "Links/Label whitespace is normalized",
		Markdown: dedent(`
			[a  b]

			[a b]: /f
			`),
		Trace: dedent(`
			Paragraph
			  Link Dest="/f"
			    Text "a  b"
			`),
	},
	{
		Name:     "Links/Unresolved stays literal",
		Markdown: "[nope]\n",
		Trace: dedent(`
			Paragraph
			  Text "[nope]"
			`),
	},
	{
		Name:     "Links/Unresolved full reference stays literal",
		Markdown: "[x][nope]\n",
		Trace: dedent(`
			Paragraph
			  Text "[x][nope]"
			`),
	},
	{
		Name:     "Links/No links inside links",
		Markdown: "[a [b](/u) c](/v)\n",
		Trace: dedent(`
			Paragraph
			  Text "[a "
			  Link Dest="/u"
			    Text "b"
			  Text " c](/v)"
			`),
	},
	{
		Name:     "Links/Image inside a link",
		Markdown: "[a ![b](/i) c](/u)\n",
		Trace: dedent(`
			Paragraph
			  Link Dest="/u"
			    Text "a "
			    Image Dest="/i"
			      Text "b"
			    Text " c"
			`),
	},
	{
		Name:     "Autolinks/URL",
		Markdown: "see <https://x.test/a?b=c> here\n",
		Trace: dedent(`
			Paragraph
			  Text "see "
			  Link Dest="https://x.test/a?b=c"
			    Text "https://x.test/a?b=c"
			  Text " here"
			`),
	},
	{
		Name:     "Autolinks/Email",
		Markdown: "visit <a@b.test> now\n",
		Trace: dedent(`
			Paragraph
			  Text "visit "
			  Link Dest="mailto:a@b.test"
			    Text "a@b.test"
			  Text " now"
			`),
	},
	{
		Name:     "Autolinks/Not an autolink",
		Markdown: "<3 hearts>\n",
		Trace: dedent(`
			Paragraph
			  Text "<3 hearts>"
			`),
	},
	{
		Name:     "Inline HTML/Element",
		Markdown: "a <b>bold</b> c\n",
		Trace: dedent(`
			Paragraph
			  Text "a "
			  HTMLElement Tag=b
			    Paragraph
			      Text "bold"
			  Text " c"
			`),
	},
	{
		Name:     "Inline HTML/Comment",
		Markdown: "x <!-- c --> y\n",
		Trace: dedent(`
			Paragraph
			  Text "x "
			  HTMLComment " c "
			  Text " y"
			`),
	},
	{
		Name:     "Inline HTML/Literal less-than",
		Markdown: "1 < 2\n",
		Trace: dedent(`
			Paragraph
			  Text "1 < 2"
			`),
	},
}

func TestParseInlines(t *testing.T) {
	testTraces(t, inlineTestCases)
}
