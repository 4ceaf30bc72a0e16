package md_test

import (
	"testing"

	. "github.com/fluidfractal/mdtree/pkg/md"
	"github.com/google/go-cmp/cmp"
)

type htmlTestCase struct {
	Name     string
	Markdown string
	HTML     string
}

var htmlTestCases = []htmlTestCase{
	{
		Name:     "Headings",
		Markdown: "# b *i*\n",
		HTML: dedent(`
			<h1>b <em>i</em></h1>
			`),
	},
	{
		Name:     "Paragraphs",
		Markdown: "para\n",
		HTML: dedent(`
			<p>para</p>
			`),
	},
	{
		Name: "Code blocks with language",
		Markdown: dedent(`
			~~~go x
			code
			~~~
			`),
		HTML: dedent(`
			<pre><code class="language-go">code
			</code></pre>
			`),
	},
	{
		Name: "Code blocks escape their body",
		Markdown: dedent(`
			~~~
			a < b
			~~~
			`),
		HTML: dedent(`
			<pre><code>a &lt; b
			</code></pre>
			`),
	},
	{
		Name: "Empty code body",
		Markdown: dedent(`
			~~~
			~~~
			`),
		HTML: dedent(`
			<pre><code></code></pre>
			`),
	},
	{
		Name:     "Thematic breaks",
		Markdown: "---\n",
		HTML: dedent(`
			<hr />
			`),
	},
	{
		Name: "Block quotes",
		Markdown: dedent(`
			> q
			`),
		HTML: dedent(`
			<blockquote>
			<p>q</p>
			</blockquote>
			`),
	},
	{
		Name: "Unordered lists",
		Markdown: dedent(`
			- a
			- b
			`),
		HTML: dedent(`
			<ul>
			<li>a</li>
			<li>b</li>
			</ul>
			`),
	},
	{
		Name: "Task lists",
		Markdown: dedent(`
			- [x] done
			- [ ] todo
			`),
		HTML: dedent(`
			<ul>
			<li><input checked="" disabled="" type="checkbox" /> done</li>
			<li><input disabled="" type="checkbox" /> todo</li>
			</ul>
			`),
	},
	{
		Name: "Ordered lists",
		Markdown: dedent(`
			1. one
			`),
		HTML: dedent(`
			<ol>
			<li>one</li>
			</ol>
			`),
	},
	{
		Name: "Ordered lists with start",
		Markdown: dedent(`
			5. five
			6. six
			`),
		HTML: dedent(`
			<ol start="5">
			<li>five</li>
			<li>six</li>
			</ol>
			`),
	},
	{
		Name: "Tables",
		Markdown: dedent(`
			a | b
			:--- | ---:
			`),
		HTML: dedent(`
			<table>
			<thead>
			<tr>
			<th align="left">a</th>
			<th align="right">b</th>
			</tr>
			</thead>
			</table>
			`),
	},
	{
		Name:     "Text escaping",
		Markdown: "5 > 3 & 2 < 4\n",
		HTML: dedent(`
			<p>5 &gt; 3 &amp; 2 &lt; 4</p>
			`),
	},
	{
		Name:     "Links with title",
		Markdown: "[a](/u \"t<i>\")\n",
		HTML: dedent(`
			<p><a href="/u" title="t&lt;i&gt;">a</a></p>
			`),
	},
	{
		Name:     "Ampersand in destination",
		Markdown: "[a](/u?x=1&y=2)\n",
		HTML: dedent(`
			<p><a href="/u?x=1&amp;y=2">a</a></p>
			`),
	},
	{
		Name:     "Space in destination",
		Markdown: "[a](</u v>)\n",
		HTML: dedent(`
			<p><a href="/u%20v">a</a></p>
			`),
	},
	{
		Name:     "Image alt text is flattened",
		Markdown: "![*a* b](/i.png)\n",
		HTML: dedent(`
			<p><img src="/i.png" alt="a b" /></p>
			`),
	},
	{
		Name:     "Hard breaks",
		Markdown: "a  \nb\n",
		HTML: dedent(`
			<p>a<br />
			b</p>
			`),
	},
	{
		Name:     "Emphasis nesting",
		Markdown: "***x***\n",
		HTML: dedent(`
			<p><em><strong>x</strong></em></p>
			`),
	},
	{
		Name:     "Strikethrough",
		Markdown: "~~x~~\n",
		HTML: dedent(`
			<p><del>x</del></p>
			`),
	},
	{
		Name:     "Code spans escape their text",
		Markdown: "`a<b`\n",
		HTML: dedent(`
			<p><code>a&lt;b</code></p>
			`),
	},
	{
		Name: "HTML blocks pass through",
		Markdown: dedent(`
			<div class="x">
			hi
			</div>
			`),
		HTML: dedent(`
			<div class="x">
			<p>hi</p>
			</div>
			`),
	},
	{
		Name:     "Void elements",
		Markdown: "<hr>\n",
		HTML: dedent(`
			<hr />
			`),
	},
	{
		Name:     "Comments pass through",
		Markdown: "<!-- c -->\n",
		HTML: dedent(`
			<!-- c -->
			`),
	},
	{
		Name:     "Doctype passes through",
		Markdown: "<!DOCTYPE html>\n",
		HTML: dedent(`
			<!DOCTYPE html>
			`),
	},
}

func TestToHTML(t *testing.T) {
	for _, tc := range htmlTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			doc, err := Parse(Source{Name: "input.md", Code: tc.Markdown})
			if err != nil {
				t.Fatalf("Parse -> error %v", err)
			}
			got := ToHTML(doc)
			if diff := cmp.Diff(tc.HTML, got); diff != "" {
				t.Errorf("input:\n%s\ndiff (-want +got):\n%s",
					hr+"\n"+tc.Markdown+hr, diff)
			}
		})
	}
}
