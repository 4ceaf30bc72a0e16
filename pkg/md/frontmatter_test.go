package md_test

import (
	"strings"
	"testing"

	. "github.com/fluidfractal/mdtree/pkg/md"
	"github.com/google/go-cmp/cmp"
)

func TestFrontMatter(t *testing.T) {
	src := Source{Name: "input.md", Code: dedent(`
		---
		title: Hi
		count: 2
		---

		para
		`)}
	doc, err := Parser{FrontMatter: true}.Parse(src)
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	wantFM := map[string]any{"title": "Hi", "count": 2}
	if diff := cmp.Diff(wantFM, doc.FrontMatter); diff != "" {
		t.Errorf("front matter (-want +got):\n%s", diff)
	}
	wantTrace := dedent(`
		Paragraph
		  Text "para"
		`)
	if diff := cmp.Diff(wantTrace, ToTrace(doc)); diff != "" {
		t.Errorf("blocks (-want +got):\n%s", diff)
	}
}

func TestFrontMatter_Absent(t *testing.T) {
	doc, err := Parser{FrontMatter: true}.Parse(Source{Name: "input.md", Code: "para\n"})
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	if doc.FrontMatter != nil {
		t.Errorf("front matter = %v, want nil", doc.FrontMatter)
	}
}

func TestFrontMatter_Empty(t *testing.T) {
	doc, err := Parser{FrontMatter: true}.Parse(
		Source{Name: "input.md", Code: "---\n---\npara\n"})
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	if doc.FrontMatter == nil {
		t.Errorf("front matter is nil, want non-nil empty map")
	}
	if len(doc.FrontMatter) != 0 {
		t.Errorf("front matter = %v, want empty map", doc.FrontMatter)
	}
}

func TestFrontMatter_Unterminated(t *testing.T) {
	_, err := Parser{FrontMatter: true}.Parse(
		Source{Name: "input.md", Code: "---\ntitle: x\n"})
	if err == nil {
		t.Fatalf("Parse -> no error, want unterminated front matter error")
	}
	if !strings.Contains(err.Error(), "unterminated front matter") {
		t.Errorf("error %q does not mention unterminated front matter", err)
	}
}

func TestFrontMatter_Invalid(t *testing.T) {
	_, err := Parser{FrontMatter: true}.Parse(
		Source{Name: "input.md", Code: "---\n[unclosed\n---\n"})
	if err == nil {
		t.Fatalf("Parse -> no error, want invalid front matter error")
	}
	if !strings.Contains(err.Error(), "invalid front matter") {
		t.Errorf("error %q does not mention invalid front matter", err)
	}
}

func TestFrontMatter_Disabled(t *testing.T) {
	doc, err := Parse(Source{Name: "input.md", Code: "---\ntitle: x\n---\n"})
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	want := dedent(`
		ThematicBreak
		Paragraph
		  Text "title: x"
		ThematicBreak
		`)
	if diff := cmp.Diff(want, ToTrace(doc)); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
}
