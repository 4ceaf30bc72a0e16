package md

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fluidfractal/mdtree/pkg/diag"
	"gopkg.in/yaml.v3"
)

// parseFrontMatter extracts the YAML front matter block at the very top of
// the document, leaving the cursor after the closing delimiter line. When
// the first line is not "---" the cursor stays put and the document has no
// front matter.
func (ps *parser) parseFrontMatter() (map[string]any, error) {
	if ps.peekLine() != "---" {
		return nil, nil
	}
	begin := ps.pos
	ps.takeLine()
	var lines []string
	for {
		if ps.eof() {
			return nil, ps.errorp(diag.Ranging{From: begin, To: ps.pos},
				errors.New("unterminated front matter"))
		}
		line := ps.takeLine()
		if line == "---" {
			break
		}
		lines = append(lines, line)
	}
	// Front matter was present, so the returned map is non-nil even when
	// it decodes to nothing.
	fm := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &fm); err != nil {
		return nil, ps.errorp(diag.Ranging{From: begin, To: ps.pos},
			fmt.Errorf("invalid front matter: %v", err))
	}
	return fm, nil
}
