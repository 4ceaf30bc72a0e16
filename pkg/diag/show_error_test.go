package diag

import (
	"errors"
	"strings"
	"testing"
)

type showerError struct{}

func (showerError) Error() string { return "error" }

func (showerError) Show(_ string) string { return "show" }

var showErrorTests = []struct {
	name    string
	err     error
	wantBuf string
}{
	{"error implementing Shower", showerError{}, "show\n"},
	{"plain error", errors.New("ERROR"), "{ERROR}\n"},
}

func TestShowError(t *testing.T) {
	setMessageMarkers(t, "{", "}")
	for _, test := range showErrorTests {
		t.Run(test.name, func(t *testing.T) {
			sb := &strings.Builder{}
			ShowError(sb, test.err)
			if sb.String() != test.wantBuf {
				t.Errorf("ShowError(%v) wrote %q, want %q",
					test.err, sb.String(), test.wantBuf)
			}
		})
	}
}
