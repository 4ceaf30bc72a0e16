package diag

import (
	"errors"
	"reflect"
	"testing"
)

type testTag struct{}

func (testTag) ErrorTag() string { return "some error" }

func TestError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	err := &Error[testTag]{
		Message: "bad link",
		Context: *contextInParen("a.md", "see (x)"),
	}

	wantErrorString := "some error: a.md:1:5: bad link"
	if gotErrorString := err.Error(); gotErrorString != wantErrorString {
		t.Errorf("Error() -> %q, want %q", gotErrorString, wantErrorString)
	}

	wantRanging := Ranging{From: 4, To: 7}
	if gotRanging := err.Range(); gotRanging != wantRanging {
		t.Errorf("Range() -> %v, want %v", gotRanging, wantRanging)
	}

	// The tag is capitalized in the return value of Show.
	wantShow := dedent(`
		Some error: {bad link}
		  a.md, line 1: see <(x)>`)
	if gotShow := err.Show(""); gotShow != wantShow {
		t.Errorf("Show() -> %q, want %q", gotShow, wantShow)
	}
}

func TestPackAndUnpackErrors(t *testing.T) {
	err1 := &Error[testTag]{
		Message: "bad 1",
		Context: *contextInParen("a.md", "see (1)"),
	}
	err2 := &Error[testTag]{
		Message: "bad 2",
		Context: *contextInParen("a.md", "see (2)"),
	}

	if packed := PackErrors[testTag](nil); packed != nil {
		t.Errorf("PackErrors(nil) -> %v, want nil", packed)
	}

	packed := PackErrors([]*Error[testTag]{err1})
	if packed != error(err1) {
		t.Errorf("PackErrors with one error -> %v, want the error itself", packed)
	}

	packed = PackErrors([]*Error[testTag]{err1, err2})
	wantErrorString := "multiple some errors: " +
		"a.md:1:5: bad 1; a.md:1:5: bad 2"
	if packed.Error() != wantErrorString {
		t.Errorf("Error() -> %q, want %q", packed.Error(), wantErrorString)
	}
	if _, ok := packed.(Shower); !ok {
		t.Errorf("packed error does not implement Shower")
	}

	unpacked := UnpackErrors[testTag](packed)
	if !reflect.DeepEqual(unpacked, []*Error[testTag]{err1, err2}) {
		t.Errorf("UnpackErrors -> %v, want unpacked constituents", unpacked)
	}
	if got := UnpackErrors[testTag](errors.New("foo")); got != nil {
		t.Errorf("UnpackErrors of a plain error -> %v, want nil", got)
	}
}
