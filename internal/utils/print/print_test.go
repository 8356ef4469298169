package print

import (
	"strings"
	"testing"
)

type sample struct {
	Name   string
	Count  int
	Tags   []string
	hidden string
}

func TestPrintStructFields(t *testing.T) {
	t.Parallel()

	out := printStructFields(&sample{Name: "x", Tags: []string{"a"}, hidden: "h"})

	for _, want := range []string{"Name: x\n", "Count", "[empty]", "Tags: [a]\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("unexported field printed:\n%s", out)
	}
}

func TestPrintStructFieldsNonStruct(t *testing.T) {
	t.Parallel()

	if out := printStructFields(42); !strings.Contains(out, "Expected a struct") {
		t.Errorf("got %q", out)
	}
	var p *sample
	if out := printStructFields(p); out != "[nil]\n" {
		t.Errorf("got %q", out)
	}
}
