package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/tree"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }

func (s stubRenderer) Render(context.Context, *tree.Tree, *formdef.FormDefinition, Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "tui"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatal("empty name must fail")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") {
		t.Fatal("Has(tui) = false")
	}
	if _, err := registry.Get("preact"); err == nil {
		t.Fatal("Get for unknown renderer must fail")
	}
	if got := registry.MustGet("html").Name(); got != "html" {
		t.Fatalf("MustGet = %q", got)
	}
}

func TestMapErrorPayload(t *testing.T) {
	t.Parallel()

	def := &formdef.FormDefinition{
		Definition: formdef.Definition{Fields: []formdef.FieldDef{
			{NameKey: "email"},
			{NameKey: "gst_no"},
		}},
	}

	payload := map[string][]string{
		"email":            {"Invalid address", " Invalid address "},
		"#/data/gst_no":    {"Bad GST"},
		"fields[0].email":  {"Duplicate key resolves to same field"},
		"something_else":   {"No such field"},
		"non_field_errors": {"Form level"},
		"blank":            {"   "},
	}

	mapping := MapErrorPayload(def, payload)

	wantFields := map[string][]string{
		"email":  {"Invalid address", "Duplicate key resolves to same field"},
		"gst_no": {"Bad GST"},
	}
	for key, want := range wantFields {
		got := mapping.Fields[key]
		if len(got) != len(want) {
			t.Fatalf("Fields[%q] = %v, want %v", key, got, want)
		}
	}
	if len(mapping.Form) != 2 {
		t.Fatalf("Form = %v, want the unmapped and form-level messages", mapping.Form)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	got := MergeFormErrors([]string{"a", " b "}, "b", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
