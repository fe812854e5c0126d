package confload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestFetchUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"form_id":"frm_9","name":"Contact","definition":{"fields":[{"nameKey":"email","type":"email"}]}}}`))
	}))
	defer srv.Close()

	loader := New(srv.URL, WithCompanyID("co_1"), WithAPIKey("k_abc"))
	def, err := loader.Fetch(context.Background(), "frm_9")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotPath != "/formconfig/form/frm_9" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "company_id=co_1&key=k_abc" {
		t.Fatalf("query = %q", gotQuery)
	}
	if def.FormID != "frm_9" || def.Name != "Contact" {
		t.Fatalf("definition = %+v", def)
	}
	if len(def.Definition.Fields) != 1 || def.Definition.Fields[0].NameKey != "email" {
		t.Fatalf("fields = %+v", def.Definition.Fields)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such form", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Fetch(context.Background(), "missing")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", fetchErr.StatusCode)
	}
}

func TestFetchMalformedEnvelope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing data", `{"status":"ok"}`},
		{"null data", `{"data":null}`},
		{"scalar data", `{"data":"nope"}`},
		{"invalid json", `{"data":`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Fetch(context.Background(), "frm_9")
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("error = %v, want *ShapeError", err)
			}
		})
	}
}

func TestFetchRequiresFormID(t *testing.T) {
	t.Parallel()

	if _, err := New("https://example.com").Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty form id")
	}
}

func TestFromFSDecodesYAML(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"forms/demo.yaml": &fstest.MapFile{Data: []byte(
			"form_id: frm_demo\nname: Demo\ndefinition:\n  fields:\n    - nameKey: email\n      type: email\n      required: true\n",
		)},
	}

	loader := New("", WithFileSystem(files))
	def, err := loader.FromFS(context.Background(), "forms/demo.yaml")
	if err != nil {
		t.Fatalf("FromFS: %v", err)
	}
	if def.FormID != "frm_demo" {
		t.Fatalf("form_id = %q", def.FormID)
	}
	if !def.Definition.Fields[0].Required {
		t.Fatal("required flag lost in YAML decode")
	}
}

func TestFromFSWithoutFilesystem(t *testing.T) {
	t.Parallel()

	if _, err := New("").FromFS(context.Background(), "x.json"); err == nil {
		t.Fatal("expected error when filesystem is not configured")
	}
}
