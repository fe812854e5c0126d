// Command leadform-dev is a development backend for the widget runtime. It
// serves form definitions from a directory, accepts submissions, and hosts a
// demo page with the rendered form. Not for production use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/webtrix/go-leadform/pkg/confload"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/renderers/html"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
	"github.com/webtrix/go-leadform/pkg/visibility"
)

const siteverifyURL = "https://www.google.com/recaptcha/api/siteverify"

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	formsDir := flag.String("forms", "testdata/forms", "directory of form definition files")
	demoForm := flag.String("form", "", "form id rendered on the demo page")
	recaptchaSecret := flag.String("recaptcha-secret", "", "verify submitted captcha tokens against the siteverify API")
	flag.Parse()

	renderer, err := html.New()
	if err != nil {
		log.Fatalf("Failed to construct renderer: %v", err)
	}

	srv := &server{
		loader:          confload.New("", confload.WithFileSystem(os.DirFS(*formsDir))),
		renderer:        renderer,
		demoForm:        *demoForm,
		recaptchaSecret: *recaptchaSecret,
		http:            &http.Client{Timeout: 10 * time.Second},
	}

	r := chi.NewRouter()
	r.Get("/formconfig/form/{formID}", srv.handleConfig)
	r.Post("/form/submit", srv.handleSubmit)
	r.Get("/", srv.handleDemo)

	log.Printf("leadform-dev listening on %s, serving forms from %s", *addr, *formsDir)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal(err)
	}
}

type server struct {
	loader          *confload.Loader
	renderer        *html.Renderer
	demoForm        string
	recaptchaSecret string
	http            *http.Client
}

// handleConfig serves one definition wrapped in the backend's data envelope.
// It tries the id with each known extension so authors can keep JSON and
// YAML files side by side.
func (s *server) handleConfig(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	def, err := s.load(r.Context(), formID)
	if err != nil {
		log.Printf("config %s: %v", formID, err)
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "form not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": def})
}

func (s *server) load(ctx context.Context, formID string) (*formdef.FormDefinition, error) {
	if formID == "" || strings.Contains(formID, "/") || strings.Contains(formID, "..") {
		return nil, fmt.Errorf("invalid form id %q", formID)
	}
	var lastErr error
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		def, err := s.loader.FromFS(ctx, formID+ext)
		if err != nil {
			lastErr = err
			continue
		}
		if err := formdef.Validate(def); err != nil {
			return nil, err
		}
		return def, nil
	}
	return nil, lastErr
}

// handleSubmit mirrors the production intake endpoint closely enough for
// widget development: multipart body, honeypot-aware, optional captcha
// verification, always-200 JSON envelope.
func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Could not read the submission.",
		})
		return
	}

	formID := r.FormValue("form_id")
	if formID == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "form_id is required.",
		})
		return
	}

	// Bot submissions fill the decoy field. Accept them so the sender
	// learns nothing, but drop the lead.
	if r.FormValue(tree.HoneypotName) != "" {
		log.Printf("submit %s: honeypot tripped, dropping", formID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "success"})
		return
	}

	if s.recaptchaSecret != "" {
		token := r.FormValue("g-recaptcha-response")
		if !s.verifyCaptcha(r.Context(), token) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"message": "Security check failed. Please refresh the page and try again.",
			})
			return
		}
	}

	fields := make(map[string][]string, len(r.MultipartForm.Value))
	for name, values := range r.MultipartForm.Value {
		fields[name] = values
	}
	log.Printf("submit %s: %d fields, render time %sms", formID, len(fields), r.FormValue("_form_render_time"))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "Lead captured",
	})
}

func (s *server) verifyCaptcha(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	form := url.Values{"secret": {s.recaptchaSecret}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, siteverifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.http.Do(req)
	if err != nil {
		log.Printf("siteverify: %v", err)
		return false
	}
	defer resp.Body.Close()

	var verdict struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false
	}
	return verdict.Success
}

// handleDemo renders the demo form inline in a bare host page.
func (s *server) handleDemo(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("form")
	if formID == "" {
		formID = s.demoForm
	}
	if formID == "" {
		http.Error(w, "pass ?form=<id> or start with -form", http.StatusBadRequest)
		return
	}

	def, err := s.load(r.Context(), formID)
	if err != nil {
		log.Printf("demo %s: %v", formID, err)
		http.Error(w, "Sorry, the form could not be loaded at the moment.", http.StatusBadGateway)
		return
	}

	built, err := tree.Build(def, tree.Options{
		Registry: validation.Default(),
		Page: leadsource.Page{
			URL:      requestURL(r),
			Title:    def.Name,
			Referrer: r.Referer(),
		},
	})
	if err != nil {
		log.Printf("demo %s: %v", formID, err)
		http.Error(w, "Sorry, the form could not be loaded at the moment.", http.StatusInternalServerError)
		return
	}
	visibility.Bind(built, visibility.RulesFromDefinition(def))

	body, err := s.renderer.Render(r.Context(), built, def, render.Options{Action: "/form/submit"})
	if err != nil {
		log.Printf("demo %s: %v", formID, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, demoPage, def.Name, body)
}

const demoPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
%s
</body>
</html>
`

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}
