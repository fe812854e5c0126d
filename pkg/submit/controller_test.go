package submit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/webtrix/go-leadform/pkg/captcha"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/suppress"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
)

type fakeUI struct {
	busy      []bool
	errors    []string
	cleared   int
	resets    int
	redirects []string
	success   []string
	ackNow    bool
}

func (u *fakeUI) SetBusy(busy bool)       { u.busy = append(u.busy, busy) }
func (u *fakeUI) ShowError(message string) { u.errors = append(u.errors, message) }
func (u *fakeUI) ClearStatus()            { u.cleared++ }
func (u *fakeUI) Redirect(url string)     { u.redirects = append(u.redirects, url) }
func (u *fakeUI) Reset()                  { u.resets++ }

func (u *fakeUI) ShowSuccess(title, description string, ack func()) {
	u.success = append(u.success, title+"|"+description)
	if u.ackNow {
		ack()
	}
}

func buildTree(t *testing.T, fields []formdef.FieldDef) *tree.Tree {
	t.Helper()
	def := &formdef.FormDefinition{
		FormID:     "frm_sub",
		Definition: formdef.Definition{Fields: fields},
	}
	built, err := tree.Build(def, tree.Options{
		Registry: validation.Default(),
		Page:     leadsource.Page{URL: "https://host.example/pricing?utm_source=ads"},
		Now:      func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
	if err != nil {
		t.Fatalf("tree.Build: %v", err)
	}
	return built
}

func okResponse() *Response {
	return &Response{Success: true}
}

func TestSubmitPostsFullMultipartPayload(t *testing.T) {
	t.Parallel()

	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		got = r.MultipartForm.Value
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	built := buildTree(t, []formdef.FieldDef{
		{NameKey: "email", Type: formdef.FieldEmail, Required: true},
		{NameKey: "interests", Type: formdef.FieldCheckboxGroup, Options: []formdef.Option{
			{Label: "CRM", Value: "crm"}, {Label: "Forms", Value: "forms"},
		}},
	})
	if _, err := built.SetValue("email", "jane@acme.com"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := built.SetChecked("interests", "crm", true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if err := built.SetChecked("interests", "forms", true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}

	ui := &fakeUI{}
	submittedAt := time.Unix(1_700_000_000, 0).Add(2500 * time.Millisecond)
	ctrl := New(built, formdef.Settings{}, ui, NewHTTPPoster(srv.URL),
		WithRegistry(validation.Default()),
		WithClock(func() time.Time { return submittedAt }),
	)

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	checks := map[string]string{
		"email":             "jane@acme.com",
		tree.HoneypotName:   "",
		"utm_source":        "ads",
		"w24_page_url":      "https://host.example/pricing?utm_source=ads",
		"form_id":           "frm_sub",
		"_form_render_time": "2500",
	}
	for name, want := range checks {
		values, ok := got[name]
		if !ok {
			t.Fatalf("field %q missing from payload", name)
		}
		if values[0] != want {
			t.Fatalf("field %q = %q, want %q", name, values[0], want)
		}
	}
	if len(got["interests[]"]) != 2 {
		t.Fatalf("interests[] = %v, want both checked values", got["interests[]"])
	}
	if _, ok := got[captcha.TokenField]; ok {
		t.Fatal("challenge token sent without captcha enabled")
	}
}

func TestSubmitBlocksOnMissingRequiredField(t *testing.T) {
	t.Parallel()

	built := buildTree(t, []formdef.FieldDef{
		{NameKey: "email", Label: "Work Email *", Type: formdef.FieldEmail, Required: true},
	})

	posted := false
	ui := &fakeUI{}
	ctrl := New(built, formdef.Settings{}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		posted = true
		return okResponse(), nil
	}))

	if err := ctrl.Submit(context.Background()); !errors.Is(err, ErrValidation) {
		t.Fatalf("Submit = %v, want ErrValidation", err)
	}
	if posted {
		t.Fatal("posted despite empty required field")
	}
	if len(ui.errors) != 1 || ui.errors[0] != "Work Email is required." {
		t.Fatalf("errors = %v", ui.errors)
	}
	if built.Focused() != "email" {
		t.Fatal("offending field not focused")
	}
	if len(ui.busy) != 0 {
		t.Fatal("busy toggled before validation passed")
	}
}

func TestSubmitBlocksOnValidatorFailure(t *testing.T) {
	t.Parallel()

	built := buildTree(t, []formdef.FieldDef{
		{NameKey: "email", Type: formdef.FieldEmail},
	})
	if _, err := built.SetValue("email", "not-an-address"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	ui := &fakeUI{}
	ctrl := New(built, formdef.Settings{}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		t.Error("poster reached with invalid email")
		return okResponse(), nil
	}), WithRegistry(validation.Default()))

	if err := ctrl.Submit(context.Background()); !errors.Is(err, ErrValidation) {
		t.Fatalf("Submit = %v, want ErrValidation", err)
	}
	if len(ui.errors) == 0 || !strings.Contains(ui.errors[0], "valid email") {
		t.Fatalf("errors = %v", ui.errors)
	}
}

func TestSubmitSuccessMarksSuppressionAndShowsDialog(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	store := suppress.New(suppress.NewMemory())
	dismissed := false
	ui := &fakeUI{ackNow: true}

	ctrl := New(built, formdef.Settings{
		ReshowDelayMs: 60_000,
		SuccessTitle:  "Received",
		SuccessDesc:   "Talk soon",
	}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		return &Response{Status: "success"}, nil
	}),
		WithSuppression(store),
		WithDismiss(func() { dismissed = true }),
	)

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if !store.Has("frm_sub") {
		t.Fatal("suppression record missing after success")
	}
	if ui.resets != 1 {
		t.Fatalf("resets = %d", ui.resets)
	}
	if len(ui.success) != 1 || ui.success[0] != "Received|Talk soon" {
		t.Fatalf("success = %v", ui.success)
	}
	if !dismissed {
		t.Fatal("acknowledge did not dismiss")
	}
	if len(ui.redirects) != 0 {
		t.Fatal("redirected without a redirect URL")
	}
}

func TestSubmitSuccessWithRedirectSkipsDialog(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	store := suppress.New(suppress.NewMemory())
	ui := &fakeUI{}

	ctrl := New(built, formdef.Settings{
		RedirectURL:   "https://acme.example/thanks",
		ReshowDelayMs: 60_000,
	}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		return &Response{StatusCode: 200}, nil
	}), WithSuppression(store))

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(ui.redirects) != 1 || ui.redirects[0] != "https://acme.example/thanks" {
		t.Fatalf("redirects = %v", ui.redirects)
	}
	if len(ui.success) != 0 || ui.resets != 0 {
		t.Fatal("success dialog shown despite redirect")
	}
	if !store.Has("frm_sub") {
		t.Fatal("suppression must be marked before navigating")
	}
}

func TestSubmitRejectionSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	store := suppress.New(suppress.NewMemory())
	ui := &fakeUI{}

	ctrl := New(built, formdef.Settings{}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		return &Response{Success: false, Message: "Duplicate lead"}, nil
	}), WithSuppression(store))

	err := ctrl.Submit(context.Background())
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("Submit = %v, want *ResponseError", err)
	}
	if len(ui.errors) != 1 || ui.errors[0] != "Duplicate lead" {
		t.Fatalf("errors = %v", ui.errors)
	}
	if store.Has("frm_sub") {
		t.Fatal("suppression marked on rejection")
	}
	// Busy toggled on and back off.
	if len(ui.busy) != 2 || !ui.busy[0] || ui.busy[1] {
		t.Fatalf("busy = %v", ui.busy)
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	ui := &fakeUI{}
	ctrl := New(built, formdef.Settings{}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		return nil, errors.New("connection refused")
	}))

	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
	if len(ui.errors) != 1 || ui.errors[0] != msgNetworkFailure {
		t.Fatalf("errors = %v", ui.errors)
	}
}

func TestSubmitAttachesChallengeToken(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	loader := captcha.NewLoader(func(ctx context.Context, siteKey string) (captcha.Client, error) {
		return captcha.ClientFunc(func(ctx context.Context, action string) (string, error) {
			return "tok-" + action, nil
		}), nil
	})

	var token string
	ui := &fakeUI{}
	ctrl := New(built, formdef.Settings{
		EnableRecaptcha:  true,
		RecaptchaSiteKey: "site-a",
	}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		for _, pair := range fields {
			if pair.Name == captcha.TokenField {
				token = pair.Value
			}
		}
		return okResponse(), nil
	}), WithCaptcha(loader))

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if token != "tok-submit" {
		t.Fatalf("token = %q", token)
	}
}

func TestSubmitChallengeFailureBlocksPost(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	loader := captcha.NewLoader(func(ctx context.Context, siteKey string) (captcha.Client, error) {
		return nil, errors.New("script blocked")
	})

	ui := &fakeUI{}
	ctrl := New(built, formdef.Settings{
		EnableRecaptcha:  true,
		RecaptchaSiteKey: "site-a",
	}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		t.Error("posted despite challenge failure")
		return okResponse(), nil
	}), WithCaptcha(loader))

	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("expected challenge error")
	}
	if len(ui.errors) != 1 || ui.errors[0] != msgCaptchaFailure {
		t.Fatalf("errors = %v", ui.errors)
	}
}

func TestSubmitGuardsAgainstReentry(t *testing.T) {
	t.Parallel()

	built := buildTree(t, nil)
	ui := &fakeUI{}
	var ctrl *Controller
	ctrl = New(built, formdef.Settings{}, ui, PosterFunc(func(ctx context.Context, fields []tree.Pair) (*Response, error) {
		if err := ctrl.Submit(ctx); !errors.Is(err, ErrInFlight) {
			t.Errorf("reentrant Submit = %v, want ErrInFlight", err)
		}
		return okResponse(), nil
	}))

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}
