package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/webtrix/go-leadform/pkg/captcha"
	"github.com/webtrix/go-leadform/pkg/display"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/submit"
	"github.com/webtrix/go-leadform/pkg/suppress"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
	"github.com/webtrix/go-leadform/pkg/visibility"
)

// LoadFailureMessage is shown in place of the form when its configuration
// cannot be fetched or fails the sanity check.
const LoadFailureMessage = "Sorry, the form could not be loaded at the moment."

var (
	// ErrMissingFormID reports a mount request without a form identifier.
	ErrMissingFormID = errors.New("widget: form id is required")
	// ErrSuppressed reports that a recent submission suppresses this form.
	ErrSuppressed = errors.New("widget: form is suppressed")
	// ErrAlreadyMounted reports a second mount of the same form id.
	ErrAlreadyMounted = errors.New("widget: form already mounted")
)

// ConfigSource fetches form definitions by id. *confload.Loader satisfies it.
type ConfigSource interface {
	Fetch(ctx context.Context, formID string) (*formdef.FormDefinition, error)
}

// Option customises the runtime configuration.
type Option func(*Runtime)

// WithSuppression sets the store consulted before mounting and marked after
// a successful submission.
func WithSuppression(store *suppress.Store) Option {
	return func(r *Runtime) { r.store = store }
}

// WithRegistry overrides the validation registry used for live normalization
// and submit-time checks.
func WithRegistry(registry *validation.Registry) Option {
	return func(r *Runtime) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithCaptcha enables CAPTCHA token acquisition for forms that require it.
func WithCaptcha(loader *captcha.Loader) Option {
	return func(r *Runtime) { r.captcha = loader }
}

// WithLogger overrides the printf-style logger.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(r *Runtime) {
		if logf != nil {
			r.logf = logf
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		if now != nil {
			r.clock = now
		}
	}
}

// WithScheduler overrides the display controller's timer scheduler, for
// tests.
func WithScheduler(s display.Scheduler) Option {
	return func(r *Runtime) { r.scheduler = s }
}

// Runtime hosts widget instances for one page or process. It carries the
// shared collaborators (config source, poster, suppression store, captcha
// loader) and tracks which form ids are already mounted.
type Runtime struct {
	source    ConfigSource
	poster    submit.Poster
	store     *suppress.Store
	registry  *validation.Registry
	captcha   *captcha.Loader
	logf      func(format string, args ...any)
	clock     func() time.Time
	scheduler display.Scheduler

	mu      sync.Mutex
	mounted map[string]*Widget
}

// New constructs a Runtime. The config source and poster are required; the
// rest defaults to an in-memory suppression store, the builtin validation
// registry, and the standard logger.
func New(source ConfigSource, poster submit.Poster, options ...Option) *Runtime {
	r := &Runtime{
		source:   source,
		poster:   poster,
		registry: validation.Default(),
		logf:     log.Printf,
		clock:    time.Now,
		mounted:  make(map[string]*Widget),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.store == nil {
		r.store = suppress.New(suppress.NewMemory(), suppress.WithClock(r.clock))
	}
	return r
}

// MountRequest describes one widget instance to bring up.
type MountRequest struct {
	// FormID selects which definition to fetch.
	FormID string
	// Page carries the host page attribution captured at mount time.
	Page leadsource.Page
	// Surface receives mount, reveal, and remove calls from the display
	// controller.
	Surface display.Surface
	// UI receives submission feedback (busy state, errors, success dialog).
	UI submit.UI
}

// Mount runs the init pipeline: suppression check, duplicate-mount check,
// config fetch, sanity check, tree build, display mount, visibility bind.
// A config fetch or sanity failure shows LoadFailureMessage on the UI and
// returns the underlying error.
func (r *Runtime) Mount(ctx context.Context, req MountRequest) (*Widget, error) {
	if req.FormID == "" {
		r.logf("widget: mount rejected: missing form id")
		return nil, ErrMissingFormID
	}
	if r.store.Has(req.FormID) {
		r.logf("widget: form %s suppressed by a recent submission", req.FormID)
		return nil, ErrSuppressed
	}

	r.mu.Lock()
	if _, ok := r.mounted[req.FormID]; ok {
		r.mu.Unlock()
		r.logf("widget: form %s already mounted, ignoring", req.FormID)
		return nil, ErrAlreadyMounted
	}
	r.mu.Unlock()

	def, err := r.source.Fetch(ctx, req.FormID)
	if err == nil {
		err = formdef.Validate(def)
	}
	if err != nil {
		r.logf("widget: form %s failed to load: %v", req.FormID, err)
		if req.UI != nil {
			req.UI.ShowError(LoadFailureMessage)
		}
		return nil, fmt.Errorf("widget: load form %s: %w", req.FormID, err)
	}

	form, err := tree.Build(def, tree.Options{
		Registry: r.registry,
		Page:     req.Page,
		Now:      r.clock,
	})
	if err != nil {
		r.logf("widget: form %s failed to build: %v", req.FormID, err)
		if req.UI != nil {
			req.UI.ShowError(LoadFailureMessage)
		}
		return nil, fmt.Errorf("widget: build form %s: %w", req.FormID, err)
	}

	settings := def.Definition.Settings

	var displayOpts []display.Option
	if r.scheduler != nil {
		displayOpts = append(displayOpts, display.WithScheduler(r.scheduler))
	}
	displayCtrl := display.New(settings, req.Surface, displayOpts...)
	if err := displayCtrl.Mount(); err != nil {
		r.logf("widget: form %s failed to mount: %v", req.FormID, err)
		return nil, fmt.Errorf("widget: mount form %s: %w", req.FormID, err)
	}

	engine := visibility.Bind(form, visibility.RulesFromDefinition(def))

	submitCtrl := submit.New(form, settings, req.UI, r.poster,
		submit.WithRegistry(r.registry),
		submit.WithCaptcha(r.captcha),
		submit.WithSuppression(r.store),
		submit.WithDismiss(displayCtrl.Dismiss),
		submit.WithClock(r.clock),
	)

	w := &Widget{
		runtime: r,
		formID:  req.FormID,
		def:     def,
		form:    form,
		display: displayCtrl,
		engine:  engine,
		submit:  submitCtrl,
	}

	r.mu.Lock()
	r.mounted[req.FormID] = w
	r.mu.Unlock()
	return w, nil
}

// Unmount drops the duplicate-mount registration for a form id and removes
// its display surface. Safe to call for ids that were never mounted.
func (r *Runtime) Unmount(formID string) {
	r.mu.Lock()
	w := r.mounted[formID]
	delete(r.mounted, formID)
	r.mu.Unlock()
	if w != nil {
		w.display.Dismiss()
	}
}

// Widget is one mounted form instance and the event surface the host
// forwards into.
type Widget struct {
	runtime *Runtime
	formID  string
	def     *formdef.FormDefinition
	form    *tree.Tree
	display *display.Controller
	engine  *visibility.Engine
	submit  *submit.Controller
}

// FormID returns the mounted form identifier.
func (w *Widget) FormID() string { return w.formID }

// Definition returns the fetched form definition.
func (w *Widget) Definition() *formdef.FormDefinition { return w.def }

// Tree returns the live field tree, for renderers.
func (w *Widget) Tree() *tree.Tree { return w.form }

// State reports the display state machine's current state.
func (w *Widget) State() display.State { return w.display.State() }

// HandleInput applies one field edit; normalization and visibility rules run
// as part of the write. The normalized value is returned so hosts can echo
// it back into their input control.
func (w *Widget) HandleInput(key, value string) (string, error) {
	return w.form.SetValue(key, value)
}

// HandleCheck toggles one checkbox-group option.
func (w *Widget) HandleCheck(key, option string, checked bool) error {
	return w.form.SetChecked(key, option, checked)
}

// HandleScroll forwards a host scroll sample to the display controller.
func (w *Widget) HandleScroll(top, height, viewport float64) {
	w.display.HandleScroll(top, height, viewport)
}

// Close dismisses the widget through its close affordance. It fails with
// display.ErrCloseDisabled when the form disallows cancellation.
func (w *Widget) Close() error {
	return w.display.Close()
}

// Submit runs the submission pipeline against the current field values.
func (w *Widget) Submit(ctx context.Context) error {
	return w.submit.Submit(ctx)
}
