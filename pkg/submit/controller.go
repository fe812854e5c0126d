package submit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/webtrix/go-leadform/pkg/captcha"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/suppress"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
)

// User-facing copy. The backend message wins over the generic rejection.
const (
	BusyLabel = "Submitting..."

	msgNetworkFailure = "Unable to submit form at the moment. Please try again later."
	msgCaptchaFailure = "Security check failed. Please refresh the page and try again."
	msgGenericFailure = "Something went wrong. Please try again."
)

// ErrInFlight is returned when a submission is already running.
var ErrInFlight = errors.New("submit: submission already in flight")

// ErrValidation is returned when a pre-flight check rejects the form. The
// user already saw the specific message through the UI.
var ErrValidation = errors.New("submit: validation failed")

// UI is the presentation seam the pipeline drives. The browser bridge maps
// it onto the status box, the submit button, and the success dialog; the
// terminal runner prints instead.
type UI interface {
	// SetBusy disables the submit affordance and swaps its label to
	// BusyLabel while a submission is in flight.
	SetBusy(busy bool)
	// ShowError surfaces a form-level error message.
	ShowError(message string)
	// ClearStatus removes any previous error message.
	ClearStatus()
	// ShowSuccess presents the success dialog and invokes ack when the
	// user acknowledges it.
	ShowSuccess(title, description string, ack func())
	// Redirect navigates away from the host page.
	Redirect(url string)
	// Reset restores every field to its initial value.
	Reset()
}

// Option mutates a Controller during construction.
type Option func(*Controller)

// WithRegistry sets the validator registry consulted before posting.
func WithRegistry(r *validation.Registry) Option {
	return func(c *Controller) { c.registry = r }
}

// WithCaptcha enables challenge tokens for definitions that request them.
func WithCaptcha(l *captcha.Loader) Option {
	return func(c *Controller) { c.captcha = l }
}

// WithSuppression records successful submissions so the form is not shown
// again within the definition's reshow window.
func WithSuppression(s *suppress.Store) Option {
	return func(c *Controller) { c.store = s }
}

// WithDismiss sets the hook invoked when the success dialog is
// acknowledged, normally the display controller's Dismiss.
func WithDismiss(fn func()) Option {
	return func(c *Controller) { c.dismiss = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns the submission pipeline for one form instance.
type Controller struct {
	tree     *tree.Tree
	settings formdef.Settings
	ui       UI
	poster   Poster

	registry *validation.Registry
	captcha  *captcha.Loader
	store    *suppress.Store
	dismiss  func()
	now      func() time.Time

	inFlight bool
}

// New wires the pipeline over a built tree and its definition settings.
func New(t *tree.Tree, settings formdef.Settings, ui UI, poster Poster, opts ...Option) *Controller {
	c := &Controller{
		tree:     t,
		settings: settings,
		ui:       ui,
		poster:   poster,
		dismiss:  func() {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs the pipeline once. Every outcome is surfaced through the UI;
// the returned error classifies it for programmatic callers.
func (c *Controller) Submit(ctx context.Context) error {
	if c.inFlight {
		return ErrInFlight
	}
	c.ui.ClearStatus()

	if node := c.tree.FirstInvalid(); node != nil {
		node.Focus()
		c.ui.ShowError(requiredMessage(node))
		return ErrValidation
	}
	if c.registry != nil {
		ok := c.registry.ValidateAll(c.tree, func(kind, message string) {
			c.ui.ShowError(message)
		})
		if !ok {
			return ErrValidation
		}
	}

	c.inFlight = true
	c.ui.SetBusy(true)
	defer func() {
		c.inFlight = false
		c.ui.SetBusy(false)
	}()

	var token string
	if c.settings.EnableRecaptcha && c.settings.RecaptchaSiteKey != "" && c.captcha != nil {
		var err error
		token, err = c.captcha.Token(ctx, c.settings.RecaptchaSiteKey, captcha.ActionSubmit)
		if err != nil {
			c.ui.ShowError(msgCaptchaFailure)
			return fmt.Errorf("submit: challenge token: %w", err)
		}
	}

	verdict, err := c.poster.Post(ctx, c.fields(token))
	if err != nil {
		c.ui.ShowError(msgNetworkFailure)
		return err
	}

	if !verdict.OK() {
		message := verdict.Message
		if message == "" {
			message = msgGenericFailure
		}
		c.ui.ShowError(message)
		return &ResponseError{Response: verdict}
	}

	if c.store != nil {
		ttl := time.Duration(c.settings.ReshowDelayMs) * time.Millisecond
		c.store.Mark(c.tree.FormID(), ttl)
	}

	if url := c.settings.RedirectURL; url != "" {
		// Navigation replaces the page; the success dialog never shows.
		c.ui.Redirect(url)
		return nil
	}

	c.ui.Reset()
	title, description := c.settings.SuccessMessage()
	c.ui.ShowSuccess(title, description, c.dismiss)
	return nil
}

// fields assembles the outgoing pairs: every tree node, the form identity,
// the elapsed render-to-submit time, and the challenge token when present.
func (c *Controller) fields(token string) []tree.Pair {
	fields := c.tree.Payload()
	fields = append(fields, tree.Pair{Name: "form_id", Value: c.tree.FormID()})

	elapsed := c.now().Sub(c.tree.RenderedAt()).Milliseconds()
	fields = append(fields, tree.Pair{
		Name:  "_form_render_time",
		Value: strconv.FormatInt(elapsed, 10),
	})

	if token != "" {
		fields = append(fields, tree.Pair{Name: captcha.TokenField, Value: token})
	}
	return fields
}

// requiredMessage names the offending field by its label with the required
// marker stripped, falling back to the submission key.
func requiredMessage(node *tree.Node) string {
	label := strings.TrimSpace(strings.ReplaceAll(node.Label(), "*", ""))
	if label == "" {
		label = node.Key()
	}
	if label == "" {
		label = "This field"
	}
	return label + " is required."
}
