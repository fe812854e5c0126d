// Package display drives when and how a rendered form appears on the host
// page.
//
// A Controller walks one instance through unmounted, armed, visible, and
// dismissed. Armed exists only for triggered modes: a one-shot timer or
// scroll threshold reveals the form exactly once, after which every trigger
// is torn down. Dismissed is terminal; a widget instance never re-arms.
package display

import (
	"fmt"
	"sync"
	"time"

	"github.com/webtrix/go-leadform/pkg/formdef"
)

// State is the lifecycle position of one widget instance.
type State string

const (
	StateUnmounted State = "unmounted"
	StateArmed     State = "armed"
	StateVisible   State = "visible"
	StateDismissed State = "dismissed"
)

// ErrCloseDisabled is returned by Close when the definition hides every
// cancel affordance. Successful submission remains the only dismissal path.
var ErrCloseDisabled = fmt.Errorf("display: close affordance is disabled")

// Placement tells a Surface where and how to attach the container.
type Placement struct {
	Mode     formdef.DisplayMode
	Position formdef.SlidePosition
}

// Surface is the host presentation capability the controller drives. The
// browser bridge implements it against real elements; tests and the terminal
// runner use lightweight fakes. Mount attaches the container without showing
// it (off-screen for slide-in, hidden for popup), Reveal makes it visible,
// and Remove detaches it for good.
type Surface interface {
	Mount(p Placement) error
	Reveal()
	Remove()
}

// Scheduler arms a one-shot timer and returns its cancel func. The default
// wraps time.AfterFunc; tests inject a manual clock.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func defaultScheduler(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}

// Option mutates a Controller during construction.
type Option func(*Controller)

// WithScheduler replaces the timer backend.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// Controller is the per-instance display state machine. The default timer
// fires on its own goroutine, so transitions are guarded by a mutex even
// though the rest of the widget is single-threaded.
type Controller struct {
	mu       sync.Mutex
	state    State
	settings formdef.Settings
	surface  Surface
	schedule Scheduler
	cancel   func()
}

// New builds a Controller over the definition settings and host surface.
func New(settings formdef.Settings, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		state:    StateUnmounted,
		settings: settings,
		surface:  surface,
		schedule: defaultScheduler,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount attaches the container and arms the configured trigger. Inline mode
// reveals immediately; popup and slide-in arm a delay timer or, for
// popup-on-scroll, wait for HandleScroll.
func (c *Controller) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnmounted {
		return fmt.Errorf("display: mount in state %q", c.state)
	}

	placement := Placement{Mode: c.settings.Mode(), Position: c.settings.Position()}
	if err := c.surface.Mount(placement); err != nil {
		return fmt.Errorf("display: mount surface: %w", err)
	}

	switch placement.Mode {
	case formdef.DisplayInline:
		c.surface.Reveal()
		c.state = StateVisible
	case formdef.DisplayPopup:
		c.state = StateArmed
		if c.settings.Trigger() == formdef.TriggerDelay {
			c.armTimerLocked()
		}
	case formdef.DisplaySlideIn:
		// Mounted off-screen; the slide happens after the delay.
		c.state = StateArmed
		c.armTimerLocked()
	default:
		c.surface.Reveal()
		c.state = StateVisible
	}
	return nil
}

func (c *Controller) armTimerLocked() {
	delay := time.Duration(c.settings.DelayMs) * time.Millisecond
	c.cancel = c.schedule(delay, c.fire)
}

// HandleScroll feeds a scroll sample to an armed popup-on-scroll instance.
// The percentage is scrollTop over scrollable height; a page shorter than
// the viewport counts as fully scrolled. Crossing the threshold fires the
// reveal exactly once.
func (c *Controller) HandleScroll(top, height, viewport float64) {
	c.mu.Lock()
	if c.state != StateArmed ||
		c.settings.Mode() != formdef.DisplayPopup ||
		c.settings.Trigger() != formdef.TriggerScroll {
		c.mu.Unlock()
		return
	}

	percent := 100.0
	if scrollable := height - viewport; scrollable > 0 {
		percent = top / scrollable * 100
	}
	if percent < c.settings.ScrollThreshold() {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.fire()
}

// fire performs the one-shot armed-to-visible transition.
func (c *Controller) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateArmed {
		return
	}
	c.cancel = nil
	c.surface.Reveal()
	c.state = StateVisible
}

// Close dismisses through a user affordance (cancel button, popup close,
// overlay click). It fails with ErrCloseDisabled when the definition turns
// those affordances off.
func (c *Controller) Close() error {
	if !c.settings.CancelAllowed() {
		return ErrCloseDisabled
	}
	c.Dismiss()
	return nil
}

// Dismiss tears the instance down unconditionally. Submission success uses
// this path regardless of the cancel setting. Dismissing is idempotent and
// terminal.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDismissed || c.state == StateUnmounted {
		c.state = StateDismissed
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.surface.Remove()
	c.state = StateDismissed
}
