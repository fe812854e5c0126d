package render

// Options describe per-request data renderers can use to customise output
// without mutating the tree they are handed.
type Options struct {
	// Action overrides the submission endpoint the rendered form posts to.
	Action string
	// Values pre-populates controls by submission key before the first
	// render, for example when a host page re-renders after a rejected
	// server-side submission.
	Values map[string]string
	// Errors surfaces server-side validation feedback keyed by submission
	// key. The HTML renderer maps these into inline messages next to the
	// offending control.
	Errors map[string][]string
}
