package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
	"github.com/webtrix/go-leadform/pkg/visibility"
)

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the interactive nodes of a form tree in document order, prompting for each
// visible field, re-running the visibility rules after every answer, and
// serializes the resulting submission payload.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	registry     *validation.Registry
	pageSize     int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (render.Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
		registry:     validation.Default(),
		pageSize:     10,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver, err = newSurveyDriver()
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs one interactive session over the tree. Fields revealed by a
// later answer are picked up on the next pass, so conditional fields are
// asked as soon as their controller makes them visible. The collected
// payload is serialized per the configured output format.
func (r *Renderer) Render(ctx context.Context, form *tree.Tree, def *formdef.FormDefinition, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == nil || def == nil {
		return nil, errors.New("tui: form tree and definition are required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for key, value := range options.Values {
		if _, ok := form.Node(key); ok {
			if _, err := form.SetValue(key, value); err != nil {
				return nil, err
			}
		}
	}

	visibility.Bind(form, visibility.RulesFromDefinition(def))

	asked := make(map[string]bool)
	for {
		progressed := false
		for _, node := range form.Nodes() {
			if node.IsHidden() || !node.Visible() || asked[node.Key()] {
				continue
			}
			if err := r.promptNode(ctx, form, node, options.Errors[node.Key()]); err != nil {
				return nil, err
			}
			asked[node.Key()] = true
			progressed = true
		}
		if !progressed {
			break
		}
	}

	var problems []string
	if node := form.FirstInvalid(); node != nil {
		problems = append(problems, requiredMessage(node))
	}
	if r.registry != nil {
		r.registry.ValidateAll(form, func(kind, message string) {
			problems = append(problems, message)
		})
	}
	if len(problems) > 0 {
		for _, msg := range problems {
			if err := r.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
		}
		return nil, ErrValidation
	}

	pairs := append([]tree.Pair{{Name: "form_id", Value: form.FormID()}}, form.Payload()...)
	return r.serialize(pairs)
}

func (r *Renderer) promptNode(ctx context.Context, form *tree.Tree, node *tree.Node, serverErrs []string) error {
	for _, msg := range serverErrs {
		if err := r.driver.Info(ctx, msg); err != nil {
			return err
		}
	}

	switch node.FieldKind() {
	case formdef.KindDropdown, formdef.KindRadio, formdef.KindSalutation,
		formdef.KindCountryCode, formdef.KindGSTState:
		if len(node.Options()) > 0 {
			return r.promptSelect(ctx, form, node)
		}
		return r.promptInput(ctx, form, node)
	case formdef.KindCheckboxGroup:
		return r.promptMultiSelect(ctx, form, node)
	case formdef.KindTextarea:
		return r.promptTextArea(ctx, form, node)
	default:
		return r.promptInput(ctx, form, node)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, form *tree.Tree, node *tree.Node) error {
	options := node.Options()
	labels := make([]string, len(options))
	defaultIdx := -1
	current := node.Value()
	for i, option := range options {
		labels[i] = option.Label
		if current != "" && (current == option.Value || current == option.Label) {
			defaultIdx = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(node),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         node.Placeholder(),
		PageSize:     r.pageSize,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return nil
	}

	// Dropdowns submit the display label; the fixed option sets submit the
	// option value.
	value := options[idx].Value
	if node.FieldKind() == formdef.KindDropdown {
		value = options[idx].Label
	}
	_, err = form.SetValue(node.Key(), value)
	return err
}

func (r *Renderer) promptMultiSelect(ctx context.Context, form *tree.Tree, node *tree.Node) error {
	options := node.Options()
	labels := make([]string, len(options))
	var defaults []int
	checked := node.Values()
	for i, option := range options {
		labels[i] = option.Label
		if slices.Contains(checked, option.Value) {
			defaults = append(defaults, i)
		}
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  promptLabel(node),
		Options:  labels,
		Defaults: defaults,
		Help:     node.Placeholder(),
		PageSize: r.pageSize,
	})
	if err != nil {
		return err
	}

	selected := make(map[int]bool, len(picked))
	for _, idx := range picked {
		selected[idx] = true
	}
	for i, option := range options {
		if err := form.SetChecked(node.Key(), option.Value, selected[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptTextArea(ctx context.Context, form *tree.Tree, node *tree.Node) error {
	out, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: promptLabel(node),
		Default: node.Value(),
	})
	if err != nil {
		return err
	}
	_, err = form.SetValue(node.Key(), out)
	return err
}

func (r *Renderer) promptInput(ctx context.Context, form *tree.Tree, node *tree.Node) error {
	cfg := InputConfig{
		Message:     promptLabel(node),
		Default:     node.Value(),
		Placeholder: node.Placeholder(),
	}
	if node.Required() {
		msg := requiredMessage(node)
		cfg.Validator = func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New(msg)
			}
			return nil
		}
	}

	out, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = form.SetValue(node.Key(), out)
	return err
}

func (r *Renderer) serialize(pairs []tree.Pair) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, pair := range pairs {
			values.Add(pair.Name, pair.Value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, pair := range pairs {
			fmt.Fprintf(&b, "%s: %s\n", pair.Name, pair.Value)
		}
		return []byte(b.String()), nil
	default:
		out := make(map[string]any, len(pairs))
		for _, pair := range pairs {
			name := strings.TrimSuffix(pair.Name, "[]")
			if existing, ok := out[name]; ok {
				switch v := existing.(type) {
				case []string:
					out[name] = append(v, pair.Value)
				case string:
					out[name] = []string{v, pair.Value}
				}
				continue
			}
			if strings.HasSuffix(pair.Name, "[]") {
				out[name] = []string{pair.Value}
				continue
			}
			out[name] = pair.Value
		}
		payload, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: serialize payload: %w", err)
		}
		return payload, nil
	}
}

func promptLabel(node *tree.Node) string {
	label := strings.TrimSpace(node.Label())
	if label == "" {
		label = node.Key()
	}
	return label
}

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
