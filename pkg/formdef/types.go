package formdef

import (
	"strconv"
	"strings"
)

// DisplayMode selects how the widget presents itself on the host page.
type DisplayMode string

const (
	DisplayInline  DisplayMode = "inline"
	DisplayPopup   DisplayMode = "popup"
	DisplaySlideIn DisplayMode = "slide_in"
)

// PopupTrigger selects when a popup-mode form becomes visible.
type PopupTrigger string

const (
	TriggerDelay  PopupTrigger = "delay"
	TriggerScroll PopupTrigger = "scroll"
)

// SlidePosition anchors a slide-in form to a viewport corner.
type SlidePosition string

const (
	SlideBottomRight SlidePosition = "bottom-right"
	SlideBottomLeft  SlidePosition = "bottom-left"
	SlideTopRight    SlidePosition = "top-right"
	SlideTopLeft     SlidePosition = "top-left"
)

// FieldType is the declared input type carried on the wire. Semantic name
// overrides may replace it at build time; see ResolveKind.
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldEmail         FieldType = "email"
	FieldTel           FieldType = "tel"
	FieldNumber        FieldType = "number"
	FieldTextarea      FieldType = "textarea"
	FieldDropdown      FieldType = "dropdown"
	FieldRadio         FieldType = "radio"
	FieldCheckboxGroup FieldType = "checkbox_group"
	FieldHidden        FieldType = "hidden"
)

// FormDefinition is the server-owned document describing one lead-capture
// form. JSON tags follow the backend wire format.
type FormDefinition struct {
	FormID      string       `json:"form_id" yaml:"form_id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	CustomCSS   string       `json:"custom_css,omitempty" yaml:"custom_css,omitempty"`
	Theme       Theme        `json:"theme,omitempty" yaml:"theme,omitempty"`
	Submit      SubmitButton `json:"submit_button,omitempty" yaml:"submit_button,omitempty"`
	Definition  Definition   `json:"definition" yaml:"definition"`
}

// Definition groups the per-form settings and field list.
type Definition struct {
	Settings Settings   `json:"settings" yaml:"settings"`
	Fields   []FieldDef `json:"fields" yaml:"fields"`
}

// Theme carries the base colour palette applied to the rendered form.
type Theme struct {
	PrimaryColor string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	BgColor      string `json:"bgColor,omitempty" yaml:"bgColor,omitempty"`
	TextColor    string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
}

// SubmitButton customises the submit control.
type SubmitButton struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Settings controls presentation, triggers, anti-spam, and post-submit
// behaviour. Zero values fall back to the documented defaults via the
// accessor methods.
type Settings struct {
	DisplayMode      DisplayMode   `json:"display_mode,omitempty" yaml:"display_mode,omitempty"`
	PopupTrigger     PopupTrigger  `json:"popup_trigger,omitempty" yaml:"popup_trigger,omitempty"`
	DelayMs          int64         `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
	ScrollPercent    float64       `json:"scroll_percent,omitempty" yaml:"scroll_percent,omitempty"`
	SlidePosition    SlidePosition `json:"slide_position,omitempty" yaml:"slide_position,omitempty"`
	BackgroundColor  string        `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	BorderRadius     string        `json:"border_radius,omitempty" yaml:"border_radius,omitempty"`
	BoxShadow        string        `json:"box_shadow,omitempty" yaml:"box_shadow,omitempty"`
	BorderColor      string        `json:"border_color,omitempty" yaml:"border_color,omitempty"`
	TitleColor       string        `json:"title_color,omitempty" yaml:"title_color,omitempty"`
	DescriptionColor string        `json:"description_color,omitempty" yaml:"description_color,omitempty"`
	FieldColor       string        `json:"field_color,omitempty" yaml:"field_color,omitempty"`
	TitleAlign       string        `json:"title_align,omitempty" yaml:"title_align,omitempty"`
	DescriptionAlign string        `json:"description_align,omitempty" yaml:"description_align,omitempty"`
	ShowCancelButton *bool         `json:"show_cancel_button,omitempty" yaml:"show_cancel_button,omitempty"`
	EnableRecaptcha  bool          `json:"enable_recaptcha,omitempty" yaml:"enable_recaptcha,omitempty"`
	RecaptchaSiteKey string        `json:"recaptcha_site_key,omitempty" yaml:"recaptcha_site_key,omitempty"`
	RedirectURL      string        `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
	SuccessTitle     string        `json:"success_title,omitempty" yaml:"success_title,omitempty"`
	SuccessDesc      string        `json:"success_description,omitempty" yaml:"success_description,omitempty"`
	ReshowDelayMs    int64         `json:"reshow_delay_ms,omitempty" yaml:"reshow_delay_ms,omitempty"`
}

// Mode returns the display mode, defaulting to inline.
func (s Settings) Mode() DisplayMode {
	switch s.DisplayMode {
	case DisplayPopup, DisplaySlideIn:
		return s.DisplayMode
	default:
		return DisplayInline
	}
}

// Trigger returns the popup trigger, defaulting to delay.
func (s Settings) Trigger() PopupTrigger {
	if s.PopupTrigger == TriggerScroll {
		return TriggerScroll
	}
	return TriggerDelay
}

// ScrollThreshold returns the scroll percentage threshold, defaulting to 50.
func (s Settings) ScrollThreshold() float64 {
	if s.ScrollPercent <= 0 {
		return 50
	}
	return s.ScrollPercent
}

// Position returns the slide-in anchor, defaulting to bottom-right.
func (s Settings) Position() SlidePosition {
	switch s.SlidePosition {
	case SlideBottomLeft, SlideTopRight, SlideTopLeft:
		return s.SlidePosition
	default:
		return SlideBottomRight
	}
}

// CancelAllowed reports whether close affordances are rendered. The wire
// format omits the flag when the authoring tool never touched it, which
// means enabled.
func (s Settings) CancelAllowed() bool {
	if s.ShowCancelButton == nil {
		return true
	}
	return *s.ShowCancelButton
}

// SuccessMessage returns the configured success title and description with
// their legacy defaults applied.
func (s Settings) SuccessMessage() (title, description string) {
	title = s.SuccessTitle
	if title == "" {
		title = "Thank You"
	}
	description = s.SuccessDesc
	if description == "" {
		description = "Will Contact You"
	}
	return title, description
}

// Option is one selectable choice for dropdown, radio, and checkbox fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// VisibilityRule declares a conditional show/hide dependency. The field
// carrying the rule is the target; Field names the controlling input.
type VisibilityRule struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
}

// FieldDef declares a single input. NameKey is the submission key and must
// be unique within a definition.
type FieldDef struct {
	ID          string          `json:"id,omitempty" yaml:"id,omitempty"`
	NameKey     string          `json:"nameKey" yaml:"nameKey"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType       `json:"type,omitempty" yaml:"type,omitempty"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Readonly    bool            `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Hidden      bool            `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Value       any             `json:"value,omitempty" yaml:"value,omitempty"`
	Options     []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	ShowWhen    *VisibilityRule `json:"show_when,omitempty" yaml:"show_when,omitempty"`
}

// DefaultValue flattens the declared default into a string slice. Scalar
// defaults produce a single element; checkbox groups may declare several.
func (f FieldDef) DefaultValue() []string {
	switch v := f.Value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case float64:
		// JSON numbers decode as float64; keep integral defaults free of
		// a trailing ".0" on the wire.
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(v)}
	case bool:
		return []string{strconv.FormatBool(v)}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Key returns the lower-cased nameKey used for semantic matching.
func (f FieldDef) Key() string {
	return strings.ToLower(strings.TrimSpace(f.NameKey))
}
