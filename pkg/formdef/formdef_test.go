package formdef

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveKindSemanticOverrides(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		field FieldDef
		want  FieldKind
	}{
		{"hidden flag wins", FieldDef{NameKey: "salutation", Hidden: true}, KindHidden},
		{"hidden type", FieldDef{NameKey: "source", Type: FieldHidden}, KindHidden},
		{"salutation by name", FieldDef{NameKey: "Salutation", Type: FieldText}, KindSalutation},
		{"country code by name", FieldDef{NameKey: "country_code", Type: FieldDropdown}, KindCountryCode},
		{"gst state by name", FieldDef{NameKey: "gst_state", Type: FieldText}, KindGSTState},
		{"mobile substring", FieldDef{NameKey: "primary_mobile", Type: FieldText}, KindPhone},
		{"phone substring", FieldDef{NameKey: "office_phone", Type: FieldTel}, KindPhone},
		{"wa_number substring", FieldDef{NameKey: "wa_number", Type: FieldText}, KindPhone},
		{"declared dropdown", FieldDef{NameKey: "lead_type", Type: FieldDropdown}, KindDropdown},
		{"declared textarea", FieldDef{NameKey: "notes", Type: FieldTextarea}, KindTextarea},
		{"empty type defaults to text", FieldDef{NameKey: "city"}, KindText},
		{"unsupported type degrades to text", FieldDef{NameKey: "avatar", Type: "file"}, KindText},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveKind(tc.field); got != tc.want {
				t.Fatalf("ResolveKind(%q) = %q, want %q", tc.field.NameKey, got, tc.want)
			}
		})
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()

	var s Settings
	if got := s.Mode(); got != DisplayInline {
		t.Fatalf("Mode() = %q, want inline", got)
	}
	if got := s.Trigger(); got != TriggerDelay {
		t.Fatalf("Trigger() = %q, want delay", got)
	}
	if got := s.ScrollThreshold(); got != 50 {
		t.Fatalf("ScrollThreshold() = %v, want 50", got)
	}
	if got := s.Position(); got != SlideBottomRight {
		t.Fatalf("Position() = %q, want bottom-right", got)
	}
	if !s.CancelAllowed() {
		t.Fatal("CancelAllowed() = false for unset flag, want true")
	}

	off := false
	s.ShowCancelButton = &off
	if s.CancelAllowed() {
		t.Fatal("CancelAllowed() = true for explicit false")
	}

	title, desc := s.SuccessMessage()
	if title != "Thank You" || desc != "Will Contact You" {
		t.Fatalf("SuccessMessage() = %q/%q, want legacy defaults", title, desc)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *FormDefinition {
		return &FormDefinition{
			FormID: "frm_1",
			Definition: Definition{
				Fields: []FieldDef{
					{NameKey: "lead_type", Type: FieldDropdown},
					{NameKey: "gst_no", ShowWhen: &VisibilityRule{Field: "lead_type", Operator: "equals", Value: "Business"}},
				},
			},
		}
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	missing := base()
	missing.FormID = ""
	if err := Validate(missing); err == nil {
		t.Fatal("Validate accepted missing form id")
	}

	dup := base()
	dup.Definition.Fields = append(dup.Definition.Fields, FieldDef{NameKey: "Lead_Type"})
	if err := Validate(dup); err == nil {
		t.Fatal("Validate accepted duplicate nameKey")
	}

	dangling := base()
	dangling.Definition.Fields[1].ShowWhen.Field = "nope"
	if err := Validate(dangling); err == nil {
		t.Fatal("Validate accepted rule referencing unknown controller")
	}
}

func TestDefinitionJSONRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"form_id": "frm_9",
		"name": "Contact us",
		"definition": {
			"settings": {
				"display_mode": "popup",
				"popup_trigger": "scroll",
				"scroll_percent": 60,
				"show_cancel_button": false,
				"enable_recaptcha": true,
				"recaptcha_site_key": "sk",
				"reshow_delay_ms": 86400000
			},
			"fields": [
				{"nameKey": "full_name", "label": "Full name", "type": "text", "required": true},
				{"nameKey": "lead_type", "type": "dropdown", "options": [{"label": "Business", "value": "business"}]},
				{"nameKey": "gst_no", "type": "text", "show_when": {"field": "lead_type", "operator": "equals", "value": "Business"}}
			]
		}
	}`)

	var def FormDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if def.Definition.Settings.Mode() != DisplayPopup {
		t.Fatalf("mode = %q, want popup", def.Definition.Settings.Mode())
	}
	if def.Definition.Settings.Trigger() != TriggerScroll {
		t.Fatalf("trigger = %q, want scroll", def.Definition.Settings.Trigger())
	}
	if def.Definition.Settings.CancelAllowed() {
		t.Fatal("show_cancel_button=false decoded as allowed")
	}

	wantRule := &VisibilityRule{Field: "lead_type", Operator: "equals", Value: "Business"}
	if diff := cmp.Diff(wantRule, def.Definition.Fields[2].ShowWhen); diff != "" {
		t.Fatalf("show_when mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultValueScalarTypes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		want    []string
	}{
		{"string", `{"nameKey": "utm_source", "value": "ads"}`, []string{"ads"}},
		{"integer", `{"nameKey": "score", "hidden": true, "value": 42}`, []string{"42"}},
		{"decimal", `{"nameKey": "weight", "hidden": true, "value": 2.5}`, []string{"2.5"}},
		{"bool", `{"nameKey": "subscribed", "hidden": true, "value": true}`, []string{"true"}},
		{"empty string", `{"nameKey": "utm_term", "value": ""}`, nil},
		{"absent", `{"nameKey": "utm_term"}`, nil},
		{"string list", `{"nameKey": "interests", "value": ["crm", "forms"]}`, []string{"crm", "forms"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var field FieldDef
			if err := json.Unmarshal([]byte(tc.payload), &field); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tc.want, field.DefaultValue()); diff != "" {
				t.Fatalf("DefaultValue mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
