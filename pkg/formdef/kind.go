package formdef

import "strings"

// FieldKind is the concrete rendering variant a field resolves to once
// semantic name overrides have been applied. Resolution happens exactly once
// at tree-build time so downstream stages never re-inspect name strings.
type FieldKind string

const (
	KindText          FieldKind = "text"
	KindEmail         FieldKind = "email"
	KindTel           FieldKind = "tel"
	KindNumber        FieldKind = "number"
	KindTextarea      FieldKind = "textarea"
	KindDropdown      FieldKind = "dropdown"
	KindRadio         FieldKind = "radio"
	KindCheckboxGroup FieldKind = "checkbox_group"
	KindHidden        FieldKind = "hidden"

	// Semantic overrides: fixed rendering templates selected by nameKey.
	KindSalutation  FieldKind = "salutation"
	KindCountryCode FieldKind = "country_code"
	KindGSTState    FieldKind = "gst_state"
	KindPhone       FieldKind = "phone"
)

// ResolveKind maps a field declaration to its effective rendering kind. A
// hidden flag always wins; exact nameKey matches (salutation, country_code,
// gst_state) and substring matches (mobile, phone, wa_number) override the
// declared type; unknown declared types degrade to plain text so a single
// bad field never blocks the form.
func ResolveKind(f FieldDef) FieldKind {
	if f.Hidden || f.Type == FieldHidden {
		return KindHidden
	}

	switch f.Key() {
	case "salutation":
		return KindSalutation
	case "country_code":
		return KindCountryCode
	case "gst_state":
		return KindGSTState
	}

	if isPhoneKey(f.Key()) {
		return KindPhone
	}

	switch f.Type {
	case FieldText, "":
		return KindText
	case FieldEmail:
		return KindEmail
	case FieldTel:
		return KindTel
	case FieldNumber:
		return KindNumber
	case FieldTextarea:
		return KindTextarea
	case FieldDropdown:
		return KindDropdown
	case FieldRadio:
		return KindRadio
	case FieldCheckboxGroup:
		return KindCheckboxGroup
	default:
		return KindText
	}
}

func isPhoneKey(key string) bool {
	return strings.Contains(key, "mobile") ||
		strings.Contains(key, "phone") ||
		strings.Contains(key, "wa_number")
}

// IsNameLike reports whether live input on the field should be restricted to
// letters and spaces.
func IsNameLike(key string) bool {
	return strings.Contains(strings.ToLower(key), "name") && !isPhoneKey(strings.ToLower(key))
}
