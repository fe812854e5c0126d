package validation

import (
	"regexp"
	"strings"
)

// Acceptance rules preserved bit-for-bit from the production widget; backends
// depend on the exact shapes these admit.
var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9]+([._-][a-zA-Z0-9]+)*@[a-zA-Z]+([.-][a-zA-Z0-9]+)*\.[a-zA-Z]{2,}$`)
	landlineLocal   = regexp.MustCompile(`^\d{8}$`)
	landlineSTD     = regexp.MustCompile(`^\d{10,11}$`)
	panPattern      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	gstPattern      = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	aadhaarPattern  = regexp.MustCompile(`^[0-9]{12}$`)
	zipIndia        = regexp.MustCompile(`^\d{6}$`)
	zipUS           = regexp.MustCompile(`^\d{5}(\d{4})?$`)
	zipIntl         = regexp.MustCompile(`^\d{4,10}$`)
)

// Default builds the registry of built-in validators in their canonical
// registration order. Submit-time evaluation iterates this order and stops
// at the first failure.
func Default() *Registry {
	registry, err := NewRegistry(
		landlineEntry(),
		emailEntry(),
		mobileEntry(),
		letterEntry("name"),
		letterEntry("state"),
		letterEntry("country"),
		letterEntry("city"),
		zipcodeEntry(),
		panEntry(),
		gstEntry(),
		aadhaarEntry(),
	)
	if err != nil {
		panic(err)
	}
	return registry
}

func landlineEntry() Entry {
	return Entry{
		Key:       "office_land_line",
		Normalize: DigitsOnly(11),
		Validate: func(scope Scope, report Report) bool {
			el, ok := scope.Control("office_land_line")
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if landlineLocal.MatchString(value) || landlineSTD.MatchString(value) {
				return true
			}
			report("error", "Please enter a valid office landline number")
			el.Focus()
			return false
		},
	}
}

func emailEntry() Entry {
	return Entry{
		Key:       "email",
		Normalize: strings.TrimSpace,
		Validate: func(scope Scope, report Report) bool {
			el, ok := findEmail(scope)
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if emailPattern.MatchString(value) {
				return true
			}
			report("error", "Please enter a valid email address")
			el.Focus()
			return false
		},
	}
}

func mobileEntry() Entry {
	return Entry{
		Key:       "mobile",
		Normalize: DigitsOnly(10),
		Validate: func(scope Scope, report Report) bool {
			el, ok := findContaining(scope, "mobile", "phone", "wa_number")
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if len(value) != 10 {
				report("error", "Mobile number must be 10 digits")
				el.Focus()
				return false
			}
			return true
		},
	}
}

// letterEntry covers the fields whose live letters-only filter is the whole
// validation; submit always passes.
func letterEntry(key string) Entry {
	return Entry{Key: key, Normalize: LettersOnly}
}

func zipcodeEntry() Entry {
	return Entry{
		Key:       "zipcode",
		Normalize: DigitsOnly(0),
		Validate: func(scope Scope, report Report) bool {
			el, ok := scope.Control("zipcode")
			if !ok {
				return true
			}
			zip := strings.TrimSpace(el.Value())
			if zip == "" {
				return true
			}

			countryCode := ""
			if country, ok := findSuffix(scope, "_country"); ok {
				countryCode = country.Value()
			}

			var valid bool
			switch countryCode {
			case "+91":
				valid = zipIndia.MatchString(zip)
			case "+1":
				valid = zipUS.MatchString(zip)
			default:
				valid = zipIntl.MatchString(zip)
			}
			if !valid {
				report("error", "Please enter a valid zip code")
				el.Focus()
				return false
			}
			return true
		},
	}
}

func panEntry() Entry {
	return Entry{
		Key:       "pan_number",
		Normalize: UpperAlnum(10),
		Validate: func(scope Scope, report Report) bool {
			el, ok := scope.Control("pan_number")
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if panPattern.MatchString(strings.ToUpper(value)) {
				return true
			}
			report("error", "Please enter a valid PAN number")
			el.Focus()
			return false
		},
	}
}

func gstEntry() Entry {
	return Entry{
		Key:       "gst_no",
		Normalize: UpperAlnum(15),
		Validate: func(scope Scope, report Report) bool {
			el, ok := scope.Control("gst_no")
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if gstPattern.MatchString(strings.ToUpper(value)) {
				return true
			}
			report("error", "Please enter a valid GST number")
			el.Focus()
			return false
		},
	}
}

func aadhaarEntry() Entry {
	return Entry{
		Key:       "adhar_number",
		Normalize: DigitsOnly(12),
		Validate: func(scope Scope, report Report) bool {
			el, ok := scope.Control("adhar_number")
			if !ok {
				return true
			}
			value := strings.TrimSpace(el.Value())
			if value == "" && !el.Required() {
				return true
			}
			if aadhaarPattern.MatchString(value) {
				return true
			}
			report("error", "Please enter a valid 12-digit Aadhaar number")
			el.Focus()
			return false
		},
	}
}

func findContaining(scope Scope, substrings ...string) (Control, bool) {
	for _, control := range scope.Controls() {
		name := strings.ToLower(control.Name())
		// A phone field's paired country-code selector shares the name stem;
		// it is never the control under validation.
		if strings.HasSuffix(name, "_country") {
			continue
		}
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return control, true
			}
		}
	}
	return nil, false
}

func findSuffix(scope Scope, suffix string) (Control, bool) {
	for _, control := range scope.Controls() {
		if strings.HasSuffix(strings.ToLower(control.Name()), suffix) {
			return control, true
		}
	}
	return nil, false
}

func findEmail(scope Scope) (Control, bool) {
	for _, control := range scope.Controls() {
		if control.Kind() == "email" || strings.Contains(strings.ToLower(control.Name()), "email") {
			return control, true
		}
	}
	return nil, false
}
