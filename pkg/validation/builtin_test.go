package validation

import (
	"testing"
)

// fakeControl implements Control for registry tests.
type fakeControl struct {
	name     string
	kind     string
	value    string
	required bool
	focused  bool
}

func (c *fakeControl) Name() string   { return c.name }
func (c *fakeControl) Kind() string   { return c.kind }
func (c *fakeControl) Value() string  { return c.value }
func (c *fakeControl) Required() bool { return c.required }
func (c *fakeControl) Focus()         { c.focused = true }

type fakeScope struct {
	controls []*fakeControl
}

func (s *fakeScope) Control(name string) (Control, bool) {
	for _, c := range s.controls {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *fakeScope) Controls() []Control {
	out := make([]Control, len(s.controls))
	for i, c := range s.controls {
		out[i] = c
	}
	return out
}

func scopeOf(controls ...*fakeControl) *fakeScope {
	return &fakeScope{controls: controls}
}

func runAll(t *testing.T, scope Scope) (ok bool, message string) {
	t.Helper()
	ok = Default().ValidateAll(scope, func(kind, msg string) {
		if kind != "error" {
			t.Fatalf("report kind = %q, want error", kind)
		}
		message = msg
	})
	return ok, message
}

func TestMobileValidator(t *testing.T) {
	t.Parallel()

	short := &fakeControl{name: "mobile", kind: "phone", value: "98765", required: true}
	if ok, msg := runAll(t, scopeOf(short)); ok || msg != "Mobile number must be 10 digits" {
		t.Fatalf("short mobile: ok=%v msg=%q", ok, msg)
	}
	if !short.focused {
		t.Fatal("failing mobile control was not focused")
	}

	full := scopeOf(&fakeControl{name: "mobile", kind: "phone", value: "9876543210", required: true})
	if ok, _ := runAll(t, full); !ok {
		t.Fatal("10-digit mobile rejected")
	}

	optional := scopeOf(&fakeControl{name: "mobile", kind: "phone", value: "", required: false})
	if ok, _ := runAll(t, optional); !ok {
		t.Fatal("empty optional mobile rejected")
	}

	// The paired country selector must never be picked up as the mobile
	// control.
	paired := scopeOf(
		&fakeControl{name: "mobile_country", kind: "country_code", value: "+91"},
		&fakeControl{name: "mobile", kind: "phone", value: "9876543210"},
	)
	if ok, _ := runAll(t, paired); !ok {
		t.Fatal("mobile with country pair rejected")
	}
}

func TestEmailValidator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  bool
	}{
		{"jane.doe@acme.com", true},
		{"jane_doe@acme.co.in", true},
		{"a@b.io", true},
		{"jane@acme", false},
		{".jane@acme.com", false},
		{"jane@@acme.com", false},
		{"jane doe@acme.com", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			scope := scopeOf(&fakeControl{name: "email", kind: "email", value: tc.value, required: true})
			if ok, _ := runAll(t, scope); ok != tc.want {
				t.Fatalf("email %q: ok=%v want %v", tc.value, ok, tc.want)
			}
		})
	}
}

func TestGSTValidator(t *testing.T) {
	t.Parallel()

	pass := scopeOf(&fakeControl{name: "gst_no", kind: "text", value: "27AAAPL1234C1ZV", required: true})
	if ok, _ := runAll(t, pass); !ok {
		t.Fatal("valid GST rejected")
	}

	fail := scopeOf(&fakeControl{name: "gst_no", kind: "text", value: "27AAAPL1234C1Z", required: true})
	if ok, msg := runAll(t, fail); ok || msg != "Please enter a valid GST number" {
		t.Fatalf("truncated GST: ok=%v msg=%q", ok, msg)
	}

	// Case-normalized before the test.
	lower := scopeOf(&fakeControl{name: "gst_no", kind: "text", value: "27aaapl1234c1zv", required: true})
	if ok, _ := runAll(t, lower); !ok {
		t.Fatal("lowercase GST rejected despite case normalization")
	}
}

func TestPANAndAadhaarValidators(t *testing.T) {
	t.Parallel()

	if ok, _ := runAll(t, scopeOf(&fakeControl{name: "pan_number", value: "ABCDE1234F", required: true})); !ok {
		t.Fatal("valid PAN rejected")
	}
	if ok, _ := runAll(t, scopeOf(&fakeControl{name: "pan_number", value: "AB1DE1234F", required: true})); ok {
		t.Fatal("malformed PAN accepted")
	}
	if ok, _ := runAll(t, scopeOf(&fakeControl{name: "adhar_number", value: "123456789012", required: true})); !ok {
		t.Fatal("valid Aadhaar rejected")
	}
	if ok, msg := runAll(t, scopeOf(&fakeControl{name: "adhar_number", value: "12345", required: true})); ok || msg != "Please enter a valid 12-digit Aadhaar number" {
		t.Fatalf("short Aadhaar: ok=%v msg=%q", ok, msg)
	}
}

func TestLandlineValidator(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"12345678", "0221234567", "02212345678"} {
		scope := scopeOf(&fakeControl{name: "office_land_line", value: value, required: true})
		if ok, _ := runAll(t, scope); !ok {
			t.Fatalf("landline %q rejected", value)
		}
	}
	scope := scopeOf(&fakeControl{name: "office_land_line", value: "123456789", required: true})
	if ok, _ := runAll(t, scope); ok {
		t.Fatal("9-digit landline accepted")
	}
}

func TestZipcodeValidator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		zip     string
		country string
		want    bool
	}{
		{"india six digits", "400001", "+91", true},
		{"india five digits", "40001", "+91", false},
		{"us five digits", "90210", "+1", true},
		{"us nine digits", "902101234", "+1", true},
		{"us six digits", "902101", "+1", false},
		{"other four digits", "1010", "+44", true},
		{"other three digits", "101", "+44", false},
		{"no country falls back", "1010", "", true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			controls := []*fakeControl{{name: "zipcode", value: tc.zip, required: true}}
			if tc.country != "" {
				controls = append(controls, &fakeControl{name: "mobile_country", value: tc.country})
			}
			if ok, _ := runAll(t, &fakeScope{controls: controls}); ok != tc.want {
				t.Fatalf("zip %q country %q: ok=%v want %v", tc.zip, tc.country, ok, tc.want)
			}
		})
	}
}

func TestAbsentFieldsPass(t *testing.T) {
	t.Parallel()

	// A form with none of the registered fields passes every validator.
	if ok, _ := runAll(t, scopeOf(&fakeControl{name: "message", kind: "textarea", value: "hi"})); !ok {
		t.Fatal("registry failed on a form without registered fields")
	}
}

func TestEvaluationStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	var reports []string
	scope := scopeOf(
		&fakeControl{name: "office_land_line", value: "12", required: true},
		&fakeControl{name: "gst_no", value: "bad", required: true},
	)
	ok := Default().ValidateAll(scope, func(_, msg string) {
		reports = append(reports, msg)
	})
	if ok {
		t.Fatal("expected failure")
	}
	if len(reports) != 1 || reports[0] != "Please enter a valid office landline number" {
		t.Fatalf("reports = %v, want single landline failure", reports)
	}
}

func TestNormalizers(t *testing.T) {
	t.Parallel()

	if got := DigitsOnly(10)("(987) 654-32109999"); got != "9876543210" {
		t.Fatalf("DigitsOnly = %q", got)
	}
	if got := LettersOnly("Jane D0e-1!"); got != "Jane De" {
		t.Fatalf("LettersOnly = %q", got)
	}
	if got := UpperAlnum(10)("abcde-1234-fx"); got != "ABCDE1234F" {
		t.Fatalf("UpperAlnum = %q", got)
	}
	if got := DigitsOnly(0)("12a34"); got != "1234" {
		t.Fatalf("DigitsOnly unbounded = %q", got)
	}
}
