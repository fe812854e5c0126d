package tree

import "github.com/webtrix/go-leadform/pkg/formdef"

// HoneypotName is the innocuous name of the decoy input injected into every
// form. Bots fill it; humans never see it. The value travels in every
// submission for server-side spam scoring.
const HoneypotName = "company_website"

// SalutationOptions is the fixed option set for the salutation override.
var SalutationOptions = []formdef.Option{
	{Label: "Mr", Value: "Mr"},
	{Label: "Mrs", Value: "Mrs"},
	{Label: "Ms", Value: "Ms"},
	{Label: "Dr", Value: "Dr"},
}

// CountryCodeOptions is the fixed dial-code set used by the country_code
// override and the paired selector on phone-like fields.
var CountryCodeOptions = []formdef.Option{
	{Label: "India (+91)", Value: "+91"},
	{Label: "USA (+1)", Value: "+1"},
	{Label: "UK (+44)", Value: "+44"},
}

// GSTStateOptions lists the Indian states and union territories rendered by
// the gst_state override.
var GSTStateOptions = stateOptions()

func stateOptions() []formdef.Option {
	names := []string{
		"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar",
		"Chhattisgarh", "Goa", "Gujarat", "Haryana", "Himachal Pradesh",
		"Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra",
		"Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
		"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
		"Uttar Pradesh", "Uttarakhand", "West Bengal",
		"Andaman and Nicobar Islands", "Chandigarh",
		"Dadra and Nagar Haveli and Daman and Diu", "Delhi",
		"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
	}
	out := make([]formdef.Option, len(names))
	for i, name := range names {
		out[i] = formdef.Option{Label: name, Value: name}
	}
	return out
}
