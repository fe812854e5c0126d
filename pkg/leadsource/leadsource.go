// Package leadsource derives marketing attribution metadata from the hosting
// page. The result is computed once per render and injected into the form as
// hidden inputs so every submission carries its acquisition context.
package leadsource

import "net/url"

// utmKeys lists the campaign query parameters captured from the page URL, in
// the order they are emitted.
var utmKeys = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_term",
	"utm_content",
	"gclid",
	"fbclid",
}

// Page describes the hosting page at render time.
type Page struct {
	URL      string
	Title    string
	Referrer string
}

// Field is a single hidden name/value pair to append to the form.
type Field struct {
	Name  string
	Value string
}

// UTMParams extracts the known campaign parameters from a page URL. Unknown
// or empty parameters are skipped; a malformed URL yields no parameters
// rather than an error.
func UTMParams(pageURL string) []Field {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	query := parsed.Query()

	var out []Field
	for _, key := range utmKeys {
		if val := query.Get(key); val != "" {
			out = append(out, Field{Name: key, Value: val})
		}
	}
	return out
}

// Fields returns the full set of hidden metadata fields for a page: UTM
// parameters by their own names plus the lead-source attributes under the
// w24_ prefix.
func Fields(page Page) []Field {
	out := UTMParams(page.URL)
	out = append(out,
		Field{Name: "w24_page_url", Value: page.URL},
		Field{Name: "w24_page_title", Value: page.Title},
		Field{Name: "w24_referrer", Value: page.Referrer},
	)
	return out
}
