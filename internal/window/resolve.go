package window

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Defaults are the fallback values applied wherever a preference field
// is absent.
type Defaults struct {
	Title  string
	Width  int
	Height int
}

// Config is a fully resolved window specification.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Resolve merges prefs with defaults into a concrete configuration.
// A nil prefs yields the defaults unchanged.
func Resolve(defaults Defaults, prefs *Preferences) Config {
	cfg := Config{
		Title:  defaults.Title,
		Width:  defaults.Width,
		Height: defaults.Height,
	}

	if prefs == nil {
		return cfg
	}
	if prefs.Title != nil {
		cfg.Title = *prefs.Title
	}
	if prefs.Width != nil {
		cfg.Width = *prefs.Width
	}
	if prefs.Height != nil {
		cfg.Height = *prefs.Height
	}
	return cfg
}

// LaunchURL builds the document reference a new window loads. The hosted
// UI parses these exact parameter names, so they are part of the wire
// contract:
//
//   - executeThisArgvPlease: percent-encoded JSON array of launch
//     arguments, present iff argv was supplied.
//   - subwindow: percent-encoded JSON preferences object, present iff
//     prefs was supplied. Presence alone marks the window as a
//     subwindow, independent of field values.
//
// With neither input the bare base document is returned.
func LaunchURL(base string, argv []string, prefs *Preferences) string {
	var params []string

	if argv != nil {
		params = append(params, "executeThisArgvPlease="+percentEncodeJSON(argv))
	}
	if prefs != nil {
		params = append(params, "subwindow="+percentEncodeJSON(prefs))
	}

	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}

// percentEncodeJSON serializes v to JSON and percent-encodes the result.
// Serialization failure degrades to an empty value; a window create must
// not fail merely because its arguments could not be encoded.
func percentEncodeJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	// Query escaping with %20 for spaces: the hosted UI decodes values
	// with decodeURIComponent, which leaves '+' alone.
	return strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20")
}
