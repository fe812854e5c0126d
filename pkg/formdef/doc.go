// Package formdef defines the declarative form definition the widget
// interprets: the top-level document fetched from the backend, its display
// settings, field declarations, and visibility rules. The definition is an
// immutable snapshot owned by the server; the widget never mutates it after
// load.
package formdef
