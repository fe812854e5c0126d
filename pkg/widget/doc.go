// Package widget ties the runtime together for host processes: it checks
// suppression, fetches and sanity-checks the form definition, builds the
// field tree, mounts the display controller, binds the visibility rules,
// and exposes the event surface a host page forwards input into.
//
// A Widget instance is single-threaded by contract. Hosts must serialize
// calls into it; the only internally guarded paths are the display
// controller's timer transition and the captcha loader.
package widget
