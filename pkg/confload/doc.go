// Package confload fetches and decodes form definitions.
//
// The hosted endpoint wraps every definition in a {"data": ...} envelope;
// Fetch unwraps it and distinguishes transport failures (FetchError) from
// malformed payloads (ShapeError) so callers can log the two differently.
// Local files and fs.FS entries hold bare definitions in JSON or YAML and
// are mainly useful for development servers and tests.
package confload
