// Package submit runs the submission pipeline for a built form tree.
//
// One Submit call walks the whole gauntlet: required-field check, registry
// validation, busy state, optional challenge token, multipart POST, and the
// success or failure consequences (suppression mark, redirect or success
// dialog, error status). The disabled submit affordance is the only guard
// against duplicate in-flight submissions, mirrored here by an in-flight
// flag; there is no abort once the POST leaves.
package submit
