// Package response turns untrusted model text into validated domain values.
//
// Clean strips the markdown fencing models add despite being told not to.
// ParseAnalysis and ParseRescore then parse the cleaned text, enforce the
// expected top-level JSON shape and check every field. Syntax and shape
// failures are reported as *MalformedError, field-level failures as
// *ValidationError; both keep the original model text for diagnosis.
// Nothing here attempts to repair invalid JSON.
package response
