// Package generation is the boundary between the application and external
// language-model providers.
//
// It defines the Provider port that concrete adapters (see platform/gemini and
// platform/openai) implement, the Reply type describing the two shapes a
// provider can answer with, and the Gateway that turns a prompt into raw
// model text. The error taxonomy shared by the whole AI pipeline lives here
// so callers can classify failures with errors.Is without depending on
// any adapter.
//
// Subpackages:
//   - prompt builds the deterministic prompt strings
//   - response cleans and validates the untrusted model text
package generation
