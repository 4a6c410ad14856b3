// Package gemini implements generation.Provider on top of Google's Gemini API
// using the google.golang.org/genai client.
//
// Gemini answers in the nested shape: a list of candidates, each holding
// content parts. The provider converts that shape into a generation.Reply
// without interpreting the text, and marks candidates that were stopped by
// safety filters so the gateway can report them as blocked.
package gemini
