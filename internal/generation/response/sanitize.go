package response

import "strings"

const (
	fence        = "```"
	fenceJSONTag = "json"
)

// Payload pairs the raw model text with the candidate JSON recovered from it.
type Payload struct {
	Raw       string
	Candidate string
}

// Sanitize cleans raw and keeps it alongside the result.
func Sanitize(raw string) Payload {
	return Payload{Raw: raw, Candidate: Clean(raw)}
}

// Clean strips surrounding whitespace, one leading fence opener (optionally
// tagged json) and one trailing fence closer. The strip is repeated until the
// text stops changing, so Clean(Clean(x)) == Clean(x) for every x.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		next := stripFenceOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripFenceOnce(text string) string {
	if rest, ok := strings.CutPrefix(text, fence); ok {
		if len(rest) >= len(fenceJSONTag) && strings.EqualFold(rest[:len(fenceJSONTag)], fenceJSONTag) {
			rest = rest[len(fenceJSONTag):]
		}
		text = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutSuffix(text, fence); ok {
		text = strings.TrimSpace(rest)
	}
	return text
}
