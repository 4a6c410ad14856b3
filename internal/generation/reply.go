package generation

import "strings"

// ReplyShape tags which of the provider response shapes a Reply carries.
type ReplyShape int

const (
	// ReplyEmpty means the provider returned neither shape.
	ReplyEmpty ReplyShape = iota
	// ReplyDirect means the provider exposed a top-level text field.
	ReplyDirect
	// ReplyParts means the text is nested in candidates and content parts.
	ReplyParts
)

// String implements fmt.Stringer.
func (s ReplyShape) String() string {
	switch s {
	case ReplyDirect:
		return "direct"
	case ReplyParts:
		return "parts"
	default:
		return "empty"
	}
}

// Candidate is one generated alternative in the nested shape.
type Candidate struct {
	Parts        []string
	FinishReason string
	Blocked      bool
}

// Reply is a successful provider answer. Text is set when the provider
// offers a direct text field; Candidates is set when the text is nested in
// content parts. Either, both or neither may be present.
type Reply struct {
	Text       *string
	Candidates []Candidate
}

// DirectReply builds a Reply carrying a direct text field.
func DirectReply(text string) Reply {
	return Reply{Text: &text}
}

// PartsReply builds a Reply carrying nested candidates.
func PartsReply(candidates ...Candidate) Reply {
	return Reply{Candidates: candidates}
}

// Shape reports the shape that Extract will read from.
func (r Reply) Shape() ReplyShape {
	if r.Text != nil && strings.TrimSpace(*r.Text) != "" {
		return ReplyDirect
	}
	if _, ok := r.partsText(); ok {
		return ReplyParts
	}
	return ReplyEmpty
}

// Extract returns the reply text. The direct field wins when it is present
// and non-blank; otherwise the first candidate with non-blank text parts is
// used. ok is false when both shapes are empty.
func (r Reply) Extract() (text string, shape ReplyShape, ok bool) {
	if r.Text != nil && strings.TrimSpace(*r.Text) != "" {
		return *r.Text, ReplyDirect, true
	}
	if text, ok := r.partsText(); ok {
		return text, ReplyParts, true
	}
	return "", ReplyEmpty, false
}

// Blocked reports whether every candidate was withheld by safety filters.
func (r Reply) Blocked() bool {
	if len(r.Candidates) == 0 {
		return false
	}
	for _, c := range r.Candidates {
		if !c.Blocked {
			return false
		}
	}
	return true
}

func (r Reply) partsText() (string, bool) {
	for _, c := range r.Candidates {
		if c.Blocked {
			continue
		}
		var b strings.Builder
		for _, p := range c.Parts {
			b.WriteString(p)
		}
		if strings.TrimSpace(b.String()) != "" {
			return b.String(), true
		}
	}
	return "", false
}
