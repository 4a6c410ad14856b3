package domain

// AnalysisResult is the validated outcome of a single-task analysis.
type AnalysisResult struct {
	PriorityScore       int          `json:"priority_score"`
	SuggestedDeadline   Date         `json:"suggested_deadline"`
	EnhancedDescription string       `json:"enhanced_description"`
	SuggestedCategory   CategoryName `json:"suggested_category"`
	TipOrAdvice         string       `json:"tip_or_advice"`
}

// RescoreEntry is one task in a rescoring result. A full result holds one
// entry per task in the rescored set, in the order the model returned them.
type RescoreEntry struct {
	Title               string       `json:"title"`
	NewPriorityScore    int          `json:"new_priority_score"`
	RecommendedCategory CategoryName `json:"recommended_category"`
}
