package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smarttodo/smarttodo-api/internal/domain"
)

const (
	shapeObject = "object"
	shapeArray  = "array"
)

var errEmptyResponse = errors.New("response is empty")

// validate checks the decoded field values. Field names in errors are the
// JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategoryName(fl.Field().String())
		return err == nil
	})
	return v
}

// analysisFields mirrors AnalysisResult with the rules the model output must
// satisfy.
type analysisFields struct {
	PriorityScore       int    `json:"priority_score" validate:"min=1,max=10"`
	SuggestedDeadline   string `json:"suggested_deadline" validate:"required,datetime=2006-01-02"`
	EnhancedDescription string `json:"enhanced_description" validate:"required"`
	SuggestedCategory   string `json:"suggested_category" validate:"required,category"`
	TipOrAdvice         string `json:"tip_or_advice"`
}

type rescoreFields struct {
	Title               string `json:"title" validate:"required"`
	NewPriorityScore    int    `json:"new_priority_score" validate:"min=1,max=10"`
	RecommendedCategory string `json:"recommended_category" validate:"required,category"`
}

// ParseAnalysis parses p as a single-task analysis object.
func ParseAnalysis(p Payload) (*domain.AnalysisResult, error) {
	obj, err := decodeObject(p, []byte(p.Candidate), shapeObject)
	if err != nil {
		return nil, err
	}

	var f analysisFields
	r := fieldReader{raw: p.Raw, obj: obj}
	f.PriorityScore = r.integer("priority_score")
	f.SuggestedDeadline = r.str("suggested_deadline", true)
	f.EnhancedDescription = r.str("enhanced_description", true)
	f.SuggestedCategory = r.str("suggested_category", true)
	f.TipOrAdvice = r.str("tip_or_advice", false)
	if r.err != nil {
		return nil, r.err
	}

	if err := checkFields(p.Raw, "", f); err != nil {
		return nil, err
	}

	deadline, err := domain.ParseDate(f.SuggestedDeadline)
	if err != nil {
		return nil, &ValidationError{Raw: p.Raw, Field: "suggested_deadline", Message: "must be a YYYY-MM-DD date"}
	}
	category, _ := domain.ParseCategoryName(f.SuggestedCategory)

	return &domain.AnalysisResult{
		PriorityScore:       f.PriorityScore,
		SuggestedDeadline:   deadline,
		EnhancedDescription: f.EnhancedDescription,
		SuggestedCategory:   category,
		TipOrAdvice:         f.TipOrAdvice,
	}, nil
}

// ParseRescore parses p as a rescoring array. When expected is positive the
// array must hold exactly that many entries.
func ParseRescore(p Payload, expected int) ([]domain.RescoreEntry, error) {
	data := []byte(p.Candidate)
	if err := checkShape(p, data, shapeArray); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &MalformedError{Raw: p.Raw, Expected: shapeArray, Err: err}
	}

	if expected > 0 && len(items) != expected {
		return nil, &ValidationError{
			Raw:     p.Raw,
			Message: fmt.Sprintf("expected %d rescored tasks, got %d", expected, len(items)),
		}
	}

	entries := make([]domain.RescoreEntry, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("[%d].", i)

		var obj map[string]json.RawMessage
		if firstByte(item) != '{' || json.Unmarshal(item, &obj) != nil {
			return nil, &ValidationError{Raw: p.Raw, Field: fmt.Sprintf("[%d]", i), Message: "must be a JSON object"}
		}

		var f rescoreFields
		r := fieldReader{raw: p.Raw, obj: obj, prefix: prefix}
		f.Title = r.str("title", true)
		f.NewPriorityScore = r.integer("new_priority_score")
		f.RecommendedCategory = r.str("recommended_category", true)
		if r.err != nil {
			return nil, r.err
		}

		if err := checkFields(p.Raw, prefix, f); err != nil {
			return nil, err
		}

		category, _ := domain.ParseCategoryName(f.RecommendedCategory)
		entries = append(entries, domain.RescoreEntry{
			Title:               f.Title,
			NewPriorityScore:    f.NewPriorityScore,
			RecommendedCategory: category,
		})
	}

	return entries, nil
}

func decodeObject(p Payload, data []byte, shape string) (map[string]json.RawMessage, error) {
	if err := checkShape(p, data, shape); err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &MalformedError{Raw: p.Raw, Expected: shape, Err: err}
	}
	return obj, nil
}

// checkShape verifies data is syntactically valid JSON whose top-level value
// is the expected kind.
func checkShape(p Payload, data []byte, shape string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &MalformedError{Raw: p.Raw, Expected: shape, Err: errEmptyResponse}
	}

	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return &MalformedError{Raw: p.Raw, Expected: shape, Err: err}
	}

	got := kindOf(firstByte(data))
	if got != shape {
		return &MalformedError{
			Raw:      p.Raw,
			Expected: shape,
			Err:      fmt.Errorf("expected a JSON %s, got %s", shape, got),
		}
	}
	return nil
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func kindOf(b byte) string {
	switch b {
	case '{':
		return shapeObject
	case '[':
		return shapeArray
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// fieldReader extracts typed fields from a decoded object, keeping the first
// failure.
type fieldReader struct {
	raw    string
	obj    map[string]json.RawMessage
	prefix string
	err    error
}

func (r *fieldReader) fail(name, msg string) {
	if r.err == nil {
		r.err = &ValidationError{Raw: r.raw, Field: r.prefix + name, Message: msg}
	}
}

func (r *fieldReader) lookup(name string) (json.RawMessage, bool) {
	v, ok := r.obj[name]
	if !ok || string(bytes.TrimSpace(v)) == "null" {
		return nil, false
	}
	return v, true
}

func (r *fieldReader) str(name string, required bool) string {
	v, ok := r.lookup(name)
	if !ok {
		if required {
			r.fail(name, "is required")
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		r.fail(name, "must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

// integer accepts JSON numbers with no fractional part, such as 7 or 7.0.
func (r *fieldReader) integer(name string) int {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "is required")
		return 0
	}
	if firstByte(v) == '"' {
		r.fail(name, "must be a number")
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		r.fail(name, "must be a number")
		return 0
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		r.fail(name, "must be an integer")
		return 0
	}
	return int(f)
}

// checkFields runs the struct rules and converts the first violation into a
// ValidationError.
func checkFields(raw, prefix string, fields any) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Raw: raw, Message: err.Error()}
	}

	fe := verrs[0]
	return &ValidationError{Raw: raw, Field: prefix + fe.Field(), Message: ruleMessage(fe)}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d (got %v)", domain.MinPriorityScore, domain.MaxPriorityScore, fe.Value())
	case "datetime":
		return fmt.Sprintf("must be a YYYY-MM-DD date (got %q)", fe.Value())
	case "category":
		return fmt.Sprintf("must be one of the allowed categories (got %q)", fe.Value())
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
