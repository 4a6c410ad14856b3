// Package prompt builds the deterministic prompts sent to the language model
// for single-task analysis and multi-task rescoring.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/smarttodo/smarttodo-api/internal/domain"
	"github.com/smarttodo/smarttodo-api/internal/generation"
)

// Template file names, both embedded and in an override directory.
const (
	AnalysisTemplate = "analysis.tmpl"
	RescoreTemplate  = "rescore.tmpl"
)

// Placeholders for blank task fields in the rescore listing.
const (
	untitledPlaceholder      = "Untitled"
	noDeadlinePlaceholder    = "No deadline"
	noDescriptionPlaceholder = "No description"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// ErrMissingDate is returned when the current date or day is not supplied.
// The model has no clock, so every prompt must state today explicitly.
var ErrMissingDate = errors.New("current date and day are required")

// AnalysisInput holds the values embedded in a single-task analysis prompt.
type AnalysisInput struct {
	Title       string
	Description string
	Context     string
	CurrentDate string
	CurrentDay  string
}

// RescoreInput holds the values embedded in a rescoring prompt. NewTask is
// listed after ExistingTasks.
type RescoreInput struct {
	NewTask       domain.TaskDraft
	ExistingTasks []domain.TaskDraft
	CurrentDate   string
	CurrentDay    string
}

type taskLine struct {
	Title       string
	Deadline    string
	Description string
}

type rescoreData struct {
	CurrentDate string
	CurrentDay  string
	Tasks       []taskLine
}

// Builder renders prompts from parsed templates. It holds no mutable state
// and is safe for concurrent use.
type Builder struct {
	analysis *template.Template
	rescore  *template.Template
}

// NewBuilder parses the embedded templates. If overrideDir is non-empty, any
// template file present there replaces the embedded one.
func NewBuilder(overrideDir string) (*Builder, error) {
	analysis, err := loadTemplate(overrideDir, AnalysisTemplate)
	if err != nil {
		return nil, err
	}
	rescore, err := loadTemplate(overrideDir, RescoreTemplate)
	if err != nil {
		return nil, err
	}
	return &Builder{analysis: analysis, rescore: rescore}, nil
}

func loadTemplate(overrideDir, name string) (*template.Template, error) {
	content, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: embedded template %s: %v", generation.ErrInvalidConfig, name, err)
	}

	if overrideDir != "" {
		custom, err := os.ReadFile(filepath.Join(overrideDir, name))
		switch {
		case err == nil:
			content = custom
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%w: failed to read prompt template %s: %v",
				generation.ErrInvalidConfig, name, err)
		}
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(template.FuncMap{"categories": categoryList}).
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v",
			generation.ErrInvalidConfig, name, err)
	}
	return tmpl, nil
}

// Analysis renders the single-task analysis prompt.
func (b *Builder) Analysis(in AnalysisInput) (string, error) {
	if strings.TrimSpace(in.CurrentDate) == "" || strings.TrimSpace(in.CurrentDay) == "" {
		return "", ErrMissingDate
	}
	in.CurrentDate = strings.TrimSpace(in.CurrentDate)
	in.CurrentDay = strings.TrimSpace(in.CurrentDay)
	return render(b.analysis, in)
}

// Rescore renders the rescoring prompt. The listing is ExistingTasks in the
// given order followed by NewTask.
func (b *Builder) Rescore(in RescoreInput) (string, error) {
	if strings.TrimSpace(in.CurrentDate) == "" || strings.TrimSpace(in.CurrentDay) == "" {
		return "", ErrMissingDate
	}

	all := make([]domain.TaskDraft, 0, len(in.ExistingTasks)+1)
	all = append(all, in.ExistingTasks...)
	all = append(all, in.NewTask)

	lines := make([]taskLine, 0, len(all))
	for _, t := range all {
		lines = append(lines, taskLine{
			Title:       orPlaceholder(t.Title, untitledPlaceholder),
			Deadline:    orPlaceholder(t.Deadline, noDeadlinePlaceholder),
			Description: orPlaceholder(singleLine(t.Description), noDescriptionPlaceholder),
		})
	}

	return render(b.rescore, rescoreData{
		CurrentDate: strings.TrimSpace(in.CurrentDate),
		CurrentDay:  strings.TrimSpace(in.CurrentDay),
		Tasks:       lines,
	})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func orPlaceholder(s, placeholder string) string {
	if s = strings.TrimSpace(s); s == "" {
		return placeholder
	}
	return s
}

// singleLine keeps each task on one listing line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func categoryList() string {
	quoted := make([]string, len(domain.AllowedCategories))
	for i, c := range domain.AllowedCategories {
		quoted[i] = strconv.Quote(string(c))
	}
	return strings.Join(quoted, ", ")
}
