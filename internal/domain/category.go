package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CategoryName is one of the fixed category labels the AI may assign.
type CategoryName string

// The fixed set of categories the AI is allowed to suggest.
const (
	CategoryWork          CategoryName = "Work"
	CategoryPersonal      CategoryName = "Personal"
	CategoryEntertainment CategoryName = "Entertainment"
	CategoryHealth        CategoryName = "Health"
	CategoryStudy         CategoryName = "Study"
	CategoryShopping      CategoryName = "Shopping"
	CategoryTravel        CategoryName = "Travel"
	CategoryFinance       CategoryName = "Finance"
	CategoryOthers        CategoryName = "Others"
)

// AllowedCategories lists the fixed category set in prompt order.
var AllowedCategories = []CategoryName{
	CategoryWork,
	CategoryPersonal,
	CategoryEntertainment,
	CategoryHealth,
	CategoryStudy,
	CategoryShopping,
	CategoryTravel,
	CategoryFinance,
	CategoryOthers,
}

// Category validation errors
var (
	ErrEmptyCategoryID   = fmt.Errorf("%w: category ID cannot be empty", ErrValidation)
	ErrEmptyCategoryName = fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	ErrCategoryNameLong  = fmt.Errorf("%w: category name cannot exceed 100 characters", ErrValidation)
	ErrUnknownCategory   = fmt.Errorf("%w: category is not in the allowed set", ErrValidation)
)

// maxCategoryNameLength mirrors the column width.
const maxCategoryNameLength = 100

// ParseCategoryName matches s case-insensitively against the allowed set and
// returns the canonical spelling.
func ParseCategoryName(s string) (CategoryName, error) {
	trimmed := strings.TrimSpace(s)
	for _, c := range AllowedCategories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Category groups tasks. Categories are created on demand by name and track
// how often tasks were filed under them.
type Category struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	UsageFrequency int       `json:"usage_frequency"`
}

// NewCategory creates a Category with a fresh ID.
func NewCategory(name string) (*Category, error) {
	c := &Category{
		ID:   uuid.New(),
		Name: strings.TrimSpace(name),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	if len(c.Name) > maxCategoryNameLength {
		return ErrCategoryNameLong
	}
	if c.UsageFrequency < 0 {
		return NewValidationError("usage_frequency", "cannot be negative", nil)
	}
	return nil
}
