package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies how much a criterion matters for the screening outcome.
type Category string

const (
	// CategoryYes marks a mandatory requirement.
	CategoryYes Category = "YES"
	// CategoryPreferable marks a soft bonus. Preferable criteria never fail
	// a candidate, they only modulate awarded points.
	CategoryPreferable Category = "PREFERABLE"
	// CategoryHardNo marks a disqualifier. A triggered hard-no zeroes the
	// primary score and stops further evaluation.
	CategoryHardNo Category = "HARD_NO"
)

// ErrInvalidCategory is returned for category tokens other than YES, PREFERABLE and HARD_NO.
var ErrInvalidCategory = errors.New("invalid category")

// ParseCategory converts an external category token into a Category.
func ParseCategory(token string) (Category, error) {
	category := Category(strings.ToUpper(strings.TrimSpace(token)))
	switch category {
	case CategoryYes, CategoryPreferable, CategoryHardNo:
		return category, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, token)
}

// Categories lists all known category tokens.
func Categories() []Category {
	return []Category{CategoryYes, CategoryPreferable, CategoryHardNo}
}
