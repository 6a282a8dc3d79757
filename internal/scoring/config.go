package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ErrWeightSplit is returned when the primary and secondary blend weights do not sum to 1.0.
var ErrWeightSplit = errors.New("primary and secondary weights must sum to 1.0")

const weightSplitEpsilon = 1e-9

// Config holds the tunables of a scoring pass. A Config must not be mutated
// once handed to an Engine; the weight table is read-only during evaluation.
type Config struct {
	// Weights maps criterion names to the points available for each.
	// Rules whose name is absent from this table are skipped.
	Weights map[string]float64 `mapstructure:"weights" json:"weights" validate:"dive,gte=0"`

	// ExperienceTolerance is the band, in years, below a numeric requirement
	// that still earns partial credit for preferable criteria.
	ExperienceTolerance float64 `mapstructure:"experience-tolerance" json:"experience_tolerance" validate:"gte=0"`

	// SalarySoftOverage is the fraction above the job's salary bound that
	// still earns partial credit for preferable criteria.
	SalarySoftOverage float64 `mapstructure:"salary-soft-overage" json:"salary_soft_overage" validate:"gte=0"`

	// PassThreshold is the minimum final score for a PASS decision.
	PassThreshold float64 `mapstructure:"pass-threshold" json:"pass_threshold" validate:"gte=0,lte=100"`

	// PrimaryWeight and SecondaryWeight blend the two scores and must sum to 1.0.
	PrimaryWeight   float64 `mapstructure:"primary-weight" json:"primary_weight" validate:"gte=0,lte=1"`
	SecondaryWeight float64 `mapstructure:"secondary-weight" json:"secondary_weight" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the built-in criterion weight table. The defaults
// total 100 points.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"location_relocation": 15,
		"years_experience":    20,
		"core_title_role":     15,
		"education":           10,
		"languages":           10,
		"employment_type":     10,
		"salary_range":        10,
		"required_skills":     10,
	}
}

// DefaultConfig returns the configuration used when no overrides are supplied.
func DefaultConfig() *Config {
	return &Config{
		Weights:             DefaultWeights(),
		ExperienceTolerance: 1.0,
		SalarySoftOverage:   0.1,
		PassThreshold:       70.0,
		PrimaryWeight:       0.8,
		SecondaryWeight:     0.2,
	}
}

// Validate checks the configuration before any rule runs. A failed
// validation rejects the whole scoring request.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("scoring configuration: %w", err)
	}

	if math.Abs(c.PrimaryWeight+c.SecondaryWeight-1.0) > weightSplitEpsilon {
		return fmt.Errorf("%w: got %g and %g", ErrWeightSplit, c.PrimaryWeight, c.SecondaryWeight)
	}

	return nil
}

var validate = validator.New()
