package quote

import (
	"math"
	"time"
)

const (
	// MinimumMonthlyPremium is the floor applied after rounding.
	MinimumMonthlyPremium int64 = 50

	coverageUnit = 100000.0
)

// Estimate computes the monthly, annual and total premium for req against a
// policy base premium. It has no side effects; now is echoed into the result.
//
// Only basePremium, coverage and duration are validated. Age is banded over
// all integers and unrecognised categorical values use a 1.0 multiplier.
func Estimate(basePremium float64, req QuoteRequest, now time.Time) (Result, error) {
	if math.IsNaN(basePremium) || math.IsInf(basePremium, 0) {
		return Result{}, invalidField("basePremium", "must be a finite number")
	}
	if basePremium <= 0 {
		return Result{}, invalidField("basePremium", "must be positive")
	}
	if req.CoverageAmount <= 0 {
		return Result{}, invalidField("coverageAmount", "must be positive")
	}
	if req.Duration <= 0 {
		return Result{}, invalidField("duration", "must be positive")
	}

	req = req.Normalized()
	factors := Factors{
		Coverage:   float64(req.CoverageAmount) / coverageUnit,
		Age:        ageMultiplier(req.Age),
		Gender:     req.Gender.multiplier(),
		Smoker:     smokerMultiplier(req.Smoker),
		Health:     req.HealthRating.multiplier(),
		Duration:   durationMultiplier(req.Duration),
		Occupation: req.OccupationRisk.multiplier(),
	}

	premium := basePremium * factors.Coverage
	premium *= factors.Age
	premium *= factors.Gender
	premium *= factors.Smoker
	premium *= factors.Health
	premium *= factors.Duration
	premium *= factors.Occupation

	monthly := int64(math.Round(premium))
	floored := false
	if monthly < MinimumMonthlyPremium {
		monthly = MinimumMonthlyPremium
		floored = true
	}
	annual := monthly * 12

	return Result{
		BasePremium:    basePremium,
		MonthlyPremium: monthly,
		AnnualPremium:  annual,
		TotalPremium:   annual * int64(req.Duration),
		FloorApplied:   floored,
		Factors:        factors,
		Request:        req,
		GeneratedAt:    now,
	}, nil
}

// bands are half-open and checked in ascending order
func ageMultiplier(age int) float64 {
	switch {
	case age < 25:
		return 0.8
	case age < 35:
		return 1.0
	case age < 45:
		return 1.3
	case age < 55:
		return 1.6
	case age < 65:
		return 2.0
	default:
		return 2.5
	}
}

func durationMultiplier(years int) float64 {
	switch {
	case years <= 10:
		return 1.0
	case years <= 20:
		return 0.95
	default:
		return 0.9
	}
}

func smokerMultiplier(smoker bool) float64 {
	if smoker {
		return 1.5
	}
	return 1.0
}

func (g Gender) multiplier() float64 {
	if g == GenderFemale {
		return 0.9
	}
	return 1.0
}

func (h HealthRating) multiplier() float64 {
	switch h {
	case HealthGood:
		return 1.1
	case HealthFair:
		return 1.3
	case HealthPoor:
		return 1.6
	default:
		return 1.0
	}
}

func (o OccupationRisk) multiplier() float64 {
	switch o {
	case OccupationModerate:
		return 1.2
	case OccupationHigh:
		return 1.5
	default:
		return 1.0
	}
}
