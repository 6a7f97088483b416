package quote

import (
	"strings"
	"time"
)

// Gender is the applicant's self-reported gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// HealthRating is the applicant's self-assessed health.
type HealthRating string

const (
	HealthExcellent HealthRating = "excellent"
	HealthGood      HealthRating = "good"
	HealthFair      HealthRating = "fair"
	HealthPoor      HealthRating = "poor"
)

// OccupationRisk classifies how hazardous the applicant's work is.
type OccupationRisk string

const (
	OccupationLow      OccupationRisk = "low"
	OccupationModerate OccupationRisk = "moderate"
	OccupationHigh     OccupationRisk = "high"
)

// QuoteRequest is the immutable set of applicant attributes a quote is computed from.
type QuoteRequest struct {
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	CoverageAmount int64          `json:"coverageAmount"`
	Duration       int            `json:"duration"`
	Smoker         bool           `json:"smoker"`
	OccupationRisk OccupationRisk `json:"occupationRisk"`
	HealthRating   HealthRating   `json:"healthRating"`
}

// Normalized lower-cases and trims the categorical fields. Values outside the
// known sets are kept as-is; the estimator treats them as neutral.
func (r QuoteRequest) Normalized() QuoteRequest {
	r.Gender = Gender(normalizeEnum(string(r.Gender)))
	r.OccupationRisk = OccupationRisk(normalizeEnum(string(r.OccupationRisk)))
	r.HealthRating = HealthRating(normalizeEnum(string(r.HealthRating)))
	return r
}

// Factors records every multiplier that went into a monthly premium.
type Factors struct {
	Coverage   float64 `json:"coverage"`
	Age        float64 `json:"age"`
	Gender     float64 `json:"gender"`
	Smoker     float64 `json:"smoker"`
	Health     float64 `json:"health"`
	Duration   float64 `json:"duration"`
	Occupation float64 `json:"occupation"`
}

// Result is the estimator output.
type Result struct {
	BasePremium    float64      `json:"basePremium"`
	MonthlyPremium int64        `json:"monthlyPremium"`
	AnnualPremium  int64        `json:"annualPremium"`
	TotalPremium   int64        `json:"totalPremium"`
	FloorApplied   bool         `json:"floorApplied"`
	Factors        Factors      `json:"factors"`
	Request        QuoteRequest `json:"request"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

// Quote is a Result bound to a policy and cached for pre-filling an application.
type Quote struct {
	ID              string    `json:"id"`
	PolicyID        string    `json:"policyId"`
	PolicyTitle     string    `json:"policyTitle"`
	UserID          string    `json:"userId,omitempty"`
	Eligible        bool      `json:"eligible"`
	EligibilityNote string    `json:"eligibilityNote,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Result
}

// CalculateRequest is accepted by Service.Calculate.
type CalculateRequest struct {
	PolicyID string       `json:"policyId"`
	Request  QuoteRequest `json:"request"`
	UserID   string       `json:"-"`
}

// Options lists the values the quote form offers.
type Options struct {
	CoverageAmounts []int64          `json:"coverageAmounts"`
	Durations       []int            `json:"durations"`
	Genders         []Gender         `json:"genders"`
	OccupationRisks []OccupationRisk `json:"occupationRisks"`
	HealthRatings   []HealthRating   `json:"healthRatings"`
	MinAge          int              `json:"minAge"`
	MaxAge          int              `json:"maxAge"`
}

// Config holds runtime knobs for the quote service.
type Config struct {
	CacheTTL time.Duration
}

func normalizeEnum(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
