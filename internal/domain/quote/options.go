package quote

const (
	// MinApplicantAge and MaxApplicantAge bound the age the quote form accepts.
	MinApplicantAge = 18
	MaxApplicantAge = 80
)

// DefaultOptions returns the fixed choices rendered by the quote form.
func DefaultOptions() Options {
	return Options{
		CoverageAmounts: []int64{50000, 100000, 250000, 500000, 1000000, 2000000},
		Durations:       []int{5, 10, 15, 20, 25, 30},
		Genders:         []Gender{GenderMale, GenderFemale, GenderOther},
		OccupationRisks: []OccupationRisk{OccupationLow, OccupationModerate, OccupationHigh},
		HealthRatings:   []HealthRating{HealthExcellent, HealthGood, HealthFair, HealthPoor},
		MinAge:          MinApplicantAge,
		MaxAge:          MaxApplicantAge,
	}
}
