package policyrepo

import (
	"time"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
)

// DemoCatalog is the catalog served when no backend is configured.
func DemoCatalog(now time.Time) []policy.Policy {
	return []policy.Policy{
		{
			Title:       "Term Life Shield",
			Category:    "term-life",
			Description: "Level cover for a fixed term with no cash value.",
			MinAge:      18,
			MaxAge:      65,
			MinCoverage: 50000,
			MaxCoverage: 2000000,
			BasePremium: 25,
			Duration:    "5-30 years",
			CreatedAt:   now.Add(-3 * time.Hour),
			UpdatedAt:   now.Add(-3 * time.Hour),
		},
		{
			Title:       "Whole Life Legacy",
			Category:    "whole-life",
			Description: "Lifetime protection that builds cash value.",
			MinAge:      18,
			MaxAge:      70,
			MinCoverage: 100000,
			MaxCoverage: 1000000,
			BasePremium: 60,
			Duration:    "Lifetime",
			CreatedAt:   now.Add(-2 * time.Hour),
			UpdatedAt:   now.Add(-2 * time.Hour),
		},
		{
			Title:       "Senior Care Plan",
			Category:    "senior",
			Description: "Final expense cover for older applicants.",
			MinAge:      50,
			MaxAge:      80,
			MinCoverage: 50000,
			MaxCoverage: 250000,
			BasePremium: 45,
			Duration:    "10-20 years",
			CreatedAt:   now.Add(-time.Hour),
			UpdatedAt:   now.Add(-time.Hour),
		},
		{
			Title:       "Family Protector",
			Category:    "family",
			Description: "Joint cover for couples with children.",
			MinAge:      21,
			MaxAge:      60,
			MinCoverage: 250000,
			MaxCoverage: 2000000,
			BasePremium: 40,
			Duration:    "10-25 years",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
