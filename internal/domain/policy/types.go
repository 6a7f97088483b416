package policy

import (
	"math"
	"strings"
	"time"
)

const (
	DefaultPageLimit = 9
	MaxPageLimit     = 50
)

// Policy is a catalog entry offered to customers.
type Policy struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	MinAge           int       `json:"minAge"`
	MaxAge           int       `json:"maxAge"`
	MinCoverage      int64     `json:"minCoverage"`
	MaxCoverage      int64     `json:"maxCoverage"`
	BasePremium      float64   `json:"basePremium"`
	Duration         string    `json:"duration"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	ImageKey         string    `json:"imageKey,omitempty"`
	ApplicationCount int       `json:"applicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Input carries the admin-editable fields of a policy.
type Input struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	MinAge      int     `json:"minAge"`
	MaxAge      int     `json:"maxAge"`
	MinCoverage int64   `json:"minCoverage"`
	MaxCoverage int64   `json:"maxCoverage"`
	BasePremium float64 `json:"basePremium"`
	Duration    string  `json:"duration"`
}

// Filter narrows a catalog listing.
type Filter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// Page is one slice of a catalog listing.
type Page struct {
	Items []Policy `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

// Image is an uploaded policy picture.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Normalize clamps paging and trims the text fields.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	// keeps Offset from overflowing
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

// Offset is the index of the first item on the filter's page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Matches reports whether p satisfies the category and search terms.
func (f Filter) Matches(p Policy) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// EligibleAge reports whether age falls inside the policy's range.
// Unset bounds are ignored.
func (p Policy) EligibleAge(age int) bool {
	if p.MinAge > 0 && age < p.MinAge {
		return false
	}
	if p.MaxAge > 0 && age > p.MaxAge {
		return false
	}
	return true
}

// EligibleCoverage reports whether amount falls inside the policy's range.
func (p Policy) EligibleCoverage(amount int64) bool {
	if p.MinCoverage > 0 && amount < p.MinCoverage {
		return false
	}
	if p.MaxCoverage > 0 && amount > p.MaxCoverage {
		return false
	}
	return true
}

func (in Input) apply(p Policy) Policy {
	p.Title = strings.TrimSpace(in.Title)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = strings.TrimSpace(in.Description)
	p.MinAge = in.MinAge
	p.MaxAge = in.MaxAge
	p.MinCoverage = in.MinCoverage
	p.MaxCoverage = in.MaxCoverage
	p.BasePremium = in.BasePremium
	p.Duration = strings.TrimSpace(in.Duration)
	return p
}
