package application

import (
	"time"

	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

// Status tracks an application through review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Applicant holds the personal details entered on the application form.
type Applicant struct {
	FullName    string       `json:"fullName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	NationalID  string       `json:"nationalId"`
	Address     string       `json:"address"`
	DateOfBirth string       `json:"dateOfBirth,omitempty"`
	Age         int          `json:"age"`
	Gender      quote.Gender `json:"gender"`
}

// Nominee receives the benefit.
type Nominee struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	NationalID   string `json:"nationalId,omitempty"`
}

// Application is a customer's request for cover under a policy.
type Application struct {
	ID             string    `json:"id"`
	PolicyID       string    `json:"policyId"`
	PolicyTitle    string    `json:"policyTitle"`
	UserID         string    `json:"userId"`
	AgentID        string    `json:"agentId,omitempty"`
	QuoteID        string    `json:"quoteId,omitempty"`
	Applicant      Applicant `json:"applicant"`
	Nominee        Nominee   `json:"nominee"`
	CoverageAmount int64     `json:"coverageAmount"`
	Duration       int       `json:"duration"`
	Smoker         bool      `json:"smoker"`
	MonthlyPremium int64     `json:"monthlyPremium"`
	AnnualPremium  int64     `json:"annualPremium"`
	Status         Status    `json:"status"`
	Feedback       string    `json:"feedback,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Draft pre-fills the application form from a cached quote.
type Draft struct {
	QuoteID        string       `json:"quoteId"`
	PolicyID       string       `json:"policyId"`
	PolicyTitle    string       `json:"policyTitle"`
	Age            int          `json:"age"`
	Gender         quote.Gender `json:"gender"`
	CoverageAmount int64        `json:"coverageAmount"`
	Duration       int          `json:"duration"`
	Smoker         bool         `json:"smoker"`
	MonthlyPremium int64        `json:"monthlyPremium"`
	AnnualPremium  int64        `json:"annualPremium"`
	Eligible       bool         `json:"eligible"`
}

// SubmitRequest is the completed application form.
type SubmitRequest struct {
	QuoteID        string    `json:"quoteId,omitempty"`
	PolicyID       string    `json:"policyId"`
	Applicant      Applicant `json:"applicant"`
	Nominee        Nominee   `json:"nominee"`
	CoverageAmount int64     `json:"coverageAmount"`
	Duration       int       `json:"duration"`
	Smoker         bool      `json:"smoker"`
}

// StatusUpdate is an agent's review decision.
type StatusUpdate struct {
	Status   Status `json:"status"`
	Feedback string `json:"feedback"`
}

// Actor identifies who performs a review action.
type Actor struct {
	ID    string
	Admin bool
}

// Counts tallies applications by status.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Tally counts apps by status.
func Tally(apps []Application) Counts {
	c := Counts{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}
