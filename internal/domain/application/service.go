package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
	"github.com/yanqian/lifesure-gateway/pkg/util"
)

// Service manages the application lifecycle.
type Service interface {
	Prefill(ctx context.Context, quoteID string) (Draft, error)
	Submit(ctx context.Context, userID string, req SubmitRequest) (Application, error)
	ListMine(ctx context.Context, userID string) ([]Application, error)
	ListAssigned(ctx context.Context, agentID string) ([]Application, error)
	ListAll(ctx context.Context) ([]Application, error)
	AssignAgent(ctx context.Context, id, agentID string) (Application, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, update StatusUpdate) (Application, error)
}

type service struct {
	repo     Repository
	policies PolicyCatalog
	quotes   QuoteSource
	logger   *slog.Logger
	now      util.Clock
}

// NewService wires the applications domain.
func NewService(repo Repository, policies PolicyCatalog, quotes QuoteSource, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		policies: policies,
		quotes:   quotes,
		logger:   logger.With("component", "application.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Prefill(ctx context.Context, quoteID string) (Draft, error) {
	q, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		return Draft{}, err
	}
	return Draft{
		QuoteID:        q.ID,
		PolicyID:       q.PolicyID,
		PolicyTitle:    q.PolicyTitle,
		Age:            q.Request.Age,
		Gender:         q.Request.Gender,
		CoverageAmount: q.Request.CoverageAmount,
		Duration:       q.Request.Duration,
		Smoker:         q.Request.Smoker,
		MonthlyPremium: q.MonthlyPremium,
		AnnualPremium:  q.AnnualPremium,
		Eligible:       q.Eligible,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitRequest) (Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Application{}, apperrors.Wrap(apperrors.CodeUnauthorized, "user is required", nil)
	}
	req = normalizeSubmit(req)

	var q *quote.Quote
	if req.QuoteID != "" {
		loaded, err := s.quotes.Get(ctx, req.QuoteID)
		if err != nil {
			return Application{}, err
		}
		if loaded.UserID != "" && loaded.UserID != userID {
			return Application{}, apperrors.Wrap(apperrors.CodeForbidden, "quote belongs to another user", nil)
		}
		if !loaded.Eligible {
			return Application{}, apperrors.Wrap(apperrors.CodeInvalidInput, "quote is not eligible: "+loaded.EligibilityNote, nil)
		}
		q = &loaded
		req.PolicyID = loaded.PolicyID
		req.CoverageAmount = loaded.Request.CoverageAmount
		req.Duration = loaded.Request.Duration
		req.Smoker = loaded.Request.Smoker
		req.Applicant.Age = loaded.Request.Age
		if req.Applicant.Gender == "" {
			req.Applicant.Gender = loaded.Request.Gender
		}
	}
	if err := validateSubmit(req); err != nil {
		return Application{}, err
	}

	p, err := s.policies.Get(ctx, req.PolicyID)
	if err != nil {
		return Application{}, err
	}
	if !p.EligibleAge(req.Applicant.Age) {
		return Application{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("applicant age must be between %d and %d", p.MinAge, p.MaxAge), nil)
	}

	now := s.now()
	app := Application{
		PolicyID:       p.ID,
		PolicyTitle:    p.Title,
		UserID:         userID,
		Applicant:      req.Applicant,
		Nominee:        req.Nominee,
		CoverageAmount: req.CoverageAmount,
		Duration:       req.Duration,
		Smoker:         req.Smoker,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if q != nil {
		app.QuoteID = q.ID
		app.MonthlyPremium = q.MonthlyPremium
		app.AnnualPremium = q.AnnualPremium
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return Application{}, err
	}
	if err := s.policies.IncrementApplications(ctx, p.ID); err != nil {
		s.logger.Warn("failed to bump application count", "policy_id", p.ID, "error", err)
	}
	s.logger.Info("application submitted", "application_id", created.ID, "policy_id", p.ID, "user_id", userID)
	return created, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]Application, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "user is required", nil)
	}
	return nonNil(s.repo.ListByUser(ctx, userID))
}

func (s *service) ListAssigned(ctx context.Context, agentID string) ([]Application, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "agent is required", nil)
	}
	return nonNil(s.repo.ListByAgent(ctx, agentID))
}

func (s *service) ListAll(ctx context.Context) ([]Application, error) {
	return nonNil(s.repo.ListAll(ctx))
}

func (s *service) AssignAgent(ctx context.Context, id, agentID string) (Application, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return Application{}, apperrors.Wrap(apperrors.CodeInvalidInput, "agentId is required", nil)
	}
	app, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Application{}, err
	}
	if app.Status.Terminal() {
		return Application{}, apperrors.Wrap(apperrors.CodeConflict, "application already "+string(app.Status), nil)
	}
	app.AgentID = agentID
	app.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, app)
	if err != nil {
		return Application{}, err
	}
	s.logger.Info("agent assigned", "application_id", updated.ID, "agent_id", agentID)
	return updated, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, id string, update StatusUpdate) (Application, error) {
	next := Status(strings.ToLower(strings.TrimSpace(string(update.Status))))
	if next != StatusApproved && next != StatusRejected {
		return Application{}, apperrors.Wrap(apperrors.CodeInvalidInput, "status must be approved or rejected", nil)
	}
	app, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Application{}, err
	}
	if !actor.Admin && app.AgentID != actor.ID {
		return Application{}, apperrors.Wrap(apperrors.CodeForbidden, "application is not assigned to you", nil)
	}
	if app.Status.Terminal() {
		return Application{}, apperrors.Wrap(apperrors.CodeConflict, "application already "+string(app.Status), nil)
	}
	app.Status = next
	app.Feedback = strings.TrimSpace(update.Feedback)
	app.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, app)
	if err != nil {
		return Application{}, err
	}
	s.logger.Info("application reviewed", "application_id", updated.ID, "status", next, "actor_id", actor.ID)
	return updated, nil
}

func normalizeSubmit(req SubmitRequest) SubmitRequest {
	req.QuoteID = strings.TrimSpace(req.QuoteID)
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	a := &req.Applicant
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	a.NationalID = strings.TrimSpace(a.NationalID)
	a.Address = strings.TrimSpace(a.Address)
	a.DateOfBirth = strings.TrimSpace(a.DateOfBirth)
	a.Gender = quote.Gender(strings.ToLower(strings.TrimSpace(string(a.Gender))))
	n := &req.Nominee
	n.Name = strings.TrimSpace(n.Name)
	n.Relationship = strings.TrimSpace(n.Relationship)
	n.NationalID = strings.TrimSpace(n.NationalID)
	return req
}

func validateSubmit(req SubmitRequest) error {
	invalid := func(msg string) error {
		return apperrors.Wrap(apperrors.CodeInvalidInput, msg, nil)
	}
	switch {
	case req.PolicyID == "":
		return invalid("policyId is required")
	case req.Applicant.FullName == "":
		return invalid("applicant full name is required")
	case req.Applicant.NationalID == "":
		return invalid("applicant national id is required")
	case req.Applicant.Address == "":
		return invalid("applicant address is required")
	case req.Nominee.Name == "":
		return invalid("nominee name is required")
	case req.Nominee.Relationship == "":
		return invalid("nominee relationship is required")
	case req.CoverageAmount <= 0:
		return invalid("coverageAmount must be positive")
	case req.Duration <= 0:
		return invalid("duration must be positive")
	case req.Applicant.Age < quote.MinApplicantAge || req.Applicant.Age > quote.MaxApplicantAge:
		return invalid(fmt.Sprintf("applicant age must be between %d and %d", quote.MinApplicantAge, quote.MaxApplicantAge))
	}
	if _, err := mail.ParseAddress(req.Applicant.Email); err != nil {
		return invalid("applicant email is invalid")
	}
	return nil
}

func nonNil(apps []Application, err error) ([]Application, error) {
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []Application{}
	}
	return apps, nil
}
