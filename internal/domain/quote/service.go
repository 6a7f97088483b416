package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
	"github.com/yanqian/lifesure-gateway/pkg/util"
)

// DefaultCacheTTL applies when Config.CacheTTL is unset.
const DefaultCacheTTL = 30 * time.Minute

// Service computes premium quotes and keeps them around for application pre-fill.
type Service interface {
	Options() Options
	Calculate(ctx context.Context, req CalculateRequest) (Quote, error)
	CalculateStandalone(req QuoteRequest, basePremium float64) (Result, error)
	Get(ctx context.Context, id string) (Quote, error)
	Discard(ctx context.Context, id string) error
}

// PolicyLookup resolves the policy a quote is priced against.
type PolicyLookup interface {
	Get(ctx context.Context, id string) (policy.Policy, error)
}

type service struct {
	cfg      Config
	policies PolicyLookup
	store    Store
	logger   *slog.Logger
	now      util.Clock
}

// NewService wires the quote domain.
func NewService(cfg Config, policies PolicyLookup, store Store, logger *slog.Logger) Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &service{
		cfg:      cfg,
		policies: policies,
		store:    store,
		logger:   logger.With("component", "quote.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Options() Options {
	return DefaultOptions()
}

func (s *service) Calculate(ctx context.Context, req CalculateRequest) (Quote, error) {
	policyID := strings.TrimSpace(req.PolicyID)
	if policyID == "" {
		return Quote{}, apperrors.Wrap(apperrors.CodeInvalidInput, "policyId is required", nil)
	}
	input := req.Request.Normalized()
	if input.Age < MinApplicantAge || input.Age > MaxApplicantAge {
		return Quote{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("age must be between %d and %d", MinApplicantAge, MaxApplicantAge), nil)
	}

	p, err := s.policies.Get(ctx, policyID)
	if err != nil {
		return Quote{}, err
	}

	now := s.now()
	result, err := Estimate(p.BasePremium, input, now)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		ID:          uuid.NewString(),
		PolicyID:    p.ID,
		PolicyTitle: p.Title,
		UserID:      req.UserID,
		Eligible:    true,
		ExpiresAt:   now.Add(s.cfg.CacheTTL),
		Result:      result,
	}
	if note := eligibilityNote(p, input); note != "" {
		q.Eligible = false
		q.EligibilityNote = note
	}

	if err := s.store.Save(ctx, q, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache quote", "quote_id", q.ID, "error", err)
	}
	s.logger.Info("quote calculated",
		"quote_id", q.ID,
		"policy_id", q.PolicyID,
		"monthly", q.MonthlyPremium,
		"eligible", q.Eligible,
	)
	return q, nil
}

func (s *service) CalculateStandalone(req QuoteRequest, basePremium float64) (Result, error) {
	return Estimate(basePremium, req, s.now())
}

func (s *service) Get(ctx context.Context, id string) (Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Quote{}, apperrors.Wrap(apperrors.CodeInvalidInput, "quote id is required", nil)
	}
	q, found, err := s.store.Get(ctx, id)
	if err != nil {
		return Quote{}, apperrors.Wrap(apperrors.CodeCache, "failed to load quote", err)
	}
	if !found {
		return Quote{}, apperrors.Wrap(apperrors.CodeNotFound, "quote not found or expired", nil)
	}
	return q, nil
}

func (s *service) Discard(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "quote id is required", nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "failed to discard quote", err)
	}
	return nil
}

func eligibilityNote(p policy.Policy, req QuoteRequest) string {
	if !p.EligibleAge(req.Age) {
		return fmt.Sprintf("age %d is outside the policy range %d-%d", req.Age, p.MinAge, p.MaxAge)
	}
	if !p.EligibleCoverage(req.CoverageAmount) {
		return fmt.Sprintf("coverage %d is outside the policy range %d-%d", req.CoverageAmount, p.MinCoverage, p.MaxCoverage)
	}
	return ""
}
