package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
	"github.com/yanqian/lifesure-gateway/internal/infra/config"
	"github.com/yanqian/lifesure-gateway/internal/infra/quotestore"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Offline tooling for the LifeSure gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEstimateCmd(), newOptionsCmd(), newTokenCmd())
	return root
}

type estimateFlags struct {
	base       float64
	age        int
	gender     string
	coverage   int64
	duration   int
	occupation string
	health     string
	smoker     bool
	asJSON     bool
}

func newEstimateCmd() *cobra.Command {
	var f estimateFlags
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a premium without a policy lookup",
		Long: `Runs the premium estimator against a base monthly premium.

Example:
  quotectl estimate --base 50 --age 30 --gender male --coverage 100000 --duration 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd.OutOrStdout(), f)
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&f.base, "base", 0, "base monthly premium of the policy")
	flags.IntVar(&f.age, "age", 30, "applicant age")
	flags.StringVar(&f.gender, "gender", string(quote.GenderMale), "male, female or other")
	flags.Int64Var(&f.coverage, "coverage", 100000, "coverage amount")
	flags.IntVar(&f.duration, "duration", 10, "policy term in years")
	flags.StringVar(&f.occupation, "occupation", string(quote.OccupationLow), "low, moderate or high")
	flags.StringVar(&f.health, "health", string(quote.HealthExcellent), "excellent, good, fair or poor")
	flags.BoolVar(&f.smoker, "smoker", false, "applicant smokes")
	flags.BoolVar(&f.asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

func runEstimate(out io.Writer, f estimateFlags) error {
	svc := quote.NewService(quote.Config{}, nil, quotestore.NewMemoryStore(), discardLogger())
	res, err := svc.CalculateStandalone(quote.QuoteRequest{
		Age:            f.age,
		Gender:         quote.Gender(f.gender),
		CoverageAmount: f.coverage,
		Duration:       f.duration,
		Smoker:         f.smoker,
		OccupationRisk: quote.OccupationRisk(f.occupation),
		HealthRating:   quote.HealthRating(f.health),
	}, f.base)
	if err != nil {
		return err
	}
	if f.asJSON {
		return writeJSON(out, res)
	}
	fmt.Fprintf(out, "monthly: %d\n", res.MonthlyPremium)
	fmt.Fprintf(out, "annual:  %d\n", res.AnnualPremium)
	fmt.Fprintf(out, "total:   %d (%d years)\n", res.TotalPremium, res.Request.Duration)
	if res.FloorApplied {
		fmt.Fprintf(out, "minimum monthly premium of %d applied\n", quote.MinimumMonthlyPremium)
	}
	fa := res.Factors
	fmt.Fprintf(out, "factors: coverage=%.2f age=%.2f gender=%.2f smoker=%.2f health=%.2f duration=%.2f occupation=%.2f\n",
		fa.Coverage, fa.Age, fa.Gender, fa.Smoker, fa.Health, fa.Duration, fa.Occupation)
	return nil
}

func newOptionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the selectable quote options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := quote.DefaultOptions()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, opts)
			}
			fmt.Fprintf(out, "ages:        %d-%d\n", opts.MinAge, opts.MaxAge)
			fmt.Fprintf(out, "coverage:    %s\n", joinInts(opts.CoverageAmounts))
			fmt.Fprintf(out, "durations:   %s\n", joinInts(opts.Durations))
			fmt.Fprintf(out, "genders:     %s\n", joinStrings(opts.Genders))
			fmt.Fprintf(out, "occupations: %s\n", joinStrings(opts.OccupationRisks))
			fmt.Fprintf(out, "health:      %s\n", joinStrings(opts.HealthRatings))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token with the configured secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			svc := auth.NewService(auth.Config{
				Secret:   cfg.Auth.Secret,
				Issuer:   cfg.Auth.Issuer,
				TokenTTL: cfg.Auth.TokenTTL,
			}, discardLogger())
			token, err := svc.IssueToken(context.Background(), auth.IssueRequest{
				UserID: userID,
				Email:  email,
				Role:   auth.Role(strings.ToLower(role)),
				TTL:    ttl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&userID, "user", "", "subject user id")
	flags.StringVar(&email, "email", "", "email claim")
	flags.StringVar(&role, "role", string(auth.RoleCustomer), "customer, agent or admin")
	flags.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to auth.tokenTtl")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// discardLogger keeps service logs off the command output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func joinInts[T int | int64](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func joinStrings[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
