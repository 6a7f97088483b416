package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
	"github.com/yanqian/lifesure-gateway/pkg/util"
)

// MaxImageBytes caps uploaded policy images.
const MaxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Service exposes the policy catalog.
type Service interface {
	List(ctx context.Context, filter Filter) (Page, error)
	Get(ctx context.Context, id string) (Policy, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in Input) (Policy, error)
	Update(ctx context.Context, id string, in Input) (Policy, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, img Image) (Policy, error)
}

type service struct {
	repo   Repository
	images ImageStorage
	logger *slog.Logger
	now    util.Clock
}

// NewService constructs the catalog service.
func NewService(repo Repository, images ImageStorage, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		images: images,
		logger: logger.With("component", "policy.service"),
		now:    util.NowUTC,
	}
}

func (s *service) List(ctx context.Context, filter Filter) (Page, error) {
	filter = filter.Normalize()
	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	page.Page = filter.Page
	page.Limit = filter.Limit
	if page.Items == nil {
		page.Items = []Policy{}
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id string) (Policy, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Policy{}, apperrors.Wrap(apperrors.CodeInvalidInput, "policy id is required", nil)
	}
	return s.repo.Get(ctx, id)
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	raw, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *service) Create(ctx context.Context, in Input) (Policy, error) {
	p := in.apply(Policy{})
	if err := validate(p); err != nil {
		return Policy{}, err
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Policy{}, err
	}
	s.logger.Info("policy created", "policy_id", created.ID, "category", created.Category)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, in Input) (Policy, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	p := in.apply(current)
	if err := validate(p); err != nil {
		return Policy{}, err
	}
	p.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Policy{}, err
	}
	s.logger.Info("policy updated", "policy_id", updated.ID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		return err
	}
	if current.ImageKey != "" {
		if err := s.images.Delete(ctx, current.ImageKey); err != nil {
			s.logger.Warn("failed to delete policy image", "policy_id", current.ID, "key", current.ImageKey, "error", err)
		}
	}
	s.logger.Info("policy deleted", "policy_id", current.ID)
	return nil
}

func (s *service) UploadImage(ctx context.Context, id string, img Image) (Policy, error) {
	if len(img.Data) == 0 {
		return Policy{}, apperrors.Wrap(apperrors.CodeInvalidInput, "image is empty", nil)
	}
	if len(img.Data) > MaxImageBytes {
		return Policy{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("image exceeds %d bytes", MaxImageBytes), nil)
	}
	contentType := strings.ToLower(strings.TrimSpace(img.ContentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return Policy{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported image type", nil)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Policy{}, err
	}

	key := path.Join("policies", current.ID, uuid.NewString()+ext)
	url, err := s.images.Put(ctx, key, img.Data, contentType)
	if err != nil {
		return Policy{}, apperrors.Wrap(apperrors.CodeStorage, "failed to store image", err)
	}
	previous := current.ImageKey
	current.ImageURL = url
	current.ImageKey = key
	current.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to clean up orphan image", "key", key, "error", delErr)
		}
		return Policy{}, err
	}
	if previous != "" && previous != key {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete replaced image", "policy_id", current.ID, "key", previous, "error", err)
		}
	}
	s.logger.Info("policy image uploaded", "policy_id", updated.ID, "bytes", len(img.Data))
	return updated, nil
}

func validate(p Policy) error {
	switch {
	case p.Title == "":
		return apperrors.Wrap(apperrors.CodeInvalidInput, "title is required", nil)
	case p.Category == "":
		return apperrors.Wrap(apperrors.CodeInvalidInput, "category is required", nil)
	case p.BasePremium <= 0:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "basePremium must be positive", nil)
	case p.MinAge <= 0 || p.MaxAge < p.MinAge:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "age range is invalid", nil)
	case p.MinCoverage <= 0 || p.MaxCoverage < p.MinCoverage:
		return apperrors.Wrap(apperrors.CodeInvalidInput, "coverage range is invalid", nil)
	}
	return nil
}
