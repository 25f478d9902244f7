package court

import (
	"context"
	"strings"
)

// CreateRequest carries the fields needed to onboard a court. Multipliers
// default to 1.0 when left at zero.
type CreateRequest struct {
	Name                  string
	BasePrice             int64
	DynamicPricingEnabled bool
	PeakHoursMultiplier   float64
	WeekendMultiplier     float64
}

// UpdateRequest updates display fields outside the pricing configuration.
type UpdateRequest struct {
	Name *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Court, error)
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Court, error)
	Delete(ctx context.Context, id string) error

	// Replace persists the whole aggregate, pricing configuration and
	// special periods included, guarded by the optimistic Version token.
	Replace(ctx context.Context, c *Court) (*Court, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Court, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.BasePrice < 0 {
		return nil, ErrNegativeBasePrice
	}
	if req.PeakHoursMultiplier == 0 {
		req.PeakHoursMultiplier = 1.0
	}
	if req.WeekendMultiplier == 0 {
		req.WeekendMultiplier = 1.0
	}
	if req.PeakHoursMultiplier <= 0 || req.WeekendMultiplier <= 0 {
		return nil, ErrInvalidMultiplier
	}

	c := &Court{
		Name:                  strings.TrimSpace(req.Name),
		BasePrice:             req.BasePrice,
		DynamicPricingEnabled: req.DynamicPricingEnabled,
		PeakHoursMultiplier:   req.PeakHoursMultiplier,
		WeekendMultiplier:     req.WeekendMultiplier,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		next := *c
		next.Name = strings.TrimSpace(*req.Name)
		return s.repo.Replace(ctx, &next)
	}

	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Replace(ctx context.Context, c *Court) (*Court, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Replace(ctx, c)
}
