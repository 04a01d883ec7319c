package customers

import (
	"context"
	"fmt"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest, createdBy int64) (*Customer, error) {
	customer := Customer{
		Name:      req.Name,
		Contact:   req.Contact,
		Phone:     req.Phone,
		Email:     req.Email,
		VATNumber: req.VATNumber,
		CRNumber:  req.CRNumber,
		Notes:     req.Notes,
		CreatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Contact != nil {
		updates["contact"] = *req.Contact
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.VATNumber != nil {
		updates["vat_number"] = *req.VATNumber
	}
	if req.CRNumber != nil {
		updates["cr_number"] = *req.CRNumber
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Resolve returns the snapshot form of a customer for embedding into
// documents.
func (s *Service) Resolve(ctx context.Context, id int64) (pricing.CustomerRef, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return pricing.CustomerRef{}, err
	}
	return c.Ref(), nil
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}
