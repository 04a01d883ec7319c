package proposals

import (
	"context"
	"fmt"
	"time"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
	"github.com/vantage-admin/vantage-admin/internal/shared"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateProposalRequest, actor shared.Actor) (*Proposal, error) {
	p := Proposal{
		Title:          req.Title,
		CustomerID:     req.CustomerID,
		Customer:       req.Customer,
		DurationMonths: req.DurationMonths,
		PaymentTerms:   req.PaymentTerms,
		CurrentVersion: "1.0",
		VersionHistory: []VersionEntry{{
			Version:     "1.0",
			Date:        s.now(),
			Author:      actor.Name,
			Description: "Initial version",
		}},
		CreatedBy: actor.UserID,
	}
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Proposal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProposalsRequest) ([]Proposal, int, error) {
	return s.repo.List(ctx, req)
}

// SaveCommercialItems replaces the proposal's commercial items and rebuilds
// the embedded quotation snapshot from them. The snapshot always uses the
// fixed standard VAT rate; the rate is not editable in the proposal flow.
// Read and write share one transaction so the snapshot is always built from
// the customer the write lands next to.
func (s *Service) SaveCommercialItems(ctx context.Context, id int64, req SaveCommercialItemsRequest, actor shared.Actor) (*Proposal, error) {
	var out *Proposal
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get proposal: %w", err)
		}

		sections := toSections(req.Sections)
		snapshot := pricing.BuildSnapshot(pricing.Sectioned(sections), req.Discount, pricing.StandardVATRate)
		snapshot.Customer = existing.Customer
		snapshot.Date = s.now()
		snapshot.Terms = req.PaymentTerms
		snapshot.Notes = durationNote(req.DurationMonths)

		embedded := snapshot.ToProposalExport()

		if err := tx.SaveCommercialItems(ctx, id, sections, &embedded, req.PaymentTerms, req.DurationMonths, actor.UserID); err != nil {
			return fmt.Errorf("save commercial items: %w", err)
		}
		out, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateVersion records a new version label. The new entry is prepended so
// the latest version reads first; existing entries are never rewritten. The
// history read and the write happen in one transaction so two concurrent
// updates cannot both extend the same base history and drop an entry.
func (s *Service) UpdateVersion(ctx context.Context, id int64, req UpdateVersionRequest, actor shared.Actor) (*Proposal, error) {
	var out *Proposal
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get proposal: %w", err)
		}

		entry := VersionEntry{
			Version:     req.Version,
			Date:        s.now(),
			Author:      actor.Name,
			Description: req.Description,
		}
		history := append([]VersionEntry{entry}, existing.VersionHistory...)

		if err := tx.UpdateVersion(ctx, id, req.Version, history, actor.UserID); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
		out, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func durationNote(months int) string {
	if months <= 0 {
		return ""
	}
	if months == 1 {
		return "Project duration: 1 month"
	}
	return fmt.Sprintf("Project duration: %d months", months)
}
