package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
	"github.com/vantage-admin/vantage-admin/jobs"
)

var (
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrExportBlocked = errors.New("export blocked")
)

// TaskEnqueuer is the slice of asynq.Client the service needs. Enqueues are
// fire-and-forget: a failed enqueue is logged, never surfaced to the save
// path.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CustomerResolver looks up the snapshot form of a registered customer.
type CustomerResolver interface {
	Resolve(ctx context.Context, id int64) (pricing.CustomerRef, error)
}

type Service struct {
	repo      Repository
	numbers   *NumberGenerator
	customers CustomerResolver
	tasks     TaskEnqueuer
	logger    *slog.Logger
}

func NewService(repo Repository, numbers *NumberGenerator, customers CustomerResolver, tasks TaskEnqueuer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		numbers:   numbers,
		customers: customers,
		tasks:     tasks,
		logger:    logger,
	}
}

// Save persists an editing session's document. Identity is the quote
// number: a request carrying an existing number replaces that record in
// place, anything else creates a new record. There is no separate
// create/update mode flag.
func (s *Service) Save(ctx context.Context, req SaveQuotationRequest, actorID int64) (*Quotation, error) {
	if !req.ValidUntil.IsZero() && !req.IssueDate.IsZero() && req.ValidUntil.Before(req.IssueDate) {
		return nil, fmt.Errorf("valid_until must not be before issue_date")
	}

	col := toCollection(req.LineItems, req.Sections)

	// Variable-rate mode: the quotation editor lets the user set the rate,
	// defaulting to zero when untouched.
	var taxRate float64
	if req.TaxRate != nil {
		taxRate = pricing.CoerceNumber(*req.TaxRate)
	}

	// The payload may carry the customer inline or reference the registry;
	// an inline name always wins so ad hoc recipients stay possible.
	customer := req.Customer
	if customer.Name == "" && req.CustomerID != nil && s.customers != nil {
		resolved, err := s.customers.Resolve(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("resolve customer: %w", err)
		}
		customer = resolved
	}

	snapshot := pricing.BuildSnapshot(col, req.Discount, taxRate)
	snapshot.Customer = customer
	snapshot.Date = req.IssueDate
	snapshot.ValidUntil = req.ValidUntil
	snapshot.Currency = req.Currency
	snapshot.Terms = req.Terms
	snapshot.Notes = req.Notes

	number := req.QuoteNumber
	if number == "" {
		number = s.numbers.Next(ctx)
	}
	snapshot.Number = number

	q := Quotation{
		QuoteNumber: number,
		CustomerID:  req.CustomerID,
		IssueDate:   req.IssueDate,
		ValidUntil:  req.ValidUntil,
		Status:      StatusDraft,
		Currency:    req.Currency,
		Document:    snapshot,
		Terms:       req.Terms,
		Notes:       req.Notes,
		CreatedBy:   actorID,
	}

	saved, err := s.repo.Upsert(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("save quotation: %w", err)
	}

	s.enqueueRender(saved)
	return saved, nil
}

// Preview computes totals for an in-flight document without persisting.
func (s *Service) Preview(req PreviewRequest) pricing.Totals {
	var taxRate float64
	if req.TaxRate != nil {
		taxRate = pricing.CoerceNumber(*req.TaxRate)
	}
	return pricing.Compute(toCollection(req.LineItems, req.Sections), req.Discount, taxRate)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	return s.repo.List(ctx, req)
}

// Send marks a draft as sent to the customer.
func (s *Service) Send(ctx context.Context, id int64) (*Quotation, error) {
	return s.transition(ctx, id, StatusSent, StatusDraft)
}

// Approve marks a sent quotation as approved.
func (s *Service) Approve(ctx context.Context, id int64) (*Quotation, error) {
	return s.transition(ctx, id, StatusApproved, StatusSent)
}

// Reject marks a sent quotation as rejected.
func (s *Service) Reject(ctx context.Context, id int64) (*Quotation, error) {
	return s.transition(ctx, id, StatusRejected, StatusSent)
}

// transition checks the current status and writes the new one inside a
// single transaction, so two concurrent transitions cannot both pass the
// guard against the same stale read.
func (s *Service) transition(ctx context.Context, id int64, to Status, allowedFrom ...Status) (*Quotation, error) {
	var out *Quotation
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get quotation: %w", err)
		}
		ok := false
		for _, from := range allowedFrom {
			if existing.Status == from {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, existing.Status, to)
		}
		if err := tx.UpdateStatus(ctx, id, to); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		out, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateForExport checks the preconditions the export flow enforces
// before rendering. The pricing computation itself never raises these.
func (s *Service) ValidateForExport(q *Quotation) error {
	if q.Document.Customer.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrExportBlocked)
	}
	if len(q.Document.Lines) == 0 {
		return fmt.Errorf("%w: document has no line items", ErrExportBlocked)
	}
	if q.Document.Totals.GrandTotal == 0 {
		return fmt.Errorf("%w: document total is zero", ErrExportBlocked)
	}
	return nil
}

// Email queues delivery of the rendered quotation. Unlike the render
// enqueue after save, a failure here is surfaced: the caller explicitly
// asked for the email.
func (s *Service) Email(ctx context.Context, id int64, to, subject string) error {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get quotation: %w", err)
	}
	if err := s.ValidateForExport(q); err != nil {
		return err
	}
	if s.tasks == nil {
		return errors.New("background jobs unavailable")
	}
	if subject == "" {
		subject = fmt.Sprintf("Quotation %s", q.QuoteNumber)
	}
	task, err := jobs.NewEmailQuotationTask(jobs.EmailQuotationPayload{
		QuotationID: q.ID,
		To:          to,
		Subject:     subject,
	})
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	if _, err := s.tasks.Enqueue(task); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

func (s *Service) enqueueRender(q *Quotation) {
	if s.tasks == nil {
		return
	}
	task, err := jobs.NewRenderQuotationPDFTask(jobs.RenderQuotationPDFPayload{
		QuotationID: q.ID,
		QuoteNumber: q.QuoteNumber,
	})
	if err != nil {
		s.logger.Error("build render task", slog.Any("error", err))
		return
	}
	if _, err := s.tasks.Enqueue(task); err != nil {
		s.logger.Warn("enqueue render task", slog.String("quote_number", q.QuoteNumber), slog.Any("error", err))
	}
}
