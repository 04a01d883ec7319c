package quotations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	quotations map[int64]*Quotation
	byNumber   map[string]int64
	nextID     int64
	txCalls    int

	// Error injection
	txError     error
	getError    error
	upsertError error
	statusError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotations: make(map[int64]*Quotation),
		byNumber:   make(map[string]int64),
		nextID:     1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.txCalls++
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	q, ok := m.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockRepository) GetByNumber(ctx context.Context, quoteNumber string) (*Quotation, error) {
	id, ok := m.byNumber[quoteNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.quotations {
		if req.Status != nil && q.Status != *req.Status {
			continue
		}
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockRepository) Upsert(ctx context.Context, q Quotation) (*Quotation, error) {
	if m.upsertError != nil {
		return nil, m.upsertError
	}
	now := time.Now()
	if id, ok := m.byNumber[q.QuoteNumber]; ok {
		existing := m.quotations[id]
		q.ID = id
		q.Status = existing.Status
		q.CreatedAt = existing.CreatedAt
		q.UpdatedAt = now
	} else {
		q.ID = m.nextID
		m.nextID++
		q.CreatedAt = now
		q.UpdatedAt = now
		m.byNumber[q.QuoteNumber] = q.ID
	}
	stored := q
	m.quotations[q.ID] = &stored
	cp := q
	return &cp, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if m.statusError != nil {
		return m.statusError
	}
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	return nil
}

type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ============================================================================
// HELPERS
// ============================================================================

type mockResolver struct {
	refs map[int64]pricing.CustomerRef
}

func (m *mockResolver) Resolve(ctx context.Context, id int64) (pricing.CustomerRef, error) {
	ref, ok := m.refs[id]
	if !ok {
		return pricing.CustomerRef{}, ErrNotFound
	}
	return ref, nil
}

func newTestService(repo Repository, tasks TaskEnqueuer) *Service {
	return newTestServiceWithResolver(repo, tasks, nil)
}

func newTestServiceWithResolver(repo Repository, tasks TaskEnqueuer, customers CustomerResolver) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	numbers := NewNumberGenerator(nil)
	numbers.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 7_000_000, time.UTC)
	}
	return NewService(repo, numbers, customers, tasks, logger)
}

func saveRequestFixture() SaveQuotationRequest {
	taxRate := 15.0
	return SaveQuotationRequest{
		Customer:   pricing.CustomerRef{Name: "Al Amal Trading", VATNumber: "300012345600003"},
		IssueDate:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		Currency:   "SAR",
		LineItems: []LineItemInput{
			{Description: "Install", Quantity: 3, UnitPrice: 100},
			{Description: "Commission", Quantity: 1, UnitPrice: 250},
		},
		TaxRate: &taxRate,
	}
}

// ============================================================================
// SAVE
// ============================================================================

func TestSaveCreatesNewQuotation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, StatusDraft, saved.Status)
	assert.Equal(t, int64(42), saved.CreatedBy)
	assert.NotEmpty(t, saved.QuoteNumber)
	assert.Equal(t, saved.QuoteNumber, saved.Document.Number)

	// 550 - 0 discount, 15% tax
	assert.InDelta(t, 550.0, saved.Document.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 82.5, saved.Document.Totals.TaxAmount, 1e-9)
	assert.InDelta(t, 632.5, saved.Document.Totals.GrandTotal, 1e-9)
	require.Len(t, saved.Document.Lines, 2)
	assert.Equal(t, 1, saved.Document.Lines[0].SerialNumber)
	assert.InDelta(t, 300.0, saved.Document.Lines[0].Total, 1e-9)
}

func TestSaveGeneratesNumberOnlyWhenMissing(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	req := saveRequestFixture()
	req.QuoteNumber = "QUO-2026-0042"

	saved, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2026-0042", saved.QuoteNumber)
}

func TestSaveReplacesByQuoteNumber(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	req := saveRequestFixture()
	req.QuoteNumber = "QUO-2026-0001"
	first, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)

	// Same number, changed content: record is replaced in place.
	req.LineItems = []LineItemInput{{Description: "Install", Quantity: 5, UnitPrice: 100}}
	second, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 500.0, second.Document.Totals.Subtotal, 1e-9)
	assert.Len(t, repo.quotations, 1)
}

func TestSaveDistinctNumbersCreateDistinctRecords(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	req := saveRequestFixture()
	req.QuoteNumber = "QUO-2026-0001"
	_, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)

	req.QuoteNumber = "QUO-2026-0002"
	_, err = svc.Save(context.Background(), req, 1)
	require.NoError(t, err)

	assert.Len(t, repo.quotations, 2)
}

func TestSaveRejectsValidUntilBeforeIssueDate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	req := saveRequestFixture()
	req.ValidUntil = req.IssueDate.AddDate(0, 0, -1)

	_, err := svc.Save(context.Background(), req, 1)
	require.Error(t, err)
	assert.Empty(t, repo.quotations)
}

func TestSaveSectionedDocument(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	req := saveRequestFixture()
	req.LineItems = nil
	req.Sections = []SectionInput{
		{Title: "Supply", LineItems: []LineItemInput{{Description: "Panel", Quantity: 2, UnitPrice: 400}}},
		{Title: "Installation", LineItems: []LineItemInput{{Description: "Labour", Quantity: 10, UnitPrice: 50}}},
	}
	req.TaxRate = nil

	saved, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)

	// Sections flatten into one numbered sequence; no tax rate means zero tax.
	require.Len(t, saved.Document.Lines, 2)
	assert.Equal(t, 2, saved.Document.Lines[1].SerialNumber)
	assert.InDelta(t, 1300.0, saved.Document.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, saved.Document.Totals.TaxAmount, 1e-9)
	assert.InDelta(t, 1300.0, saved.Document.Totals.GrandTotal, 1e-9)
}

func TestSaveEnqueuesRenderTask(t *testing.T) {
	repo := newMockRepository()
	enq := &mockEnqueuer{}
	svc := newTestService(repo, enq)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, "quotation:render_pdf", enq.tasks[0].Type())
	assert.Contains(t, string(enq.tasks[0].Payload()), saved.QuoteNumber)
}

func TestSaveSucceedsWhenEnqueueFails(t *testing.T) {
	repo := newMockRepository()
	enq := &mockEnqueuer{err: errors.New("redis down")}
	svc := newTestService(repo, enq)

	_, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)
}

func TestSavePropagatesRepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.upsertError = errors.New("connection reset")
	svc := newTestService(repo, nil)

	_, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSaveResolvesRegisteredCustomer(t *testing.T) {
	repo := newMockRepository()
	resolver := &mockResolver{refs: map[int64]pricing.CustomerRef{
		3: {Name: "Gulf Foods", VATNumber: "310099887700003"},
	}}
	svc := newTestServiceWithResolver(repo, nil, resolver)

	req := saveRequestFixture()
	req.Customer = pricing.CustomerRef{}
	id := int64(3)
	req.CustomerID = &id

	saved, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, "Gulf Foods", saved.Document.Customer.Name)
	assert.Equal(t, "310099887700003", saved.Document.Customer.VATNumber)
}

func TestSaveInlineCustomerWinsOverRegistry(t *testing.T) {
	repo := newMockRepository()
	resolver := &mockResolver{refs: map[int64]pricing.CustomerRef{
		3: {Name: "Gulf Foods"},
	}}
	svc := newTestServiceWithResolver(repo, nil, resolver)

	req := saveRequestFixture()
	id := int64(3)
	req.CustomerID = &id

	saved, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, "Al Amal Trading", saved.Document.Customer.Name)
}

// ============================================================================
// PREVIEW
// ============================================================================

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	taxRate := 15.0
	totals := svc.Preview(PreviewRequest{
		LineItems: []LineItemInput{
			{Description: "Install", Quantity: 3, UnitPrice: 100},
			{Description: "Commission", Quantity: 1, UnitPrice: 250},
		},
		TaxRate: &taxRate,
	})

	assert.InDelta(t, 550.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 632.5, totals.GrandTotal, 1e-9)
	assert.Empty(t, repo.quotations)
}

// ============================================================================
// STATUS TRANSITIONS
// ============================================================================

func TestStatusTransitions(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)

	// Approve before send is rejected.
	_, err = svc.Approve(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	sent, err := svc.Send(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)

	// Sending twice is rejected.
	_, err = svc.Send(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	approved, err := svc.Approve(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// Terminal states accept no further transitions.
	_, err = svc.Reject(context.Background(), saved.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRejectFromSent(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), saved.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestTransitionOnMissingQuotation(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	_, err := svc.Send(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionRunsInTransaction(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.txCalls)

	// A failed transaction leaves the status untouched.
	repo.txError = errors.New("deadlock detected")
	_, err = svc.Approve(context.Background(), saved.ID)
	require.Error(t, err)
	repo.txError = nil
	current, err := svc.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, current.Status)
}

// ============================================================================
// EXPORT VALIDATION
// ============================================================================

func TestValidateForExport(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)
	require.NoError(t, svc.ValidateForExport(saved))

	missingCustomer := *saved
	missingCustomer.Document.Customer.Name = ""
	require.ErrorIs(t, svc.ValidateForExport(&missingCustomer), ErrExportBlocked)

	noLines := *saved
	noLines.Document.Lines = nil
	require.ErrorIs(t, svc.ValidateForExport(&noLines), ErrExportBlocked)

	zeroTotal := *saved
	zeroTotal.Document.Totals.GrandTotal = 0
	require.ErrorIs(t, svc.ValidateForExport(&zeroTotal), ErrExportBlocked)
}

// ============================================================================
// EMAIL
// ============================================================================

func TestEmailEnqueuesTask(t *testing.T) {
	repo := newMockRepository()
	enq := &mockEnqueuer{}
	svc := newTestService(repo, enq)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)
	enq.tasks = nil

	require.NoError(t, svc.Email(context.Background(), saved.ID, "fahad@alamal.example", ""))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, "quotation:email", enq.tasks[0].Type())
	payload := string(enq.tasks[0].Payload())
	assert.Contains(t, payload, "fahad@alamal.example")
	assert.Contains(t, payload, saved.QuoteNumber)
}

func TestEmailBlockedByExportValidation(t *testing.T) {
	repo := newMockRepository()
	enq := &mockEnqueuer{}
	svc := newTestService(repo, enq)

	req := saveRequestFixture()
	req.Customer.Name = ""
	saved, err := svc.Save(context.Background(), req, 1)
	require.NoError(t, err)
	enq.tasks = nil

	err = svc.Email(context.Background(), saved.ID, "fahad@alamal.example", "")
	require.ErrorIs(t, err, ErrExportBlocked)
	assert.Empty(t, enq.tasks)
}

func TestEmailWithoutJobBackend(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	saved, err := svc.Save(context.Background(), saveRequestFixture(), 1)
	require.NoError(t, err)

	require.Error(t, svc.Email(context.Background(), saved.ID, "fahad@alamal.example", ""))
}
