package proposals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantage-admin/vantage-admin/internal/platform/db"
	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Proposal, error)
	List(ctx context.Context, req ListProposalsRequest) ([]Proposal, int, error)
	Create(ctx context.Context, p Proposal) (int64, error)
	SaveCommercialItems(ctx context.Context, id int64, sections []pricing.Section, embedded *pricing.ProposalExport, paymentTerms string, durationMonths int, updatedBy int64) error
	UpdateVersion(ctx context.Context, id int64, version string, history []VersionEntry, updatedBy int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const proposalColumns = `id, title, customer_id, customer, duration_months, payment_terms,
	commercial_items, quotation_data, current_version, version_history,
	created_by, updated_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Proposal, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM proposals WHERE id = $1", proposalColumns), id)
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Proposal) (int64, error) {
	customer, err := json.Marshal(p.Customer)
	if err != nil {
		return 0, fmt.Errorf("marshal customer: %w", err)
	}
	history, err := json.Marshal(p.VersionHistory)
	if err != nil {
		return 0, fmt.Errorf("marshal version history: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO proposals (title, customer_id, customer, duration_months, payment_terms,
			commercial_items, quotation_data, current_version, version_history,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '[]'::jsonb, NULL, $6, $7, $8, $8, now(), now())
		RETURNING id`,
		p.Title, p.CustomerID, customer, p.DurationMonths, p.PaymentTerms,
		p.CurrentVersion, history, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SaveCommercialItems writes the editable items and the rebuilt snapshot in
// one statement so they can never be observed out of sync.
func (r *repository) SaveCommercialItems(ctx context.Context, id int64, sections []pricing.Section, embedded *pricing.ProposalExport, paymentTerms string, durationMonths int, updatedBy int64) error {
	items, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshal commercial items: %w", err)
	}
	snapshot, err := json.Marshal(embedded)
	if err != nil {
		return fmt.Errorf("marshal quotation data: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE proposals
		SET commercial_items = $1, quotation_data = $2, payment_terms = $3,
			duration_months = $4, updated_by = $5, updated_at = now()
		WHERE id = $6`,
		items, snapshot, paymentTerms, durationMonths, updatedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateVersion(ctx context.Context, id int64, version string, history []VersionEntry, updatedBy int64) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal version history: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE proposals
		SET current_version = $1, version_history = $2, updated_by = $3, updated_at = now()
		WHERE id = $4`,
		version, data, updatedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, req ListProposalsRequest) ([]Proposal, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
	}

	var total int
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM proposals %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM proposals %s ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d",
		proposalColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func scanProposal(row pgx.Row) (*Proposal, error) {
	var p Proposal
	var customer, items, snapshot, history []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.CustomerID, &customer, &p.DurationMonths, &p.PaymentTerms,
		&items, &snapshot, &p.CurrentVersion, &history,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(customer) > 0 {
		if err := json.Unmarshal(customer, &p.Customer); err != nil {
			return nil, fmt.Errorf("unmarshal customer: %w", err)
		}
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &p.CommercialItems); err != nil {
			return nil, fmt.Errorf("unmarshal commercial items: %w", err)
		}
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &p.QuotationData); err != nil {
			return nil, fmt.Errorf("unmarshal quotation data: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.VersionHistory); err != nil {
			return nil, fmt.Errorf("unmarshal version history: %w", err)
		}
	}
	return &p, nil
}
