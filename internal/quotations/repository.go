package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantage-admin/vantage-admin/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	GetByNumber(ctx context.Context, quoteNumber string) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Upsert(ctx context.Context, q Quotation) (*Quotation, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
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

const quotationColumns = `id, quote_number, customer_id, issue_date, valid_until, status,
	currency, document, terms, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM quotations WHERE id = $1", quotationColumns), id)
	return scanQuotation(row)
}

func (r *repository) GetByNumber(ctx context.Context, quoteNumber string) (*Quotation, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM quotations WHERE quote_number = $1", quotationColumns), quoteNumber)
	return scanQuotation(row)
}

// Upsert inserts or replaces by quote number. Identity is inferred from the
// natural-key match; there is no storage-level create/update mode.
func (r *repository) Upsert(ctx context.Context, q Quotation) (*Quotation, error) {
	doc, err := json.Marshal(q.Document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO quotations (quote_number, customer_id, issue_date, valid_until, status,
			currency, document, terms, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (quote_number) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			issue_date  = EXCLUDED.issue_date,
			valid_until = EXCLUDED.valid_until,
			currency    = EXCLUDED.currency,
			document    = EXCLUDED.document,
			terms       = EXCLUDED.terms,
			notes       = EXCLUDED.notes,
			updated_at  = now()
		RETURNING %s`, quotationColumns),
		q.QuoteNumber, q.CustomerID, q.IssueDate, q.ValidUntil, q.Status,
		q.Currency, doc, q.Terms, q.Notes, q.CreatedBy,
	)
	return scanQuotation(row)
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE quotations SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quotations %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM quotations %s
		ORDER BY issue_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, quotationColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scanQuotationRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *q)
	}
	return out, total, rows.Err()
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	q, err := scanQuotationRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func scanQuotationRow(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var doc []byte
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.CustomerID, &q.IssueDate, &q.ValidUntil, &q.Status,
		&q.Currency, &doc, &q.Terms, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &q.Document); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
	}
	return &q, nil
}
