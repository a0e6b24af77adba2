package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

// recordTable описывает SQL одной таблицы справочника.
// args возвращает значения в порядке columns, id первым.
type recordTable[T entity.Record] struct {
	name    string
	columns string
	insert  string
	update  string
	args    func(T) []interface{}
	scan    func(rowScanner) (T, error)
}

// RecordRepository реализует repository.RecordRepository[T] поверх recordTable
type RecordRepository[T entity.Record] struct {
	db    *sql.DB
	table recordTable[T]
}

func NewBacklinkRepository(db *sql.DB) *RecordRepository[*entity.Backlink] {
	return &RecordRepository[*entity.Backlink]{db: db, table: backlinkTable}
}

func NewResourceRepository(db *sql.DB) *RecordRepository[*entity.Resource] {
	return &RecordRepository[*entity.Resource]{db: db, table: resourceTable}
}

func NewExpenseRepository(db *sql.DB) *RecordRepository[*entity.Expense] {
	return &RecordRepository[*entity.Expense]{db: db, table: expenseTable}
}

func NewToolRepository(db *sql.DB) *RecordRepository[*entity.Tool] {
	return &RecordRepository[*entity.Tool]{db: db, table: toolTable}
}

func (r *RecordRepository[T]) Save(ctx context.Context, record T) error {
	return insertRecord(ctx, r.db, r.table, record)
}

func insertRecord[T entity.Record](ctx context.Context, q dbtx, table recordTable[T], record T) error {
	if _, err := q.ExecContext(ctx, table.insert, table.args(record)...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table.name, mapError(err))
	}
	return nil
}

func (r *RecordRepository[T]) Update(ctx context.Context, record T) error {
	result, err := r.db.ExecContext(ctx, r.table.update, r.table.args(record)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.table.name, mapError(err))
	}
	return expectAffected(result)
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table.name+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.table.name, err)
	}
	return expectAffected(result)
}

func (r *RecordRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	query := `SELECT ` + r.table.columns + ` FROM ` + r.table.name + ` WHERE id = $1`

	record, err := r.table.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		var zero T
		return zero, mapError(err)
	}
	return record, nil
}

func (r *RecordRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	return findRecords(ctx, r.db, r.table)
}

func findRecords[T entity.Record](ctx context.Context, q dbtx, table recordTable[T]) ([]T, error) {
	query := `SELECT ` + table.columns + ` FROM ` + table.name + ` ORDER BY created_at, id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table.name, err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		record, err := table.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table.name, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table.name, err)
	}
	return records, nil
}

var backlinkTable = recordTable[*entity.Backlink]{
	name:    "backlinks",
	columns: `id, project_id, resource_id, source_url, target_url, anchor_text, status, cost_cents, notes, acquired_at, created_at, updated_at`,
	insert: `
		INSERT INTO backlinks (id, project_id, resource_id, source_url, target_url, anchor_text, status, cost_cents, notes, acquired_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
	update: `
		UPDATE backlinks SET
			project_id = $2, resource_id = $3, source_url = $4, target_url = $5, anchor_text = $6,
			status = $7, cost_cents = $8, notes = $9, acquired_at = $10, created_at = $11, updated_at = $12
		WHERE id = $1
	`,
	args: func(b *entity.Backlink) []interface{} {
		return []interface{}{
			b.ID, b.ProjectID, nullString(b.ResourceID), b.SourceURL, b.TargetURL, b.AnchorText,
			string(b.Status), b.CostCents, b.Notes, nullTime(b.AcquiredAt), b.CreatedAt, b.UpdatedAt,
		}
	},
	scan: func(row rowScanner) (*entity.Backlink, error) {
		var (
			b          entity.Backlink
			resourceID sql.NullString
			status     string
			acquired   sql.NullTime
		)
		err := row.Scan(&b.ID, &b.ProjectID, &resourceID, &b.SourceURL, &b.TargetURL, &b.AnchorText,
			&status, &b.CostCents, &b.Notes, &acquired, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		b.ResourceID = resourceID.String
		b.Status = valueobject.BacklinkStatus(status)
		b.AcquiredAt = timePtr(acquired)
		return &b, nil
	},
}

var resourceTable = recordTable[*entity.Resource]{
	name:    "resources",
	columns: `id, name, url, category, domain_rating, cost_cents, notes, created_at, updated_at`,
	insert: `
		INSERT INTO resources (id, name, url, category, domain_rating, cost_cents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
	update: `
		UPDATE resources SET
			name = $2, url = $3, category = $4, domain_rating = $5, cost_cents = $6, notes = $7,
			created_at = $8, updated_at = $9
		WHERE id = $1
	`,
	args: func(r *entity.Resource) []interface{} {
		return []interface{}{r.ID, r.Name, r.URL, r.Category, r.DomainRating, r.CostCents, r.Notes, r.CreatedAt, r.UpdatedAt}
	},
	scan: func(row rowScanner) (*entity.Resource, error) {
		var r entity.Resource
		err := row.Scan(&r.ID, &r.Name, &r.URL, &r.Category, &r.DomainRating, &r.CostCents, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &r, nil
	},
}

var expenseTable = recordTable[*entity.Expense]{
	name:    "expenses",
	columns: `id, project_id, name, category, amount_cents, currency, billing_cycle, paid_at, notes, created_at, updated_at`,
	insert: `
		INSERT INTO expenses (id, project_id, name, category, amount_cents, currency, billing_cycle, paid_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
	update: `
		UPDATE expenses SET
			project_id = $2, name = $3, category = $4, amount_cents = $5, currency = $6,
			billing_cycle = $7, paid_at = $8, notes = $9, created_at = $10, updated_at = $11
		WHERE id = $1
	`,
	args: func(e *entity.Expense) []interface{} {
		return []interface{}{
			e.ID, nullString(e.ProjectID), e.Name, e.Category, e.AmountCents, e.Currency,
			string(e.BillingCycle), nullTime(e.PaidAt), e.Notes, e.CreatedAt, e.UpdatedAt,
		}
	},
	scan: func(row rowScanner) (*entity.Expense, error) {
		var (
			e         entity.Expense
			projectID sql.NullString
			cycle     string
			paid      sql.NullTime
		)
		err := row.Scan(&e.ID, &projectID, &e.Name, &e.Category, &e.AmountCents, &e.Currency,
			&cycle, &paid, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		e.ProjectID = projectID.String
		e.BillingCycle = valueobject.BillingCycle(cycle)
		e.PaidAt = timePtr(paid)
		return &e, nil
	},
}

var toolTable = recordTable[*entity.Tool]{
	name:    "tools",
	columns: `id, name, url, category, monthly_cost_cents, notes, created_at, updated_at`,
	insert: `
		INSERT INTO tools (id, name, url, category, monthly_cost_cents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
	update: `
		UPDATE tools SET
			name = $2, url = $3, category = $4, monthly_cost_cents = $5, notes = $6,
			created_at = $7, updated_at = $8
		WHERE id = $1
	`,
	args: func(t *entity.Tool) []interface{} {
		return []interface{}{t.ID, t.Name, t.URL, t.Category, t.MonthlyCostCents, t.Notes, t.CreatedAt, t.UpdatedAt}
	},
	scan: func(row rowScanner) (*entity.Tool, error) {
		var t entity.Tool
		err := row.Scan(&t.ID, &t.Name, &t.URL, &t.Category, &t.MonthlyCostCents, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &t, nil
	},
}
