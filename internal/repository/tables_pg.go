package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"foodflow/internal/domain"
)

type TableRepository struct {
	db *sql.DB
}

func NewTableRepository(db *sql.DB) *TableRepository {
	return &TableRepository{db: db}
}

func scanTable(row interface{ Scan(...any) error }) (domain.DiningTable, error) {
	var t domain.DiningTable
	var name sql.NullString
	var status string
	err := row.Scan(&t.ID, &name, &status, &t.CreatedAt)
	if err != nil {
		return domain.DiningTable{}, err
	}
	t.Name = name.String
	t.Status = domain.NormalizeTableStatus(status)
	return t, nil
}

func (r *TableRepository) Create(ctx context.Context, t domain.DiningTable) (domain.DiningTable, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO dining_tables (table_name, status, created_at)
		VALUES (NULLIF($1, ''), $2, $3)
		RETURNING table_id
	`, t.Name, string(t.Status), t.CreatedAt).Scan(&id)
	if err != nil {
		return domain.DiningTable{}, errors.Wrap(err, "insert table")
	}

	// Unnamed tables get a display name derived from their id.
	if t.Name == "" {
		_, err = r.db.ExecContext(ctx,
			`UPDATE dining_tables SET table_name = $1 WHERE table_id = $2`,
			fmt.Sprintf("Table %d", id), id)
		if err != nil {
			return domain.DiningTable{}, errors.Wrap(err, "name table")
		}
	}

	created, _, err := r.FindByID(ctx, id)
	return created, err
}

func (r *TableRepository) FindByID(ctx context.Context, id int64) (domain.DiningTable, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT table_id, table_name, status, created_at FROM dining_tables WHERE table_id = $1`, id)
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DiningTable{}, false, nil
	}
	if err != nil {
		return domain.DiningTable{}, false, errors.Wrap(err, "find table")
	}
	return t, true, nil
}

func (r *TableRepository) ListAll(ctx context.Context) ([]domain.DiningTable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT table_id, table_name, status, created_at FROM dining_tables ORDER BY table_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer rows.Close()

	out := []domain.DiningTable{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan table")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TableRepository) UpdateStatus(ctx context.Context, id int64, status domain.TableStatus) (domain.DiningTable, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE dining_tables SET status = $2 WHERE table_id = $1
		RETURNING table_id, table_name, status, created_at
	`, id, string(status))
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DiningTable{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.DiningTable{}, errors.Wrap(err, "update table status")
	}
	return t, nil
}

func (r *TableRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE table_id = $1`, id)
	if err != nil {
		return 0, errors.Wrap(err, "delete table")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "delete table rows affected")
}
