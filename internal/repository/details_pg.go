package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"foodflow/internal/domain"
)

const detailColumns = `od.order_detail_id, od.order_id, od.menu_id, od.quantity, od.sub_total,
	COALESCE(m.menu_name, ''), COALESCE(m.price, 0)`

type DetailRepository struct {
	db *sql.DB
}

func NewDetailRepository(db *sql.DB) *DetailRepository {
	return &DetailRepository{db: db}
}

func scanDetail(row interface{ Scan(...any) error }) (domain.OrderDetail, error) {
	var d domain.OrderDetail
	err := row.Scan(&d.ID, &d.OrderID, &d.MenuID, &d.Quantity, &d.SubTotal, &d.MenuName, &d.Price)
	return d, err
}

func (r *DetailRepository) Create(ctx context.Context, d domain.OrderDetail) (domain.OrderDetail, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO order_details (order_id, menu_id, quantity, sub_total)
		VALUES ($1, $2, $3, $4)
		RETURNING order_detail_id
	`, d.OrderID, d.MenuID, d.Quantity, d.SubTotal).Scan(&id)
	if err != nil {
		return domain.OrderDetail{}, errors.Wrap(err, "insert order detail")
	}
	created, _, err := r.FindByID(ctx, id)
	return created, err
}

func (r *DetailRepository) FindByID(ctx context.Context, id int64) (domain.OrderDetail, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+detailColumns+`
		FROM order_details od
		LEFT JOIN menus m ON od.menu_id = m.menu_id
		WHERE od.order_detail_id = $1
	`, id)
	d, err := scanDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderDetail{}, false, nil
	}
	if err != nil {
		return domain.OrderDetail{}, false, errors.Wrap(err, "find order detail")
	}
	return d, true, nil
}

func (r *DetailRepository) ListAll(ctx context.Context) ([]domain.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+detailColumns+`
		FROM order_details od
		LEFT JOIN menus m ON od.menu_id = m.menu_id
		ORDER BY od.order_detail_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list order details")
	}
	defer rows.Close()
	return collectDetails(rows)
}

func (r *DetailRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+detailColumns+`
		FROM order_details od
		LEFT JOIN menus m ON od.menu_id = m.menu_id
		WHERE od.order_id = $1
		ORDER BY od.order_detail_id
	`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list details by order")
	}
	defer rows.Close()
	return collectDetails(rows)
}

func collectDetails(rows *sql.Rows) ([]domain.OrderDetail, error) {
	out := []domain.OrderDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order detail")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DetailRepository) Update(ctx context.Context, id int64, d domain.OrderDetail) (domain.OrderDetail, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE order_details SET menu_id = $2, quantity = $3, sub_total = $4
		WHERE order_detail_id = $1
	`, id, d.MenuID, d.Quantity, d.SubTotal)
	if err != nil {
		return domain.OrderDetail{}, errors.Wrap(err, "update order detail")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.OrderDetail{}, domain.ErrNotFound
	}
	updated, _, err := r.FindByID(ctx, id)
	return updated, err
}

func (r *DetailRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_details WHERE order_detail_id = $1`, id)
	if err != nil {
		return 0, errors.Wrap(err, "delete order detail")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "delete order detail rows affected")
}

func (r *DetailRepository) RemoveByOrder(ctx context.Context, orderID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, errors.Wrap(err, "delete details by order")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "delete details rows affected")
}

// ReplaceForOrder swaps the order's full line item set and stores the
// recomputed total in the same transaction, so a failure partway leaves
// the previous items intact.
func (r *DetailRepository) ReplaceForOrder(ctx context.Context, orderID int64, details []domain.OrderDetail) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, orderID); err != nil {
		return 0, errors.Wrap(err, "clear order details")
	}

	total := 0.0
	for _, d := range details {
		total += d.SubTotal
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_details (order_id, menu_id, quantity, sub_total)
			VALUES ($1, $2, $3, $4)
		`, orderID, d.MenuID, d.Quantity, d.SubTotal)
		if err != nil {
			return 0, errors.Wrap(err, "insert replacement detail")
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE orders SET total_price = $1 WHERE order_id = $2`, total, orderID); err != nil {
		return 0, errors.Wrap(err, "store order total")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit detail replacement")
	}
	return total, nil
}

func (r *DetailRepository) SumByOrder(ctx context.Context, orderID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(sub_total), 0) FROM order_details WHERE order_id = $1`, orderID,
	).Scan(&sum)
	if err != nil {
		return 0, errors.Wrap(err, "sum details by order")
	}
	return sum, nil
}
