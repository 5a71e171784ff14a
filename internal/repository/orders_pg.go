package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"foodflow/internal/domain"
)

const orderColumns = `order_id, table_id, membership_id, order_date, total_price,
	order_status, payment_status, paid_at, receipt_no, service_charge, tax`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	var orderStatus, paymentStatus string
	err := row.Scan(
		&o.ID, &o.TableID, &o.MembershipID, &o.OrderDate, &o.TotalPrice,
		&orderStatus, &paymentStatus, &o.PaidAt, &o.ReceiptNo, &o.ServiceCharge, &o.Tax,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.OrderStatus = domain.NormalizeOrderStatus(orderStatus)
	o.PaymentStatus = domain.NormalizePaymentStatus(paymentStatus)
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order, details []domain.OrderDetail) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
			(table_id, membership_id, order_date, total_price, order_status, payment_status,
			 paid_at, receipt_no, service_charge, tax)
		VALUES ($1, $2, $3, 0, $4, $5, NULL, NULL, $6, $7)
		RETURNING order_id
	`,
		order.TableID, order.MembershipID, order.OrderDate,
		string(order.OrderStatus), string(order.PaymentStatus),
		order.ServiceCharge, order.Tax,
	).Scan(&orderID)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "insert order")
	}

	total := 0.0
	for _, d := range details {
		total += d.SubTotal
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_details (order_id, menu_id, quantity, sub_total)
			VALUES ($1, $2, $3, $4)
		`, orderID, d.MenuID, d.Quantity, d.SubTotal)
		if err != nil {
			return domain.Order{}, errors.Wrap(err, "insert order detail")
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET total_price = $1 WHERE order_id = $2`, total, orderID)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "store order total")
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, errors.Wrap(err, "commit order")
	}

	created, found, err := r.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, errors.New("created order vanished")
	}
	return created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (domain.Order, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, errors.Wrap(err, "find order")
	}
	return o, true, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListKitchenQueue returns active unpaid orders, oldest work first.
func (r *OrderRepository) ListKitchenQueue(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_status IN ('pending', 'confirmed', 'preparing', 'ready', 'served', 'billing')
		  AND payment_status != 'paid'
		ORDER BY order_date ASC, order_id ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list kitchen queue")
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) Update(ctx context.Context, id int64, order domain.Order) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET table_id = $2,
		    membership_id = $3,
		    order_date = $4,
		    order_status = $5,
		    payment_status = $6,
		    paid_at = $7,
		    receipt_no = $8,
		    service_charge = $9,
		    tax = $10
		WHERE order_id = $1
		RETURNING `+orderColumns+`
	`,
		id, order.TableID, order.MembershipID, order.OrderDate,
		string(order.OrderStatus), string(order.PaymentStatus),
		order.PaidAt, order.ReceiptNo, order.ServiceCharge, order.Tax,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "update order")
	}
	return o, nil
}

func (r *OrderRepository) UpdateTotalPrice(ctx context.Context, id int64, total float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET total_price = $1 WHERE order_id = $2`, total, id)
	if err != nil {
		return errors.Wrap(err, "update order total")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time, receiptNo string, serviceCharge, tax float64) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid',
		    paid_at = $2,
		    receipt_no = COALESCE(receipt_no, $3),
		    service_charge = $4,
		    tax = $5,
		    order_status = CASE WHEN order_status = 'cancelled' THEN order_status ELSE 'paid' END
		WHERE order_id = $1
		RETURNING `+orderColumns+`
	`, id, paidAt, receiptNo, serviceCharge, tax)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "mark order paid")
	}
	return o, nil
}

func (r *OrderRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return 0, errors.Wrap(err, "delete order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "delete order rows affected")
	}
	return n, nil
}

func (r *OrderRepository) WorkflowSnapshot(ctx context.Context, tableID int64) (domain.TableSnapshot, error) {
	var snap domain.TableSnapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN order_status != 'cancelled' AND payment_status != 'paid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN order_status IN ('ready', 'served', 'billing') AND payment_status != 'paid' THEN 1 ELSE 0 END), 0)
		FROM orders
		WHERE table_id = $1
	`, tableID).Scan(&snap.UnpaidOpen, &snap.BillingCandidates)
	if err != nil {
		return domain.TableSnapshot{}, errors.Wrap(err, "table workflow snapshot")
	}
	return snap, nil
}
