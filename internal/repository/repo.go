package repository

import (
	"context"
	"database/sql"
	"time"

	"foodflow/internal/domain"
)

type OrderRepositoryInterface interface {
	// Create persists the order and its line items in one transaction
	// and stores the recomputed total before committing.
	Create(ctx context.Context, order domain.Order, details []domain.OrderDetail) (domain.Order, error)
	FindByID(ctx context.Context, id int64) (domain.Order, bool, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListKitchenQueue(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, id int64, order domain.Order) (domain.Order, error)
	UpdateTotalPrice(ctx context.Context, id int64, total float64) error
	// MarkPaid stamps payment fields; the receipt number sticks on
	// first assignment and a cancelled status survives payment.
	MarkPaid(ctx context.Context, id int64, paidAt time.Time, receiptNo string, serviceCharge, tax float64) (domain.Order, error)
	Remove(ctx context.Context, id int64) (int64, error)
	WorkflowSnapshot(ctx context.Context, tableID int64) (domain.TableSnapshot, error)
}

type DetailRepositoryInterface interface {
	Create(ctx context.Context, d domain.OrderDetail) (domain.OrderDetail, error)
	FindByID(ctx context.Context, id int64) (domain.OrderDetail, bool, error)
	ListAll(ctx context.Context) ([]domain.OrderDetail, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderDetail, error)
	Update(ctx context.Context, id int64, d domain.OrderDetail) (domain.OrderDetail, error)
	Remove(ctx context.Context, id int64) (int64, error)
	RemoveByOrder(ctx context.Context, orderID int64) (int64, error)
	// ReplaceForOrder swaps the full line item set transactionally and
	// returns the new order total.
	ReplaceForOrder(ctx context.Context, orderID int64, details []domain.OrderDetail) (float64, error)
	SumByOrder(ctx context.Context, orderID int64) (float64, error)
}

type TableRepositoryInterface interface {
	Create(ctx context.Context, t domain.DiningTable) (domain.DiningTable, error)
	FindByID(ctx context.Context, id int64) (domain.DiningTable, bool, error)
	ListAll(ctx context.Context) ([]domain.DiningTable, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TableStatus) (domain.DiningTable, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type MenuRepositoryInterface interface {
	Create(ctx context.Context, m domain.Menu) (domain.Menu, error)
	FindByID(ctx context.Context, id int64) (domain.Menu, bool, error)
	ListAll(ctx context.Context) ([]domain.Menu, error)
	Update(ctx context.Context, id int64, m domain.Menu) (domain.Menu, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type MembershipRepositoryInterface interface {
	Create(ctx context.Context, m domain.Membership) (domain.Membership, error)
	FindByID(ctx context.Context, id int64) (domain.Membership, bool, error)
	ListAll(ctx context.Context) ([]domain.Membership, error)
}

type Repository struct {
	Orders      OrderRepositoryInterface
	Details     DetailRepositoryInterface
	Tables      TableRepositoryInterface
	Menus       MenuRepositoryInterface
	Memberships MembershipRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Orders:      NewOrderRepository(db),
		Details:     NewDetailRepository(db),
		Tables:      NewTableRepository(db),
		Menus:       NewMenuRepository(db),
		Memberships: NewMembershipRepository(db),
	}
}
