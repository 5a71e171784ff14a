package service

import (
	"context"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/receipt"
	"foodflow/internal/repository"
	"foodflow/internal/tablesync"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	Update(ctx context.Context, id int64, req domain.UpdateOrderRequest) (domain.Order, error)
	MarkPaid(ctx context.Context, id int64, req domain.PayOrderRequest) (domain.Order, error)
	GetReceipt(ctx context.Context, id int64) (domain.Receipt, error)
	Remove(ctx context.Context, id int64) (int64, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	KitchenQueue(ctx context.Context) ([]domain.Order, error)
}

type DetailServiceInterface interface {
	List(ctx context.Context) ([]domain.OrderDetail, error)
	Get(ctx context.Context, id int64) (domain.OrderDetail, error)
	Create(ctx context.Context, req domain.CreateDetailRequest) (domain.OrderDetail, error)
	Update(ctx context.Context, id int64, req domain.UpdateDetailRequest) (domain.OrderDetail, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type TableServiceInterface interface {
	List(ctx context.Context) ([]domain.DiningTable, error)
	Get(ctx context.Context, id int64) (domain.DiningTable, error)
	Create(ctx context.Context, req domain.CreateTableRequest) (domain.DiningTable, error)
	UpdateStatus(ctx context.Context, id int64, status string) (domain.DiningTable, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context) ([]domain.Menu, error)
	Get(ctx context.Context, id int64) (domain.Menu, error)
	Create(ctx context.Context, req domain.CreateMenuRequest) (domain.Menu, error)
	Update(ctx context.Context, id int64, req domain.CreateMenuRequest) (domain.Menu, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

type MembershipServiceInterface interface {
	List(ctx context.Context) ([]domain.Membership, error)
	Get(ctx context.Context, id int64) (domain.Membership, error)
	Create(ctx context.Context, req domain.CreateMembershipRequest) (domain.Membership, error)
}

type Service struct {
	Orders      OrderServiceInterface
	Details     DetailServiceInterface
	Tables      TableServiceInterface
	Menus       MenuServiceInterface
	Memberships MembershipServiceInterface
}

func New(repo *repository.Repository, bus *eventbus.Bus, sync tablesync.SynchronizerInterface, rc receipt.CalculatorInterface, lg *logger.Logger) *Service {
	return &Service{
		Orders:      NewOrderService(repo, bus, sync, rc, lg),
		Details:     NewDetailService(repo, bus, sync, lg),
		Tables:      NewTableService(repo, bus, lg),
		Menus:       NewMenuService(repo.Menus),
		Memberships: NewMembershipService(repo.Memberships),
	}
}
