package service

import (
	"context"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/repository"
	"foodflow/internal/tablesync"
)

// DetailService mutates single line items. Every mutation recomputes
// the parent order's total from the persisted sum so the total
// invariant holds, then reconciles the order's table.
type DetailService struct {
	orders  repository.OrderRepositoryInterface
	details repository.DetailRepositoryInterface
	menus   repository.MenuRepositoryInterface
	bus     *eventbus.Bus
	sync    tablesync.SynchronizerInterface
	lg      *logger.Logger
}

func NewDetailService(repo *repository.Repository, bus *eventbus.Bus, sync tablesync.SynchronizerInterface, lg *logger.Logger) *DetailService {
	return &DetailService{
		orders:  repo.Orders,
		details: repo.Details,
		menus:   repo.Menus,
		bus:     bus,
		sync:    sync,
		lg:      lg,
	}
}

func (s *DetailService) List(ctx context.Context) ([]domain.OrderDetail, error) {
	return s.details.ListAll(ctx)
}

func (s *DetailService) Get(ctx context.Context, id int64) (domain.OrderDetail, error) {
	d, found, err := s.details.FindByID(ctx, id)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if !found {
		return domain.OrderDetail{}, domain.ErrNotFound
	}
	return d, nil
}

// snapshotSubTotal prices a line against the current catalog; an
// unresolvable menu id prices at zero rather than failing (soft
// reference, as with order-level table and membership ids).
func (s *DetailService) snapshotSubTotal(ctx context.Context, menuID int64, qty int) (float64, int, error) {
	if qty < 1 {
		qty = 1
	}
	menu, found, err := s.menus.FindByID(ctx, menuID)
	if err != nil {
		return 0, qty, err
	}
	if !found {
		return 0, qty, nil
	}
	return menu.Price * float64(qty), qty, nil
}

func (s *DetailService) refreshOrder(ctx context.Context, orderID int64) error {
	sum, err := s.details.SumByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.UpdateTotalPrice(ctx, orderID, sum); err != nil {
		return err
	}

	order, found, err := s.orders.FindByID(ctx, orderID)
	if err != nil || !found {
		return err
	}
	if err := s.sync.Reconcile(ctx, order.TableID); err != nil {
		return err
	}
	s.bus.Publish(domain.EventOrderUpdated, map[string]any{
		"order_id": orderID, "table_id": ptrOrNil(order.TableID),
	})
	return nil
}

func (s *DetailService) Create(ctx context.Context, req domain.CreateDetailRequest) (domain.OrderDetail, error) {
	_, found, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.create.find_order", err)
	}
	if !found {
		return domain.OrderDetail{}, domain.ErrNotFound
	}

	subTotal, qty, err := s.snapshotSubTotal(ctx, req.MenuID, req.Quantity)
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.create.price", err)
	}

	var menuID *int64
	if req.MenuID > 0 {
		menuID = &req.MenuID
	}
	created, err := s.details.Create(ctx, domain.OrderDetail{
		OrderID:  req.OrderID,
		MenuID:   menuID,
		Quantity: qty,
		SubTotal: subTotal,
	})
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.create", err)
	}

	if err := s.refreshOrder(ctx, req.OrderID); err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.create.refresh", err)
	}
	return created, nil
}

func (s *DetailService) Update(ctx context.Context, id int64, req domain.UpdateDetailRequest) (domain.OrderDetail, error) {
	existing, found, err := s.details.FindByID(ctx, id)
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.update.find", err)
	}
	if !found {
		return domain.OrderDetail{}, domain.ErrNotFound
	}

	subTotal, qty, err := s.snapshotSubTotal(ctx, req.MenuID, req.Quantity)
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.update.price", err)
	}

	var menuID *int64
	if req.MenuID > 0 {
		menuID = &req.MenuID
	}
	updated, err := s.details.Update(ctx, id, domain.OrderDetail{
		MenuID:   menuID,
		Quantity: qty,
		SubTotal: subTotal,
	})
	if err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.update", err)
	}

	if err := s.refreshOrder(ctx, existing.OrderID); err != nil {
		return domain.OrderDetail{}, domain.AtStage("details.update.refresh", err)
	}
	return updated, nil
}

func (s *DetailService) Remove(ctx context.Context, id int64) (int64, error) {
	existing, found, err := s.details.FindByID(ctx, id)
	if err != nil {
		return 0, domain.AtStage("details.remove.find", err)
	}
	if !found {
		return 0, domain.ErrNotFound
	}

	deleted, err := s.details.Remove(ctx, id)
	if err != nil {
		return 0, domain.AtStage("details.remove", err)
	}

	if err := s.refreshOrder(ctx, existing.OrderID); err != nil {
		return 0, domain.AtStage("details.remove.refresh", err)
	}
	return deleted, nil
}
