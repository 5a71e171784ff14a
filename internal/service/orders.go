package service

import (
	"context"
	"fmt"
	"time"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/receipt"
	"foodflow/internal/repository"
	"foodflow/internal/tablesync"
)

type OrderService struct {
	orders      repository.OrderRepositoryInterface
	details     repository.DetailRepositoryInterface
	tables      repository.TableRepositoryInterface
	menus       repository.MenuRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	bus         *eventbus.Bus
	sync        tablesync.SynchronizerInterface
	receipts    receipt.CalculatorInterface
	lg          *logger.Logger
}

func NewOrderService(repo *repository.Repository, bus *eventbus.Bus, sync tablesync.SynchronizerInterface, rc receipt.CalculatorInterface, lg *logger.Logger) *OrderService {
	return &OrderService{
		orders:      repo.Orders,
		details:     repo.Details,
		tables:      repo.Tables,
		menus:       repo.Menus,
		memberships: repo.Memberships,
		bus:         bus,
		sync:        sync,
		receipts:    rc,
		lg:          lg,
	}
}

// resolveTableRef implements the soft reference policy: an id that does
// not resolve to an existing table is treated as "no table / walk-in",
// not as an error.
func (s *OrderService) resolveTableRef(ctx context.Context, id *int64) (*int64, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	_, found, err := s.tables.FindByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return id, nil
}

// resolveMemberRef is the soft reference policy for memberships.
func (s *OrderService) resolveMemberRef(ctx context.Context, id *int64) (*int64, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}
	_, found, err := s.memberships.FindByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return id, nil
}

// buildDetails filters the requested items against the menu catalog and
// snapshots each unit price into the sub total. Items referencing an
// unknown menu entry are dropped; a non-positive quantity becomes 1.
func (s *OrderService) buildDetails(ctx context.Context, items []domain.OrderItemRequest) ([]domain.OrderDetail, error) {
	out := make([]domain.OrderDetail, 0, len(items))
	for _, item := range items {
		if item.MenuID <= 0 {
			continue
		}
		menu, found, err := s.menus.FindByID(ctx, item.MenuID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		menuID := menu.ID
		out = append(out, domain.OrderDetail{
			MenuID:   &menuID,
			Quantity: qty,
			SubTotal: menu.Price * float64(qty),
		})
	}
	return out, nil
}

func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	orderDate := time.Now().UTC()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	tableID, err := s.resolveTableRef(ctx, req.TableID)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.create.table_ref", err)
	}
	membershipID, err := s.resolveMemberRef(ctx, req.MembershipID)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.create.membership_ref", err)
	}

	details, err := s.buildDetails(ctx, req.Details)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.create.details", err)
	}
	if len(details) == 0 {
		return domain.Order{}, domain.NewValidationError("no valid menu items in order")
	}

	order := domain.Order{
		TableID:       tableID,
		MembershipID:  membershipID,
		OrderDate:     orderDate,
		OrderStatus:   domain.NormalizeOrderStatus(req.OrderStatus),
		PaymentStatus: domain.PaymentUnpaid,
	}
	created, err := s.orders.Create(ctx, order, details)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.create", err)
	}

	if err := s.sync.Reconcile(ctx, tableID); err != nil {
		return domain.Order{}, domain.AtStage("orders.create.sync", err)
	}
	s.bus.Publish(domain.EventOrderCreated, map[string]any{
		"order_id": created.ID, "table_id": ptrOrNil(tableID),
	})
	s.lg.Info("order_created", map[string]any{"order_id": created.ID, "total": created.TotalPrice})

	created.Details, err = s.details.ListByOrder(ctx, created.ID)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.create.load_details", err)
	}
	return created, nil
}

func (s *OrderService) Update(ctx context.Context, id int64, req domain.UpdateOrderRequest) (domain.Order, error) {
	existing, found, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.update.find", err)
	}
	if !found {
		return domain.Order{}, domain.ErrNotFound
	}

	tableID, err := s.resolveTableRef(ctx, req.TableID)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.update.table_ref", err)
	}
	membershipID, err := s.resolveMemberRef(ctx, req.MembershipID)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.update.membership_ref", err)
	}

	next := existing
	next.TableID = tableID
	next.MembershipID = membershipID
	if req.OrderDate != nil {
		next.OrderDate = *req.OrderDate
	}
	next.OrderStatus = domain.NormalizeOrderStatus(req.OrderStatus)
	if req.PaymentStatus != "" {
		next.PaymentStatus = domain.NormalizePaymentStatus(req.PaymentStatus)
	}
	if req.PaidAt != nil {
		next.PaidAt = req.PaidAt
	}
	if req.ReceiptNo != nil {
		next.ReceiptNo = req.ReceiptNo
	}
	if req.ServiceCharge != nil {
		next.ServiceCharge = *req.ServiceCharge
	}
	if req.Tax != nil {
		next.Tax = *req.Tax
	}

	if _, err := s.orders.Update(ctx, id, next); err != nil {
		return domain.Order{}, domain.AtStage("orders.update.order", err)
	}

	if req.Details != nil {
		replacement, err := s.buildDetails(ctx, *req.Details)
		if err != nil {
			return domain.Order{}, domain.AtStage("orders.update.details", err)
		}
		if len(replacement) == 0 {
			return domain.Order{}, domain.NewValidationError("no valid menu items in order")
		}
		if _, err := s.details.ReplaceForOrder(ctx, id, replacement); err != nil {
			return domain.Order{}, domain.AtStage("orders.update.replace_details", err)
		}
	}

	if err := s.sync.Reconcile(ctx, existing.TableID); err != nil {
		return domain.Order{}, domain.AtStage("orders.update.sync", err)
	}
	if tableID != nil && !sameTable(tableID, existing.TableID) {
		if err := s.sync.Reconcile(ctx, tableID); err != nil {
			return domain.Order{}, domain.AtStage("orders.update.sync_new_table", err)
		}
	}

	eventTable := tableID
	if eventTable == nil {
		eventTable = existing.TableID
	}
	s.bus.Publish(domain.EventOrderUpdated, map[string]any{
		"order_id": id, "table_id": ptrOrNil(eventTable),
	})

	latest, _, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.update.reload", err)
	}
	latest.Details, err = s.details.ListByOrder(ctx, id)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.update.load_details", err)
	}
	return latest, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, id int64, req domain.PayOrderRequest) (domain.Order, error) {
	existing, found, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.pay.find", err)
	}
	if !found {
		return domain.Order{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	receiptNo := ReceiptNumber(now, id)
	if existing.ReceiptNo != nil && *existing.ReceiptNo != "" {
		receiptNo = *existing.ReceiptNo
	}

	paid, err := s.orders.MarkPaid(ctx, id, now, receiptNo, deref(req.ServiceCharge), deref(req.Tax))
	if err != nil {
		return domain.Order{}, domain.AtStage("orders.pay", err)
	}

	if err := s.sync.Reconcile(ctx, existing.TableID); err != nil {
		return domain.Order{}, domain.AtStage("orders.pay.sync", err)
	}
	s.bus.Publish(domain.EventOrderPaid, map[string]any{
		"order_id": id, "table_id": ptrOrNil(existing.TableID), "receipt_no": receiptNo,
	})
	s.lg.Info("order_paid", map[string]any{"order_id": id, "receipt_no": receiptNo})
	return paid, nil
}

func (s *OrderService) GetReceipt(ctx context.Context, id int64) (domain.Receipt, error) {
	rec, found, err := s.receipts.Build(ctx, id)
	if err != nil {
		return domain.Receipt{}, domain.AtStage("orders.receipt", err)
	}
	if !found {
		return domain.Receipt{}, domain.ErrNotFound
	}
	return rec, nil
}

func (s *OrderService) Remove(ctx context.Context, id int64) (int64, error) {
	existing, found, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return 0, domain.AtStage("orders.remove.find", err)
	}
	if !found {
		return 0, domain.ErrNotFound
	}

	deleted, err := s.orders.Remove(ctx, id)
	if err != nil {
		return 0, domain.AtStage("orders.remove", err)
	}

	if err := s.sync.Reconcile(ctx, existing.TableID); err != nil {
		return 0, domain.AtStage("orders.remove.sync", err)
	}
	s.bus.Publish(domain.EventOrderDeleted, map[string]any{
		"order_id": id, "table_id": ptrOrNil(existing.TableID),
	})
	return deleted, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (domain.Order, error) {
	order, found, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, domain.ErrNotFound
	}
	order.Details, err = s.details.ListByOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) KitchenQueue(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListKitchenQueue(ctx)
}

// ReceiptNumber derives the deterministic receipt number for an order
// paid at the given time: R-<YYYYMMDD>-<order id padded to 6 digits>.
func ReceiptNumber(paidAt time.Time, orderID int64) string {
	return fmt.Sprintf("R-%s-%06d", paidAt.Format("20060102"), orderID)
}

func sameTable(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ptrOrNil keeps JSON payloads explicit: a missing table renders as
// null rather than a zero id.
func ptrOrNil(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
