package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"foodflow/internal/domain"
	"foodflow/internal/repository"
)

// memState backs the in-memory fakes used across the service tests.
// The fakes mirror the SQL semantics of the pg repositories closely
// enough that scenario tests exercise the real synchronizer, receipt
// calculator and event bus on top of them.
type memState struct {
	orders  map[int64]domain.Order
	details map[int64]domain.OrderDetail
	tables  map[int64]domain.DiningTable
	menus   map[int64]domain.Menu
	members map[int64]domain.Membership

	nextOrder  int64
	nextDetail int64
	nextTable  int64
	nextMenu   int64
}

func newMemState() *memState {
	return &memState{
		orders:  map[int64]domain.Order{},
		details: map[int64]domain.OrderDetail{},
		tables:  map[int64]domain.DiningTable{},
		menus:   map[int64]domain.Menu{},
		members: map[int64]domain.Membership{},
	}
}

func (st *memState) addMenu(name string, price float64) domain.Menu {
	st.nextMenu++
	m := domain.Menu{ID: st.nextMenu, Name: name, Price: price, Status: "available"}
	st.menus[m.ID] = m
	return m
}

func (st *memState) addTable(name string) domain.DiningTable {
	st.nextTable++
	t := domain.DiningTable{ID: st.nextTable, Name: name, Status: domain.TableOpen, CreatedAt: time.Now().UTC()}
	st.tables[t.ID] = t
	return t
}

func (st *memState) sumDetails(orderID int64) float64 {
	sum := 0.0
	for _, d := range st.details {
		if d.OrderID == orderID {
			sum += d.SubTotal
		}
	}
	return sum
}

type fakeOrders struct {
	st *memState
}

func (f *fakeOrders) Create(_ context.Context, order domain.Order, details []domain.OrderDetail) (domain.Order, error) {
	f.st.nextOrder++
	order.ID = f.st.nextOrder
	total := 0.0
	for _, d := range details {
		f.st.nextDetail++
		d.ID = f.st.nextDetail
		d.OrderID = order.ID
		f.st.details[d.ID] = d
		total += d.SubTotal
	}
	order.TotalPrice = total
	f.st.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id int64) (domain.Order, bool, error) {
	o, ok := f.st.orders[id]
	return o, ok, nil
}

func (f *fakeOrders) ListAll(_ context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, o := range f.st.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrders) ListKitchenQueue(_ context.Context) ([]domain.Order, error) {
	active := map[domain.OrderStatus]bool{}
	for _, s := range domain.ActiveOrderStatuses {
		active[s] = true
	}
	out := []domain.Order{}
	for _, o := range f.st.orders {
		if active[o.OrderStatus] && o.PaymentStatus != domain.PaymentPaid {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.Before(out[j].OrderDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeOrders) Update(_ context.Context, id int64, order domain.Order) (domain.Order, error) {
	existing, ok := f.st.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	order.ID = id
	order.TotalPrice = existing.TotalPrice
	f.st.orders[id] = order
	return order, nil
}

func (f *fakeOrders) UpdateTotalPrice(_ context.Context, id int64, total float64) error {
	o, ok := f.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.TotalPrice = total
	f.st.orders[id] = o
	return nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id int64, paidAt time.Time, receiptNo string, serviceCharge, tax float64) (domain.Order, error) {
	o, ok := f.st.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	o.PaymentStatus = domain.PaymentPaid
	o.PaidAt = &paidAt
	if o.ReceiptNo == nil {
		o.ReceiptNo = &receiptNo
	}
	o.ServiceCharge = serviceCharge
	o.Tax = tax
	if o.OrderStatus != domain.OrderCancelled {
		o.OrderStatus = domain.OrderPaid
	}
	f.st.orders[id] = o
	return o, nil
}

func (f *fakeOrders) Remove(_ context.Context, id int64) (int64, error) {
	if _, ok := f.st.orders[id]; !ok {
		return 0, nil
	}
	delete(f.st.orders, id)
	for did, d := range f.st.details {
		if d.OrderID == id {
			delete(f.st.details, did)
		}
	}
	return 1, nil
}

func (f *fakeOrders) WorkflowSnapshot(_ context.Context, tableID int64) (domain.TableSnapshot, error) {
	snap := domain.TableSnapshot{}
	billing := map[domain.OrderStatus]bool{
		domain.OrderReady: true, domain.OrderServed: true, domain.OrderBilling: true,
	}
	for _, o := range f.st.orders {
		if o.TableID == nil || *o.TableID != tableID {
			continue
		}
		if o.OrderStatus != domain.OrderCancelled && o.PaymentStatus != domain.PaymentPaid {
			snap.UnpaidOpen++
		}
		if billing[o.OrderStatus] && o.PaymentStatus != domain.PaymentPaid {
			snap.BillingCandidates++
		}
	}
	return snap, nil
}

type fakeDetails struct {
	st *memState
}

func (f *fakeDetails) join(d domain.OrderDetail) domain.OrderDetail {
	if d.MenuID != nil {
		if m, ok := f.st.menus[*d.MenuID]; ok {
			d.MenuName = m.Name
			d.Price = m.Price
		}
	}
	return d
}

func (f *fakeDetails) Create(_ context.Context, d domain.OrderDetail) (domain.OrderDetail, error) {
	f.st.nextDetail++
	d.ID = f.st.nextDetail
	f.st.details[d.ID] = d
	return f.join(d), nil
}

func (f *fakeDetails) FindByID(_ context.Context, id int64) (domain.OrderDetail, bool, error) {
	d, ok := f.st.details[id]
	if !ok {
		return domain.OrderDetail{}, false, nil
	}
	return f.join(d), true, nil
}

func (f *fakeDetails) ListAll(_ context.Context) ([]domain.OrderDetail, error) {
	out := []domain.OrderDetail{}
	for _, d := range f.st.details {
		out = append(out, f.join(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDetails) ListByOrder(_ context.Context, orderID int64) ([]domain.OrderDetail, error) {
	out := []domain.OrderDetail{}
	for _, d := range f.st.details {
		if d.OrderID == orderID {
			out = append(out, f.join(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDetails) Update(_ context.Context, id int64, d domain.OrderDetail) (domain.OrderDetail, error) {
	existing, ok := f.st.details[id]
	if !ok {
		return domain.OrderDetail{}, domain.ErrNotFound
	}
	existing.MenuID = d.MenuID
	existing.Quantity = d.Quantity
	existing.SubTotal = d.SubTotal
	f.st.details[id] = existing
	return f.join(existing), nil
}

func (f *fakeDetails) Remove(_ context.Context, id int64) (int64, error) {
	if _, ok := f.st.details[id]; !ok {
		return 0, nil
	}
	delete(f.st.details, id)
	return 1, nil
}

func (f *fakeDetails) RemoveByOrder(_ context.Context, orderID int64) (int64, error) {
	var n int64
	for id, d := range f.st.details {
		if d.OrderID == orderID {
			delete(f.st.details, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeDetails) ReplaceForOrder(_ context.Context, orderID int64, details []domain.OrderDetail) (float64, error) {
	_, _ = f.RemoveByOrder(context.Background(), orderID)
	total := 0.0
	for _, d := range details {
		d.OrderID = orderID
		f.st.nextDetail++
		d.ID = f.st.nextDetail
		f.st.details[d.ID] = d
		total += d.SubTotal
	}
	if o, ok := f.st.orders[orderID]; ok {
		o.TotalPrice = total
		f.st.orders[orderID] = o
	}
	return total, nil
}

func (f *fakeDetails) SumByOrder(_ context.Context, orderID int64) (float64, error) {
	return f.st.sumDetails(orderID), nil
}

type fakeTables struct {
	st *memState
}

func (f *fakeTables) Create(_ context.Context, t domain.DiningTable) (domain.DiningTable, error) {
	f.st.nextTable++
	t.ID = f.st.nextTable
	if t.Name == "" {
		t.Name = fmt.Sprintf("Table %d", t.ID)
	}
	f.st.tables[t.ID] = t
	return t, nil
}

func (f *fakeTables) FindByID(_ context.Context, id int64) (domain.DiningTable, bool, error) {
	t, ok := f.st.tables[id]
	return t, ok, nil
}

func (f *fakeTables) ListAll(_ context.Context) ([]domain.DiningTable, error) {
	out := []domain.DiningTable{}
	for _, t := range f.st.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTables) UpdateStatus(_ context.Context, id int64, status domain.TableStatus) (domain.DiningTable, error) {
	t, ok := f.st.tables[id]
	if !ok {
		return domain.DiningTable{}, domain.ErrNotFound
	}
	t.Status = status
	f.st.tables[id] = t
	return t, nil
}

func (f *fakeTables) Remove(_ context.Context, id int64) (int64, error) {
	if _, ok := f.st.tables[id]; !ok {
		return 0, nil
	}
	delete(f.st.tables, id)
	return 1, nil
}

type fakeMenus struct {
	st *memState
}

func (f *fakeMenus) Create(_ context.Context, m domain.Menu) (domain.Menu, error) {
	f.st.nextMenu++
	m.ID = f.st.nextMenu
	f.st.menus[m.ID] = m
	return m, nil
}

func (f *fakeMenus) FindByID(_ context.Context, id int64) (domain.Menu, bool, error) {
	m, ok := f.st.menus[id]
	return m, ok, nil
}

func (f *fakeMenus) ListAll(_ context.Context) ([]domain.Menu, error) {
	out := []domain.Menu{}
	for _, m := range f.st.menus {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMenus) Update(_ context.Context, id int64, m domain.Menu) (domain.Menu, error) {
	if _, ok := f.st.menus[id]; !ok {
		return domain.Menu{}, domain.ErrNotFound
	}
	m.ID = id
	f.st.menus[id] = m
	return m, nil
}

func (f *fakeMenus) Remove(_ context.Context, id int64) (int64, error) {
	if _, ok := f.st.menus[id]; !ok {
		return 0, nil
	}
	delete(f.st.menus, id)
	return 1, nil
}

type fakeMemberships struct {
	st *memState
}

func (f *fakeMemberships) Create(_ context.Context, m domain.Membership) (domain.Membership, error) {
	m.ID = int64(len(f.st.members) + 1)
	f.st.members[m.ID] = m
	return m, nil
}

func (f *fakeMemberships) FindByID(_ context.Context, id int64) (domain.Membership, bool, error) {
	m, ok := f.st.members[id]
	return m, ok, nil
}

func (f *fakeMemberships) ListAll(_ context.Context) ([]domain.Membership, error) {
	out := []domain.Membership{}
	for _, m := range f.st.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newFakeRepo(st *memState) *repository.Repository {
	return &repository.Repository{
		Orders:      &fakeOrders{st: st},
		Details:     &fakeDetails{st: st},
		Tables:      &fakeTables{st: st},
		Menus:       &fakeMenus{st: st},
		Memberships: &fakeMemberships{st: st},
	}
}
