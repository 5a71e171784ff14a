package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/service"
)

type mockOrders struct {
	createFn  func(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	updateFn  func(ctx context.Context, id int64, req domain.UpdateOrderRequest) (domain.Order, error)
	payFn     func(ctx context.Context, id int64, req domain.PayOrderRequest) (domain.Order, error)
	receiptFn func(ctx context.Context, id int64) (domain.Receipt, error)
	removeFn  func(ctx context.Context, id int64) (int64, error)
	getFn     func(ctx context.Context, id int64) (domain.Order, error)
	listFn    func(ctx context.Context) ([]domain.Order, error)
	queueFn   func(ctx context.Context) ([]domain.Order, error)
}

func (m *mockOrders) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	return m.createFn(ctx, req)
}

func (m *mockOrders) Update(ctx context.Context, id int64, req domain.UpdateOrderRequest) (domain.Order, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockOrders) MarkPaid(ctx context.Context, id int64, req domain.PayOrderRequest) (domain.Order, error) {
	return m.payFn(ctx, id, req)
}

func (m *mockOrders) GetReceipt(ctx context.Context, id int64) (domain.Receipt, error) {
	return m.receiptFn(ctx, id)
}

func (m *mockOrders) Remove(ctx context.Context, id int64) (int64, error) {
	return m.removeFn(ctx, id)
}

func (m *mockOrders) Get(ctx context.Context, id int64) (domain.Order, error) {
	return m.getFn(ctx, id)
}

func (m *mockOrders) List(ctx context.Context) ([]domain.Order, error) {
	return m.listFn(ctx)
}

func (m *mockOrders) KitchenQueue(ctx context.Context) ([]domain.Order, error) {
	return m.queueFn(ctx)
}

type mockTables struct {
	service.TableServiceInterface
	removeFn func(ctx context.Context, id int64) (int64, error)
}

func (m *mockTables) Remove(ctx context.Context, id int64) (int64, error) {
	return m.removeFn(ctx, id)
}

func newTestHandler(orders *mockOrders, tables *mockTables, bus *eventbus.Bus, heartbeat time.Duration) http.Handler {
	if bus == nil {
		bus = eventbus.New(nil)
	}
	svc := &service.Service{Orders: orders, Tables: tables}
	return Router(New(svc, bus, logger.New("test"), heartbeat))
}

func TestCreateOrderReturns201(t *testing.T) {
	orders := &mockOrders{
		createFn: func(_ context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
			require.Len(t, req.Details, 1)
			return domain.Order{ID: 1, TotalPrice: 50, OrderStatus: domain.OrderPending, PaymentStatus: domain.PaymentUnpaid}, nil
		},
	}
	srv := newTestHandler(orders, nil, nil, 0)

	body := bytes.NewBufferString(`{"details":[{"menu_id":1,"quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", body)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 50.0, got.TotalPrice)
}

func TestCreateOrderValidationFailureReturns400(t *testing.T) {
	orders := &mockOrders{
		createFn: func(context.Context, domain.CreateOrderRequest) (domain.Order, error) {
			return domain.Order{}, domain.NewValidationError("no valid menu items in order")
		},
	}
	srv := newTestHandler(orders, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{"details":[]}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no valid menu items")
}

func TestCreateOrderMalformedBodyReturns400(t *testing.T) {
	srv := newTestHandler(&mockOrders{}, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{nope`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderUnknownReturns404(t *testing.T) {
	orders := &mockOrders{
		getFn: func(context.Context, int64) (domain.Order, error) {
			return domain.Order{}, domain.ErrNotFound
		},
	}
	srv := newTestHandler(orders, nil, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/99", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestGetOrderBadIDReturns400(t *testing.T) {
	srv := newTestHandler(&mockOrders{}, nil, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayOrderAcceptsEmptyBody(t *testing.T) {
	orders := &mockOrders{
		payFn: func(_ context.Context, id int64, req domain.PayOrderRequest) (domain.Order, error) {
			assert.Nil(t, req.ServiceCharge)
			no := "R-20260309-000005"
			return domain.Order{ID: id, PaymentStatus: domain.PaymentPaid, ReceiptNo: &no}, nil
		},
	}
	srv := newTestHandler(orders, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/5/pay", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "R-20260309-000005")
}

func TestDeleteTableConflictReturns409(t *testing.T) {
	tables := &mockTables{
		removeFn: func(context.Context, int64) (int64, error) {
			return 0, errors.Wrap(domain.ErrConflict, "cannot drop table with active unpaid orders")
		},
	}
	srv := newTestHandler(&mockOrders{}, tables, nil, 0)

	req := httptest.NewRequest(http.MethodDelete, "/api/tables/3", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "unpaid orders")
}

func TestInternalErrorCarriesStage(t *testing.T) {
	orders := &mockOrders{
		removeFn: func(context.Context, int64) (int64, error) {
			return 0, domain.AtStage("orders.remove", assert.AnError)
		},
	}
	srv := newTestHandler(orders, nil, nil, 0)

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/4", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "orders.remove", body["where"])
}

// sseRecorder collects stream output behind a mutex so the test can
// poll it while the handler goroutine is still writing.
type sseRecorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	header http.Header
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{header: http.Header{}}
}

func (r *sseRecorder) Header() http.Header { return r.header }

func (r *sseRecorder) WriteHeader(int) {}

func (r *sseRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *sseRecorder) Flush() {}

func (r *sseRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestStreamOrdersDeliversConnectedAndBusEvents(t *testing.T) {
	bus := eventbus.New(nil)
	srv := newTestHandler(&mockOrders{}, nil, bus, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		srv.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	bus.Publish(domain.EventOrderCreated, map[string]any{"order_id": int64(12)})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.String(), "event: order_created")
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	body := rec.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.True(t, strings.Index(body, "event: connected") < strings.Index(body, "event: order_created"))
	assert.Contains(t, body, `"order_id":12`)
	assert.Equal(t, 0, bus.Subscribers(), "subscription released on disconnect")
}

func TestStreamOrdersEmitsHeartbeats(t *testing.T) {
	bus := eventbus.New(nil)
	srv := newTestHandler(&mockOrders{}, nil, bus, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream", nil).WithContext(ctx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		srv.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(rec.String(), "event: heartbeat")
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
