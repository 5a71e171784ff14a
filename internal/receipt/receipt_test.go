package receipt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodflow/internal/domain"
	"foodflow/internal/repository"
)

type stubOrders struct {
	repository.OrderRepositoryInterface
	order domain.Order
	found bool
}

func (s *stubOrders) FindByID(context.Context, int64) (domain.Order, bool, error) {
	return s.order, s.found, nil
}

type stubDetails struct {
	repository.DetailRepositoryInterface
	details []domain.OrderDetail
}

func (s *stubDetails) ListByOrder(context.Context, int64) ([]domain.OrderDetail, error) {
	return s.details, nil
}

func TestBuildSumsChargesIntoGrandTotal(t *testing.T) {
	receiptNo := "R-20260309-000007"
	paidAt := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	orders := &stubOrders{
		order: domain.Order{
			ID:            7,
			TotalPrice:    120,
			ServiceCharge: 10,
			Tax:           5,
			PaymentStatus: domain.PaymentPaid,
			ReceiptNo:     &receiptNo,
			PaidAt:        &paidAt,
		},
		found: true,
	}
	details := &stubDetails{details: []domain.OrderDetail{
		{ID: 1, OrderID: 7, Quantity: 2, SubTotal: 100},
		{ID: 2, OrderID: 7, Quantity: 2, SubTotal: 20},
	}}

	rec, found, err := New(orders, details).Build(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, int64(7), rec.OrderID)
	assert.Equal(t, 120.0, rec.Subtotal)
	assert.Equal(t, 135.0, rec.GrandTotal)
	assert.Equal(t, &receiptNo, rec.ReceiptNo)
	assert.Len(t, rec.Details, 2)
}

func TestBuildUnpaidOrderStillProducesReceipt(t *testing.T) {
	orders := &stubOrders{
		order: domain.Order{ID: 3, TotalPrice: 40, PaymentStatus: domain.PaymentUnpaid},
		found: true,
	}
	rec, found, err := New(orders, &stubDetails{}).Build(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, rec.ReceiptNo)
	assert.Nil(t, rec.PaidAt)
	assert.Equal(t, 40.0, rec.GrandTotal)
}

func TestBuildUnknownOrder(t *testing.T) {
	_, found, err := New(&stubOrders{}, &stubDetails{}).Build(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, found)
}
