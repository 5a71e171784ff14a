package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodflow/internal/domain"
)

func TestCreateDetailRecomputesOrderTotal(t *testing.T) {
	f := newFixture()
	noodles := f.st.addMenu("Noodles", 50)
	cake := f.st.addMenu("Cake", 35)

	order, err := f.svc.Orders.Create(context.Background(), domain.CreateOrderRequest{
		Details: []domain.OrderItemRequest{{MenuID: noodles.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.TotalPrice)

	detail, err := f.svc.Details.Create(context.Background(), domain.CreateDetailRequest{
		OrderID:  order.ID,
		MenuID:   cake.ID,
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, detail.SubTotal)

	assert.Equal(t, 120.0, f.st.orders[order.ID].TotalPrice)
}

func TestCreateDetailUnknownMenuPricesAtZero(t *testing.T) {
	f := newFixture()
	dish := f.st.addMenu("Dish", 25)

	order, err := f.svc.Orders.Create(context.Background(), domain.CreateOrderRequest{
		Details: []domain.OrderItemRequest{{MenuID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	detail, err := f.svc.Details.Create(context.Background(), domain.CreateDetailRequest{
		OrderID:  order.ID,
		MenuID:   999,
		Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, detail.SubTotal)
	assert.Equal(t, 4, detail.Quantity)
	assert.Equal(t, 25.0, f.st.orders[order.ID].TotalPrice)
}

func TestCreateDetailUnknownOrder(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Details.Create(context.Background(), domain.CreateDetailRequest{OrderID: 31, MenuID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDetailReprices(t *testing.T) {
	f := newFixture()
	noodles := f.st.addMenu("Noodles", 50)
	cake := f.st.addMenu("Cake", 35)

	order, err := f.svc.Orders.Create(context.Background(), domain.CreateOrderRequest{
		Details: []domain.OrderItemRequest{{MenuID: noodles.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	detailID := order.Details[0].ID

	updated, err := f.svc.Details.Update(context.Background(), detailID, domain.UpdateDetailRequest{
		MenuID:   cake.ID,
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 35.0, updated.SubTotal)
	assert.Equal(t, 35.0, f.st.orders[order.ID].TotalPrice)
}

func TestRemoveLastDetailKeepsTableOccupied(t *testing.T) {
	f := newFixture()
	dish := f.st.addMenu("Dish", 25)
	table := f.st.addTable("T1")

	order, err := f.svc.Orders.Create(context.Background(), domain.CreateOrderRequest{
		TableID: ptr(table.ID),
		Details: []domain.OrderItemRequest{{MenuID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TableOccupied, f.st.tables[table.ID].Status)

	deleted, err := f.svc.Details.Remove(context.Background(), order.Details[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Equal(t, 0.0, f.st.orders[order.ID].TotalPrice)
	// The empty order is still unpaid and open, so the table stays
	// occupied until the order itself is paid or removed.
	assert.Equal(t, domain.TableOccupied, f.st.tables[table.ID].Status)
}

func TestRemoveDetailUnknown(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Details.Remove(context.Background(), 44)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
