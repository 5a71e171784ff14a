// Package receipt computes billing summaries from persisted order
// state. Building a receipt has no side effects.
package receipt

import (
	"context"

	"foodflow/internal/domain"
	"foodflow/internal/repository"
)

type CalculatorInterface interface {
	Build(ctx context.Context, orderID int64) (domain.Receipt, bool, error)
}

type Calculator struct {
	orders  repository.OrderRepositoryInterface
	details repository.DetailRepositoryInterface
}

func New(orders repository.OrderRepositoryInterface, details repository.DetailRepositoryInterface) *Calculator {
	return &Calculator{orders: orders, details: details}
}

func (c *Calculator) Build(ctx context.Context, orderID int64) (domain.Receipt, bool, error) {
	order, found, err := c.orders.FindByID(ctx, orderID)
	if err != nil || !found {
		return domain.Receipt{}, false, err
	}

	details, err := c.details.ListByOrder(ctx, orderID)
	if err != nil {
		return domain.Receipt{}, false, err
	}

	return domain.Receipt{
		OrderID:       order.ID,
		ReceiptNo:     order.ReceiptNo,
		OrderDate:     order.OrderDate,
		PaidAt:        order.PaidAt,
		TableID:       order.TableID,
		MembershipID:  order.MembershipID,
		PaymentStatus: order.PaymentStatus,
		Subtotal:      order.TotalPrice,
		ServiceCharge: order.ServiceCharge,
		Tax:           order.Tax,
		GrandTotal:    order.TotalPrice + order.ServiceCharge + order.Tax,
		Details:       details,
	}, true, nil
}
