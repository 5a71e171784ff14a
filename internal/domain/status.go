package domain

import "strings"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderBilling   OrderStatus = "billing"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderPending: {}, OrderConfirmed: {}, OrderPreparing: {}, OrderReady: {},
	OrderServed: {}, OrderBilling: {}, OrderPaid: {}, OrderCancelled: {},
}

// ActiveOrderStatuses are the statuses the kitchen queue cares about:
// everything that is still in flight and not yet paid or cancelled.
var ActiveOrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderServed, OrderBilling,
}

// NormalizeOrderStatus coerces unrecognized or empty input to pending.
func NormalizeOrderStatus(s string) OrderStatus {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return OrderPending
	}
	if _, ok := orderStatuses[st]; !ok {
		return OrderPending
	}
	return st
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentStatuses = map[PaymentStatus]struct{}{
	PaymentUnpaid: {}, PaymentPaid: {}, PaymentRefunded: {},
}

// NormalizePaymentStatus coerces unrecognized or empty input to unpaid.
func NormalizePaymentStatus(s string) PaymentStatus {
	st := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return PaymentUnpaid
	}
	if _, ok := paymentStatuses[st]; !ok {
		return PaymentUnpaid
	}
	return st
}

type TableStatus string

const (
	TableOpen     TableStatus = "open"
	TableOccupied TableStatus = "occupied"
	TableBilling  TableStatus = "billing"
	TableClosed   TableStatus = "closed"
)

var tableStatuses = map[TableStatus]struct{}{
	TableOpen: {}, TableOccupied: {}, TableBilling: {}, TableClosed: {},
}

func ValidTableStatus(s string) bool {
	_, ok := tableStatuses[TableStatus(strings.ToLower(strings.TrimSpace(s)))]
	return ok
}

// NormalizeTableStatus coerces unrecognized or empty input to open.
func NormalizeTableStatus(s string) TableStatus {
	st := TableStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tableStatuses[st]; !ok {
		return TableOpen
	}
	return st
}
