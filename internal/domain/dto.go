package domain

import "time"

type OrderItemRequest struct {
	MenuID   int64 `json:"menu_id"`
	Quantity int   `json:"quantity,omitempty"`
}

type CreateOrderRequest struct {
	TableID      *int64             `json:"table_id,omitempty"`
	MembershipID *int64             `json:"membership_id,omitempty"`
	OrderDate    *time.Time         `json:"order_date,omitempty"`
	OrderStatus  string             `json:"order_status,omitempty"`
	Details      []OrderItemRequest `json:"details"`
}

// UpdateOrderRequest replaces the order's scalar fields; Details, when
// present (even empty), replaces the entire line item set.
type UpdateOrderRequest struct {
	TableID       *int64              `json:"table_id,omitempty"`
	MembershipID  *int64              `json:"membership_id,omitempty"`
	OrderDate     *time.Time          `json:"order_date,omitempty"`
	OrderStatus   string              `json:"order_status,omitempty"`
	PaymentStatus string              `json:"payment_status,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	ReceiptNo     *string             `json:"receipt_no,omitempty"`
	ServiceCharge *float64            `json:"service_charge,omitempty"`
	Tax           *float64            `json:"tax,omitempty"`
	Details       *[]OrderItemRequest `json:"details,omitempty"`
}

type PayOrderRequest struct {
	ServiceCharge *float64 `json:"service_charge,omitempty"`
	Tax           *float64 `json:"tax,omitempty"`
}

type CreateDetailRequest struct {
	OrderID  int64 `json:"order_id"`
	MenuID   int64 `json:"menu_id"`
	Quantity int   `json:"quantity,omitempty"`
}

type UpdateDetailRequest struct {
	MenuID   int64 `json:"menu_id"`
	Quantity int   `json:"quantity,omitempty"`
}

type CreateTableRequest struct {
	TableName string `json:"table_name,omitempty"`
	Status    string `json:"status,omitempty"`
}

type TableStatusRequest struct {
	Status string `json:"status"`
}

type CreateMenuRequest struct {
	MenuName string  `json:"menu_name"`
	Category *string `json:"category_name,omitempty"`
	Price    float64 `json:"price"`
	Status   string  `json:"status,omitempty"`
}

type CreateMembershipRequest struct {
	FirstName string  `json:"member_name"`
	LastName  string  `json:"member_lastname"`
	Phone     *string `json:"phone,omitempty"`
	Email     string  `json:"email"`
	Tier      string  `json:"tier,omitempty"`
}
