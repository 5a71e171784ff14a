package domain

import "time"

type Order struct {
	ID            int64         `json:"order_id"`
	TableID       *int64        `json:"table_id"`
	MembershipID  *int64        `json:"membership_id"`
	OrderDate     time.Time     `json:"order_date"`
	TotalPrice    float64       `json:"total_price"`
	OrderStatus   OrderStatus   `json:"order_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at"`
	ReceiptNo     *string       `json:"receipt_no"`
	ServiceCharge float64       `json:"service_charge"`
	Tax           float64       `json:"tax"`
	Details       []OrderDetail `json:"details,omitempty"`
}

type OrderDetail struct {
	ID       int64  `json:"order_detail_id"`
	OrderID  int64  `json:"order_id"`
	MenuID   *int64 `json:"menu_id"`
	Quantity int    `json:"quantity"`
	// SubTotal is a snapshot of quantity * menu price taken when the
	// detail is created; it does not follow later menu price changes.
	SubTotal float64 `json:"sub_total"`
	MenuName string  `json:"menu_name,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

type DiningTable struct {
	ID        int64       `json:"table_id"`
	Name      string      `json:"table_name"`
	Status    TableStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type Menu struct {
	ID        int64     `json:"menu_id"`
	Name      string    `json:"menu_name"`
	Category  *string   `json:"category_name"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Membership struct {
	ID        int64     `json:"membership_id"`
	FirstName string    `json:"member_name"`
	LastName  string    `json:"member_lastname"`
	Phone     *string   `json:"phone"`
	Email     string    `json:"email"`
	Tier      string    `json:"tier"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is computed from persisted order state; it is never stored
// as its own row.
type Receipt struct {
	OrderID       int64         `json:"order_id"`
	ReceiptNo     *string       `json:"receipt_no"`
	OrderDate     time.Time     `json:"order_date"`
	PaidAt        *time.Time    `json:"paid_at"`
	TableID       *int64        `json:"table_id"`
	MembershipID  *int64        `json:"membership_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Subtotal      float64       `json:"subtotal"`
	ServiceCharge float64       `json:"service_charge"`
	Tax           float64       `json:"tax"`
	GrandTotal    float64       `json:"grand_total"`
	Details       []OrderDetail `json:"details"`
}

// TableSnapshot aggregates the orders currently attached to a table.
// UnpaidOpen counts orders that are neither cancelled nor paid;
// BillingCandidates counts unpaid orders in ready/served/billing.
type TableSnapshot struct {
	UnpaidOpen        int `json:"unpaid_open_count"`
	BillingCandidates int `json:"billing_candidate_count"`
}
