package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Order statuses shown as chips on the orders page.
const (
	StatusNew        = "New"
	StatusOverdue    = "Overdue"
	StatusRefund     = "Refund"
	StatusDelivering = "Delivering"
	StatusCompleted  = "Completed"
)

type LineItem struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	VariantID     int64  `json:"variant_id"`
	ProductName   string `json:"product_name"`
	VariantName   string `json:"variant_name"`
	Quantity      int    `json:"quantity"`
	Price         int    `json:"price"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}

// Order embeds its customer rather than referencing it by id only.
type Order struct {
	ID              int64          `json:"id"`
	CustomerID      int64          `json:"customer_id"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	ShippingStatus  string         `json:"shipping_status"`
	Total           int            `json:"total"`
	Subtotal        int            `json:"subtotal"`
	DiscountID      *int64         `json:"discount_id"`
	CurrencyCode    string         `json:"currency_code"`
	Metadata        map[string]any `json:"metadata"`
	PaymentProvider string         `json:"payment_provider"`
	Customer        *Customer      `json:"customer"`
	Items           []LineItem     `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       *time.Time     `json:"deleted_at"`
}

func (o Order) Key() int64 { return o.ID }

// Summary renders "#<id>: <product>(<variant>) x <qty>, ...".
func (o Order) Summary() string {
	items := lo.Map(o.Items, func(li LineItem, _ int) string {
		return fmt.Sprintf("%s(%s) x %d", li.ProductName, li.VariantName, li.Quantity)
	})
	return fmt.Sprintf("#%d: %s", o.ID, strings.Join(items, ", "))
}

// DeliverTo is the customer's "address, country" with empty parts dropped.
func (o Order) DeliverTo() string {
	if o.Customer == nil {
		return ""
	}
	parts := lo.Compact([]string{Deref(o.Customer.Address), Deref(o.Customer.Country)})
	return strings.Join(parts, ", ")
}

// Note returns the free-form "notes" metadata entry, if any.
func (o Order) Note() string {
	if note, ok := o.Metadata["notes"].(string); ok {
		return note
	}
	return ""
}
