package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

// ListFilters describe the inputs supported by the order listings.
type ListFilters struct {
	Status *enums.OrderStatus
	Query  string
}

// ListResult wraps paginated orders plus the pagination envelope.
type ListResult struct {
	Items      []models.Order  `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// CheckoutRequest is the payload for converting the cart into an order.
type CheckoutRequest struct {
	ShippingAddress types.Address  `json:"shipping_address" validate:"required"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
}

// StatusUpdateRequest is the admin payload for advancing an order.
type StatusUpdateRequest struct {
	Status        string  `json:"status" validate:"required"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// Stats aggregates a customer's order history.
type Stats struct {
	Total      int64                       `json:"total"`
	ByStatus   map[enums.OrderStatus]int64 `json:"byStatus"`
	TotalSpent decimal.Decimal             `json:"totalSpent"`
}

// PublicOrderItem is the identity-free line shape for order tracking.
type PublicOrderItem struct {
	Name      string          `json:"name"`
	Variant   *string         `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PublicOrderView is the tracking shape: it carries no user id and no email.
type PublicOrderView struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	IsGuestOrder  bool                `json:"isGuestOrder"`
	Items         []PublicOrderItem   `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Total         decimal.Decimal     `json:"total"`
	CreatedAt     time.Time           `json:"created_at"`
}

func publicView(order *models.Order) *PublicOrderView {
	view := &PublicOrderView{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		IsGuestOrder:  order.UserID == nil,
		Items:         make([]PublicOrderItem, 0, len(order.Items)),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingFee:   order.ShippingFee,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, PublicOrderItem{
			Name:      item.Name,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return view
}
