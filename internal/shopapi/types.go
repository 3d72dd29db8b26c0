package shopapi

import "github.com/shopspring/decimal"

// Product mirrors the catalog payload served by the shop API. Titles and
// descriptions come in both storefront languages; the cart snapshots the
// default-language title at add time.
type Product struct {
	ID            string           `json:"id"`
	TitlePT       string           `json:"title_pt"`
	TitleEN       string           `json:"title_en"`
	DescriptionPT string           `json:"description_pt,omitempty"`
	DescriptionEN string           `json:"description_en,omitempty"`
	Category      string           `json:"category,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Images        []string         `json:"images"`
	Variants      *ProductVariants `json:"variants,omitempty"`
	IsBundle      bool             `json:"is_bundle,omitempty"`
	BundleItems   []BundleItem     `json:"bundle_items,omitempty"`
}

// ProductVariants lists the selectable size/color axes of a product.
type ProductVariants struct {
	Sizes  []string `json:"sizes,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// BundleItem names one component of a bundled product.
type BundleItem struct {
	TitlePT string `json:"title_pt"`
	TitleEN string `json:"title_en"`
}

// OrderItem is one line of the order-submission payload.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variant   *OrderVariant   `json:"variant,omitempty"`
}

// OrderVariant carries the size/color selection on an order line.
type OrderVariant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
}

// Order is the created order returned by the shop API.
type Order struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
}

// CreateSessionRequest is the POST /checkout/session payload.
type CreateSessionRequest struct {
	OrderID   string `json:"order_id"`
	OriginURL string `json:"origin_url"`
}

// CheckoutSession points the client at the hosted payment page.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Payment provider status values the poller branches on. Anything else is
// treated as still pending.
const (
	PaymentStatusPaid = "paid"
	SessionExpired    = "expired"
)

// CheckoutStatus is the GET /checkout/status/{session_id} payload.
type CheckoutStatus struct {
	PaymentStatus string         `json:"payment_status"`
	Status        string         `json:"status"`
	AmountTotal   int64          `json:"amount_total"`
	Metadata      StatusMetadata `json:"metadata"`
}

// StatusMetadata carries the order details shown on the confirmation page.
type StatusMetadata struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// Paid reports whether the session settled successfully.
func (s CheckoutStatus) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Expired reports whether the session can no longer be paid.
func (s CheckoutStatus) Expired() bool {
	return s.Status == SessionExpired
}

// ContactRequest is the POST /contact payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
