package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/llatelier/storefront/internal/cart"
	"github.com/llatelier/storefront/internal/confirm"
	"github.com/llatelier/storefront/internal/shopapi"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/llatelier/storefront/pkg/logger"
	"github.com/llatelier/storefront/pkg/metrics"
)

type shopClient interface {
	CreateOrder(ctx context.Context, req shopapi.CreateOrderRequest) (*shopapi.Order, error)
	CreateCheckoutSession(ctx context.Context, req shopapi.CreateSessionRequest) (*shopapi.CheckoutSession, error)
	CheckoutStatus(ctx context.Context, sessionID string) (*shopapi.CheckoutStatus, error)
}

// CartReader is the read-only cart surface Begin consumes.
type CartReader interface {
	Items() []cart.LineItem
	Len() int
}

// Customer identifies the buyer on the order submitted to the shop API.
type Customer struct {
	Name  string
	Email string
}

// Service orchestrates checkout against the shop API: order creation plus
// the hosted-payment session, and the post-payment confirmation poll.
type Service interface {
	Begin(ctx context.Context, crt CartReader, customer Customer) (*shopapi.CheckoutSession, error)
	Confirm(ctx context.Context, sessionID string, crt confirm.CartClearer) (confirm.Result, error)
}

// ConfirmBudget caps the confirmation poll: how many status queries to
// issue and how long to wait between them.
type ConfirmBudget struct {
	MaxAttempts int
	PollDelay   time.Duration
}

type service struct {
	shop        shopClient
	originURL   string
	maxAttempts int
	pollDelay   time.Duration
	metrics     *metrics.ConfirmationMetrics
	logg        *logger.Logger
}

// NewService builds the checkout service. Metrics and logger are optional.
func NewService(shop shopClient, originURL string, budget ConfirmBudget, m *metrics.ConfirmationMetrics, logg *logger.Logger) (Service, error) {
	if shop == nil {
		return nil, fmt.Errorf("shop client required")
	}
	if strings.TrimSpace(originURL) == "" {
		return nil, fmt.Errorf("origin url required")
	}
	return &service{
		shop:        shop,
		originURL:   originURL,
		maxAttempts: budget.MaxAttempts,
		pollDelay:   budget.PollDelay,
		metrics:     m,
		logg:        logg,
	}, nil
}

func (s *service) Begin(ctx context.Context, crt CartReader, customer Customer) (*shopapi.CheckoutSession, error) {
	if crt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if crt.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	order, err := s.shop.CreateOrder(ctx, shopapi.CreateOrderRequest{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Items:         orderItems(crt.Items()),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	session, err := s.shop.CreateCheckoutSession(ctx, shopapi.CreateSessionRequest{
		OrderID:   order.ID,
		OriginURL: s.originURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return session, nil
}

func (s *service) Confirm(ctx context.Context, sessionID string, crt confirm.CartClearer) (confirm.Result, error) {
	poller, err := confirm.NewPoller(sessionID, s.shop, crt,
		confirm.WithBudget(s.maxAttempts, s.pollDelay),
		confirm.WithLogger(s.logg),
		confirm.WithMetrics(s.metrics),
	)
	if err != nil {
		return confirm.Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "confirmation poller")
	}
	return poller.Run(ctx)
}

func orderItems(items []cart.LineItem) []shopapi.OrderItem {
	out := make([]shopapi.OrderItem, len(items))
	for i, item := range items {
		out[i] = shopapi.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
		}
		if item.Variant != nil {
			out[i].Variant = &shopapi.OrderVariant{
				Size:  item.Variant.Size,
				Color: item.Variant.Color,
			}
		}
	}
	return out
}
