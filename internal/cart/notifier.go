package cart

import (
	"context"

	"github.com/llatelier/storefront/pkg/logger"
)

// Notifier receives the user-visible cart events, the toasts of the original
// storefront UI. Quantity updates deliberately raise no notification.
type Notifier interface {
	ItemAdded(ctx context.Context, item LineItem)
	ItemRemoved(ctx context.Context, item LineItem)
}

// LogNotifier emits cart notifications into the structured log. The web layer
// turns the handler responses into toasts; this keeps a server-side trace.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) ItemAdded(ctx context.Context, item LineItem) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{"item_id": item.ItemID, "quantity": item.Quantity})
	n.logg.Info(ctx, "cart.item_added")
}

func (n *LogNotifier) ItemRemoved(ctx context.Context, item LineItem) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithField(ctx, "item_id", item.ItemID)
	n.logg.Info(ctx, "cart.item_removed")
}
