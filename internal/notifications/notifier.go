package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

// Counter receives the number of notifications created per type.
type Counter interface {
	AddNotifications(kind string, n int)
}

// Notifier creates notifications after a write has committed. Failures are
// logged and swallowed so the caller's response is never affected.
type Notifier struct {
	repo    Repository
	logg    *logger.Logger
	counter Counter
	low     int
	high    int
}

// NewNotifier builds a Notifier with the stock thresholds from config.
func NewNotifier(repo Repository, catalog config.CatalogConfig, logg *logger.Logger, counter Counter) *Notifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Notifier{repo: repo, logg: logg, counter: counter, low: catalog.LowStock(), high: catalog.HighStock()}
}

// LowStockThreshold is the stock level at or below which a part is low.
func (n *Notifier) LowStockThreshold() int {
	return n.low
}

// StockChanged alerts every staff user when stock crosses the low or high threshold.
func (n *Notifier) StockChanged(ctx context.Context, part models.Part, previous, current int) {
	kind, ok := n.stockTransition(previous, current)
	if !ok {
		return
	}

	ctx = n.logg.WithFields(ctx, map[string]any{
		"part_id":  part.ID.String(),
		"previous": previous,
		"current":  current,
		"type":     string(kind),
	})
	staff, err := n.repo.StaffUserIDs(ctx)
	if err != nil {
		n.logg.Error(ctx, "notifications.stock.staff_lookup_failed", err)
		return
	}
	if len(staff) == 0 {
		return
	}

	message := stockMessage(kind, part, current)
	partID := part.ID
	rows := make([]models.Notification, 0, len(staff))
	for _, userID := range staff {
		rows = append(rows, models.Notification{
			UserID:  userID,
			PartID:  &partID,
			Type:    kind,
			Message: message,
		})
	}
	if err := n.repo.CreateMany(ctx, rows); err != nil {
		n.logg.Error(ctx, "notifications.stock.create_failed", err)
		return
	}
	n.count(kind, len(rows))
	n.logg.Info(ctx, "notifications.stock.sent")
}

// OrderStatusChanged tells the order's owner about a new status.
func (n *Notifier) OrderStatusChanged(ctx context.Context, order models.Order, previous, current enums.OrderStatus) {
	if previous == current {
		return
	}

	orderID := order.ID
	row := models.Notification{
		UserID:  order.UserID,
		OrderID: &orderID,
		Type:    enums.NotificationTypeOrderStatusChanged,
		Message: fmt.Sprintf("Tu pedido %s cambió de estado: %s", shortID(order.ID.String()), current.Label()),
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"previous": string(previous),
		"current":  string(current),
	})
	if err := n.repo.CreateMany(ctx, []models.Notification{row}); err != nil {
		n.logg.Error(ctx, "notifications.order_status.create_failed", err)
		return
	}
	n.count(row.Type, 1)
}

func (n *Notifier) stockTransition(previous, current int) (enums.NotificationType, bool) {
	switch {
	case previous == current:
		return "", false
	case previous > n.low && current <= n.low:
		return enums.NotificationTypeStockLow, true
	case previous <= n.high && current > n.high:
		return enums.NotificationTypeStockHigh, true
	default:
		return "", false
	}
}

func (n *Notifier) count(kind enums.NotificationType, total int) {
	if n.counter != nil {
		n.counter.AddNotifications(string(kind), total)
	}
}

func stockMessage(kind enums.NotificationType, part models.Part, current int) string {
	label := part.Name
	if part.SKU != nil && strings.TrimSpace(*part.SKU) != "" {
		label = fmt.Sprintf("%s (SKU %s)", part.Name, *part.SKU)
	}
	if kind == enums.NotificationTypeStockLow {
		return fmt.Sprintf("Stock bajo: %s tiene %d unidades", label, current)
	}
	return fmt.Sprintf("Stock repuesto: %s ahora tiene %d unidades", label, current)
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
