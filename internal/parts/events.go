package parts

import (
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
)

// Stock change sources recorded on part_stock_changed events.
const (
	SourceCatalog   = "catalog"
	SourceCheckout  = "checkout"
	SourceAssistant = "assistant"
)

// StockChangedEvent builds the outbox event for a stock movement.
func StockChangedEvent(part models.Part, previous, current int, source string) outbox.DomainEvent {
	sku := ""
	if part.SKU != nil {
		sku = *part.SKU
	}
	return outbox.DomainEvent{
		EventType:     enums.EventPartStockChanged,
		AggregateType: enums.AggregatePart,
		AggregateID:   part.ID,
		Data: outbox.PartStockChangedEvent{
			PartID:   part.ID,
			SKU:      sku,
			Previous: previous,
			Current:  current,
			Source:   source,
		},
	}
}

// StockChange is a committed before/after pair waiting for its post-commit hook.
type StockChange struct {
	Part     models.Part
	Previous int
	Current  int
}
