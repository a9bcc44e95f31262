package dashboard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/internal/orders"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
)

// Dashboard is the staff analytics payload.
type Dashboard struct {
	Revenue              Revenue           `json:"revenue"`
	OrdersByStatus       []StatusCount     `json:"orders_by_status"`
	SalesByDay           []DaySales        `json:"sales_by_day"`
	TopProducts          []ProductSales    `json:"top_products"`
	TopProductsByRevenue []ProductSales    `json:"top_products_by_revenue"`
	LowStock             []LowStockPart    `json:"low_stock"`
	RecentOrders         []orders.OrderDTO `json:"recent_orders"`
	Summary              Summary           `json:"summary"`
	Metrics              Metrics           `json:"metrics"`
	OrdersByPriceBand    []BandCount       `json:"orders_by_price_band"`
	CategorySales        []CategorySales   `json:"category_sales"`
}

type Revenue struct {
	Total       decimal.Decimal `json:"total"`
	OrdersCount int64           `json:"orders_count"`
}

type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Label  string            `json:"label"`
	Count  int64             `json:"count"`
}

// DaySales is one zero-filled point of the trailing sales series.
type DaySales struct {
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

type ProductSales struct {
	PartID    *uuid.UUID      `json:"part_id"`
	Name      string          `json:"name"`
	TotalSold int64           `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type LowStockPart struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	SKU   *string         `json:"sku"`
	Stock int             `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

type Summary struct {
	TotalProducts  int64 `json:"total_products"`
	TotalOrders    int64 `json:"total_orders"`
	TotalCustomers int64 `json:"total_customers"`
	LowStockCount  int64 `json:"low_stock_count"`
}

// Metrics holds derived rates as percentages rounded to two decimals.
type Metrics struct {
	ConversionRate      float64         `json:"conversion_rate"`
	ConversionRate30d   float64         `json:"conversion_rate_30d"`
	AverageOrderValue   decimal.Decimal `json:"average_order_value"`
	CartAbandonmentRate float64         `json:"cart_abandonment_rate"`
}

type BandCount struct {
	Band  string `json:"band"`
	Count int64  `json:"count"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}
