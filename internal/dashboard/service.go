package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/orders"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

const (
	trailingDays   = 30
	topLimit       = 5
	lowStockLimit  = 10
	recentLimit    = 5
	orderByQty     = "total_sold DESC, revenue DESC, name ASC"
	orderByRevenue = "revenue DESC, total_sold DESC, name ASC"
)

// Service computes the staff dashboard on every call. Nothing is cached.
type Service interface {
	Build(ctx context.Context) (*Dashboard, error)
}

type service struct {
	db      *gorm.DB
	catalog config.CatalogConfig
	now     func() time.Time
}

func NewService(db *gorm.DB, catalog config.CatalogConfig) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db, catalog: catalog, now: time.Now}, nil
}

func (s *service) Build(ctx context.Context) (*Dashboard, error) {
	conn := s.db.WithContext(ctx)
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(trailingDays - 1))

	var out Dashboard
	steps := []struct {
		name string
		run  func() error
	}{
		{"revenue", func() (err error) { out.Revenue, err = queryRevenue(conn); return }},
		{"orders by status", func() (err error) { out.OrdersByStatus, err = queryOrdersByStatus(conn); return }},
		{"sales by day", func() (err error) { out.SalesByDay, err = querySalesByDay(conn, since, trailingDays); return }},
		{"top products", func() (err error) { out.TopProducts, err = queryProductSales(conn, orderByQty); return }},
		{"top products by revenue", func() (err error) { out.TopProductsByRevenue, err = queryProductSales(conn, orderByRevenue); return }},
		{"low stock", func() (err error) { out.LowStock, err = s.queryLowStock(conn); return }},
		{"recent orders", func() (err error) { out.RecentOrders, err = queryRecentOrders(conn); return }},
		{"summary", func() (err error) { out.Summary, err = s.querySummary(conn); return }},
		{"price bands", func() (err error) { out.OrdersByPriceBand, err = queryPriceBands(conn); return }},
		{"category sales", func() (err error) { out.CategorySales, err = queryCategorySales(conn); return }},
		{"metrics", func() (err error) { out.Metrics, err = queryMetrics(conn, out, today.AddDate(0, 0, -trailingDays)); return }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard "+step.name)
		}
	}
	return &out, nil
}

func queryRevenue(conn *gorm.DB) (Revenue, error) {
	var row Revenue
	if err := conn.Raw(revenueSQL).Row().Scan(&row.Total, &row.OrdersCount); err != nil {
		return Revenue{}, err
	}
	row.Total = row.Total.Round(2)
	return row, nil
}

func queryOrdersByStatus(conn *gorm.DB) ([]StatusCount, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
	}
	if err := conn.Raw(ordersByStatusSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	out := make([]StatusCount, 0, len(enums.OrderStatuses()))
	for _, status := range enums.OrderStatuses() {
		out = append(out, StatusCount{Status: status, Label: status.Label(), Count: counts[status]})
	}
	return out, nil
}

// querySalesByDay buckets revenue orders by UTC day and zero-fills the window.
func querySalesByDay(conn *gorm.DB, since time.Time, days int) ([]DaySales, error) {
	var rows []struct {
		CreatedAt time.Time
		Total     decimal.Decimal
	}
	if err := conn.Raw(salesSinceSQL, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal, days)
	for _, row := range rows {
		key := row.CreatedAt.UTC().Format(time.DateOnly)
		totals[key] = totals[key].Add(row.Total)
	}
	out := make([]DaySales, 0, days)
	for i := 0; i < days; i++ {
		key := since.AddDate(0, 0, i).Format(time.DateOnly)
		out = append(out, DaySales{Date: key, Sales: totals[key].Round(2)})
	}
	return out, nil
}

func queryProductSales(conn *gorm.DB, orderBy string) ([]ProductSales, error) {
	var rows []struct {
		PartID    *uuid.UUID
		Name      string
		TotalSold int64
		Revenue   decimal.Decimal
	}
	if err := conn.Raw(fmt.Sprintf(productSalesSQL, orderBy), topLimit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ProductSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProductSales{PartID: row.PartID, Name: row.Name, TotalSold: row.TotalSold, Revenue: row.Revenue.Round(2)})
	}
	return out, nil
}

func (s *service) queryLowStock(conn *gorm.DB) ([]LowStockPart, error) {
	var parts []models.Part
	if err := conn.
		Where("stock <= ?", s.catalog.LowStock()).
		Order("stock ASC, name ASC").
		Limit(lowStockLimit).
		Find(&parts).Error; err != nil {
		return nil, err
	}
	out := make([]LowStockPart, 0, len(parts))
	for _, p := range parts {
		out = append(out, LowStockPart{ID: p.ID, Name: p.Name, SKU: p.SKU, Stock: p.Stock, Price: p.Price})
	}
	return out, nil
}

func queryRecentOrders(conn *gorm.DB) ([]orders.OrderDTO, error) {
	var rows []models.Order
	if err := conn.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC, id ASC")
		}).
		Order("created_at DESC, id ASC").
		Limit(recentLimit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]orders.OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, orders.FromModel(row))
	}
	return out, nil
}

func (s *service) querySummary(conn *gorm.DB) (Summary, error) {
	var out Summary
	if err := conn.Model(&models.Part{}).Count(&out.TotalProducts).Error; err != nil {
		return Summary{}, err
	}
	if err := conn.Model(&models.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return Summary{}, err
	}
	if err := conn.Raw(customersSQL, false).Row().Scan(&out.TotalCustomers); err != nil {
		return Summary{}, err
	}
	if err := conn.Model(&models.Part{}).Where("stock <= ?", s.catalog.LowStock()).Count(&out.LowStockCount).Error; err != nil {
		return Summary{}, err
	}
	return out, nil
}

func queryPriceBands(conn *gorm.DB) ([]BandCount, error) {
	var rows []BandCount
	if err := conn.Raw(priceBandsSQL).Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Band] = row.Count
	}
	out := make([]BandCount, 0, len(priceBands))
	for _, band := range priceBands {
		out = append(out, BandCount{Band: band, Count: counts[band]})
	}
	return out, nil
}

func queryCategorySales(conn *gorm.DB) ([]CategorySales, error) {
	var rows []CategorySales
	if err := conn.Raw(categorySalesSQL, uncategorized).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	if rows == nil {
		rows = []CategorySales{}
	}
	return rows, nil
}

// queryMetrics derives rates from the already computed sections plus two
// buyer counts.
func queryMetrics(conn *gorm.DB, d Dashboard, since time.Time) (Metrics, error) {
	var buyers, recentBuyers int64
	if err := conn.Raw(buyingCustomersSQL, false, time.Time{}).Row().Scan(&buyers); err != nil {
		return Metrics{}, err
	}
	if err := conn.Raw(buyingCustomersSQL, false, since).Row().Scan(&recentBuyers); err != nil {
		return Metrics{}, err
	}

	var pending int64
	for _, sc := range d.OrdersByStatus {
		if sc.Status == enums.OrderStatusPending {
			pending = sc.Count
		}
	}

	out := Metrics{
		ConversionRate:      percent(buyers, d.Summary.TotalCustomers),
		ConversionRate30d:   percent(recentBuyers, d.Summary.TotalCustomers),
		AverageOrderValue:   decimal.Zero,
		CartAbandonmentRate: percent(pending, d.Summary.TotalOrders),
	}
	if d.Revenue.OrdersCount > 0 {
		out.AverageOrderValue = d.Revenue.Total.Div(decimal.NewFromInt(d.Revenue.OrdersCount)).Round(2)
	}
	return out, nil
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
