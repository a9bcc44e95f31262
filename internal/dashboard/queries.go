package dashboard

const (
	revenueSQL = `
SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS orders_count
FROM orders
WHERE status <> 'pending'
`

	ordersByStatusSQL = `
SELECT status, COUNT(*) AS count
FROM orders
GROUP BY status
`

	salesSinceSQL = `
SELECT created_at, total
FROM orders
WHERE status <> 'pending'
  AND created_at >= ?
`

	productSalesSQL = `
SELECT oi.part_id AS part_id, oi.name AS name,
  SUM(oi.qty) AS total_sold,
  SUM(oi.price * oi.qty) AS revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.status <> 'pending'
GROUP BY oi.part_id, oi.name
ORDER BY %s
LIMIT ?
`

	priceBandsSQL = `
SELECT
  CASE
    WHEN total < 10000 THEN '0-10000'
    WHEN total < 50000 THEN '10000-50000'
    WHEN total < 100000 THEN '50000-100000'
    WHEN total < 250000 THEN '100000-250000'
    ELSE '250000+'
  END AS band,
  COUNT(*) AS count
FROM orders
GROUP BY band
`

	categorySalesSQL = `
SELECT COALESCE(c.name, ?) AS category,
  SUM(oi.qty) AS quantity,
  SUM(oi.price * oi.qty) AS revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
LEFT JOIN parts p ON p.id = oi.part_id
LEFT JOIN categories c ON c.id = p.category_id
WHERE o.status <> 'pending'
GROUP BY category
ORDER BY revenue DESC, category ASC
`

	customersSQL = `
SELECT COUNT(*) FROM users WHERE is_staff = ?
`

	buyingCustomersSQL = `
SELECT COUNT(DISTINCT o.user_id)
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE u.is_staff = ?
  AND o.created_at >= ?
`
)

const uncategorized = "Sin categoría"

// priceBands lists band labels in display order.
var priceBands = []string{"0-10000", "10000-50000", "50000-100000", "100000-250000", "250000+"}
