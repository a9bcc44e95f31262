package parts

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the catalog browse endpoint.
type ListFilters struct {
	Category string
	SKU      string
	Brand    string
	Model    string
	Year     *int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
	InStock  *bool
	Search   string
	Ordering string
}

// ListInput captures the inputs needed to paginate and filter parts.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

const defaultOrdering = "created_at DESC, id ASC"

var orderings = map[string]string{
	"price":       "price ASC, id ASC",
	"-price":      "price DESC, id ASC",
	"name":        "name ASC, id ASC",
	"-name":       "name DESC, id ASC",
	"stock":       "stock ASC, id ASC",
	"-stock":      "stock DESC, id ASC",
	"year":        "year ASC, id ASC",
	"-year":       "year DESC, id ASC",
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id ASC",
}

// orderClause maps an ordering query value to SQL. Unknown values fall back to newest first.
func orderClause(ordering string) string {
	if clause, ok := orderings[strings.TrimSpace(ordering)]; ok {
		return clause
	}
	return defaultOrdering
}

func likePattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(value))
	return "%" + escaped + "%"
}
