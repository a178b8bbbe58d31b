package sync

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/models"
)

// applyQuery orders and limits a cached snapshot the way the server answers
// the same query: by id when no field is given, ties broken by id ascending.
func applyQuery(records []models.Record, q remote.QueryOptions) []models.Record {
	out := slices.Clone(records)

	slices.SortStableFunc(out, func(a, b models.Record) int {
		c := compareBy(a, b, q.OrderBy)
		if q.Descending {
			c = -c
		}
		if c != 0 || q.OrderBy == "" || q.OrderBy == "id" {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func compareBy(a, b models.Record, field string) int {
	switch field {
	case "", "id":
		return strings.Compare(a.ID, b.ID)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return compareValues(a.Fields[field], b.Fields[field])
	}
}

// compareValues follows SQLite's ordering of json_extract results:
// null first, then numbers (booleans are 0/1), then text, then the rest.
func compareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case 1:
		return cmp.Compare(numeric(a), numeric(b))
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 3:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	default:
		return 0
	}
}

func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64, int, int64, bool:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}
