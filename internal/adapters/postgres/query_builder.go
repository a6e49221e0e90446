package postgres

import (
	"fmt"
	"strings"

	"github.com/samirrijal/dongne/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (qb *queryBuilder) placeholder(arg interface{}) string {
	qb.args = append(qb.args, arg)
	return fmt.Sprintf("$%d", len(qb.args))
}

func (qb *queryBuilder) addCondition(format string, column string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(format, column, qb.placeholder(arg)))
}

func (qb *queryBuilder) addRange(column string, r domain.Range) string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", column, qb.placeholder(r.Min), qb.placeholder(r.Max))
}

// buildListingQuery returns the WHERE and pagination tail for q together
// with its positional arguments.
func buildListingQuery(q domain.ListingQuery) (string, []interface{}) {
	qb := &queryBuilder{}

	if q.Status != nil {
		qb.addCondition("%s = %s", "status", string(*q.Status))
	}
	if q.Category != nil {
		qb.addCondition("%s = %s", "category", string(*q.Category))
	}
	if q.SellerID != "" {
		qb.addCondition("%s = %s", "seller_id", q.SellerID)
	}
	if q.Latitude != nil {
		qb.conditions = append(qb.conditions, qb.addRange("latitude", *q.Latitude))
	}
	if len(q.Longitude) > 0 {
		ors := make([]string, 0, len(q.Longitude))
		for _, r := range q.Longitude {
			ors = append(ors, qb.addRange("longitude", r))
		}
		if len(ors) == 1 {
			qb.conditions = append(qb.conditions, ors[0])
		} else {
			qb.conditions = append(qb.conditions, "("+strings.Join(ors, " OR ")+")")
		}
	}
	if q.PriceMin != nil {
		qb.addCondition("%s >= %s", "price", *q.PriceMin)
	}
	if q.PriceMax != nil {
		qb.addCondition("%s <= %s", "price", *q.PriceMax)
	}

	var sb strings.Builder
	if len(qb.conditions) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(qb.conditions, " AND "))
		sb.WriteString(" ")
	}
	sb.WriteString("ORDER BY created_at DESC, id DESC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + qb.placeholder(q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + qb.placeholder(q.Offset))
	}
	return sb.String(), qb.args
}
