package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// Pagination is the page metadata returned alongside list results.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func paginationOf[T any](p domain.Page[T]) Pagination {
	return Pagination{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   p.Total,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}
}

// SetLinkHeaders adds RFC 8288 Link headers for a paginated response. The
// request's other query parameters are preserved; only page and limit change.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		query.Add(string(k), string(v))
	})

	link := func(page int, rel string) string {
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, query.Encode(), rel)
	}

	links := []string{link(1, "first")}
	if p.HasPrev {
		links = append(links, link(p.Page-1, "prev"))
	}
	if p.HasNext {
		links = append(links, link(p.Page+1, "next"))
	}

	c.Set("Link", strings.Join(links, ", "))
}
