package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/arllen133/recipes/clause"
	"github.com/arllen133/recipes/store"
)

// parsePageable reads page, size and sort query parameters. sortable maps
// JSON property names to columns; any other property is rejected.
func parsePageable(r *http.Request, sortable map[string]clause.Column) (store.Pageable, error) {
	q := r.URL.Query()
	p := store.Pageable{Page: 0, Size: store.DefaultPageSize}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid page %q", v)
		}
		p.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid size %q", v)
		}
		p.Size = min(n, store.MaxPageSize)
	}
	if p.OffsetOverflows() {
		return p, fmt.Errorf("page %d out of range for size %d", p.Page, p.Size)
	}

	for _, v := range q["sort"] {
		property, direction, _ := strings.Cut(v, ",")
		column, ok := sortable[strings.TrimSpace(property)]
		if !ok {
			return p, fmt.Errorf("unknown sort property %q", property)
		}
		order := clause.OrderByColumn{Column: column}
		switch strings.ToLower(strings.TrimSpace(direction)) {
		case "", "asc":
		case "desc":
			order.Desc = true
		default:
			return p, fmt.Errorf("invalid sort direction %q", direction)
		}
		p.Sort = append(p.Sort, order)
	}
	return p, nil
}

// paginationHeaders sets X-Total-Count and the Link header for page.
func paginationHeaders[T any](w http.ResponseWriter, r *http.Request, page *store.Page[T]) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))

	lastPage := max(page.TotalPages()-1, 0)
	links := make([]string, 0, 4)
	if page.HasNext() {
		links = append(links, pageLink(r, page.Number+1, page.Size, "next"))
	}
	if page.HasPrevious() {
		links = append(links, pageLink(r, page.Number-1, page.Size, "prev"))
	}
	links = append(links,
		pageLink(r, lastPage, page.Size, "last"),
		pageLink(r, 0, page.Size, "first"),
	)
	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(r *http.Request, number, size int, rel string) string {
	u := requestURL(r)
	q := u.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return fmt.Sprintf(`<%s>; rel="%s"`, u.String(), rel)
}

func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	return &u
}
