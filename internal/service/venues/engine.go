// Package venues implements the venue discovery pipeline: fetch, filter,
// sort, paginate.
//
// The remote API filters on nothing but free text, so the engine runs one of
// two named strategies per query and never mixes their semantics:
//
//   - search-then-filter: a free-text query fetches the full (unpaginated)
//     candidate set from the search endpoint; every filter, the sort and the
//     paging run in memory. Reported totals are exact.
//   - paginate-then-filter: without free text the server paginates and sorts,
//     and any residual filters (country, price cap, amenities) are applied to
//     the fetched page only. The reported total is then the filtered in-page
//     count, which deliberately diverges from the server total, and page
//     boundaries do not align with the true filtered set. That mismatch is
//     the documented cost of server paging plus client filters.
package venues

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/holvik/staybook/internal/domain"
	"github.com/holvik/staybook/internal/remote"
)

// PageSize is fixed by the venue grid layout.
const PageSize = 20

// VenueFetcher is the slice of the remote client the engine needs.
type VenueFetcher interface {
	ListVenues(ctx context.Context, p remote.ListParams) ([]domain.Venue, remote.Meta, error)
	SearchVenues(ctx context.Context, query string) ([]domain.Venue, error)
}

type Result struct {
	Items      []domain.Venue `json:"items"`
	TotalCount int            `json:"totalCount"`
	Page       int            `json:"page"`
	PageCount  int            `json:"pageCount"`
	Pages      []PageItem     `json:"pages"`
}

type Engine struct {
	fetcher VenueFetcher
}

func NewEngine(fetcher VenueFetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// Load produces the exact ordered page of venues for the criteria. Any
// transport or decode failure comes back as an error with an empty result;
// nothing escapes the engine boundary unhandled.
func (e *Engine) Load(ctx context.Context, c Criteria) (*Result, error) {
	if c.Query != "" {
		return e.searchThenFilter(ctx, c)
	}
	return e.paginateThenFilter(ctx, c)
}

func (e *Engine) searchThenFilter(ctx context.Context, c Criteria) (*Result, error) {
	candidates, err := e.fetcher.SearchVenues(ctx, c.Query)
	if err != nil {
		return &Result{Items: []domain.Venue{}, Page: c.Page}, fmt.Errorf("search venues: %w", err)
	}

	filtered := filter(candidates, c)
	sortVenues(filtered, c.Sort, c.SortOrder)

	total := len(filtered)
	pageCount := pageCountFor(total)
	page := clampPage(c.Page, pageCount)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	items := []domain.Venue{}
	if start < total {
		items = filtered[start:end]
	}

	return &Result{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageCount:  pageCount,
		Pages:      PageSequence(page, pageCount),
	}, nil
}

func (e *Engine) paginateThenFilter(ctx context.Context, c Criteria) (*Result, error) {
	candidates, meta, err := e.fetcher.ListVenues(ctx, remote.ListParams{
		Limit:     PageSize,
		Page:      c.Page,
		Sort:      c.Sort,
		SortOrder: c.SortOrder,
	})
	if err != nil {
		return &Result{Items: []domain.Venue{}, Page: c.Page}, fmt.Errorf("list venues: %w", err)
	}

	items := filter(candidates, c)

	// Without residual filters the server's totals are authoritative. With
	// them, only the filtered in-page count is honest to report.
	total := meta.TotalCount
	pageCount := meta.PageCount
	if c.hasResidualFilters() {
		total = len(items)
		if pageCount == 0 {
			pageCount = 1
		}
	}
	if pageCount < 1 {
		pageCount = 1
	}

	page := meta.CurrentPage
	if page < 1 {
		page = c.Page
	}

	return &Result{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageCount:  pageCount,
		Pages:      PageSequence(page, pageCount),
	}, nil
}

func filter(venues []domain.Venue, c Criteria) []domain.Venue {
	out := []domain.Venue{}
	for _, v := range venues {
		if c.Country != "" && !strings.EqualFold(v.Location.Country, c.Country) {
			continue
		}
		if c.MaxPrice > 0 && v.Price > c.MaxPrice {
			continue
		}
		if c.Wifi && !v.Amenities.Wifi {
			continue
		}
		if c.Parking && !v.Amenities.Parking {
			continue
		}
		if c.Breakfast && !v.Amenities.Breakfast {
			continue
		}
		if c.Pets && !v.Amenities.Pets {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sortVenues(venues []domain.Venue, field, order string) {
	asc := order == "asc"
	sort.SliceStable(venues, func(i, j int) bool {
		a, b := venues[i], venues[j]
		switch field {
		case SortPrice:
			if asc {
				return a.Price < b.Price
			}
			return a.Price > b.Price
		case SortRating:
			if asc {
				return a.Rating < b.Rating
			}
			return a.Rating > b.Rating
		default:
			if asc {
				return a.Created.Before(b.Created)
			}
			return a.Created.After(b.Created)
		}
	})
}

func pageCountFor(total int) int {
	if total == 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

func clampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}
