package venues

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort fields accepted on the URL. Anything else falls back to the default.
const (
	SortPrice   = "price"
	SortRating  = "rating"
	SortCreated = "created"
)

// Criteria is the full filter/sort/page intent for one venue query. It is
// derived from URL query parameters and encodes back to them losslessly, so a
// filtered view is always shareable as a link and carries no hidden state.
type Criteria struct {
	Query     string
	Country   string
	MaxPrice  float64 // 0 means no cap; listed prices are positive
	Wifi      bool
	Parking   bool
	Breakfast bool
	Pets      bool
	Sort      string
	SortOrder string
	Page      int
}

// ParseCriteria reads the URL contract: q, country, maxPrice,
// wifi|parking|breakfast|pets (="true"), sort, sortOrder, page. Malformed
// values degrade to the default rather than erroring; a bad bookmark should
// still render a page.
func ParseCriteria(values url.Values) Criteria {
	c := Criteria{
		Query:     strings.TrimSpace(values.Get("q")),
		Country:   strings.TrimSpace(values.Get("country")),
		Wifi:      values.Get("wifi") == "true",
		Parking:   values.Get("parking") == "true",
		Breakfast: values.Get("breakfast") == "true",
		Pets:      values.Get("pets") == "true",
		Sort:      SortCreated,
		SortOrder: "desc",
		Page:      1,
	}

	if raw := values.Get("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			c.MaxPrice = v
		}
	}
	switch values.Get("sort") {
	case SortPrice:
		c.Sort = SortPrice
	case SortRating:
		c.Sort = SortRating
	}
	if values.Get("sortOrder") == "asc" {
		c.SortOrder = "asc"
	}
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 1 {
			c.Page = v
		}
	}
	return c
}

// Values encodes the criteria back onto the URL. Defaults are omitted so
// ParseCriteria(c.Values()) reproduces c exactly.
func (c Criteria) Values() url.Values {
	values := url.Values{}
	if c.Query != "" {
		values.Set("q", c.Query)
	}
	if c.Country != "" {
		values.Set("country", c.Country)
	}
	if c.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatFloat(c.MaxPrice, 'f', -1, 64))
	}
	if c.Wifi {
		values.Set("wifi", "true")
	}
	if c.Parking {
		values.Set("parking", "true")
	}
	if c.Breakfast {
		values.Set("breakfast", "true")
	}
	if c.Pets {
		values.Set("pets", "true")
	}
	if c.Sort != SortCreated {
		values.Set("sort", c.Sort)
	}
	if c.SortOrder != "desc" {
		values.Set("sortOrder", c.SortOrder)
	}
	if c.Page > 1 {
		values.Set("page", strconv.Itoa(c.Page))
	}
	return values
}

// hasResidualFilters reports whether any filter must be applied client-side
// after a server-paginated fetch.
func (c Criteria) hasResidualFilters() bool {
	return c.Country != "" || c.MaxPrice > 0 || c.Wifi || c.Parking || c.Breakfast || c.Pets
}
