package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("page_size", strconv.Itoa(min(size, MaxPageSize)))
	}
	return q
}

// collect walks every page of a paginated endpoint.
func collect[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		var p Page[T]
		if err := c.get(ctx, path, pageQuery(page, MaxPageSize), &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if p.Next == nil || *p.Next == "" || len(p.Results) == 0 {
			return all, nil
		}
	}
}

// Units returns one page of property units.
func (c *Client) Units(ctx context.Context, page, size int) (Page[PropertyUnit], error) {
	var p Page[PropertyUnit]
	err := c.get(ctx, "properties/units/", pageQuery(page, size), &p)
	return p, err
}

// AllUnits returns every property unit.
func (c *Client) AllUnits(ctx context.Context) ([]PropertyUnit, error) {
	return collect[PropertyUnit](ctx, c, "properties/units/")
}

// Projects returns every property project.
func (c *Client) Projects(ctx context.Context) ([]PropertyProject, error) {
	return collect[PropertyProject](ctx, c, "properties/projects/")
}

func (c *Client) CreateUnit(ctx context.Context, in UnitInput) (PropertyUnit, error) {
	var u PropertyUnit
	err := c.do(ctx, http.MethodPost, "properties/units/create", nil, in, &u)
	return u, err
}

func (c *Client) UpdateUnit(ctx context.Context, id string, in UnitInput) (PropertyUnit, error) {
	var u PropertyUnit
	err := c.do(ctx, http.MethodPut, "properties/units/"+url.PathEscape(id)+"/", nil, in, &u)
	return u, err
}

func (c *Client) DeleteUnit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "properties/units/"+url.PathEscape(id)+"/", nil, nil, nil)
}

// CreateTenancy assigns a tenant to a unit.
func (c *Client) CreateTenancy(ctx context.Context, in Tenancy) (Tenancy, error) {
	var t Tenancy
	err := c.do(ctx, http.MethodPost, "properties/tenancies/", nil, in, &t)
	return t, err
}
