// Package handler exposes the HTTP handlers of the film rental API. Each
// handler parses path/query/body parameters, calls into the repository
// layer and maps failures onto the error taxonomy: 400 for validation and
// business-rule violations, 404 for missing rows, 500 for anything else
// (generic message to the client, detail logged server side).
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// parseID extracts a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parsePagination reads the page and limit query parameters, applying the
// defaults 1/20. Values below 1 or non-numeric strings are rejected.
func parsePagination(c echo.Context) (page, limit int, ok bool) {
	page, limit = defaultPage, defaultLimit
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = n
	}
	return page, limit, true
}
