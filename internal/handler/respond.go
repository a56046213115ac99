package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// All endpoints answer with the same envelope: message, success, status
// and an optional data payload. success is derived from the status code
// so the two can never disagree.
func respond(c echo.Context, status int, message string, data any) error {
	body := echo.Map{
		"message": message,
		"success": status < 400,
		"status":  status,
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// fail is respond without a payload, for error paths.
func fail(c echo.Context, status int, message string) error {
	return respond(c, status, message, nil)
}

// currentUserID returns the authenticated user id injected by JWTAuth.
func currentUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// parsePage reads page/page_size query params with sane clamps.
func parsePage(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseSort reads sort_by/order query params. order defaults to
// descending, which every console in the product uses.
func parseSort(c echo.Context) (sortBy string, desc bool) {
	sortBy = c.QueryParam("sort_by")
	order := strings.ToLower(c.QueryParam("order"))
	return sortBy, order != "asc"
}

// pageBlock is the pagination metadata attached to every list response.
type pageBlock struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func newPageBlock(page, pageSize int, total int64) pageBlock {
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return pageBlock{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}
