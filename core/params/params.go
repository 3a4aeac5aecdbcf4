package params

import (
	"strconv"
	"strings"

	"taskcal/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
	Status     string
}

func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Status:     strings.TrimSpace(c.QueryParam("status")),
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
