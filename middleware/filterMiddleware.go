package middleware

import (
	"fmt"
	"net/http"

	"locus/api/contexts"

	"github.com/labstack/echo"
)

/*
	Echo middleware to pre-compile an optional `filter` HTTP query
	parameter. A filter that fails to compile is rejected up front so
	the query layer only ever sees valid expressions.
*/
func ValidateFilterAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		filterQP := c.QueryParam("filter")
		if len(filterQP) > 0 {
			if err := lc.FilterService.Parse(filterQP); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("Invalid 'filter' expression : %v", err))
			}
			lc.Filter = filterQP
		}

		return next(c)
	}
}
