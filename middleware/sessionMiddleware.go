package middleware

import (
	"net/http"

	"locus/api/contexts"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `sessionId` HTTP query parameter was provided
*/
func MandateSessionIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		// check for sessionId query parameter
		sessionIdQP := c.QueryParam("sessionId")
		if len(sessionIdQP) == 0 {
			// if no id was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'sessionId' query parameter!")
		}

		lc.SessionId = sessionIdQP
		return next(c)
	}
}
