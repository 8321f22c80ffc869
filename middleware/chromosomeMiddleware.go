package middleware

import (
	"net/http"

	"locus/api/contexts"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `chromosome` HTTP query parameter was provided
*/
func MandateChromosomeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		// check for chromosome query parameter
		chromQP := c.QueryParam("chromosome")
		if len(chromQP) == 0 {
			// if no chromosome was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'chromosome' query parameter for querying!")
		}

		// chromosome names are matched against the file's own naming
		// (with and without the "chr" prefix), so anything non-empty
		// is allowed through here
		lc.Chromosome = chromQP
		return next(c)
	}
}
