package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"locus/api/contexts"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure `start` and `end` HTTP query parameters
	were provided and are numeric. Zero, inverted or overflowing bounds
	are let through on purpose : those queries succeed with an empty
	result set rather than failing.
*/
func MandateRegionAttributes(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		// check for a 'start' query parameter
		startQP := c.QueryParam("start")
		if len(startQP) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'start' query parameter for querying!")
		}
		start, conversionErr := strconv.ParseUint(startQP, 10, 64)
		if conversionErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'start' query parameter! Check your input")
		}

		// check for an 'end' query parameter
		endQP := c.QueryParam("end")
		if len(endQP) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'end' query parameter for querying!")
		}
		end, conversionErr := strconv.ParseUint(endQP, 10, 64)
		if conversionErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'end' query parameter! Check your input")
		}

		lc.Start = start
		lc.End = end
		return next(c)
	}
}

/*
	Echo middleware layered on top of MandateRegionAttributes for the
	direct region endpoint : rejects windows wider than the configured
	maximum so a single request cannot materialize an unbounded result
	set (streaming sessions exist for that).
*/
func MandateCalibratedRegion(next echo.HandlerFunc) echo.HandlerFunc {
	return MandateRegionAttributes(func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		maxRegionSize := lc.Config.Api.MaxRegionSize
		if lc.End >= lc.Start && lc.End-lc.Start+1 > maxRegionSize {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Region too large! Maximum window is %d positions ; use a streaming session for larger ranges", maxRegionSize))
		}

		return next(c)
	})
}

/*
	Echo middleware to ensure a valid `position` HTTP query parameter
	was provided. Stored as a single-position region.
*/
func MandatePositionAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lc := c.(*contexts.LocusContext)

		// check for a 'position' query parameter
		positionQP := c.QueryParam("position")
		if len(positionQP) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'position' query parameter for querying!")
		}

		position, conversionErr := strconv.ParseUint(positionQP, 10, 64)
		if conversionErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'position' query parameter! Check your input")
		}

		lc.Start = position
		lc.End = position
		return next(c)
	}
}
