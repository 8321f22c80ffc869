package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"

	"locus/api/contexts"
	"locus/api/models"
	filtersService "locus/api/services/filters"
)

func setUpContext(target string) *contexts.LocusContext {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cfg := &models.Config{}
	cfg.Api.MaxRegionSize = 100

	return &contexts.LocusContext{
		Context:       c,
		Config:        cfg,
		FilterService: filtersService.NewFilterService(),
	}
}

func statusOf(err error) int {
	if httpError, ok := err.(*echo.HTTPError); ok {
		return httpError.Code
	}
	return 0
}

func passThrough(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return nil
	}
}

func TestMandateChromosomeAttribute(t *testing.T) {
	t.Run("should store the chromosome and continue", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region?chromosome=chrX")

		called := false
		err := MandateChromosomeAttribute(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, "chrX", lc.Chromosome)
	})

	t.Run("should reject a missing chromosome", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region")

		called := false
		err := MandateChromosomeAttribute(passThrough(&called))(lc)

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
		assert.False(t, called)
	})
}

func TestMandateRegionAttributes(t *testing.T) {
	t.Run("should store both bounds and continue", func(t *testing.T) {
		lc := setUpContext("/variants/stream/start?start=100&end=200")

		called := false
		err := MandateRegionAttributes(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, uint64(100), lc.Start)
		assert.Equal(t, uint64(200), lc.End)
	})

	t.Run("should let inverted bounds through", func(t *testing.T) {
		// inverted bounds resolve to an empty result, not an error
		lc := setUpContext("/variants/stream/start?start=200&end=100")

		called := false
		err := MandateRegionAttributes(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
	})

	t.Run("should reject missing bounds", func(t *testing.T) {
		for _, target := range []string{
			"/variants/stream/start?end=200",
			"/variants/stream/start?start=100",
		} {
			lc := setUpContext(target)
			err := MandateRegionAttributes(passThrough(new(bool)))(lc)
			assert.Equal(t, http.StatusBadRequest, statusOf(err))
		}
	})

	t.Run("should reject non-numeric bounds", func(t *testing.T) {
		lc := setUpContext("/variants/stream/start?start=abc&end=200")

		err := MandateRegionAttributes(passThrough(new(bool)))(lc)
		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	})
}

func TestMandateCalibratedRegion(t *testing.T) {
	t.Run("should let a window at the cap through", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region?start=1&end=100")

		called := false
		err := MandateCalibratedRegion(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
	})

	t.Run("should reject a window past the cap", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region?start=1&end=101")

		called := false
		err := MandateCalibratedRegion(passThrough(&called))(lc)

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
		assert.False(t, called)
	})
}

func TestMandatePositionAttribute(t *testing.T) {
	t.Run("should store a single-position region", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/position?position=12345")

		called := false
		err := MandatePositionAttribute(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, uint64(12345), lc.Start)
		assert.Equal(t, uint64(12345), lc.End)
	})

	t.Run("should reject a missing or non-numeric position", func(t *testing.T) {
		for _, target := range []string{
			"/variants/get/by/position",
			"/variants/get/by/position?position=abc",
		} {
			lc := setUpContext(target)
			err := MandatePositionAttribute(passThrough(new(bool)))(lc)
			assert.Equal(t, http.StatusBadRequest, statusOf(err))
		}
	})
}

func TestValidateFilterAttribute(t *testing.T) {
	t.Run("should store a valid filter", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region?filter=POS%20%3E%20100")

		called := false
		err := ValidateFilterAttribute(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, "POS > 100", lc.Filter)
	})

	t.Run("should continue without a filter", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region")

		called := false
		err := ValidateFilterAttribute(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, "", lc.Filter)
	})

	t.Run("should reject an uncompilable filter", func(t *testing.T) {
		lc := setUpContext("/variants/get/by/region?filter=POS%20%3E")

		called := false
		err := ValidateFilterAttribute(passThrough(&called))(lc)

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
		assert.False(t, called)
	})
}

func TestMandateSessionIdAttribute(t *testing.T) {
	t.Run("should store the session id and continue", func(t *testing.T) {
		lc := setUpContext("/variants/stream/advance?sessionId=abc-123")

		called := false
		err := MandateSessionIdAttribute(passThrough(&called))(lc)

		assert.Nil(t, err)
		assert.True(t, called)
		assert.Equal(t, "abc-123", lc.SessionId)
	})

	t.Run("should reject a missing session id", func(t *testing.T) {
		lc := setUpContext("/variants/stream/advance")

		err := MandateSessionIdAttribute(passThrough(new(bool)))(lc)
		assert.Equal(t, http.StatusBadRequest, statusOf(err))
	})
}
