package serviceInfo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"

	"locus/api/contexts"
	"locus/api/models"
	serviceInfo "locus/api/models/constants/service-info"
)

func TestGetServiceInfo(t *testing.T) {
	cfg := &models.Config{SemVer: "0.1.0", ServiceContact: "mailto:info@c3g.ca"}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/service-info", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	lc := &contexts.LocusContext{Context: c, Config: cfg}

	t.Run("should describe the service", func(t *testing.T) {
		GetServiceInfo(lc)

		assert.Equal(t, http.StatusOK, rec.Code)

		body, _ := io.ReadAll(rec.Body)
		var bodyJson map[string]interface{}
		json.Unmarshal(body, &bodyJson)

		assert.Equal(t, serviceInfo.SERVICE_ID, bodyJson["id"].(string))
		assert.Equal(t, serviceInfo.SERVICE_NAME, bodyJson["name"].(string))
		assert.Equal(t, serviceInfo.SERVICE_DESCRIPTION, bodyJson["description"].(string))
		assert.Equal(t, "0.1.0", bodyJson["version"].(string))
	})
}
