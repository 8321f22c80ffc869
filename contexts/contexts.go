package contexts

import (
	"locus/api/models"
	filtersService "locus/api/services/filters"
	streamsService "locus/api/services/streams"
	variantsService "locus/api/services/variants"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the query services and other variables
	LocusContext struct {
		echo.Context
		Config         *models.Config
		VariantService *variantsService.VariantService
		FilterService  *filtersService.FilterService
		StreamService  *streamsService.StreamService

		// populated by the query-parameter middleware
		Chromosome string
		Start      uint64
		End        uint64
		Filter     string
		SessionId  string
	}
)
