package variants

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"locus/api/contexts"
	"locus/api/models/dtos"
	errorDtos "locus/api/models/dtos/errors"
	streamsService "locus/api/services/streams"

	"github.com/labstack/echo"
)

func VariantsGetByPosition(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetByPosition hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	return executeRegionQuery(lc)
}

func VariantsGetByRegion(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetByRegion hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	return executeRegionQuery(lc)
}

func VariantsGetByVariantId(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetByVariantId hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	// retrieve variant id from query parameter
	id := c.QueryParam("id")
	if len(id) == 0 {
		return lc.JSON(http.StatusBadRequest, errorDtos.CreateSimpleBadRequest("Missing 'id' query parameter for querying!"))
	}

	results := lc.VariantService.QueryById(id)

	response := dtos.VariantGetResponse{
		Count:   len(results),
		Results: results,
	}
	response.Status = http.StatusOK
	response.Message = "Success"

	return lc.JSON(http.StatusOK, response)
}

// executeRegionQuery serves both the single-position and the region
// endpoints ; the bounds middleware has already populated the context.
func executeRegionQuery(lc *contexts.LocusContext) error {
	results, matchedChromosome := lc.VariantService.QueryByRegion(lc.Chromosome, lc.Start, lc.End)

	if lc.Filter != "" {
		filtered := results[:0]
		for _, variant := range results {
			// evaluation failures on a row count as no-match
			match, err := lc.FilterService.Evaluate(lc.Filter, variant.RawRow)
			if err == nil && match {
				filtered = append(filtered, variant)
			}
		}
		results = filtered
	}

	response := dtos.VariantGetResponse{
		Count:             len(results),
		MatchedChromosome: matchedChromosome,
		Results:           results,
	}
	response.Status = http.StatusOK
	response.Message = "Success"

	// an unresolvable chromosome is still a 200 with zero results,
	// but carries a hint about the file's naming convention
	if matchedChromosome == nil {
		response.ChromosomeHint = lc.VariantService.ChromosomeHint(lc.Chromosome)
	}

	return lc.JSON(http.StatusOK, response)
}

func VariantsStreamStart(c echo.Context) error {
	fmt.Printf("[%s] - VariantsStreamStart hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	response, err := lc.StreamService.StartQuery(lc.Chromosome, lc.Start, lc.End, lc.Filter)
	if err != nil {
		return lc.JSON(http.StatusBadRequest, errorDtos.CreateSimpleBadRequest(err.Error()))
	}

	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsStreamAdvance(c echo.Context) error {
	fmt.Printf("[%s] - VariantsStreamAdvance hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	response, err := lc.StreamService.AdvanceQuery(lc.SessionId)
	if err != nil {
		if errors.Is(err, streamsService.ErrSessionExpired) {
			return lc.JSON(http.StatusGone, errorDtos.CreateSimpleGone("Stream session expired!"))
		}
		return lc.JSON(http.StatusNotFound, errorDtos.CreateSimpleNotFound("Stream session not found!"))
	}

	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsStreamClose(c echo.Context) error {
	fmt.Printf("[%s] - VariantsStreamClose hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	response := lc.StreamService.CloseQuery(lc.SessionId)
	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsGetStatistics(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetStatistics hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	// optional cap on the per-chromosome breakdown
	maxChromosomes := 0
	if maxChromosomesQP := c.QueryParam("max_chromosomes"); len(maxChromosomesQP) > 0 {
		parsed, conversionErr := strconv.Atoi(maxChromosomesQP)
		if conversionErr != nil || parsed < 0 {
			return lc.JSON(http.StatusBadRequest, errorDtos.CreateSimpleBadRequest("Error converting 'max_chromosomes' query parameter! Check your input"))
		}
		maxChromosomes = parsed
	}

	response := dtos.StatisticsResponse{
		Statistics: lc.VariantService.GetStatistics(maxChromosomes),
	}
	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsGetMetadata(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetMetadata hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	response := dtos.MetadataResponse{
		Metadata: lc.VariantService.GetMetadata(),
	}
	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsGetHeader(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetHeader hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	// optional cap on the number of header lines returned
	maxLines := 0
	if linesQP := c.QueryParam("lines"); len(linesQP) > 0 {
		parsed, conversionErr := strconv.Atoi(linesQP)
		if conversionErr != nil || parsed < 0 {
			return lc.JSON(http.StatusBadRequest, errorDtos.CreateSimpleBadRequest("Error converting 'lines' query parameter! Check your input"))
		}
		maxLines = parsed
	}

	response := dtos.HeaderResponse{
		Header: lc.VariantService.GetHeaderString(maxLines),
	}
	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}

func VariantsGetChromosomes(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetChromosomes hit!\n", time.Now())
	lc := c.(*contexts.LocusContext)

	response := dtos.ChromosomesResponse{
		Chromosomes: lc.VariantService.GetAvailableChromosomes(),
	}
	response.Status = http.StatusOK
	response.Message = "Success"
	return lc.JSON(http.StatusOK, response)
}
