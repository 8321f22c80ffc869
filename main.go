package main

import (
	"locus/api/contexts"
	gam "locus/api/middleware"
	serviceInfoConsts "locus/api/models/constants/service-info"
	serviceInfoMvc "locus/api/mvc/service-info"
	variantsMvc "locus/api/mvc/variants"
	filtersService "locus/api/services/filters"
	"locus/api/services/sanitation"
	streamsService "locus/api/services/streams"
	variantsService "locus/api/services/variants"

	"locus/api/models"

	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables (an optional yaml file underneath)
	cfg, err := models.LoadConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tVCF Path : %s \n"+
		"\tMax Region Size : %d\n"+
		"\tNever Save Indexes : %t\n\n"+

		"\tStream Session Timeout (s) : %d\n"+
		"\tStream Sweep Interval (s) : %d\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.VcfPath,
		cfg.Api.MaxRegionSize,
		cfg.Api.NeverSaveIndexes,
		cfg.Streams.SessionTimeoutSeconds,
		cfg.Streams.SweepIntervalSeconds,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Singletons
	// -- variant service : opens the file, its positional index, and
	//    loads (or builds) the identifier index and statistics
	vs, err := variantsService.NewVariantService(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize variant service : %v\n", err)
		os.Exit(1)
	}
	fs := filtersService.NewFilterService()
	ss := streamsService.NewStreamService(cfg, vs, fs)
	sanitation.NewSanitationService(ss, cfg)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom Locus" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.LocusContext{
				Context:        c,
				Config:         cfg,
				VariantService: vs,
				FilterService:  fs,
				StreamService:  ss,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfoConsts.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Variants
	e.GET("/variants/get/by/position", variantsMvc.VariantsGetByPosition,
		// middleware
		gam.MandateChromosomeAttribute,
		gam.MandatePositionAttribute,
		gam.ValidateFilterAttribute)
	e.GET("/variants/get/by/region", variantsMvc.VariantsGetByRegion,
		// middleware
		gam.MandateChromosomeAttribute,
		gam.MandateCalibratedRegion,
		gam.ValidateFilterAttribute)
	e.GET("/variants/get/by/variantId", variantsMvc.VariantsGetByVariantId)

	// -- Streaming sessions
	e.GET("/variants/stream/start", variantsMvc.VariantsStreamStart,
		// middleware
		gam.MandateChromosomeAttribute,
		gam.MandateRegionAttributes,
		gam.ValidateFilterAttribute)
	e.GET("/variants/stream/advance", variantsMvc.VariantsStreamAdvance,
		// middleware
		gam.MandateSessionIdAttribute)
	e.GET("/variants/stream/close", variantsMvc.VariantsStreamClose,
		// middleware
		gam.MandateSessionIdAttribute)

	// -- File-level lookups
	e.GET("/variants/statistics", variantsMvc.VariantsGetStatistics)
	e.GET("/variants/metadata", variantsMvc.VariantsGetMetadata)
	e.GET("/variants/header", variantsMvc.VariantsGetHeader)
	e.GET("/variants/chromosomes", variantsMvc.VariantsGetChromosomes)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
