package main

import (
	"context"
	"os"

	"tokyo-valuation-api/docs"
	"tokyo-valuation-api/internal/app"
	"tokyo-valuation-api/internal/artifact"
	"tokyo-valuation-api/internal/config"
	"tokyo-valuation-api/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Tokyo Valuation API
//	@version		1.0
//	@description	Price estimates and location rankings for residential property in the Tokyo 23 wards.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger, err := config.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot configure logger")
	}
	log.Logger = logger

	// Artifacts and model
	store := artifact.NewOSStore(logger)
	valuationService, closeDB, err := app.Open(context.Background(), config, store, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start valuation service")
	}
	defer closeDB()

	valuationHandler := handler.NewValuationHandler(valuationService)

	docs.SwaggerInfo.Host = config.ServerAddress

	r := gin.Default()

	r.GET("/health", valuationHandler.Health)
	r.GET("/wards", valuationHandler.Wards)
	r.GET("/towns", valuationHandler.Towns)
	r.GET("/valuation", valuationHandler.Valuate)
	r.GET("/ranking", valuationHandler.Rank)
	r.GET("/yield", valuationHandler.Yield)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
