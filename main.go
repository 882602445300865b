package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/cmdelgado/tip-distribution-service/client"
	"github.com/cmdelgado/tip-distribution-service/config"
	"github.com/cmdelgado/tip-distribution-service/handler"
	"github.com/cmdelgado/tip-distribution-service/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// External OCR collaborators
	var analysisClient *client.DocAnalysisClient
	if cfg.DocAnalysisURL != "" {
		analysisClient = client.NewDocAnalysisClient(
			cfg.DocAnalysisURL, cfg.DocAnalysisKey, cfg.PollInterval, cfg.PollMaxAttempts)
	} else {
		log.Println("DOC_ANALYSIS_URL not set, remote layout analysis disabled")
	}

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	pdfProcessor := service.NewPDFProcessor()

	// Service layer
	reportService := service.NewReportService(analysisClient, tesseractClient, pdfProcessor, cfg.DedupGranularity)
	tipService := service.NewTipService(cfg.PayoutRounding)

	// Handler layer
	reportHandler := handler.NewReportHandler(reportService)
	tipHandler := handler.NewTipHandler(tipService)

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Tip Distribution",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		reports := api.Group("/reports")
		{
			reports.POST("/extract", reportHandler.ExtractReport)
		}
		tips := api.Group("/tips")
		{
			tips.POST("/calculate", tipHandler.Calculate)
			tips.POST("/reallocate", tipHandler.Reallocate)
			tips.POST("/holiday", tipHandler.CalculateHoliday)
		}
	}

	log.Printf("Starting Tip Distribution Service on port %s (payout rounding: %s)",
		cfg.ServerPort, cfg.PayoutRounding)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
