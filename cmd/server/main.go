package main

import (
	"fmt"
	"log"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/handler"
	"billscan/internal/normalizer"
	"billscan/internal/repository/postgres"
	"billscan/internal/router"
	"billscan/internal/rules"
	"billscan/internal/service"
	s3storage "billscan/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := postgres.NewRecordRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Load the extraction rule set
	ruleSet, err := rules.LoadOrDefault(cfg.Extraction.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load extraction rules: %w", err)
	}
	log.Printf("loaded %d extraction rules", ruleSet.Len())

	normOpts := normalizer.Options{
		FallbackLanguage: cfg.Extraction.FallbackLanguage,
		FallbackCurrency: cfg.Extraction.FallbackCurrency,
		FallbackCategory: domain.Category(cfg.Extraction.FallbackCategory),
	}

	// Initialize services
	billSvc := service.NewBillService(recordRepo, s3Client, ruleSet, normOpts, &cfg.S3)
	analyticsSvc := service.NewAnalyticsService(recordRepo)

	// Initialize handlers
	billH := handler.NewBillHandler(billSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	exportH := handler.NewExportHandler(analyticsSvc, &cfg.Export)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, billH, analyticsH, exportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
