package main

import (
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/db"
	"github.com/senyabanana/tender-approval-service/internal/handlers"
	"github.com/senyabanana/tender-approval-service/internal/logger"
	"github.com/senyabanana/tender-approval-service/internal/repository"
	"github.com/senyabanana/tender-approval-service/internal/router"
	"github.com/senyabanana/tender-approval-service/internal/router/config"
	"github.com/senyabanana/tender-approval-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	defer zapLogger.Sync()

	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	bidRepo := repository.NewPostgresBidRepository(dbPool)
	paymentRepo := repository.NewPostgresPaymentRepository(dbPool)

	tenderService := services.NewTenderService(tenderRepo, zapLogger, cfg.AwardRequireLowest)
	bidService := services.NewBidService(bidRepo, tenderRepo, paymentRepo, zapLogger)
	paymentService := services.NewPaymentService(paymentRepo, tenderRepo, zapLogger)

	tenderHandler := handlers.NewTenderHandler(tenderService, zapLogger, 5*time.Second)
	bidHandler := handlers.NewBidHandler(bidService, zapLogger, 5*time.Second)
	paymentHandler := handlers.NewPaymentHandler(paymentService, zapLogger, 5*time.Second)

	routes := router.InitRoutes(tenderHandler, bidHandler, paymentHandler)

	zapLogger.Info("server is listening", zap.String("address", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
