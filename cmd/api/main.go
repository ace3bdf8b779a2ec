package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/healtrack/healtrack-api/internal/application"
	appaccount "github.com/healtrack/healtrack-api/internal/application/account"
	appcare "github.com/healtrack/healtrack-api/internal/application/care"
	appexport "github.com/healtrack/healtrack-api/internal/application/export"
	appinsights "github.com/healtrack/healtrack-api/internal/application/insights"
	appprofile "github.com/healtrack/healtrack-api/internal/application/profile"
	appreports "github.com/healtrack/healtrack-api/internal/application/reports"
	apptracking "github.com/healtrack/healtrack-api/internal/application/tracking"
	"github.com/healtrack/healtrack-api/internal/config"
	"github.com/healtrack/healtrack-api/internal/domain/care"
	"github.com/healtrack/healtrack-api/internal/domain/profile"
	"github.com/healtrack/healtrack-api/internal/domain/reports"
	"github.com/healtrack/healtrack-api/internal/domain/tracking"
	aiclient "github.com/healtrack/healtrack-api/internal/infra/ai/openai"
	mysqlp "github.com/healtrack/healtrack-api/internal/infra/db/mysql"
	postgresp "github.com/healtrack/healtrack-api/internal/infra/db/postgres"
	"github.com/healtrack/healtrack-api/internal/infra/httpserver"
	minioStore "github.com/healtrack/healtrack-api/internal/infra/storage"
	"github.com/healtrack/healtrack-api/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres optional)
	var (
		db           *sql.DB
		repo         reports.Repository
		medRepo      care.MedicationRepository
		apptRepo     care.AppointmentRepository
		profileRepo  profile.Repository
		shareRepo    profile.ShareRepository
		activityRepo tracking.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewReportRepository(db)
		medRepo = postgresp.NewMedicationRepository(db)
		apptRepo = postgresp.NewAppointmentRepository(db)
		profileRepo = postgresp.NewProfileRepository(db)
		shareRepo = postgresp.NewShareRepository(db)
		activityRepo = postgresp.NewActivityRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewReportRepository(db)
		medRepo = mysqlp.NewMedicationRepository(db)
		apptRepo = mysqlp.NewAppointmentRepository(db)
		profileRepo = mysqlp.NewProfileRepository(db)
		shareRepo = mysqlp.NewShareRepository(db)
		activityRepo = mysqlp.NewActivityRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init ai client; a missing key degrades analysis to fallback-only
	if cfg.OpenAI.APIKey == "" {
		log.Printf("openai api key not configured, serving fallback analysis only")
	}
	ai := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.VisionModel, cfg.OpenAI.InsightModel)

	// init services
	clock := application.SystemClock{}
	reportsSvc := &appreports.Service{
		Repo:  repo,
		Files: store,
		AI:    ai,
		Clock: clock,
	}
	insightsSvc := appinsights.NewService(reportsSvc, ai)
	careSvc := appcare.NewService(medRepo, apptRepo, clock)
	profileSvc := appprofile.NewService(profileRepo, shareRepo, clock)
	trackingSvc := apptracking.NewService(activityRepo, clock)
	exportSvc := appexport.NewService(reportsSvc, careSvc, profileSvc, clock)
	accountSvc := appaccount.NewService(repo, store, medRepo, apptRepo, profileRepo, shareRepo, activityRepo)

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.BearerAuth(cfg.Auth.Tokens))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/health", middleware.HealthHandler(
		"HealTrack API",
		map[string]bool{
			"openai_enabled":        cfg.OpenAI.APIKey != "",
			"storage_enabled":       true,
			"notifications_enabled": true,
			"export_enabled":        true,
		},
		map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(reportsSvc, insightsSvc, exportSvc, accountSvc, careSvc, profileSvc, trackingSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
