package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"clubmanagement/config"
	_ "clubmanagement/docs"
	"clubmanagement/internal/adapters/auth"
	"clubmanagement/internal/adapters/email"
	deliveryhttp "clubmanagement/internal/delivery/http"
	"clubmanagement/internal/delivery/http/controllers"
	"clubmanagement/internal/delivery/http/middleware"
	"clubmanagement/internal/repository/postgres"
	"clubmanagement/internal/services"
)

// @title Club Management API
// @version 1.0
// @description Role-based club management: event registration, attendance capture, and certificate issuance.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	draftRepo := postgres.NewAttendanceDraftRepository(db)
	certRepo := postgres.NewCertificateRepository(db)
	userRepo := postgres.NewUserRepository(db)
	clubRepo := postgres.NewClubRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	certService := services.NewCertificateService(certRepo, emailService, logger)
	attendanceService := services.NewAttendanceService(eventRepo, regRepo, draftRepo, clubRepo, userRepo, certService, logger)
	registrationService := services.NewRegistrationService(eventRepo, regRepo, userRepo)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mux := deliveryhttp.NewRouter(
		controllers.NewAttendanceController(logger, attendanceService),
		controllers.NewRegistrationController(logger, registrationService),
		controllers.NewCertificateController(logger, certService),
		verifier,
		logger,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
