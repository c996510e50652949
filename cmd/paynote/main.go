package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paynote/internal/api"
	"paynote/internal/api/handlers"
	"paynote/internal/clients/gigachat"
	"paynote/internal/clients/perplexity"
	"paynote/internal/clients/resend"
	"paynote/internal/clients/s3"
	"paynote/internal/clients/smtp"
	"paynote/internal/repository"
	"paynote/internal/service"
	"paynote/pkg/auth"
	"paynote/pkg/broker"
	"paynote/pkg/config"
	"paynote/pkg/logger"
	"paynote/pkg/postgres"

	"go.uber.org/zap"
)

// @title Paynote API
// @version 1.0
// @description Facturation IA pour freelances: extraction de factures depuis une description libre, PDF et envoi par email
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@paynote.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Paynote service",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("mail_provider", cfg.Mail.Provider),
	)

	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		if err := postgres.UpMigrations(cfg.Database.DSN()); err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied")
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	invoiceRepo := repository.NewInvoiceRepository(db, appLogger)
	sequenceRepo := repository.NewSequenceRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Upstreams
	timeout := cfg.LLM.RequestTimeout()

	var completer service.ChatCompleter
	switch cfg.LLM.Provider {
	case config.LLMProviderGigaChat:
		client, err := gigachat.New(ctx, &cfg.GigaChat, timeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize GigaChat client", zap.Error(err))
		}
		defer client.Close()
		completer = client
	default:
		completer = perplexity.New(cfg.Perplexity, timeout, appLogger)
	}

	var mailer service.Mailer
	switch cfg.Mail.Provider {
	case config.MailProviderSMTP:
		mailer = smtp.New(cfg.Mail, appLogger)
	default:
		mailer = resend.New(cfg.Mail, timeout, appLogger)
	}

	storage, err := s3.New(cfg.Storage, timeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	var events interface {
		service.EventPublisher
		Close()
	} = broker.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		events = broker.NewProducer(appLogger, cfg.Kafka.Brokers, cfg.Kafka.InvoiceTopic)
	}
	defer events.Close()

	location, err := time.LoadLocation(cfg.Invoice.Timezone)
	if err != nil {
		appLogger.Fatal("Failed to load invoice timezone", zap.Error(err))
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	profileService := service.NewProfileService(userRepo, appLogger)
	gateway := service.NewPersistenceGateway(invoiceRepo, userRepo, events, appLogger)

	invoiceService := service.NewInvoiceService(
		service.NewExtractionClient(completer, timeout, appLogger),
		service.NewNumberGenerator(sequenceRepo, appLogger),
		gateway,
		invoiceRepo,
		profileService,
		service.NewBriefReader(appLogger),
		service.TotalsPolicy{TaxRatePercent: cfg.Invoice.TaxRate},
		location,
		appLogger,
	)
	deliveryService := service.NewDeliveryService(
		invoiceRepo,
		gateway,
		profileService,
		service.NewPDFRenderer(),
		storage,
		mailer,
		cfg.Mail.AttachPDF,
		appLogger,
	)

	app := api.SetupRouter(api.Handlers{
		Auth:    handlers.NewAuthHandler(authService, appLogger),
		Invoice: handlers.NewInvoiceHandler(invoiceService, deliveryService, appLogger),
		Email:   handlers.NewEmailHandler(deliveryService, appLogger),
		Profile: handlers.NewProfileHandler(profileService, appLogger),
	}, jwtManager, cfg.Server, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
