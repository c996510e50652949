package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"paynote/internal/dto"
	"paynote/internal/models"
	"paynote/internal/repository"
	"paynote/internal/service"
	"paynote/pkg/auth"
	"paynote/pkg/broker"
	"paynote/pkg/config"
	"paynote/pkg/logger"
	"paynote/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type sampleInvoice struct {
	client      string
	email       string
	description string
	quantity    int64
	unitPrice   string
	currency    string
	termsDays   int
	status      models.InvoiceStatus
}

var samples = []sampleInvoice{
	{"Jean Dupont", "jean.dupont@example.fr", "Conseil en stratégie digitale", 12, "400", "USD", 30, models.InvoiceStatusSent},
	{"Atelier Martin", "contact@atelier-martin.fr", "Refonte du site vitrine", 1, "2500", "EUR", 45, models.InvoiceStatusPaid},
	{"Sophie Bernard", "", "Shooting photo produit", 3, "350.50", "EUR", 30, models.InvoiceStatusDraft},
}

// Seeds a demo account with a few invoices so the API can be explored locally.
func main() {
	email := flag.String("email", "demo@paynote.app", "demo account email")
	password := flag.String("password", "paynote-demo", "demo account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := postgres.UpMigrations(cfg.Database.DSN()); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	invoiceRepo := repository.NewInvoiceRepository(db, appLogger)
	sequenceRepo := repository.NewSequenceRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	profileService := service.NewProfileService(userRepo, appLogger)
	numbers := service.NewNumberGenerator(sequenceRepo, appLogger)
	gateway := service.NewPersistenceGateway(invoiceRepo, userRepo, broker.NopPublisher{}, appLogger)
	policy := service.TotalsPolicy{TaxRatePercent: cfg.Invoice.TaxRate}

	appLogger.Info("Starting database seeding...")

	var session models.Session
	resp, err := authService.Register(ctx, &dto.RegisterRequest{Email: *email, Password: *password, FullName: "Compte Démo"})
	switch {
	case err == nil:
		session = sessionFor(resp.User.ID, resp.User.Email)
	case errors.Is(err, models.ErrUserExists):
		login, err := authService.Login(ctx, &dto.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			appLogger.Fatal("Demo account exists with another password", zap.Error(err))
		}
		session = sessionFor(login.User.ID, login.User.Email)
	default:
		appLogger.Fatal("Failed to create demo account", zap.Error(err))
	}

	company, siret, address := "Paynote Démo", "12345678901234", "1 rue de la Paix, 75002 Paris"
	if _, err := profileService.UpdateIssuer(ctx, session, &dto.UpdateProfileRequest{
		CompanyName: &company,
		SIRET:       &siret,
		Address:     &address,
	}); err != nil {
		appLogger.Fatal("Failed to set issuer details", zap.Error(err))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i, s := range samples {
		draft := &models.InvoiceDraft{
			ClientName:         s.client,
			ServiceDescription: s.description,
			Quantity:           decimal.NewFromInt(s.quantity),
			UnitPrice:          decimal.RequireFromString(s.unitPrice),
			Currency:           s.currency,
			PaymentTermsDays:   s.termsDays,
		}
		if s.email != "" {
			draft.ClientEmail = &s.email
		}

		inv := service.BuildInvoice(draft, today.AddDate(0, 0, -15*i), policy)
		inv.InvoiceNumber = numbers.Next(ctx, session.OwnerID)
		inv.Status = s.status

		saved, err := gateway.Save(ctx, session, inv)
		if err != nil {
			appLogger.Error("Failed to seed invoice", zap.String("client", s.client), zap.Error(err))
			continue
		}
		appLogger.Info("Seeded invoice",
			zap.String("invoice_number", saved.InvoiceNumber),
			zap.String("total", saved.Total.StringFixed(2)),
		)
	}

	appLogger.Info("Database seeding completed", zap.String("email", session.Email))
}

func sessionFor(id, email string) models.Session {
	return models.Session{OwnerID: uuid.MustParse(id), Email: email}
}
