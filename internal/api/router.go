package api

import (
	"paynote/docs"
	"paynote/internal/api/handlers"
	"paynote/pkg/auth"
	"paynote/pkg/config"
	"paynote/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Invoice *handlers.InvoiceHandler
	Email   *handlers.EmailHandler
	Profile *handlers.ProfileHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	serverCfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "paynote",
		BodyLimit:    serverCfg.BodyLimit,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Browser-facing endpoints answer preflight themselves and accept POST only.
	app.All("/generate-invoice", middleware.PublicEndpoint(), h.Invoice.GenerateInvoice)
	app.All("/send-email", middleware.PublicEndpoint(), h.Email.SendEmail)

	withCORS := cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	})

	authGroup := app.Group("/user/auth", withCORS)
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", withCORS, middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/profile", h.Profile.Get)
	protected.Put("/profile", h.Profile.Update)

	invoices := protected.Group("/invoices")
	invoices.Post("/generate", h.Invoice.Generate)
	invoices.Post("/brief", h.Invoice.GenerateFromBrief)
	invoices.Post("/number", h.Invoice.AssignNumber)
	invoices.Post("", h.Invoice.Save)
	invoices.Get("", h.Invoice.List)
	invoices.Get("/export", h.Invoice.Export)
	invoices.Get("/:number", h.Invoice.Get)
	invoices.Post("/:number/pdf", h.Invoice.PublishPDF)
	invoices.Post("/:number/send", h.Invoice.Send)

	return app
}
