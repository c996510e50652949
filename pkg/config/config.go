package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	LLMProviderPerplexity = "perplexity"
	LLMProviderGigaChat   = "gigachat"

	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	LLM        LLMConfig
	Perplexity PerplexityConfig
	GigaChat   GigaChatConfig
	Mail       MailConfig
	Storage    StorageConfig
	Kafka      KafkaConfig
	Invoice    InvoiceConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port         string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// BodyLimit caps request bodies, brief uploads included.
	BodyLimit int `env:"SERVER_BODY_LIMIT" envDefault:"10485760"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"paynote"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey  string        `env:"JWT_SECRET_KEY" envDefault:"your-secret-key-change-in-production"`
	Expiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	RefreshExp time.Duration `env:"JWT_REFRESH_EXPIRATION" envDefault:"168h"`
}

type LLMConfig struct {
	Provider         string `env:"LLM_PROVIDER" envDefault:"perplexity"`
	RequestTimeoutMS int    `env:"REQUEST_TIMEOUT_MS" envDefault:"30000"`
}

// RequestTimeout bounds every upstream call (model, mail, storage).
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

type PerplexityConfig struct {
	APIKey      string  `env:"PERPLEXITY_API_KEY"`
	BaseURL     string  `env:"PERPLEXITY_BASE_URL" envDefault:"https://api.perplexity.ai"`
	Model       string  `env:"PERPLEXITY_MODEL" envDefault:"llama-3.1-sonar-large-128k-online"`
	Temperature float64 `env:"PERPLEXITY_TEMPERATURE" envDefault:"0.2"`
	MaxTokens   int     `env:"PERPLEXITY_MAX_TOKENS" envDefault:"1000"`
}

type GigaChatConfig struct {
	APIKey             string `env:"GIGACHAT_API_KEY"`
	Scope              string `env:"GIGACHAT_SCOPE" envDefault:"GIGACHAT_API_PERS"`
	Model              string `env:"GIGACHAT_MODEL" envDefault:"GigaChat"`
	InsecureSkipVerify bool   `env:"GIGACHAT_INSECURE_SKIP_VERIFY" envDefault:"true"`
	// Optional endpoint overrides, for proxies.
	URL      string `env:"GIGACHAT_URL"`
	OAuthURL string `env:"GIGACHAT_OAUTH_URL"`
}

type MailConfig struct {
	Provider     string `env:"MAIL_PROVIDER" envDefault:"resend"`
	From         string `env:"MAIL_FROM" envDefault:"onboarding@resend.dev"`
	FromName     string `env:"MAIL_FROM_NAME" envDefault:"Paynote"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendURL    string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPLogin    string `env:"SMTP_LOGIN"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// AttachPDF adds the rendered invoice to the email in addition to the link.
	AttachPDF bool `env:"MAIL_ATTACH_PDF" envDefault:"false"`
}

type StorageConfig struct {
	Bucket         string `env:"STORAGE_BUCKET" envDefault:"invoices"`
	Region         string `env:"STORAGE_REGION" envDefault:"eu-west-3"`
	Endpoint       string `env:"STORAGE_ENDPOINT"`
	AccessKey      string `env:"STORAGE_ACCESS_KEY"`
	SecretKey      string `env:"STORAGE_SECRET_KEY"`
	PublicBaseURL  string `env:"STORAGE_PUBLIC_BASE_URL"`
	ForcePathStyle bool   `env:"STORAGE_FORCE_PATH_STYLE" envDefault:"false"`
}

type KafkaConfig struct {
	Brokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	InvoiceTopic string   `env:"KAFKA_INVOICE_TOPIC" envDefault:"invoice-events"`
}

type InvoiceConfig struct {
	// TaxRate is a percentage applied to the subtotal; 0 keeps total equal to subtotal.
	TaxRate  decimal.Decimal `env:"INVOICE_TAX_RATE" envDefault:"0"`
	Timezone string          `env:"INVOICE_TIMEZONE" envDefault:"Europe/Paris"`
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case LLMProviderPerplexity, LLMProviderGigaChat:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Mail.Provider {
	case MailProviderResend, MailProviderSMTP:
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}

	if c.LLM.RequestTimeoutMS <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be positive, got %d", c.LLM.RequestTimeoutMS)
	}

	if c.Invoice.TaxRate.IsNegative() {
		return fmt.Errorf("INVOICE_TAX_RATE must not be negative")
	}

	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if _, err := time.LoadLocation(c.Invoice.Timezone); err != nil {
		return fmt.Errorf("invalid INVOICE_TIMEZONE: %w", err)
	}

	return nil
}
