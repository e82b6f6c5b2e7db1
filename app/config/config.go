package config

import (
	"os"
	"strconv"
	"time"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	License  LicenseConfig
	OpenAI   OpenAIConfig
	Stripe   StripeConfig
	DB       PostgresConfig
	QueueURL string
}

type LicenseConfig struct {
	// ProKey is the master credential that always grants PRO.
	ProKey string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceIDPro    string
	FrontendURL   string
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

const (
	defaultProKey        = "GOOD_SELLER_2025"
	defaultOpenAIModel   = "gpt-5-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

func LoadConfig() (*Config, error) {
	proKey := os.Getenv("PRO_LICENSE_KEY")
	if proKey == "" {
		proKey = defaultProKey
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	timeout := 30 * time.Second
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	cfg := &Config{
		QueueURL: os.Getenv("QUEUE_URL"),
		License: LicenseConfig{
			ProKey: proKey,
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   model,
			BaseURL: baseURL,
			Timeout: timeout,
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PriceIDPro:    os.Getenv("STRIPE_PRICE_ID_PRO"),
			FrontendURL:   os.Getenv("FRONTEND_URL"),
		},
		DB: PostgresConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			URL:      os.Getenv("POSTGRES_URL"),
			Port:     os.Getenv("POSTGRES_PORT"),
		},
	}

	return cfg, nil
}
