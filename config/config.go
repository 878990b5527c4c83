package config

import "os"

// Default email settings for the ticket confirmation message.
const (
	DefaultTemplateID = "5a2f9814-dfbe-4a81-951e-48d47985aa38"
	DefaultSender     = "jhilde@gmail.com"
	DefaultSubject    = "Apps & Drinks Tickets"
)

// Config holds application configuration
type Config struct {
	ServiceName  string
	OTELEndpoint string
	Port         string
	Gateway      GatewayConfig
	Mail         MailConfig
}

// GatewayConfig holds payment-gateway credentials. Environment selects the
// production host when set to "production"; any other value means sandbox.
type GatewayConfig struct {
	Environment       string
	MerchantID        string
	PublicKey         string
	PrivateKey        string
	MerchantAccountID string
}

// MailConfig holds the email-delivery settings for confirmation messages.
type MailConfig struct {
	APIKey     string
	TemplateID string
	Sender     string
	Subject    string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServiceName:  "registration-service",
		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Port:         getEnv("PORT", "8081"),
		Gateway: GatewayConfig{
			Environment:       getEnv("GATEWAY_ENVIRONMENT", "sandbox"),
			MerchantID:        getEnv("GATEWAY_MERCHANT_ID", ""),
			PublicKey:         getEnv("GATEWAY_PUBLIC_KEY", ""),
			PrivateKey:        getEnv("GATEWAY_PRIVATE_KEY", ""),
			MerchantAccountID: getEnv("GATEWAY_MERCHANT_ACCOUNT_ID", ""),
		},
		Mail: MailConfig{
			APIKey:     getEnv("SENDGRID_API_KEY", ""),
			TemplateID: getEnv("REGISTRATION_TEMPLATE_ID", DefaultTemplateID),
			Sender:     getEnv("REGISTRATION_SENDER", DefaultSender),
			Subject:    getEnv("REGISTRATION_SUBJECT", DefaultSubject),
		},
	}
}

// GatewayFromStageVariables builds gateway credentials from the API Gateway
// stage variables the lambdas receive per invocation.
func GatewayFromStageVariables(vars map[string]string) GatewayConfig {
	return GatewayConfig{
		Environment:       vars["environment"],
		MerchantID:        vars["merchantId"],
		PublicKey:         vars["publicKey"],
		PrivateKey:        vars["privateKey"],
		MerchantAccountID: vars["merchantAccountId"],
	}
}

// MailFromStageVariables builds email settings from stage variables, falling
// back to the fixed defaults for everything but the API key.
func MailFromStageVariables(vars map[string]string) MailConfig {
	cfg := MailConfig{
		APIKey:     vars["sendGridApiKey"],
		TemplateID: vars["registrationTemplateId"],
		Sender:     vars["registrationSender"],
		Subject:    vars["registrationSubject"],
	}
	if cfg.TemplateID == "" {
		cfg.TemplateID = DefaultTemplateID
	}
	if cfg.Sender == "" {
		cfg.Sender = DefaultSender
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
