package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret         []byte
	SessionTTL        time.Duration
	SecureCookies     bool
	SuperAdminEmail   string
	TrustUserIDHeader bool
	CORSOrigins       []string

	Razorpay   Razorpay
	Cloudinary Cloudinary
	Uploads    Uploads
	Mail       Mail
	Twilio     Twilio

	Policy Policy
}

type Razorpay struct {
	KeyID           string
	SecretKey       string
	APIURL          string
	Currency        string
	VerifySignature bool
}

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Configured reports whether all Cloudinary credentials are present.
func (c Cloudinary) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Uploads struct {
	Dir           string
	PublicBaseURL string
	BackupDir     string
	BackupHour    int
	Retention     time.Duration
}

type Mail struct {
	Provider       string // "postmark", "sendgrid" or "" for log-only
	PostmarkToken  string
	SendgridAPIKey string
	Sender         string
}

type Twilio struct {
	AccountSID    string
	AuthToken     string
	FromNumber    string
	CountryPrefix string
}

// Policy holds the business rules the storefront leaves open to
// configuration. It is read from the YAML file named by POLICY_FILE.
type Policy struct {
	Orders  OrderPolicy   `yaml:"orders"`
	Catalog CatalogPolicy `yaml:"catalog"`
}

type OrderPolicy struct {
	// DiscountSnapshot is "product" (copy the product's discount into the
	// order item) or "none" (record zero discount).
	DiscountSnapshot   string              `yaml:"discount_snapshot"`
	EnforceTransitions bool                `yaml:"enforce_transitions"`
	Transitions        map[string][]string `yaml:"transitions"`
}

type CatalogPolicy struct {
	GuardCategoryDelete bool `yaml:"guard_category_delete"`
	GuardBannerDelete   bool `yaml:"guard_banner_delete"`
}

func DefaultPolicy() Policy {
	return Policy{
		Orders: OrderPolicy{DiscountSnapshot: "product"},
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		DatabaseURL:       databaseURL(),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		SessionTTL:        getDurationOrDefault("SESSION_TTL", 30*24*time.Hour),
		SecureCookies:     getEnvOrDefault("APP_ENV", "production") != "development",
		SuperAdminEmail:   strings.ToLower(os.Getenv("SUPER_ADMIN_EMAIL")),
		TrustUserIDHeader: getBool("TRUST_USER_ID_HEADER"),
		CORSOrigins:       splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		Razorpay: Razorpay{
			KeyID:           os.Getenv("RAZORPAY_KEY_ID"),
			SecretKey:       os.Getenv("RAZORPAY_SECRET_KEY"),
			APIURL:          getEnvOrDefault("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),
			Currency:        getEnvOrDefault("RAZORPAY_CURRENCY", "INR"),
			VerifySignature: getBool("RAZORPAY_VERIFY_SIGNATURE"),
		},
		Cloudinary: Cloudinary{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    os.Getenv("CLOUDINARY_FOLDER"),
		},
		Uploads: Uploads{
			Dir:           getEnvOrDefault("UPLOADS_DIR", "./uploads"),
			PublicBaseURL: getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
			BackupDir:     os.Getenv("BACKUP_DIR"),
			BackupHour:    getIntOrDefault("BACKUP_HOUR", 2),
			Retention:     getDurationOrDefault("BACKUP_RETENTION", 4*24*time.Hour),
		},
		Mail: Mail{
			Provider:       strings.ToLower(os.Getenv("MAIL_PROVIDER")),
			PostmarkToken:  os.Getenv("POSTMARK_SERVER_TOKEN"),
			SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			Sender:         os.Getenv("MAIL_SENDER"),
		},
		Twilio: Twilio{
			AccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
			CountryPrefix: getEnvOrDefault("SMS_COUNTRY_PREFIX", "+91"),
		},
		Policy: DefaultPolicy(),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	if path := os.Getenv("POLICY_FILE"); path != "" {
		policy, err := LoadPolicy(path)
		if err != nil {
			return nil, err
		}
		cfg.Policy = policy
	}

	return cfg, nil
}

// LoadPolicy reads a YAML policy file. Fields absent from the file keep
// their defaults.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	switch policy.Orders.DiscountSnapshot {
	case "product", "none":
	case "":
		policy.Orders.DiscountSnapshot = "product"
	default:
		return Policy{}, fmt.Errorf("unknown discount_snapshot %q", policy.Orders.DiscountSnapshot)
	}
	return policy, nil
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnvOrDefault("DB_HOST", "localhost"),
		getEnvOrDefault("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnvOrDefault("DB_NAME", "storefront"),
		getEnvOrDefault("DB_PORT", "5432"),
	)
}

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func getBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func getIntOrDefault(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDurationOrDefault(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
