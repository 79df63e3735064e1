package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "2MB"
	defaultTimezone           = "UTC"
	defaultCurrency           = "usd"
	defaultDemoAmountMinor    = 2599
	defaultGatewayTimeout     = 10 * time.Second
	defaultSessionCookieName  = "majic_session"
	defaultSessionTTL         = 14 * 24 * time.Hour
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		// Timezone is the IANA zone used for report buckets and CSV timestamps.
		Timezone string `json:"timezone" yaml:"timezone"`
		Log      Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// PublicBaseURL is the externally reachable origin used in QR codes and payment callbacks.
		PublicBaseURL string `json:"publicBaseURL" yaml:"publicBaseURL"`
		Timeouts      struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Database DatabaseConfig `json:"database" yaml:"database"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Session *SessionConfig `json:"session" yaml:"session"`

	Payments *PaymentsConfig `json:"payments" yaml:"payments"`

	// QRCode configuration for storefront QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// Storage configuration for logos and product images
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// PubSub configuration for domain event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Worker configuration for the push endpoint process
	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

// WorkerConfig defines the event worker listener.
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver      string `json:"driver" yaml:"driver"`
	SQLitePath  string `json:"sqlitePath" yaml:"sqlitePath"`
	AutoMigrate bool   `json:"autoMigrate" yaml:"autoMigrate"`
	// SlowQueryThreshold logs statements slower than this at warn. Zero uses 200ms.
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost     int           `json:"bcryptCost" yaml:"bcryptCost"`
	AccessTokenTTL time.Duration `json:"accessTokenTTL" yaml:"accessTokenTTL"`
	CookieName     string        `json:"cookieName" yaml:"cookieName"`
}

// SessionConfig defines the server-side session store.
type SessionConfig struct {
	// Provider is "memory" or "redis".
	Provider   string        `json:"provider" yaml:"provider"`
	CookieName string        `json:"cookieName" yaml:"cookieName"`
	TTL        time.Duration `json:"ttl" yaml:"ttl"`
	Secure     bool          `json:"secure" yaml:"secure"`
	Redis      struct {
		Addr     string `json:"addr" yaml:"addr"`
		Password string `json:"password" yaml:"password"`
		DB       int    `json:"db" yaml:"db"`
	} `json:"redis" yaml:"redis"`
}

// PaymentsConfig defines checkout and plan billing behaviour.
type PaymentsConfig struct {
	Currency        string        `json:"currency" yaml:"currency"`
	DemoAmountMinor int64         `json:"demoAmountMinor" yaml:"demoAmountMinor"`
	GatewayTimeout  time.Duration `json:"gatewayTimeout" yaml:"gatewayTimeout"`
	// RequireWebhookConfirmation keeps plan upgrades pending until a verified webhook confirms them.
	RequireWebhookConfirmation bool `json:"requireWebhookConfirmation" yaml:"requireWebhookConfirmation"`
	WebhookSecrets             struct {
		Stripe string `json:"stripe" yaml:"stripe"`
		PayPal string `json:"paypal" yaml:"paypal"`
	} `json:"webhookSecrets" yaml:"webhookSecrets"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// StorageConfig defines the blob bucket for uploaded media.
type StorageConfig struct {
	// BucketURL is a gocloud.dev URL, e.g. file:///var/lib/majicmall/media or mem://
	BucketURL    string `json:"bucketURL" yaml:"bucketURL"`
	MaxImageSize int64  `json:"maxImageSize" yaml:"maxImageSize"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local", "google" or "amqp"
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// AMQP broker URL and topic exchange (for amqp provider)
	AMQPURL      string `json:"amqpURL" yaml:"amqpURL"`
	AMQPExchange string `json:"amqpExchange" yaml:"amqpExchange"`

	// PublishTimeout bounds a single publish round trip.
	PublishTimeout time.Duration `json:"publishTimeout" yaml:"publishTimeout"`

	// OrderByStore keys Google Pub/Sub messages by store so a store's events arrive in order.
	OrderByStore bool `json:"orderByStore" yaml:"orderByStore"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Example: PAYMENTS_GATEWAYTIMEOUT -> payments.gatewayTimeout
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the configured report time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Env.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone %q", c.Env.Timezone)
	}

	return loc, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.Env.Timezone == "" {
		c.Env.Timezone = defaultTimezone
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Session == nil {
		c.Session = &SessionConfig{Provider: "memory"}
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultSessionCookieName
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = defaultSessionTTL
	}
	if c.Payments == nil {
		c.Payments = &PaymentsConfig{RequireWebhookConfirmation: true}
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = defaultCurrency
	}
	if c.Payments.DemoAmountMinor == 0 {
		c.Payments.DemoAmountMinor = defaultDemoAmountMinor
	}
	if c.Payments.GatewayTimeout == 0 {
		c.Payments.GatewayTimeout = defaultGatewayTimeout
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
