package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vitrine"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VITRINE_DB_DSN"
	EnvDBHost = "VITRINE_DB_HOST"
	EnvDBUser = "VITRINE_DB_USER"
	EnvDBName = "VITRINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Checkout     CheckoutConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VITRINE_APP_ENV" required:"true"`
	Port         string `envconfig:"VITRINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VITRINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITRINE_DB_DSN"`
	Driver string `envconfig:"VITRINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VITRINE_DB_HOST"`
	LegacyPort     int    `envconfig:"VITRINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITRINE_DB_USER"`
	LegacyPassword string `envconfig:"VITRINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITRINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITRINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITRINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITRINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITRINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITRINE_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VITRINE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VITRINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VITRINE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VITRINE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VITRINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VITRINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VITRINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VITRINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VITRINE_ARGON_KEY_LEN" default:"32"`
}

type CheckoutConfig struct {
	MaxInstallments       int `envconfig:"VITRINE_CHECKOUT_MAX_INSTALLMENTS" default:"12"`
	BoletoDueBusinessDays int `envconfig:"VITRINE_CHECKOUT_BOLETO_DUE_BUSINESS_DAYS" default:"3"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VITRINE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VITRINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VITRINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"VITRINE_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB       int `envconfig:"VITRINE_MAX_UPLOAD_MB" default:"10"`
	MaxImagesPerBatch int `envconfig:"VITRINE_MEDIA_MAX_IMAGES" default:"4"`
}

// RateLimitConfig throttles the credential-guessing surface. Zero limits
// disable the middleware.
type RateLimitConfig struct {
	AuthWindow     time.Duration `envconfig:"VITRINE_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	AuthIPLimit    int           `envconfig:"VITRINE_AUTH_RATE_LIMIT_IP" default:"30"`
	AuthEmailLimit int           `envconfig:"VITRINE_AUTH_RATE_LIMIT_EMAIL" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VITRINE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
