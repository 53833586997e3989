package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	Orders        OrdersConfig
	CORS          CORSConfig
	Retention     RetentionConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"EKOMART_APP_ENV" required:"true"`
	Port         string `envconfig:"EKOMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EKOMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EKOMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"EKOMART_DB_DSN"`

	Host     string `envconfig:"EKOMART_DB_HOST"`
	Port     int    `envconfig:"EKOMART_DB_PORT" default:"5432"`
	User     string `envconfig:"EKOMART_DB_USER"`
	Password string `envconfig:"EKOMART_DB_PASSWORD"`
	Name     string `envconfig:"EKOMART_DB_NAME"`
	SSLMode  string `envconfig:"EKOMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EKOMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EKOMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EKOMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EKOMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EKOMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EKOMART_REDIS_ADDR"`
	Password     string        `envconfig:"EKOMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"EKOMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EKOMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EKOMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EKOMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EKOMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EKOMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EKOMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EKOMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EKOMART_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"EKOMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EKOMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EKOMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EKOMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EKOMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EKOMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EKOMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"EKOMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EKOMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"EKOMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"EKOMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"EKOMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"EKOMART_UPLOADS_DIR" default:"uploads"`
	BaseURL     string `envconfig:"EKOMART_UPLOADS_BASE_URL" default:"/uploads"`
	MaxUploadMB int    `envconfig:"EKOMART_MAX_UPLOAD_MB" default:"5"`
}

type OrdersConfig struct {
	ShippingFee string `envconfig:"EKOMART_ORDERS_SHIPPING_FEE" default:"5.00"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EKOMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RetentionConfig struct {
	ActivityLogDays int `envconfig:"EKOMART_ACTIVITY_LOG_RETENTION_DAYS" default:"90"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EKOMART_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"EKOMART_CRON_INTERVAL" default:"24h"`
	LockTTL     time.Duration `envconfig:"EKOMART_CRON_LOCK_TTL" default:"25h"`
	MetricsPort string        `envconfig:"EKOMART_CRON_METRICS_PORT" default:"9091"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, key := range requiredDBEnvVars {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
