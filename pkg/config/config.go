package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Midtrans     MidtransConfig
	Calendar     CalendarConfig
	Orders       OrdersConfig
	Cron         CronConfig
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
	Env          string `envconfig:"STUDIO_APP_ENV" required:"true"`
	Port         string `envconfig:"STUDIO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STUDIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STUDIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STUDIO_DB_DSN"`
	Driver string `envconfig:"STUDIO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STUDIO_DB_HOST"`
	Port     int    `envconfig:"STUDIO_DB_PORT" default:"5432"`
	User     string `envconfig:"STUDIO_DB_USER"`
	Password string `envconfig:"STUDIO_DB_PASSWORD"`
	Name     string `envconfig:"STUDIO_DB_NAME"`
	SSLMode  string `envconfig:"STUDIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STUDIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STUDIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STUDIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STUDIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STUDIO_REDIS_URL"`
	Address      string        `envconfig:"STUDIO_REDIS_ADDR"`
	Password     string        `envconfig:"STUDIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"STUDIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STUDIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STUDIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STUDIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STUDIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STUDIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STUDIO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STUDIO_JWT_ISSUER" default:"studio-backend"`
	ExpirationMinutes      int    `envconfig:"STUDIO_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"STUDIO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STUDIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STUDIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STUDIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STUDIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STUDIO_ARGON_KEY_LEN" default:"32"`
}

type MidtransConfig struct {
	ServerKey  string `envconfig:"STUDIO_MIDTRANS_SERVER_KEY" required:"true"`
	ClientKey  string `envconfig:"STUDIO_MIDTRANS_CLIENT_KEY"`
	Production bool   `envconfig:"STUDIO_MIDTRANS_PRODUCTION" default:"false"`
}

type CalendarConfig struct {
	DayStartHour int    `envconfig:"STUDIO_CALENDAR_DAY_START_HOUR" default:"8"`
	DayEndHour   int    `envconfig:"STUDIO_CALENDAR_DAY_END_HOUR" default:"21"`
	Timezone     string `envconfig:"STUDIO_CALENDAR_TIMEZONE" default:"Asia/Jakarta"`
}

type OrdersConfig struct {
	DefaultDPPercent int           `envconfig:"STUDIO_ORDERS_DEFAULT_DP_PERCENT" default:"30"`
	PendingTTL       time.Duration `envconfig:"STUDIO_ORDERS_PENDING_TTL" default:"240h"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"STUDIO_CRON_INTERVAL" default:"24h"`
	LockTTL     time.Duration `envconfig:"STUDIO_CRON_LOCK_TTL" default:"25h"`
	MetricsPort string        `envconfig:"STUDIO_CRON_METRICS_PORT" default:"9090"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STUDIO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, envVar := range requiredDBEnvVars {
		if values[envVar] == "" {
			missing = append(missing, envVar)
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
