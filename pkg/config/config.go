package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DIETMEAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DIETMEAL_DB_DSN"
	EnvDBHost = "DIETMEAL_DB_HOST"
	EnvDBUser = "DIETMEAL_DB_USER"
	EnvDBName = "DIETMEAL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Scoring      ScoringConfig
	MealPlan     MealPlanConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"DIETMEAL_APP_ENV" required:"true"`
	Port         string `envconfig:"DIETMEAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DIETMEAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DIETMEAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DIETMEAL_DB_DSN"`
	Driver string `envconfig:"DIETMEAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DIETMEAL_DB_HOST"`
	LegacyPort     int    `envconfig:"DIETMEAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DIETMEAL_DB_USER"`
	LegacyPassword string `envconfig:"DIETMEAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"DIETMEAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"DIETMEAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DIETMEAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DIETMEAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DIETMEAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DIETMEAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DIETMEAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DIETMEAL_REDIS_ADDR"`
	Password     string        `envconfig:"DIETMEAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"DIETMEAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DIETMEAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DIETMEAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIETMEAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DIETMEAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DIETMEAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DIETMEAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DIETMEAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DIETMEAL_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DIETMEAL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DIETMEAL_AUTO_MIGRATE" default:"false"`
}

// ScoringConfig carries the tunable coefficients of the food scorer. The
// defaults are documented design values, not reverse-engineered facts.
type ScoringConfig struct {
	MealBandSpread     float64 `envconfig:"DIETMEAL_SCORING_MEAL_BAND_SPREAD" default:"0.15"`
	HighProteinFactor  float64 `envconfig:"DIETMEAL_SCORING_HIGH_PROTEIN_FACTOR" default:"1.3"`
	LowCarbFactor      float64 `envconfig:"DIETMEAL_SCORING_LOW_CARB_FACTOR" default:"0.7"`
	LowFatFactor       float64 `envconfig:"DIETMEAL_SCORING_LOW_FAT_FACTOR" default:"0.7"`
	GoalMacroWeight    float64 `envconfig:"DIETMEAL_SCORING_GOAL_MACRO_WEIGHT" default:"1.5"`
	DefaultMealsPerDay int     `envconfig:"DIETMEAL_SCORING_DEFAULT_MEALS_PER_DAY" default:"4"`
	MaxMatchReasons    int     `envconfig:"DIETMEAL_SCORING_MAX_MATCH_REASONS" default:"3"`
}

type MealPlanConfig struct {
	BaseURL string        `envconfig:"DIETMEAL_MEALPLAN_BASE_URL"`
	APIKey  string        `envconfig:"DIETMEAL_MEALPLAN_API_KEY"`
	Timeout time.Duration `envconfig:"DIETMEAL_MEALPLAN_TIMEOUT" default:"30s"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"DIETMEAL_CRON_INTERVAL" default:"24h"`
	LockKey           string        `envconfig:"DIETMEAL_CRON_LOCK_KEY" default:"dietmeal:cron:lock"`
	LockTTL           time.Duration `envconfig:"DIETMEAL_CRON_LOCK_TTL" default:"25h"`
	PendingRequestTTL time.Duration `envconfig:"DIETMEAL_CRON_PENDING_REQUEST_TTL" default:"72h"`
}

// RateLimitConfig throttles the claim endpoint, which takes the brunt of
// partner traffic when a new request opens.
type RateLimitConfig struct {
	ClaimWindow    time.Duration `envconfig:"DIETMEAL_RATELIMIT_CLAIM_WINDOW" default:"1m"`
	ClaimIPLimit   int           `envconfig:"DIETMEAL_RATELIMIT_CLAIM_IP_LIMIT" default:"30"`
	ClaimUserLimit int           `envconfig:"DIETMEAL_RATELIMIT_CLAIM_USER_LIMIT" default:"10"`
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
