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
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CORGRES_APP_ENV" required:"true"`
	Port         string `envconfig:"CORGRES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CORGRES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CORGRES_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"CORGRES_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CORGRES_DB_DSN"`
	Driver string `envconfig:"CORGRES_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"CORGRES_SQLITE_PATH" default:"corgres.db"`

	LegacyHost     string `envconfig:"CORGRES_DB_HOST"`
	LegacyPort     int    `envconfig:"CORGRES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CORGRES_DB_USER"`
	LegacyPassword string `envconfig:"CORGRES_DB_PASSWORD"`
	LegacyName     string `envconfig:"CORGRES_DB_NAME"`
	LegacySSLMode  string `envconfig:"CORGRES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CORGRES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CORGRES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CORGRES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CORGRES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CORGRES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CORGRES_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the deployment-tunable pricing knobs. The markup
// stages feed the alternative per-m2 retail price pipeline in fixed order.
type PricingConfig struct {
	DefaultKgPerM2 float64 `envconfig:"CORGRES_PRICING_DEFAULT_KG_PER_M2" default:"24.0"`
	StageAMarkup   float64 `envconfig:"CORGRES_PRICING_STAGE_A_MARKUP" default:"0.35"`
	StageBMarkup   float64 `envconfig:"CORGRES_PRICING_STAGE_B_MARKUP" default:"0.10"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		// SQLite opens from SQLitePath; a DSN is not required.
		return nil
	}
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
