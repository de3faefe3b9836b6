package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Auth modes
const (
	AuthModeDev    = "dev"
	AuthModeJWT    = "jwt"
	AuthModeRemote = "remote"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App     AppConfig     `toml:"app"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Game    GameConfig    `toml:"game"`
	Catalog CatalogConfig `toml:"catalog"`
	Prefs   PrefsConfig   `toml:"prefs"`
}

type AppConfig struct {
	// Zona usada para "hoy" y el inicio de semana en engagement.
	Timezone string `toml:"timezone"`
}

type ServerConfig struct {
	Port            string   `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	App    string `toml:"app"`
}

type StorageConfig struct {
	// Si DSN viene, usa Postgres. Si no y MongoURI viene, usa Mongo. Si no, in-memory.
	DSN           string `toml:"dsn"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type AuthConfig struct {
	Mode      string   `toml:"mode"`
	JWTSecret string   `toml:"jwt_secret"`
	JWTIssuer string   `toml:"jwt_issuer"`
	VerifyURL string   `toml:"verify_url"`
	APIKey    string   `toml:"api_key"`
	Timeout   Duration `toml:"timeout"`
}

// GameConfig agrupa los números de producto (recompensas, bonus de play).
type GameConfig struct {
	RewardCoins    int `toml:"reward_coins"`
	StartingCoins  int `toml:"starting_coins"`
	PlayExperience int `toml:"play_experience"`
	PlayHappiness  int `toml:"play_happiness"`
}

type CatalogConfig struct {
	// Vacío = catálogo embebido.
	Path string `toml:"path"`
}

type PrefsConfig struct {
	CacheSize int `toml:"cache_size"`
}

// Duration permite escribir "5s" en el TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		App: AppConfig{Timezone: "Local"},
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     Duration{5 * time.Second},
			WriteTimeout:    Duration{10 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Log: LogConfig{Level: "info", Format: "text", App: "task-buddy"},
		Storage: StorageConfig{
			MongoDatabase: "taskbuddy",
		},
		Auth: AuthConfig{
			Mode:    AuthModeDev,
			Timeout: Duration{5 * time.Second},
		},
		Game:  DefaultGame(),
		Prefs: PrefsConfig{CacheSize: 4096},
	}
}

// DefaultGame son los números de juego por defecto.
func DefaultGame() GameConfig {
	return GameConfig{
		RewardCoins:    10,
		StartingCoins:  100,
		PlayExperience: 20,
		PlayHappiness:  10,
	}
}

// Load arma la config en este orden: defaults, .env (si existe), archivo TOML (si path != ""),
// y por último variables de entorno.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env es opcional; sin archivo seguimos con el entorno del sistema.
	_ = godotenv.Load()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("TASKBUDDY_CONFIG")
	}
	if strings.TrimSpace(path) != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()

		if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&cfg.Server.Port, "PORT")
	set(&cfg.Storage.DSN, "DB_DSN")
	set(&cfg.Storage.MongoURI, "MONGO_URI")
	set(&cfg.Storage.MongoDatabase, "MONGO_DB")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Format, "LOG_FORMAT")
	set(&cfg.Log.App, "APP_NAME")
	set(&cfg.Auth.Mode, "AUTH_MODE")
	set(&cfg.Auth.JWTSecret, "JWT_SECRET")
	set(&cfg.Auth.VerifyURL, "AUTH_VERIFY_URL")
	set(&cfg.Auth.APIKey, "AUTH_API_KEY")
	set(&cfg.App.Timezone, "TIMEZONE")
	set(&cfg.Catalog.Path, "CATALOG_PATH")
}

func (c Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeDev:
	case AuthModeJWT:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return fmt.Errorf("%w: auth.jwt_secret required in jwt mode", ErrInvalidConfig)
		}
	case AuthModeRemote:
		if strings.TrimSpace(c.Auth.VerifyURL) == "" {
			return fmt.Errorf("%w: auth.verify_url required in remote mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown auth.mode %q", ErrInvalidConfig, c.Auth.Mode)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: app.timezone: %v", ErrInvalidConfig, err)
	}

	g := c.Game
	if g.RewardCoins < 0 || g.StartingCoins < 0 || g.PlayExperience < 0 || g.PlayHappiness < 0 {
		return fmt.Errorf("%w: game values must be >= 0", ErrInvalidConfig)
	}
	if c.Prefs.CacheSize < 0 {
		return fmt.Errorf("%w: prefs.cache_size must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Location resuelve app.timezone ("" o "Local" = zona del proceso).
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.App.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
}
