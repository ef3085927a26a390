package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento local soportados.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Modos de entrega al backend.
const (
	BackendModeJSON          = "json"            // lee {"success": bool} de la respuesta
	BackendModeFireAndForget = "fire-and-forget" // no puede leer la respuesta: resultado desconocido
)

// Config agrupa la configuración del kiosko (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Sync    SyncConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	HTTP    HTTPConfig
	JWT     JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	DeviceID string // identifica el kiosko en tokens y métricas
}

// BackendConfig servicio remoto (hoja de cálculo publicada como web app).
type BackendConfig struct {
	URL              string
	Mode             string
	IncludeSignature bool
	DeliveryTimeout  time.Duration
	FetchTimeout     time.Duration
}

// SyncConfig sincronización de la cola y sondeo de conectividad.
type SyncConfig struct {
	ProbeInterval time.Duration // 0 = sin sondeo activo; solo eventos externos
	RatePerSecond float64       // ritmo máximo de reenvíos al backend
	StartOnline   bool
}

// StoreConfig almacenamiento local clave-valor.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DBConfig configuración de PostgreSQL (driver "postgres").
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig configuración de Redis (driver "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HTTPConfig configuración de la API local para la capa de presentación.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig tokens de supervisor.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
	PINHash    string // bcrypt del PIN de supervisor; vacío = rutas de supervisor deshabilitadas
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, STORE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "luxy-checkout"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			DeviceID: getString(v, "DEVICE_ID", "kiosk-1"),
		},
		Backend: BackendConfig{
			URL:              getString(v, "BACKEND_URL", ""),
			Mode:             getString(v, "BACKEND_MODE", BackendModeJSON),
			IncludeSignature: getBool(v, "BACKEND_INCLUDE_SIGNATURE", true),
			DeliveryTimeout:  time.Duration(getInt(v, "DELIVERY_TIMEOUT_SECONDS", 15)) * time.Second,
			FetchTimeout:     time.Duration(getInt(v, "FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		Sync: SyncConfig{
			ProbeInterval: time.Duration(getInt(v, "PROBE_INTERVAL_SECONDS", 30)) * time.Second,
			RatePerSecond: getFloat(v, "SYNC_RATE_PER_SECOND", 2),
			StartOnline:   getBool(v, "START_ONLINE", true),
		},
		Store: StoreConfig{
			Driver:     getString(v, "STORE_DRIVER", StoreSQLite),
			SQLitePath: getString(v, "SQLITE_PATH", "luxy-checkout.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "luxy_checkout"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 30),
			Issuer:     getString(v, "JWT_ISSUER", "luxy-checkout"),
			PINHash:    getString(v, "SUPERVISOR_PIN_HASH", ""),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StorePostgres, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	switch c.Backend.Mode {
	case BackendModeJSON, BackendModeFireAndForget:
	default:
		return fmt.Errorf("config: BACKEND_MODE desconocido %q", c.Backend.Mode)
	}
	if c.Backend.DeliveryTimeout <= 0 {
		return fmt.Errorf("config: DELIVERY_TIMEOUT_SECONDS debe ser > 0")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
