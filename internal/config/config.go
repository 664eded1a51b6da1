package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	DBMigrate           bool   `env:"DB_MIGRATE" envDefault:"true"`
	JWTSecret           string `env:"JWT_SECRET,required,notEmpty"`
	JWTAlgorithm        string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"30"`
	BcryptCost          int    `env:"BCRYPT_COST" envDefault:"12"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev              bool   `env:"LOG_DEV" envDefault:"false"`
	CORSAllowedOrigins  string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AccessTTL devuelve la ventana de validez de los access tokens.
func (c *Config) AccessTTL() time.Duration {
	if c.JWTAccessTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

// AllowedOrigins separa CORS_ALLOWED_ORIGINS por comas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
