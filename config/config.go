package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed base.yaml
var baseConfig []byte

type AppSettings struct {
	Name string `mapstructure:"name" validate:"required"`
	Env  string `mapstructure:"env" validate:"required,oneof=local development staging production prod test"`
}

type HTTPSettings struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,url"`
}

type DatabaseSettings struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres mysql"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type RedisSettings struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type NATSSettings struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix" validate:"required"`
}

// PaymentSettings configures the SSLCommerz hosted checkout.
type PaymentSettings struct {
	StoreID       string        `mapstructure:"store_id"`
	StorePassword string        `mapstructure:"store_password"`
	Live          bool          `mapstructure:"live"`
	Currency      string        `mapstructure:"currency" validate:"required,len=3"`
	ServerURL     string        `mapstructure:"server_url" validate:"required,url"`
	ClientURL     string        `mapstructure:"client_url" validate:"required,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type MailSettings struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required,numeric"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
	FromName string `mapstructure:"from_name"`
}

type AuthSettings struct {
	JWTSecret    string        `mapstructure:"jwt_secret" validate:"required,min=8"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	EnforceRoles bool          `mapstructure:"enforce_roles"`
}

type Settings struct {
	App      AppSettings      `mapstructure:"app" validate:"required"`
	HTTP     HTTPSettings     `mapstructure:"http" validate:"required"`
	Database DatabaseSettings `mapstructure:"database" validate:"required"`
	Redis    RedisSettings    `mapstructure:"redis"`
	NATS     NATSSettings     `mapstructure:"nats"`
	Payment  PaymentSettings  `mapstructure:"payment" validate:"required"`
	Mail     MailSettings     `mapstructure:"mail" validate:"required"`
	Auth     AuthSettings     `mapstructure:"auth" validate:"required"`
}

// IsProduction reports whether the app runs with production defaults
// (JSON logs, release gin mode).
func (s *Settings) IsProduction() bool {
	return s.App.Env == "production" || s.App.Env == "prod"
}

// Load reads the embedded defaults, then a local .env file if present, then
// DINEDASH_* environment variables (e.g. DINEDASH_DATABASE_DSN).
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Settings, error) {
	var cfg Settings

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(baseConfig)); err != nil {
		return nil, fmt.Errorf("config: read base.yaml: %w", err)
	}

	v.SetEnvPrefix("DINEDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid settings: %w", err)
	}
	return &cfg, nil
}
