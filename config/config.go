package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"SIGNUPD_APP_"`
	Server   ServerConfig   `envPrefix:"SIGNUPD_SERVER_"`
	Log      LogConfig      `envPrefix:"SIGNUPD_LOG_"`
	Database DatabaseConfig `envPrefix:"SIGNUPD_DB_"`
	Mail     MailConfig     `envPrefix:"SIGNUPD_MAIL_"`
	Auth     AuthConfig     `envPrefix:"SIGNUPD_AUTH_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"signupd"`
	URL  string `env:"URL" envDefault:"http://localhost:3000"`
}

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"3000"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"signupd.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type MailConfig struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS" envDefault:"onboarding@localhost"`
	FromName     string `env:"FROM_NAME" envDefault:"signupd"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
}

type AuthConfig struct {
	BcryptCost              int           `env:"BCRYPT_COST" envDefault:"10"`
	VerificationTokenLength int           `env:"VERIFICATION_TOKEN_LENGTH" envDefault:"32"`
	VerificationExpiry      time.Duration `env:"VERIFICATION_EXPIRY" envDefault:"24h"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
