package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/castlelock/authcore"
)

// appConfig is the process configuration, populated from the environment.
type appConfig struct {
	ListenAddr string `env:"AUTHD_LISTEN_ADDR" envDefault:":8080"`
	AppName    string `env:"AUTHD_APP_NAME" envDefault:"authcore"`

	MongoURI string `env:"AUTHD_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"AUTHD_MONGO_DB" envDefault:"authcore"`

	RedisAddr     string `env:"AUTHD_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"AUTHD_REDIS_PASSWORD"`
	RedisDB       int    `env:"AUTHD_REDIS_DB" envDefault:"0"`

	JWTSecret  string        `env:"AUTHD_JWT_SECRET,required,notEmpty"`
	AccessTTL  time.Duration `env:"AUTHD_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"AUTHD_REFRESH_TTL" envDefault:"168h"`

	BcryptCost  int `env:"AUTHD_BCRYPT_COST" envDefault:"10"`
	MaxAttempts int `env:"AUTHD_MAX_SIGNIN_ATTEMPTS" envDefault:"5"`

	ResetURL  string `env:"AUTHD_RESET_URL" envDefault:"http://localhost:8080/auth/reset-password/"`
	VerifyURL string `env:"AUTHD_VERIFY_URL" envDefault:"http://localhost:8080/auth/verify-email/"`

	RequireVerifiedSignIn bool `env:"AUTHD_REQUIRE_VERIFIED_SIGNIN" envDefault:"false"`
	PreciseAuthErrors     bool `env:"AUTHD_PRECISE_AUTH_ERRORS" envDefault:"false"`
	EchoResetToken        bool `env:"AUTHD_ECHO_RESET_TOKEN" envDefault:"false"`

	SMTPAddr     string `env:"AUTHD_SMTP_ADDR"`
	SMTPUser     string `env:"AUTHD_SMTP_USER"`
	SMTPPassword string `env:"AUTHD_SMTP_PASSWORD"`
	SMTPFrom     string `env:"AUTHD_SMTP_FROM"`

	CORSOrigins []string `env:"AUTHD_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// loadConfig reads .env when present, then the environment.
func loadConfig() (appConfig, error) {
	_ = godotenv.Load()

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// engineConfig maps the process configuration onto the engine defaults.
func (c appConfig) engineConfig() authcore.Config {
	cfg := authcore.DefaultConfig()
	cfg.AppName = c.AppName
	cfg.Token.PrivateKey = []byte(c.JWTSecret)
	cfg.Token.AccessTTL = c.AccessTTL
	cfg.Token.RefreshTTL = c.RefreshTTL
	cfg.Password.Cost = c.BcryptCost
	cfg.Lockout.MaxAttempts = c.MaxAttempts
	cfg.PasswordReset.ResetURL = c.ResetURL
	cfg.EmailVerification.VerifyURL = c.VerifyURL
	cfg.EmailVerification.RequireForSignIn = c.RequireVerifiedSignIn
	cfg.Security.GenericCredentialErrors = !c.PreciseAuthErrors
	cfg.Security.EchoResetToken = c.EchoResetToken
	return cfg
}
