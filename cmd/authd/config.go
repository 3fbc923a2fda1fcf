package main

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-login"
)

const (
	hasherBcrypt   = "bcrypt"
	hasherArgon2id = "argon2id"
)

// Config is read from AUTH_* environment variables
type Config struct {
	Addr          string        `env:"AUTH_ADDR" envDefault:":8000" json:"addr"`
	SigningKey    string        `env:"AUTH_SIGNING_KEY" json:"signing_key"`
	SigningMethod string        `env:"AUTH_SIGNING_METHOD" envDefault:"HS256" json:"signing_method"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"30m" json:"token_ttl"`
	Issuer        string        `env:"AUTH_ISSUER" json:"issuer"`
	Audience      []string      `env:"AUTH_AUDIENCE" envSeparator:"," json:"audience"`
	StoreDSN      string        `env:"AUTH_STORE_DSN" envDefault:"sqlite://file::memory:?cache=shared" json:"store_dsn"`
	Hasher        string        `env:"AUTH_HASHER" envDefault:"bcrypt" json:"hasher"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"14" json:"bcrypt_cost"`
	HashWorkers   int           `env:"AUTH_HASH_WORKERS" json:"hash_workers"`
	CORSOrigins   []string      `env:"AUTH_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000" json:"cors_origins"`
	Debug         bool          `env:"AUTH_DEBUG" json:"debug"`
}

// LoadConfig parses the process environment
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}

	cfg.Hasher = strings.ToLower(strings.TrimSpace(cfg.Hasher))
	cfg.SigningMethod = strings.ToUpper(strings.TrimSpace(cfg.SigningMethod))

	return cfg, cfg.Validate()
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.SigningKey, validation.Required),
		validation.Field(&c.SigningMethod, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.TokenTTL, validation.Min(time.Second)),
		validation.Field(&c.StoreDSN, validation.Required),
		validation.Field(&c.Hasher, validation.In(hasherBcrypt, hasherArgon2id)),
		validation.Field(&c.BcryptCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.HashWorkers, validation.Min(0)),
	)
}

// Options returns the auth configuration derived from c
func (c Config) Options() auth.Options {
	return auth.Options{
		SigningKey:    c.SigningKey,
		SigningMethod: c.SigningMethod,
		TokenTTL:      c.TokenTTL,
		Issuer:        c.Issuer,
		Audience:      c.Audience,
	}
}

// Redacted returns a copy of c safe to log
func (c Config) Redacted() Config {
	out := c
	if out.SigningKey != "" {
		out.SigningKey = "********"
	}
	out.StoreDSN = redactDSN(out.StoreDSN)
	return out
}

func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}

	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return dsn
	}

	return scheme + "://********@" + rest[at+1:]
}
