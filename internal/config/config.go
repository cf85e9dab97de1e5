package config

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE,required" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID,required" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID,required" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY,required" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL,required" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID,required" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI,required" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI,required" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL,required" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL,required" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND" json:"-"`
}

type Http struct {
	Port          int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout  time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout   time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownGrace time.Duration `env:"HTTP_SHUTDOWN_GRACE" envDefault:"5s"`
}

// Redis is optional. An empty Addr disables the tag search cache.
type Redis struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB" envDefault:"0"`
	TagCacheTTL time.Duration `env:"TAG_CACHE_TTL" envDefault:"1m"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

type Config struct {
	Firebase
	Http
	Redis
	Log
}

func LoadConfigOrPanic() Config {
	config, err := Load()
	if err != nil {
		panic(err)
	}
	return config
}

// Load reads a .env file when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var config *Config = new(Config)
	if err := env.Parse(config); err != nil {
		return Config{}, err
	}

	if err := config.normalize(); err != nil {
		return Config{}, err
	}
	return *config, nil
}

func (c *Config) normalize() error {

	decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
	if err != nil {
		return err
	}
	c.Firebase.PrivateKey = string(decodedBytes)
	c.Firebase.PrivateKey = strings.ReplaceAll(c.Firebase.PrivateKey, "\\n", "\n")

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}

	return nil
}
