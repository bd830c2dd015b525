// Package env loads API credentials from the process environment, with an
// optional .env file for local development.
package env

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"mbx/pkg/core"
)

type settings struct {
	APIKey    string `envconfig:"BINANCE_API_KEY"`
	SecretKey string `envconfig:"BINANCE_SECRET_KEY"`
}

// Credentials reads BINANCE_API_KEY and BINANCE_SECRET_KEY. A .env file in
// the working directory is loaded first when present. Returns
// core.ErrNoCredentials when the API key is not set.
func Credentials() (*core.Credentials, error) {
	_ = godotenv.Load()

	var s settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}
	if s.APIKey == "" {
		return nil, core.ErrNoCredentials
	}
	return &core.Credentials{APIKey: s.APIKey, SecretKey: s.SecretKey}, nil
}
