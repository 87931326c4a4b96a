package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables carrying credentials. These never live in the
// config file.
const (
	EnvClientID      = "DHAN_CLIENT_ID"
	EnvAccessToken   = "DHAN_ACCESS_TOKEN"
	EnvAlertEmail    = "NSEBOT_ALERT_EMAIL"
	EnvAlertPassword = "NSEBOT_ALERT_PASSWORD"
)

// ApplyEnv loads a .env file when present and overlays the credential
// variables onto the config. Unset variables leave existing values
// untouched.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvClientID); v != "" {
		c.Broker.ClientID = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Broker.AccessToken = v
	}
	if v := os.Getenv(EnvAlertEmail); v != "" {
		c.Notify.Address = v
	}
	if v := os.Getenv(EnvAlertPassword); v != "" {
		c.Notify.Password = v
	}
}
