// Package config defines process configuration and its loading.
//
// Conventions:
// - New(...) builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"github.com/syrlavka/digest/internal/domain/ranking"
	"github.com/syrlavka/digest/internal/domain/timeframe"
)

// Default timeouts for the two blocking operations, in seconds.
const (
	defaultQueryTimeoutSec = 30
	defaultSendTimeoutSec  = 30
)

// defaultOutletID is the outlet the digest reports on.
const defaultOutletID = 5

// Config contains process configuration for one digest run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBLink is the data-store connection string (env DB_LINK).
	DBLink string `koanf:"db_link"`

	// BotToken is the messaging transport credential (env TG_TOKEN).
	BotToken string `koanf:"tg_token"`

	// ChatID is the recipient identifier (env CHAT_ID).
	ChatID string `koanf:"chat_id"`

	// OutletID scopes both store queries to one outlet.
	OutletID int64 `koanf:"outlet_id"`

	// Timezone is the IANA name of the business timezone.
	Timezone string `koanf:"timezone"`

	// TopN is the ranking depth of the product tops.
	TopN int `koanf:"top_n"`

	// QueryTimeoutSec bounds each store query.
	QueryTimeoutSec int `koanf:"query_timeout_sec"`

	// SendTimeoutSec bounds each delivery call.
	SendTimeoutSec int `koanf:"send_timeout_sec"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		OutletID:        defaultOutletID,
		Timezone:        timeframe.DefaultTimezone,
		TopN:            ranking.DefaultTopN,
		QueryTimeoutSec: defaultQueryTimeoutSec,
		SendTimeoutSec:  defaultSendTimeoutSec,
	}
}
