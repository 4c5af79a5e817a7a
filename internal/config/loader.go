package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix marks the optional override variables (DIGEST_LOG_LEVEL, ...).
// The three credentials keep their bare historical names.
const envPrefix = "DIGEST_"

// bareEnvKeys maps the credential variables onto koanf keys.
var bareEnvKeys = map[string]string{
	"DB_LINK":  "db_link",
	"TG_TOKEN": "tg_token",
	"CHAT_ID":  "chat_id",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DIGEST_CONFIG is set
//  3. env (DB_LINK, TG_TOKEN, CHAT_ID, and DIGEST_*-prefixed overrides)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("DIGEST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Only the recognized variables make it in; everything else in the
	// environment is ignored.
	envProvider := env.Provider("", ".", func(s string) string {
		if key, ok := bareEnvKeys[s]; ok {
			return key
		}
		if strings.HasPrefix(s, envPrefix) {
			return strings.ToLower(strings.TrimPrefix(s, envPrefix))
		}
		return ""
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.DBLink == "":
		return fmt.Errorf("%w: DB_LINK must not be empty", ErrInvalidConfig)
	case cfg.BotToken == "":
		return fmt.Errorf("%w: TG_TOKEN must not be empty", ErrInvalidConfig)
	case cfg.ChatID == "":
		return fmt.Errorf("%w: CHAT_ID must not be empty", ErrInvalidConfig)
	case cfg.OutletID <= 0:
		return fmt.Errorf("%w: outlet_id must be positive", ErrInvalidConfig)
	case cfg.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	case cfg.QueryTimeoutSec <= 0 || cfg.SendTimeoutSec <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, cfg.Timezone, err)
	}
	return nil
}
