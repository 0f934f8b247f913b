package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment-driven server settings.
type Config struct {
	Port   string `envconfig:"PORT" default:"8008"`
	DBPath string `envconfig:"DB_PATH" default:"hobbymatch.db"`
	// EMIT_GATEWAY_URL points at the /emit endpoint of the instance that
	// terminates websocket connections; used only when no hub is resident
	// in the calling process.
	EmitGatewayURL string `envconfig:"EMIT_GATEWAY_URL" default:"http://localhost:8008/emit"`
}

// Load reads the config from the environment, after an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
