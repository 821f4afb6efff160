package envconfig

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type SBDServiceEnvConfig struct {
	Host          string        `env:"HOST" envDefault:"0.0.0.0"`
	Port          uint          `env:"PORT" envDefault:"10800"`
	HTTPPort      uint          `env:"HTTP_PORT" envDefault:"3000"`
	NatsConn      string        `env:"NATS"`
	ClickHouseDB  string        `env:"AVLDB_CLICKHOUSE"`
	RedisURL      string        `env:"REDIS"`
	GaiaURL       string        `env:"GAIA_URL" envDefault:"http://127.0.0.1:3001/assign"`
	GaiaAPIKey    string        `env:"GAIA_API_KEY"`
	AssignTimeout time.Duration `env:"GAIA_TIMEOUT" envDefault:"10s"`
	MinSatellites uint8         `env:"MIN_SATELLITES" envDefault:"4"`
	LogLength     int           `env:"LOG_LENGTH" envDefault:"100"`
	SBDLogFile    string        `env:"SBD_LOG_FILE" envDefault:"logs/incoming-sbd.log"`
	SBDLogKeep    int           `env:"SBD_LOG_KEEP" envDefault:"10"`
	SBDLogMaxSize int           `env:"SBD_LOG_MAX_SIZE_MB" envDefault:"1"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LastPointTTL  time.Duration `env:"LAST_POINT_TTL" envDefault:"24h"`
}

func ReadSBDServiceEnv() (*SBDServiceEnvConfig, error) {
	cfg := &SBDServiceEnvConfig{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
