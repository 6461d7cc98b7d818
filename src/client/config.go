package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL         string        `envconfig:"JOURNAL_API_URL" default:"http://localhost:9898"`
	Timeout         time.Duration `envconfig:"JOURNAL_API_TIMEOUT" default:"15s"`
	RetryAttempts   int           `envconfig:"JOURNAL_API_RETRY_ATTEMPTS" default:"3"`
	RetryBaseDelay  time.Duration `envconfig:"JOURNAL_API_RETRY_DELAY" default:"500ms"`
	RetryMaxBackoff time.Duration `envconfig:"JOURNAL_API_RETRY_MAX_BACKOFF" default:"5s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
