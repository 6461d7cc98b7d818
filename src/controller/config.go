package controller

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceName       string `envconfig:"SERVICE_NAME" default:"tradejournal"`
	RecentTradesLimit int    `envconfig:"ADMIN_RECENT_TRADES" default:"5"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
