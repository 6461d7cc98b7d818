package security

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`

	AdminLogin    string `envconfig:"ADMIN_LOGIN" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin"`
	AdminSurname  string `envconfig:"ADMIN_SURNAME" default:"User"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@tradejournal.local"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
