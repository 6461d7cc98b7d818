package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/app"
	"tradejournal/src/utils"
)

var APP_NAME = os.Getenv("APP_NAME")

func main() {
	// .env is optional
	_ = godotenv.Load()
	utils.SetupLogger()
	defer handlePanic()

	if err := app.Serve(); err != nil {
		logger.WithError(err).Fatal("Server stopped with error")
	}
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
		//nolint
		time.Sleep(time.Second * 5)
	}
}
