package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"tradejournal/cmd/report"
	"tradejournal/cmd/setupadmin"
	"tradejournal/src/app"
	"tradejournal/src/client"
	"tradejournal/src/repository"
	"tradejournal/src/security"
	"tradejournal/src/utils"
)

var Version string

func main() {
	_ = godotenv.Load()
	utils.SetupLogger()

	cliApp := cli.NewApp()
	cliApp.Name = "tradejournal"
	cliApp.Usage = "The trading journal command line interface"
	cliApp.Version = Version

	cliApp.Commands = []cli.Command{
		serveCMD,
		migrateCMD,
		setupAdminCMD,
		reportCMD,
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the journal API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the HTTP API until SIGINT or SIGTERM`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "apply schema and data migrations",
		Action:      migrateAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run schema auto-migration and pending data migrations, then exit`,
	}
	setupAdminCMD = cli.Command{
		Name:        "setup-admin",
		Usage:       "create the admin user from ADMIN_* settings",
		Action:      setupAdminAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Create the administrator if its login does not exist yet`,
	}
	reportCMD = cli.Command{
		Name:      "report",
		Usage:     "print a performance report for a user",
		Action:    reportAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "user",
				Usage:  "user id to report on",
				EnvVar: "JOURNAL_USER_ID",
			},
			cli.StringFlag{
				Name:  "url",
				Usage: "journal API base URL (overrides JOURNAL_API_URL)",
			},
			cli.BoolFlag{
				Name:  "quick",
				Usage: "print only the quick stats from /api/trades/stats",
			},
		},
		Description: `Fetch /api/trades/performance (or /api/trades/stats with --quick) for --user and print it as text`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting serve CMD")

	if err := app.Serve(); err != nil {
		logrus.WithError(err).Error("serve cmd failed")
		return err
	}
	return nil
}

func migrateAction(_ *cli.Context) error {
	logrus.Info("Starting migrate CMD")

	db, err := app.OpenDatabase()
	if err != nil {
		logrus.WithError(err).Error("migrate cmd failed")
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func setupAdminAction(_ *cli.Context) error {
	logrus.Info("Starting setup-admin CMD")

	db, err := app.OpenDatabase()
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cmd := &setupadmin.SetupAdmin{
		Log:    logrus.WithField("cmd", "setup-admin"),
		Store:  repository.NewUserRepository(db),
		Config: security.GetConfig(),
	}
	return cmd.Start(context.Background())
}

func reportAction(c *cli.Context) error {
	userID := c.String("user")
	if userID == "" {
		return cli.NewExitError("--user is required", 2)
	}

	config := client.GetConfig()
	if url := c.String("url"); url != "" {
		config.BaseURL = url
	}

	cmd := &report.Report{
		Log:    logrus.WithField("cmd", "report"),
		Client: client.New(config, userID),
		Out:    os.Stdout,
		Quick:  c.Bool("quick"),
	}
	return cmd.Start(context.Background())
}
