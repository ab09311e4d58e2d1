package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cliApp := &cli.App{
		Name:  "tipovacka",
		Usage: "hockey tipping contest scoring",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:  "workbook",
				Usage: "read tournament data from this XLSX workbook instead of Postgres",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			standingsCommand(),
			exportCommand(),
			chartCommand(),
			importCommand(),
			backupCommand(),
			publishedCommand(),
			announcementsCommand(),
			announceCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
