package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "dsclean",
		Usage: "clean a data-science job postings CSV into JSON lines",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "raw postings CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "cleaned postings, one JSON object per line (- for stdout)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "rejects",
				Usage: "write one JSON object per rejected field to this file",
			},
			&cli.IntFlag{
				Name:  "current-year",
				Usage: "reference year for company age (0 uses the wall clock)",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "YAML file overriding the classification and skill rules",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "what to do with records that have underivable fields: skip or nullfill",
				Value: "skip",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "records cleaned in parallel",
				Value: 8,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "records read before each write",
				Value: 500,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "development logging",
			},
		},
		Action: cleanAction,
	}
}
