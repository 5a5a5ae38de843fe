package main

import (
	"flag"
	"log"

	"github.com/luo4lu/DCEP/ledger/app"
	"github.com/luo4lu/DCEP/lib/errors"
)

var envFlag string
var dsnFlag string
var hstFlag string
var prtFlag string
var keyFlag string

func init() {
	flag.StringVar(&envFlag, "env",
		"qa", "The environment to run in (qa, prod)")
	flag.StringVar(&dsnFlag, "db_dsn",
		"", "The DSN of the DB to use, defaults to sqlite3")
	flag.StringVar(&hstFlag, "host",
		"127.0.0.1", "The host the ledger is served from")
	flag.StringVar(&prtFlag, "port",
		"", "The port to listen on, defaults per environment")
	flag.StringVar(&keyFlag, "key",
		"", "The path of the signing key seed file")
}

func main() {
	if !flag.Parsed() {
		flag.Parse()
	}

	ctx, err := app.BackgroundContextFromFlags(
		envFlag, dsnFlag, hstFlag, prtFlag, keyFlag)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	mux, err := app.Build(ctx)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	if err := app.Serve(ctx, mux); err != nil {
		log.Fatal(errors.Details(err))
	}
}
