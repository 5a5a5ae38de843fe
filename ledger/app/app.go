package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"goji.io"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/env"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/logging"
	"github.com/luo4lu/DCEP/lib/recoverer"
	"github.com/luo4lu/DCEP/lib/requestlogger"

	// force initialization of schemas
	_ "github.com/luo4lu/DCEP/ledger/model/schemas"
)

// BackgroundContextFromFlags initializes a background context fully loaded
// with everything that could be extracted from the flags.
func BackgroundContextFromFlags(
	envFlag string,
	dsnFlag string,
	hstFlag string,
	prtFlag string,
	keyFlag string,
) (context.Context, error) {
	ctx := context.Background()

	ledgerEnv := env.Env{
		Environment: env.QA,
		Config:      map[env.ConfigKey]string{},
	}
	if envFlag == "production" || envFlag == "prod" {
		ledgerEnv.Environment = env.Production
	}
	ledgerEnv.Config[ledger.EnvCfgHost] = hstFlag

	port := ledger.DefaultPort[ledgerEnv.Environment]
	if prtFlag != "" {
		port = prtFlag
	}
	ledgerEnv.Config[ledger.EnvCfgPort] = port
	ledgerEnv.Config[ledger.EnvCfgKeyPath] = keyFlag

	ctx = env.With(ctx, &ledgerEnv)

	ledgerDB, err := db.NewDBForDSN(ctx,
		dsnFlag,
		fmt.Sprintf("sqlite3://~/.dcep/ledger-%s.db",
			env.Get(ctx).Environment))
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = db.CreateDBTables(ctx, "ledger", ledgerDB)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ctx = db.WithDB(ctx, ledgerDB)

	var key *transfer.SigningKey
	if keyFlag != "" {
		key, err = transfer.LoadSigningKey(keyFlag)
		if err != nil {
			return nil, errors.Trace(err)
		}
		logging.Logf(ctx, "Loaded signing key: path=%s", keyFlag)
	} else {
		if env.Get(ctx).Environment == env.Production {
			return nil, errors.Trace(errors.Newf(
				"You must set the `-key` flag to the path of a signing key " +
					"seed file in production. Currency minted with an " +
					"ephemeral key cannot be re-verified across restarts.",
			))
		}
		key, err = transfer.NewSigningKey(rand.Reader)
		if err != nil {
			return nil, errors.Trace(err)
		}
		logging.Logf(ctx, "Generated ephemeral signing key: certificate=%s",
			key.Certificate())
	}
	ctx = ledger.WithSigningKey(ctx, key)

	return ctx, nil
}

// Build initializes the app and its web stack.
func Build(
	ctx context.Context,
) (*goji.Mux, error) {
	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(ledger.SigningKeyMiddleware(ledger.GetSigningKey(ctx)))
	mux.Use(authentication.Middleware)

	logging.Logf(ctx, "Initializing: environment=%s host=%s port=%s",
		env.Get(ctx).Environment, ledger.GetHost(ctx), ledger.GetPort(ctx))

	(&Controller{}).Bind(mux)

	return mux, nil
}

// Serve the goji mux.
func Serve(
	ctx context.Context,
	mux *goji.Mux,
) error {
	s := &http.Server{
		Addr:         fmt.Sprintf(":%s", ledger.GetPort(ctx)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Handler:      mux,
	}

	logging.Logf(ctx, "Listening: port=%s", ledger.GetPort(ctx))

	err := gracehttp.Serve(s)
	if err != nil {
		return errors.Trace(err)
	}

	return nil
}
