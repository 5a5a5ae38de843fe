package test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goji "goji.io"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/ledger/app"
	"github.com/luo4lu/DCEP/ledger/lib/authentication"
	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/db"
	"github.com/luo4lu/DCEP/lib/env"
	"github.com/luo4lu/DCEP/lib/recoverer"
	"github.com/luo4lu/DCEP/lib/requestlogger"
	"github.com/luo4lu/DCEP/lib/svc"
	"github.com/luo4lu/DCEP/lib/token"

	// force initialization of schemas
	_ "github.com/luo4lu/DCEP/ledger/model/schemas"
)

// PostLatency is the tolerance used when asserting on creation timestamps
// returned by the API.
const PostLatency = 5 * time.Second

// Ledger represents a test ledger.
type Ledger struct {
	Server *httptest.Server
	Env    *env.Env

	// Ctx carries the test env, DB and signing key so that tests can call
	// into the model directly to assert on stored state.
	Ctx context.Context

	Key *transfer.SigningKey
}

// CreateLedger creates a new test ledger backed by an in-memory DB along with
// its signing key.
func CreateLedger(
	t *testing.T,
) *Ledger {
	ctx := context.Background()

	ledgerEnv := env.Env{
		Environment: env.QA,
		Config:      map[env.ConfigKey]string{},
	}
	ctx = env.With(ctx, &ledgerEnv)

	ledgerDB, err := db.NewSqlite3DBInMemory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	err = db.CreateDBTables(ctx, "ledger", ledgerDB)
	if err != nil {
		t.Fatal(err)
	}
	ctx = db.WithDB(ctx, ledgerDB)

	key, err := transfer.NewSigningKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	ctx = ledger.WithSigningKey(ctx, key)

	mux := goji.NewMux()
	mux.Use(requestlogger.Middleware)
	mux.Use(recoverer.Middleware)
	mux.Use(db.Middleware(db.GetDB(ctx)))
	mux.Use(env.Middleware(env.Get(ctx)))
	mux.Use(ledger.SigningKeyMiddleware(key))
	mux.Use(authentication.Middleware)

	(&app.Controller{}).Bind(mux)

	return &Ledger{
		Server: httptest.NewServer(mux),
		Env:    &ledgerEnv,
		Ctx:    ctx,
		Key:    key,
	}
}

// Close shuts the test ledger down.
func (l *Ledger) Close() {
	l.Server.Close()
}

// CreateUser creates a new test user with a fresh user key and an owner
// keypair to hold currency with.
func (l *Ledger) CreateUser(
	t *testing.T,
) *LedgerUser {
	key, err := transfer.NewSigningKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	return &LedgerUser{
		ledger:  l,
		UserKey: token.New("user"),
		Key:     key,
	}
}

// LedgerUser represents a user of a test ledger.
type LedgerUser struct {
	ledger  *Ledger
	UserKey string

	// Key is the user's owner keypair, used to hold and spend currency.
	Key *transfer.SigningKey
}

// Post posts the provided body as JSON to the test ledger under the user's
// key.
func (u *LedgerUser) Post(
	t *testing.T,
	path string,
	body interface{},
) (int, svc.Resp) {
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("POST",
		u.ledger.Server.URL+path, bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-USERID", u.UserKey)

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	var raw svc.Resp
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}

	return r.StatusCode, raw
}

// Get performs a GET request against the test ledger under the user's key.
func (u *LedgerUser) Get(
	t *testing.T,
	path string,
) (int, svc.Resp) {
	req, err := http.NewRequest("GET", u.ledger.Server.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-USERID", u.UserKey)

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	var raw svc.Resp
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}

	return r.StatusCode, raw
}

// PostAnonymous posts the provided body as JSON without a user key.
func PostAnonymous(
	t *testing.T,
	l *Ledger,
	path string,
	body interface{},
) (int, svc.Resp) {
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("POST",
		l.Server.URL+path, bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	var raw svc.Resp
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}

	return r.StatusCode, raw
}

// PostTransfer hex-encodes the provided transfer and submits it for
// settlement.
func (u *LedgerUser) PostTransfer(
	t *testing.T,
	tr *transfer.Transfer,
) (int, svc.Resp) {
	return u.Post(t, "/transactions", map[string]string{
		"transaction": hex.EncodeToString(tr.Raw()),
	})
}

// Issue settles an issuance transfer minting the provided amount for the
// user and returns the settlement.
func (u *LedgerUser) Issue(
	t *testing.T,
	amount int64,
) ledger.SettlementResource {
	tr, err := transfer.New(nil, []transfer.Output{
		{Owner: u.Key.Certificate(), Amount: amount},
	})
	if err != nil {
		t.Fatal(err)
	}

	status, raw := u.PostTransfer(t, tr)
	if status != 201 {
		t.Fatalf("issuance failed with status %d", status)
	}

	var settlement ledger.SettlementResource
	if err := raw.Extract("settlement", &settlement); err != nil {
		t.Fatal(err)
	}

	return settlement
}

// Input builds a spendable input for the currency unit with the given id,
// attaching the user's proof.
func (u *LedgerUser) Input(
	id string,
	amount int64,
) transfer.Currency {
	c := transfer.Currency{
		ID:     id,
		Owner:  u.Key.Certificate(),
		Amount: amount,
	}
	u.Key.SignCurrency(&c)
	return c
}
