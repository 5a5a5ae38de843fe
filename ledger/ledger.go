package ledger

import (
	"context"
	"net/http"

	"github.com/luo4lu/DCEP/ledger/transfer"
	"github.com/luo4lu/DCEP/lib/env"
	"github.com/luo4lu/DCEP/lib/logging"
)

const (
	// Version is the current version.
	Version string = "0.0.1"

	// TimeResolutionNs is the resolution of our timestamps in nanoseconds (we
	// use milliseconds throughout the API).
	TimeResolutionNs int64 = 1000 * 1000
)

const (
	// EnvCfgHost is the env config key for the ledger host.
	EnvCfgHost env.ConfigKey = "host"
	// EnvCfgPort is the env config key for the port the ledger listens on.
	EnvCfgPort env.ConfigKey = "port"
	// EnvCfgKeyPath is the env config key for the signing key seed file path.
	EnvCfgKeyPath env.ConfigKey = "key_path"
)

// DefaultPort is the default port used by environment.
var DefaultPort = map[env.Environment]string{
	env.Production: "2406",
	env.QA:         "9002",
}

// GetHost retrieves the current host from the given context.
func GetHost(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgHost]
}

// GetPort retrieves the current port from the given context.
func GetPort(
	ctx context.Context,
) string {
	return env.Get(ctx).Config[EnvCfgPort]
}

// ContextKey is the type of the key used with context to carry the contextual
// signing key.
type ContextKey string

const (
	// signingKeyKey the context.Context key to store the signing key.
	signingKeyKey ContextKey = "ledger.signing_key"
)

// WithSigningKey stores the settlement signing key in the provided context.
// The key is loaded once at startup rather than re-read from disk on each
// settlement.
func WithSigningKey(
	ctx context.Context,
	key *transfer.SigningKey,
) context.Context {
	return context.WithValue(ctx, signingKeyKey, key)
}

// GetSigningKey returns the signing key currently stored in the context.
func GetSigningKey(
	ctx context.Context,
) *transfer.SigningKey {
	if ctx.Value(signingKeyKey) == nil {
		return nil
	}
	return ctx.Value(signingKeyKey).(*transfer.SigningKey)
}

type signingKeyMiddleware struct {
	http.Handler
	key *transfer.SigningKey
}

// ServeHTTP handles incoming HTTP requests and injects the signing key in
// their context.
func (m signingKeyMiddleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()
	withKey := WithSigningKey(ctx, m.key)
	m.Handler.ServeHTTP(w, r.WithContext(withKey))
}

// SigningKeyMiddleware returns a middleware that injects the specified
// signing key in requests.
func SigningKeyMiddleware(
	key *transfer.SigningKey,
) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return signingKeyMiddleware{h, key}
	}
}

// Logf shells out to logging.Logf adding the ledger prefix.
func Logf(
	ctx context.Context,
	format string,
	args ...interface{},
) {
	logging.Logf(ctx, "[ledger] "+format, args...)
}
