package authentication

import (
	"context"
	"net/http"

	"github.com/luo4lu/DCEP/ledger"
	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/respond"
)

// ContextKey is the type of the key used with context to carry the
// authenticated user key.
type ContextKey string

const (
	// userKeyKey the context.Context key to store the user key.
	userKeyKey ContextKey = "authentication.user_key"

	// userKeyHeader is the header carrying the caller identity. Callers are
	// identified, not authenticated: the service sits behind a gateway that
	// verifies the key.
	userKeyHeader = "X-USERID"
)

// With stores the user key in a new context.
func With(
	ctx context.Context,
	userKey string,
) context.Context {
	return context.WithValue(ctx, userKeyKey, userKey)
}

// Get retrieves the user key from the context.
func Get(
	ctx context.Context,
) string {
	return ctx.Value(userKeyKey).(string)
}

type middleware struct {
	http.Handler
}

// ServeHTTP extracts the caller's user key and rejects requests that carry
// none. Every record read or written downstream is scoped by that key.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()

	userKey := r.Header.Get(userKeyHeader)
	if userKey == "" {
		ledger.Logf(ctx,
			"Authentication: status=%q", "failed")
		respond.Error(ctx, w, errors.Trace(errors.NewUserErrorf(nil,
			401, "authentication_required",
			"The %s header is missing. All requests must carry the "+
				"caller's user key.", userKeyHeader,
		)))
		return
	}

	withUserKey := With(ctx, userKey)
	ledger.Logf(withUserKey,
		"Authentication: status=%q user_key=%q", "succeeded", userKey)

	m.Handler.ServeHTTP(w, r.WithContext(withUserKey))
}

// Middleware that extracts the caller identity of ledger requests.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}
