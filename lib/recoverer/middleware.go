package recoverer

import (
	"net/http"
	"runtime/debug"

	"github.com/luo4lu/DCEP/lib/errors"
	"github.com/luo4lu/DCEP/lib/logging"
	"github.com/luo4lu/DCEP/lib/respond"
)

type middleware struct {
	http.Handler
}

// ServeHTTP handles incoming HTTP requests, recovering from panics, logging
// them (with a backtrace) and returning a 500 if possible.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()

	defer func() {
		if err := recover(); err != nil {
			if e, ok := err.(error); ok {
				logging.Logf(ctx, "Panic: error=%q", e.Error())
				respond.Error(ctx, w, errors.Trace(e))
			} else {
				logging.Logf(ctx, "Non error panic: dump=%+v", err)
				respond.Error(ctx, w,
					errors.Newf("Non error panic: %+v", err))
			}
			debug.PrintStack()
		}
	}()

	m.Handler.ServeHTTP(w, r)
}

// Middleware that recovers from panics, logs the panic and returns a HTTP 500
// (Internal Server Error) status if possible.
func Middleware(h http.Handler) http.Handler {
	return middleware{h}
}
