package logging

import (
	"context"
	"log"
)

func init() {
	log.SetFlags(0)
}

// Logf logs a formatted line associated with the current request context.
func Logf(
	ctx context.Context,
	format string,
	args ...interface{},
) {
	log.Printf(format, args...)
}
