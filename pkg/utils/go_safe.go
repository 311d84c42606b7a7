package utils

import (
	"context"
	"log"
	"runtime/debug"

	"pure-price-press/pkg/logger"
)

// GoSafe runs fn in a new goroutine, recovering and logging panics so a single
// bad source or article cannot take down the batch.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context canceled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
