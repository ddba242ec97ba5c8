package service

import (
	"github.com/rs/zerolog/log"
)

// bestEffort runs fn and absorbs its error, logging it instead of returning
// it. The default policy everywhere in this package is propagate; this wrapper
// marks the few call sites where a side effect must not abort the primary
// operation (pass minting and visitor notification during pre-registration
// creation, and the cascade revoke during cancellation).
func bestEffort(operation string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("operation", operation).Msg("best-effort operation failed")
	}
}
