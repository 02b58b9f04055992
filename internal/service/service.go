package service

import (
	"errors"

	"docchat-client/internal/entity"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"
)

// errMiss aborts a transition that would not change anything. It never
// leaves the service package.
var errMiss = errors.New("no change")

// describe turns a failure into the message shown to the user.
func describe(err error) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Detail != "" {
		return be.Detail
	}
	return err.Error()
}

// reportFailure records err as the user-visible error of kind.
func reportFailure(store *state.Store, log logger.ILogger, action string, kind entity.ErrorKind, err error) {
	log.Warn("Service", "Operation failed", map[string]interface{}{
		"action": action,
		"kind":   string(kind),
		"error":  err,
	})
	_, _ = store.Apply(action+".failed", func(s *state.Snapshot) error {
		s.SetError(kind, describe(err))
		return nil
	})
}

func documentIds(docs []entity.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Id)
	}
	return ids
}
