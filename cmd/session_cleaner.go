package main

import (
	"context"
	"log"
	"time"

	"terraUrbBack/internal/repositories"
)

const (
	sessionCleanerInterval = 24 * time.Hour
	sessionCleanerTimeout  = 1 * time.Minute
)

// startSessionCleaner removes sessions whose refresh tokens have expired, so
// the sessions table does not accumulate dead devices.
func startSessionCleaner(ctx context.Context, repo *repositories.SessionRepository, infoLog, errorLog *log.Logger) {
	if repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(sessionCleanerInterval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, sessionCleanerTimeout)
			removed, err := repo.DeleteExpired(runCtx, time.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("session cleaner: failed to delete expired sessions: %v", err)
				}
			} else if removed > 0 && infoLog != nil {
				infoLog.Printf("session cleaner: removed %d expired sessions", removed)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
