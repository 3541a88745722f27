package main

import (
	"context"
	"log"
	"time"

	"terraUrbBack/internal/repositories"
)

const (
	codeCleanerInterval = 10 * time.Minute
	codeCleanerTimeout  = 1 * time.Minute
)

// startCodeCleaner periodically deletes expired verification codes. The sweep
// runs once at boot and then on every tick until ctx is cancelled.
func startCodeCleaner(ctx context.Context, repo *repositories.VerificationCodeRepository, infoLog, errorLog *log.Logger) {
	if repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(codeCleanerInterval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, codeCleanerTimeout)
			removed, err := repo.DeleteExpired(runCtx, time.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("code cleaner: failed to delete expired codes: %v", err)
				}
			} else if removed > 0 && infoLog != nil {
				infoLog.Printf("code cleaner: removed %d expired verification codes", removed)
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
