package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/codec"
)

// finalBackupTimeout bounds the backup written on shutdown.
const finalBackupTimeout = 10 * time.Second

// BackupWriter writes one backup file into dir and returns its path.
type BackupWriter interface {
	WriteBackup(ctx context.Context, dir string) (string, error)
}

// BackupWorker periodically writes the backup envelope to disk.
type BackupWorker struct {
	writer   BackupWriter
	dir      string
	interval time.Duration
	log      zerolog.Logger
}

// NewBackupWorker creates a new BackupWorker.
func NewBackupWorker(writer BackupWriter, dir string, interval time.Duration, log zerolog.Logger) *BackupWorker {
	return &BackupWorker{
		writer:   writer,
		dir:      dir,
		interval: interval,
		log:      log.With().Str("component", "backup_worker").Logger(),
	}
}

// Start runs until ctx is cancelled, then writes one last backup. Call in a
// goroutine. A non-positive interval returns immediately.
func (w *BackupWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("Periodic backups disabled")
		return
	}

	w.log.Info().Dur("interval", w.interval).Str("dir", w.dir).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			finalCtx, cancel := context.WithTimeout(context.Background(), finalBackupTimeout)
			w.runOnce(finalCtx)
			cancel()
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *BackupWorker) runOnce(ctx context.Context) {
	path, err := w.writer.WriteBackup(ctx, w.dir)
	switch {
	case errors.Is(err, codec.ErrEmptyCollection):
		w.log.Debug().Msg("Collection empty, backup skipped")
	case err != nil:
		w.log.Error().Err(err).Msg("Backup failed")
	default:
		w.log.Info().Str("path", path).Msg("Backup written")
	}
}
