package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/codec"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/repository"
)

// File is an encoded export ready to be served or written.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// TransferService moves the collection in and out of the exchange formats.
// Uploads are fully decoded before the repository is touched, so a bad file
// leaves the collection as it was.
type TransferService struct {
	studentRepo *repository.StudentRepository
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewTransferService creates a new TransferService.
func NewTransferService(studentRepo *repository.StudentRepository, settingRepo *repository.SettingRepository, log zerolog.Logger) *TransferService {
	return &TransferService{
		studentRepo: studentRepo,
		settingRepo: settingRepo,
		log:         log.With().Str("component", "transfer_service").Logger(),
		now:         time.Now,
	}
}

// Export encodes the whole collection. Fails with codec.ErrEmptyCollection
// when there is nothing to export.
func (s *TransferService) Export(ctx context.Context, format codec.Format) (*File, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err := codec.Encode(format, records)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("format", string(format)).Int("records", len(records)).Msg("Collection exported")
	return &File{
		Name:        fmt.Sprintf("students_%s.%s", s.now().UTC().Format(time.DateOnly), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Backup encodes the versioned backup envelope and records the backup time.
func (s *TransferService) Backup(ctx context.Context) (*File, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	at := s.now()
	data, err := codec.EncodeBackup(records, at)
	if err != nil {
		return nil, err
	}

	if err := s.settingRepo.SetLastBackup(ctx, at); err != nil {
		s.log.Error().Err(err).Msg("failed to record backup time")
		return nil, err
	}

	s.log.Info().Int("records", len(records)).Msg("Backup created")
	return &File{
		Name:        fmt.Sprintf("students_backup_%s.json", at.UTC().Format(time.DateOnly)),
		ContentType: codec.FormatJSON.ContentType(),
		Data:        data,
	}, nil
}

// WriteBackup writes a backup file into dir and returns its path.
func (s *TransferService) WriteBackup(ctx context.Context, dir string) (string, error) {
	file, err := s.Backup(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	// One file per run; the date-only name would overwrite within a day.
	path := filepath.Join(dir, fmt.Sprintf("students_backup_%s.json", s.now().UTC().Format("20060102T150405Z")))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Import decodes an upload and appends its records. An empty format means
// detect it from the filename and content.
func (s *TransferService) Import(ctx context.Context, filename string, data []byte, format codec.Format) (*model.ImportResult, error) {
	records, err := s.decode(filename, data, format)
	if err != nil {
		return nil, err
	}

	reassigned, err := s.studentRepo.Append(ctx, records)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to append imported records")
		return nil, err
	}

	total, err := s.count(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("file", filename).
		Int("imported", len(records)).
		Int("reassigned", reassigned).
		Msg("Records imported")

	return &model.ImportResult{Imported: len(records), Total: total, Reassigned: reassigned}, nil
}

// Restore decodes an upload and replaces the collection with it.
func (s *TransferService) Restore(ctx context.Context, filename string, data []byte, format codec.Format) (*model.ImportResult, error) {
	records, err := s.decode(filename, data, format)
	if err != nil {
		return nil, err
	}

	reassigned, err := s.studentRepo.ReplaceAll(ctx, records)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to replace collection")
		return nil, err
	}

	s.log.Info().Str("file", filename).Int("records", len(records)).Msg("Collection restored")
	return &model.ImportResult{Imported: len(records), Total: len(records), Reassigned: reassigned}, nil
}

// Clear deletes every record.
func (s *TransferService) Clear(ctx context.Context) error {
	if err := s.studentRepo.Clear(ctx); err != nil {
		return err
	}
	s.log.Warn().Msg("Collection cleared")
	return nil
}

// BackupInfo summarizes the stored collection.
func (s *TransferService) BackupInfo(ctx context.Context) (*model.BackupInfo, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.studentRepo.Raw(ctx)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw = []byte("[]")
	}

	lastUpdated, err := s.studentRepo.LastUpdated(ctx)
	if err != nil {
		return nil, err
	}
	lastBackup, err := s.settingRepo.LastBackup(ctx)
	if err != nil {
		return nil, err
	}

	return &model.BackupInfo{
		TotalRecords:  len(records),
		SizeInBytes:   len(raw),
		SizeFormatted: FormatBytes(len(raw)),
		LastUpdated:   lastUpdated,
		LastBackup:    lastBackup,
	}, nil
}

func (s *TransferService) decode(filename string, data []byte, format codec.Format) ([]model.StudentRecord, error) {
	if format == "" {
		detected, err := codec.DetectFormat(filename, data)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	records, err := codec.Decode(format, data)
	if err != nil {
		s.log.Warn().Err(err).Str("file", filename).Str("format", string(format)).Msg("Upload rejected")
		return nil, err
	}
	return records, nil
}

func (s *TransferService) count(ctx context.Context) (int, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a size with 1024-based units and at most two decimals,
// e.g. "0 Bytes", "1.5 KB".
func FormatBytes(n int) string {
	if n <= 0 {
		return "0 Bytes"
	}
	v, i := float64(n), 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[i]
}
