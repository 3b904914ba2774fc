package transactions

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/domain/models"
	"github.com/adiwinata/gudangbot/internal/repository/mongodb"
	"github.com/adiwinata/gudangbot/internal/repository/sheets"
)

// TimestampLayout is the fixed format of the log sheet's timestamp column,
// independent of host locale.
const TimestampLayout = "01/02/06 15:04:05"

// Writer appends validated transaction records to the log sheet.
type Writer interface {
	Append(ctx context.Context, record models.TransactionRecord) (models.TransactionRecord, error)
}

// Service implements Writer on top of the sheets repository. Column order is
// fixed: Timestamp, PartID, Jenis, Jumlah, Kondisi, UserID, Tujuan/Penggunaan.
type Service struct {
	repo      sheets.Repository
	audit     mongodb.Repository
	sheetName string
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a sheet writer. The audit repository may be nil; the
// sheet stays the system of record either way.
func NewService(repository sheets.Repository, audit mongodb.Repository, sheetName string, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:      repository,
		audit:     audit,
		sheetName: sheetName,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// Append stamps the record with the commit timestamp and appends it as one
// row to the transaction log. On failure the record is returned unstamped and
// the caller keeps the collected fields for a retry.
func (s *Service) Append(ctx context.Context, record models.TransactionRecord) (models.TransactionRecord, error) {
	if err := record.Validate(); err != nil {
		return record, fmt.Errorf("incomplete transaction record: %w", err)
	}

	record.Timestamp = s.now().In(s.location)
	values := []interface{}{
		record.Timestamp.Format(TimestampLayout),
		record.PartID,
		string(record.Jenis),
		record.Jumlah,
		record.Kondisi,
		record.UserID,
		record.Tujuan,
	}

	writeRange := fmt.Sprintf("%s!A:G", s.sheetName)
	if err := s.repo.AppendRow(ctx, writeRange, values); err != nil {
		return record, fmt.Errorf("append transaction row: %w", err)
	}

	s.logger.Info("transaction appended",
		zap.String("part_id", record.PartID),
		zap.String("jenis", string(record.Jenis)),
		zap.Int("jumlah", record.Jumlah),
		zap.String("user_id", record.UserID))

	if s.audit != nil {
		// Best effort; an audit miss must never fail a committed movement.
		if err := s.audit.SaveTransaction(ctx, record); err != nil {
			s.logger.Warn("audit trail insert failed", zap.Error(err))
		}
	}

	return record, nil
}
