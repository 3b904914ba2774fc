package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/domain/models"
	"github.com/adiwinata/gudangbot/internal/repository/sheets"
)

// ErrUnavailable indicates the master sheet could not be read and no prior
// index snapshot exists to serve the request.
var ErrUnavailable = errors.New("master catalog unavailable")

// Service maintains an in-memory index of the master catalog sheet and
// serves searches from an immutable snapshot. Refresh swaps the snapshot
// atomically, so searches that started on the previous index keep reading a
// consistent view.
type Service struct {
	repo       sheets.Reader
	sheetName  string
	candidates HeaderCandidates
	logger     *zap.Logger

	mu  sync.RWMutex
	idx *Index
}

// NewService wires a catalog service. The index stays empty until the first
// Refresh; Search triggers one lazily when needed.
func NewService(repo sheets.Reader, sheetName string, candidates HeaderCandidates, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		sheetName:  sheetName,
		candidates: candidates,
		logger:     logger,
	}
}

// Refresh rebuilds the index from the master sheet and swaps it in. A failed
// read leaves the previous snapshot in place.
func (s *Service) Refresh(ctx context.Context) error {
	rows, err := s.repo.ReadRange(ctx, s.sheetName)
	if err != nil {
		return fmt.Errorf("load master sheet %s: %w", s.sheetName, err)
	}

	idx := BuildIndex(rows, s.candidates)

	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()

	s.logger.Info("catalog index rebuilt", zap.String("sheet", s.sheetName), zap.Int("parts", idx.Len()))
	return nil
}

// Search runs the index search against the current snapshot, lazily
// refreshing when no snapshot exists yet. Returns ErrUnavailable when the
// sheet cannot be read and there is nothing cached to fall back on.
func (s *Service) Search(ctx context.Context, query string) ([]models.PartRecord, error) {
	idx := s.snapshot()
	if idx == nil {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warn("catalog refresh failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		idx = s.snapshot()
	}

	return idx.Search(query)
}

// Len reports the part count of the current snapshot.
func (s *Service) Len() int {
	idx := s.snapshot()
	if idx == nil {
		return 0
	}
	return idx.Len()
}

func (s *Service) snapshot() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}
