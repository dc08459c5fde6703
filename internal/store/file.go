package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/talent"
)

// FileStore serves candidates from a JSON file. The file is read on every
// lookup so edits are picked up without a restart.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, logger: log.With(zap.String(logger.FieldStore, DriverFile))}
}

func (s *FileStore) Find(ctx context.Context, q Query) ([]*talent.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := talent.LoadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	found := make([]*talent.Candidate, 0, all.Len())
	for _, candidate := range all.Items {
		if q.Match(candidate) {
			found = append(found, candidate)
		}
	}

	s.logger.Debug("candidates found",
		zap.String("path", s.path),
		zap.Int("total", all.Len()),
		zap.Int("found", len(found)),
	)

	return found, nil
}
