package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/elphone/storebot/core/logger"
	"log/slog"
)

// StoreError wraps a persistence failure so handlers can surface a generic
// failure message while logs keep the cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("catalog %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code implements the error-code contract used by handler summaries.
func (e *StoreError) Code() string { return "STORE_UNAVAILABLE" }

// Service serializes catalog writes behind a single mutex so concurrent
// admin actions cannot interleave partial mutations.
type Service struct {
	repo    Repository
	writeMu sync.Mutex
}

// NewService wraps a repository with write serialization and logging.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add validates and stores a new item, returning its assigned id.
func (s *Service) Add(ctx context.Context, name, description string, price int64) (int64, error) {
	if price < 0 {
		return 0, fmt.Errorf("catalog: negative price %d", price)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	id, err := s.repo.Insert(ctx, name, description, price)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelError, "product.add",
			slog.String("err", err.Error()),
			slog.Duration("took", logger.Took(start)),
		)
		return 0, &StoreError{Op: "insert", Err: err}
	}

	logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelInfo, "product.add",
		slog.Int64("product_id", id),
		slog.Int64("price", price),
		slog.Duration("took", logger.Took(start)),
	)
	return id, nil
}

// List returns all items in insertion order.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	start := time.Now()
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelError, "product.list",
			slog.String("err", err.Error()),
			slog.Duration("took", logger.Took(start)),
		)
		return nil, &StoreError{Op: "list", Err: err}
	}
	if logger.ShouldSampleDebug() {
		logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelDebug, "product.list",
			slog.Int("items_total", len(items)),
			slog.Duration("took", logger.Took(start)),
		)
	}
	return items, nil
}

// Delete removes an item by id. A missing id is not an error; the returned
// bool reports whether a row existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	existed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelError, "product.delete",
			slog.Int64("product_id", id),
			slog.String("err", err.Error()),
			slog.Duration("took", logger.Took(start)),
		)
		return false, &StoreError{Op: "delete", Err: err}
	}

	logger.LogEvent(ctx, logger.SVCCatalog, slog.LevelInfo, "product.delete",
		slog.Int64("product_id", id),
		slog.Bool("existed", existed),
		slog.Duration("took", logger.Took(start)),
	)
	return existed, nil
}
