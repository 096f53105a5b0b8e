package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MiniCatalog/pkg/kit"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
	opFlush  = "flush"
)

type StoreDeps struct {
	Log     *zap.Logger
	Metrics *kit.StoreMetrics
}

// FileStore is a MemStore whose full sequence is rewritten to a JSON file
// after every successful mutation.
//
// A failed write does not roll back the mutation. The store stays dirty until
// Flush or a later mutation persists successfully.
type FileStore struct {
	mu      sync.Mutex
	path    string
	mem     *MemStore
	log     *zap.Logger
	metrics *kit.StoreMetrics
	loadErr error
	dirty   bool
}

// NewFileStore loads path. A missing or unreadable file is logged and leaves
// the store empty; the cause stays available through LoadErr.
func NewFileStore(path string, deps StoreDeps) *FileStore {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &FileStore{
		path:    path,
		log:     log.With(zap.String("path", path)),
		metrics: deps.Metrics,
	}

	products, err := readSnapshot(path)
	if err != nil {
		s.loadErr = fmt.Errorf("%w: %w", ErrLoad, err)
		s.log.Warn("load catalog failed, starting empty", zap.Error(err))
		s.mem = NewMemStore()
	} else {
		s.mem = NewMemStoreFrom(products)
		s.log.Info("catalog loaded", zap.Int("products", len(products)))
	}

	s.metrics.SetProducts(s.mem.Len())
	return s
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) LoadErr() error { return s.loadErr }

func (s *FileStore) Len() int { return s.mem.Len() }

// Ping fails with ErrPersist while memory holds changes the file lacks.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty {
		return fmt.Errorf("%w: unsaved changes", ErrPersist)
	}
	return nil
}

// Add stores d under a fresh id. On ErrPersist the returned product is held
// in memory even though the file does not have it yet.
func (s *FileStore) Add(ctx context.Context, d Draft) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.mem.Add(ctx, d)
	if err != nil {
		s.log.Warn("add product rejected", zap.Error(err), zap.String("code", d.Code))
		s.metrics.Observe(opAdd, resultLabel(err))
		return Product{}, err
	}

	if err := s.persistLocked(); err != nil {
		s.metrics.Observe(opAdd, resultLabel(err))
		return p, err
	}

	s.log.Info("product added", zap.Int64("id", p.ID), zap.String("title", p.Title))
	s.metrics.Observe(opAdd, resultLabel(nil))
	return p, nil
}

func (s *FileStore) List(ctx context.Context) ([]Product, error) {
	return s.mem.List(ctx)
}

func (s *FileStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	p, ok, err := s.mem.Get(ctx, id)
	if err == nil && !ok {
		s.log.Debug("product not found", zap.Int64("id", id))
	}
	return p, ok, err
}

func (s *FileStore) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.mem.Update(ctx, id, patch)
	if err != nil {
		s.log.Warn("update product failed", zap.Error(err), zap.Int64("id", id))
		s.metrics.Observe(opUpdate, resultLabel(err))
		return Product{}, err
	}

	if err := s.persistLocked(); err != nil {
		s.metrics.Observe(opUpdate, resultLabel(err))
		return p, err
	}

	s.log.Info("product updated", zap.Int64("id", id))
	s.metrics.Observe(opUpdate, resultLabel(nil))
	return p, nil
}

func (s *FileStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Delete(ctx, id); err != nil {
		s.log.Warn("delete product failed", zap.Error(err), zap.Int64("id", id))
		s.metrics.Observe(opDelete, resultLabel(err))
		return err
	}

	if err := s.persistLocked(); err != nil {
		s.metrics.Observe(opDelete, resultLabel(err))
		return err
	}

	s.log.Info("product deleted", zap.Int64("id", id))
	s.metrics.Observe(opDelete, resultLabel(nil))
	return nil
}

// Flush rewrites the file from memory if an earlier write failed.
func (s *FileStore) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	err := s.persistLocked()
	s.metrics.Observe(opFlush, resultLabel(err))
	if err == nil {
		s.log.Info("catalog flushed")
	}
	return err
}

func (s *FileStore) persistLocked() error {
	snapshot := s.mem.snapshot()
	s.metrics.SetProducts(len(snapshot))

	start := time.Now()
	err := writeSnapshot(s.path, snapshot)
	if errors.Is(err, errDirSync) {
		s.log.Warn("catalog written but directory sync failed", zap.Error(err))
		err = nil
	}
	s.metrics.ObservePersist(time.Since(start), err)

	if err != nil {
		s.dirty = true
		s.log.Error("persist catalog failed", zap.Error(err), zap.Int("products", len(snapshot)))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.dirty = false
	return nil
}
