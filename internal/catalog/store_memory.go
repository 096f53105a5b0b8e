package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemStore keeps products in insertion order and hands out increasing ids.
// Deleted ids are not reused while the instance lives.
type MemStore struct {
	mu       sync.Mutex
	products []Product
	nextID   int64
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

// NewMemStoreFrom seeds a store with products and sets the next id to one
// past the largest id present.
func NewMemStoreFrom(products []Product) *MemStore {
	s := &MemStore{
		products: slices.Clone(products),
		nextID:   1,
	}
	for _, p := range s.products {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemStore) Add(ctx context.Context, d Draft) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	if err := d.Validate(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Code == d.Code {
			return Product{}, fmt.Errorf("%w: %s", ErrDuplicateCode, d.Code)
		}
	}

	p := d.product(s.nextID)
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	return s.products[i], true, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}

	s.products[i] = patch.Apply(s.products[i])
	return s.products[i], nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}

	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// NextID is the id the next successful Add will assign.
func (s *MemStore) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// snapshot copies the sequence. It is never nil so an empty catalog
// serializes as [].
func (s *MemStore) snapshot() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *MemStore) indexOf(id int64) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
