package catalog

import (
	"context"
)

type Product struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Price       Number `json:"price" yaml:"price"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	Code        string `json:"code" yaml:"code"`
	Stock       Number `json:"stock" yaml:"stock"`
}

// Store is the catalog contract shared by the in-memory and file-backed stores.
//
// Get reports a missing id with ok == false. Update and Delete report it with
// ErrNotFound.
type Store interface {
	Add(ctx context.Context, d Draft) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
	Update(ctx context.Context, id int64, p Patch) (Product, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*MemStore)(nil)
	_ Store = (*FileStore)(nil)
)
