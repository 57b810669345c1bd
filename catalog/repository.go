package catalog

import "context"

// Repository abstracts item persistence. Implementations must assign unique,
// never-reused ids on insert and list items in insertion order.
type Repository interface {
	Insert(ctx context.Context, name, description string, price int64) (int64, error)
	ListAll(ctx context.Context) ([]Item, error)
	// DeleteByID reports whether a row existed; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
