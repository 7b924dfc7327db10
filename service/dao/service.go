package dao

import (
	"context"
)

// Service is the generic repository contract. Engine and gate code depend on
// it only, so a different persistence layer can be swapped in without
// touching their logic.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
