package data

import "context"

type Repository[T any, ID comparable] interface {
	FindOne(ctx context.Context, id ID) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, entity T) error
}

// FindByRepository lists the entities that belong to byEntity through the association called name.
type FindByRepository[T any, S any] interface {
	FindBy(ctx context.Context, name string, byEntity S) ([]T, error)
}
