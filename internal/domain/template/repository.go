package template

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]Template, error)
	Create(ctx context.Context, t *Template) error
}
