package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id ID) (User, error)
}
