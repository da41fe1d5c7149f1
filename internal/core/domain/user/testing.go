package user

import (
	"context"
	"sync"
)

type FakeUserRepository struct {
	GetByIDError error
	users        map[ID]User
	lock         sync.RWMutex
}

func NewFakeUserRepository(users ...User) *FakeUserRepository {
	repo := &FakeUserRepository{users: make(map[ID]User, len(users))}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *FakeUserRepository) Put(u User) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.users[u.ID] = u
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (User, error) {
	if r.GetByIDError != nil {
		return User{}, r.GetByIDError
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return u, nil
}
