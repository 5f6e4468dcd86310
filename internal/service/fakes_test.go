package service

import (
	"context"
	"errors"
	"sort"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// fakeUsers is an in-memory repository.UserRepo.
type fakeUsers struct {
	byID   map[int]models.User
	nextID int
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]models.User{}, nextID: 1}
}

func (f *fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) List(_ context.Context, skip, limit int) ([]models.User, error) {
	out := []models.User{}
	for id := 1; id < f.nextID; id++ {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return page(out, skip, limit), nil
}

func (f *fakeUsers) Create(_ context.Context, in models.NewUser) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Username == in.Username {
			return nil, repository.ErrDuplicate
		}
	}
	u := models.User{
		ID:           f.nextID,
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: in.PasswordHash,
	}
	f.byID[u.ID] = u
	f.nextID++
	return &u, nil
}

func (f *fakeUsers) Update(_ context.Context, current models.User, upd models.UserUpdate) (*models.User, error) {
	if _, ok := f.byID[current.ID]; !ok {
		return nil, nil
	}
	u := upd.Apply(current)
	f.byID[u.ID] = u
	return &u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	delete(f.byID, id)
	return &u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// fakeTasks is an in-memory repository.TaskRepo.
type fakeTasks struct {
	byID      map[int]models.Task
	nextID    int
	lastLimit int
	err       error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: map[int]models.Task{}, nextID: 1}
}

func (f *fakeTasks) sorted() []models.Task {
	out := make([]models.Task, 0, len(f.byID))
	for _, t := range f.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTasks) Get(_ context.Context, id int) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTasks) List(_ context.Context, skip, limit int) ([]models.Task, error) {
	f.lastLimit = limit
	return page(f.sorted(), skip, limit), nil
}

func (f *fakeTasks) Create(_ context.Context, in models.NewTask) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := models.Task{ID: f.nextID, Title: in.Title, OwnerID: in.OwnerID}
	f.byID[t.ID] = t
	f.nextID++
	return &t, nil
}

func (f *fakeTasks) Update(_ context.Context, current models.Task, upd models.TaskUpdate) (*models.Task, error) {
	if _, ok := f.byID[current.ID]; !ok {
		return nil, nil
	}
	t := upd.Apply(current)
	f.byID[t.ID] = t
	return &t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id int) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	delete(f.byID, id)
	return &t, nil
}

func (f *fakeTasks) ListByOwner(_ context.Context, ownerID, skip, limit int) ([]models.Task, error) {
	f.lastLimit = limit
	out := []models.Task{}
	for _, t := range f.sorted() {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return page(out, skip, limit), nil
}

func (f *fakeTasks) DeleteManyByOwner(_ context.Context, ids []int, ownerID int) ([]int, error) {
	deleted := []int{}
	for _, id := range ids {
		if t, ok := f.byID[id]; ok && t.OwnerID == ownerID {
			delete(f.byID, id)
			deleted = append(deleted, id)
		}
	}
	sort.Ints(deleted)
	return deleted, nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

var errBoom = errors.New("boom")

// plainHasher is a reversible hasher that keeps service tests fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	return "hashed:" + password, nil
}

func (plainHasher) Verify(plain, hash string) bool {
	return hash == "hashed:"+plain
}
