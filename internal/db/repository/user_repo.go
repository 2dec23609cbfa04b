package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type userStore interface {
	GetUserByUsername(ctx context.Context, username string) (sqlcgen.User, error)
	GetUserByID(ctx context.Context, id int64) (sqlcgen.User, error)
	CreateUser(ctx context.Context, username string) (sqlcgen.User, error)
	ListUsersWithActivity(ctx context.Context) ([]sqlcgen.UserWithActivity, error)
	SetUserApproved(ctx context.Context, arg sqlcgen.SetUserApprovedParams) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	InsertUserActivity(ctx context.Context, arg sqlcgen.InsertUserActivityParams) error
	CountUserActivity(ctx context.Context, userID int64) (int64, error)
	ListUserActivity(ctx context.Context, arg sqlcgen.ListUserActivityParams) ([]sqlcgen.UserActivity, error)
}

// UserRepository exposes typed DB operations for named user accounts.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps sqlc Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// GetByUsername returns ErrNotFound when the username is unknown.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (sqlcgen.User, error) {
	u, err := r.store.GetUserByUsername(ctx, username)
	return u, translate(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (sqlcgen.User, error) {
	u, err := r.store.GetUserByID(ctx, id)
	return u, translate(err)
}

// Create inserts an unapproved user, returning the existing row on name clash.
func (r *UserRepository) Create(ctx context.Context, username string) (sqlcgen.User, error) {
	return r.store.CreateUser(ctx, username)
}

func (r *UserRepository) ListWithActivity(ctx context.Context) ([]sqlcgen.UserWithActivity, error) {
	return r.store.ListUsersWithActivity(ctx)
}

func (r *UserRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	return affected(r.store.SetUserApproved(ctx, sqlcgen.SetUserApprovedParams{ID: id, Approved: approved}))
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteUser(ctx, id))
}

func (r *UserRepository) RecordActivity(ctx context.Context, params sqlcgen.InsertUserActivityParams) error {
	return r.store.InsertUserActivity(ctx, params)
}

// Activity returns one page of a user's draws, newest first, plus the total.
func (r *UserRepository) Activity(ctx context.Context, userID int64, limit, offset int32) ([]sqlcgen.UserActivity, int64, error) {
	total, err := r.store.CountUserActivity(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.store.ListUserActivity(ctx, sqlcgen.ListUserActivityParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
