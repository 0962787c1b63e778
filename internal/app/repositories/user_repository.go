package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// UserRepo handles API account database operations
type UserRepo struct {
	q querier
}

// Create inserts a user. Email is stored lower-cased.
func (r *UserRepo) Create(ctx context.Context, u *models.User) (int64, error) {
	sql, args, err := r.q.sb.Insert("users").
		Columns("email", "password", "is_active", "is_staff").
		Values(strings.ToLower(u.Email), u.Password, u.IsActive, u.IsStaff).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, buildError(err, "create user")
	}

	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		return 0, dbError(err, "creating user")
	}
	return u.ID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepo) get(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.q.sb.Select("id", "email", "password", "is_active", "is_staff", "created_at").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, buildError(err, "get user")
	}

	u := &models.User{}
	err = r.q.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Email, &u.Password, &u.IsActive, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, dbError(err, "getting user")
	}
	return u, nil
}
