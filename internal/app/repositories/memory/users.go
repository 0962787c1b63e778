package memory

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User) (int64, error) {
	email := strings.ToLower(u.Email)
	err := r.s.write(ctx, func(st *state) error {
		for _, other := range st.users {
			if other.Email == email {
				return duplicate(dberrors.UserEmailKey)
			}
		}
		st.seq.user++
		u.ID = st.seq.user
		u.Email = email
		u.CreatedAt = time.Now().UTC()
		st.users[u.ID] = *u
		return nil
	})
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (r userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return notFound("user")
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var out *models.User
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return notFound("user")
	})
	return out, err
}
