package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

var lecturerColumns = []string{"id", "first_name", "last_name", "email"}

// LecturerRepo handles lecturer database operations
type LecturerRepo struct {
	q querier
}

func (r *LecturerRepo) Create(ctx context.Context, l *models.Lecturer) (int64, error) {
	sql, args, err := r.q.sb.Insert("lecturers").
		Columns("first_name", "last_name", "email").
		Values(l.FirstName, l.LastName, l.Email).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, buildError(err, "create lecturer")
	}

	var id int64
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dbError(err, "creating lecturer")
	}
	return id, nil
}

func (r *LecturerRepo) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	sql, args, err := r.q.forUpdate(r.q.sb.Select(lecturerColumns...).
		From("lecturers").
		Where(squirrel.Eq{"id": id})).
		ToSql()
	if err != nil {
		return nil, buildError(err, "get lecturer")
	}

	l := &models.Lecturer{}
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("lecturer not found")
		}
		return nil, dbError(err, "getting lecturer")
	}
	return l, nil
}

func (r *LecturerRepo) List(ctx context.Context) ([]*models.Lecturer, error) {
	sql, args, err := r.q.sb.Select(lecturerColumns...).From("lecturers").OrderBy("id").ToSql()
	if err != nil {
		return nil, buildError(err, "list lecturers")
	}

	rows, err := r.q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, "listing lecturers")
	}
	defer rows.Close()

	lecturers := []*models.Lecturer{}
	for rows.Next() {
		l := &models.Lecturer{}
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email); err != nil {
			return nil, dbError(err, "scanning lecturer")
		}
		lecturers = append(lecturers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterating lecturers")
	}
	return lecturers, nil
}

func (r *LecturerRepo) Update(ctx context.Context, l *models.Lecturer) error {
	sql, args, err := r.q.sb.Update("lecturers").
		SetMap(map[string]interface{}{
			"first_name": l.FirstName,
			"last_name":  l.LastName,
			"email":      l.Email,
		}).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return buildError(err, "update lecturer")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "updating lecturer")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("lecturer not found")
	}
	return nil
}

// Delete removes a lecturer; subjects_lecturer_id_fkey blocks it while subjects reference it
func (r *LecturerRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.q.sb.Delete("lecturers").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return buildError(err, "delete lecturer")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "deleting lecturer")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("lecturer not found")
	}
	return nil
}
