package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

var courseColumns = []string{"id", "name", "description"}

// CourseRepo handles course database operations
type CourseRepo struct {
	q querier
}

// Create inserts a course and returns its id
func (r *CourseRepo) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.q.sb.Insert("courses").
		Columns("name", "description").
		Values(course.Name, course.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, buildError(err, "create course")
	}

	var id int64
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dbError(err, "creating course")
	}
	return id, nil
}

// GetByID retrieves a course, locking it inside a transaction
func (r *CourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.q.forUpdate(r.q.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id})).
		ToSql()
	if err != nil {
		return nil, buildError(err, "get course")
	}

	c := &models.Course{}
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("course not found")
		}
		return nil, dbError(err, "getting course")
	}
	return c, nil
}

// List returns every course ordered by id
func (r *CourseRepo) List(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.q.sb.Select(courseColumns...).From("courses").OrderBy("id").ToSql()
	if err != nil {
		return nil, buildError(err, "list courses")
	}

	rows, err := r.q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, "listing courses")
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, dbError(err, "scanning course")
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterating courses")
	}
	return courses, nil
}

// Count returns the number of courses
func (r *CourseRepo) Count(ctx context.Context) (int, error) {
	return r.q.count(ctx, "courses", squirrel.Expr("TRUE"), "count courses")
}

// Update writes the scalar fields of a course
func (r *CourseRepo) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.q.sb.Update("courses").
		SetMap(map[string]interface{}{
			"name":        course.Name,
			"description": course.Description,
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return buildError(err, "update course")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "updating course")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("course not found")
	}
	return nil
}

// Delete removes a course. Students and subjects referencing it block the delete.
func (r *CourseRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.q.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return buildError(err, "delete course")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "deleting course")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("course not found")
	}
	return nil
}
