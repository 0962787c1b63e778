package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

var subjectColumns = []string{"s.id", "s.name", "s.description", "s.course_id", "s.lecturer_id"}

// SubjectRepo handles subject database operations
type SubjectRepo struct {
	q querier
}

func (r *SubjectRepo) Create(ctx context.Context, s *models.Subject) (int64, error) {
	sql, args, err := r.q.sb.Insert("subjects").
		Columns("name", "description", "course_id", "lecturer_id").
		Values(s.Name, s.Description, s.CourseID, s.LecturerID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, buildError(err, "create subject")
	}

	var id int64
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dbError(err, "creating subject")
	}
	return id, nil
}

// GetByID retrieves a subject with its student ids, locking it inside a transaction
func (r *SubjectRepo) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	subjects, err := r.query(ctx, r.q.forUpdate(r.selectSubjects().Where(squirrel.Eq{"s.id": id})), "getting subject")
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, apperrors.NewResourceNotFoundError("subject not found")
	}
	return subjects[0], nil
}

// GetByIDs share-locks the found subjects inside a transaction so their course
// cannot change before commit
func (r *SubjectRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error) {
	if len(ids) == 0 {
		return []*models.Subject{}, nil
	}
	return r.query(ctx, r.q.forShare(r.selectSubjects().Where(squirrel.Eq{"s.id": ids})), "getting subjects")
}

func (r *SubjectRepo) List(ctx context.Context) ([]*models.Subject, error) {
	return r.query(ctx, r.selectSubjects(), "listing subjects")
}

func (r *SubjectRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	return r.query(ctx, r.selectSubjects().Where(squirrel.Eq{"s.course_id": courseID}), "listing course subjects")
}

func (r *SubjectRepo) ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.Subject, error) {
	return r.query(ctx, r.selectSubjects().Where(squirrel.Eq{"s.lecturer_id": lecturerID}), "listing lecturer subjects")
}

// ListByStudent returns the subjects a student is enrolled in, share-locked inside a transaction
func (r *SubjectRepo) ListByStudent(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	b := r.selectSubjects().
		Join("subject_students ss ON ss.subject_id = s.id").
		Where(squirrel.Eq{"ss.student_id": studentID})
	if r.q.inTx {
		b = b.Suffix("FOR SHARE OF s")
	}
	return r.query(ctx, b, "listing student subjects")
}

func (r *SubjectRepo) CountByLecturer(ctx context.Context, lecturerID int64) (int, error) {
	return r.q.count(ctx, "subjects", squirrel.Eq{"lecturer_id": lecturerID}, "count lecturer subjects")
}

func (r *SubjectRepo) Update(ctx context.Context, s *models.Subject) error {
	sql, args, err := r.q.sb.Update("subjects").
		SetMap(map[string]interface{}{
			"name":        s.Name,
			"description": s.Description,
			"course_id":   s.CourseID,
			"lecturer_id": s.LecturerID,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return buildError(err, "update subject")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "updating subject")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("subject not found")
	}
	return nil
}

func (r *SubjectRepo) SetStudents(ctx context.Context, subjectID int64, studentIDs []int64) error {
	return r.q.setLinks(ctx, "subject_id", "student_id", subjectID, studentIDs)
}

// Delete removes a subject and its enrollment rows
func (r *SubjectRepo) Delete(ctx context.Context, id int64) error {
	if err := r.q.setLinks(ctx, "subject_id", "student_id", id, nil); err != nil {
		return err
	}

	sql, args, err := r.q.sb.Delete("subjects").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return buildError(err, "delete subject")
	}
	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "deleting subject")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("subject not found")
	}
	return nil
}

func (r *SubjectRepo) DeleteByCourse(ctx context.Context, courseID int64) (int64, error) {
	sql, args, err := r.q.sb.Delete("subject_students").
		Where(squirrel.Expr("subject_id IN (SELECT id FROM subjects WHERE course_id = ?)", courseID)).
		ToSql()
	if err != nil {
		return 0, buildError(err, "clear course enrollments")
	}
	if _, err := r.q.db.Exec(ctx, sql, args...); err != nil {
		return 0, dbError(err, "clearing course enrollments")
	}

	sql, args, err = r.q.sb.Delete("subjects").Where(squirrel.Eq{"course_id": courseID}).ToSql()
	if err != nil {
		return 0, buildError(err, "delete course subjects")
	}
	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, dbError(err, "deleting course subjects")
	}
	return tag.RowsAffected(), nil
}

func (r *SubjectRepo) selectSubjects() squirrel.SelectBuilder {
	return r.q.sb.Select(subjectColumns...).From("subjects s").OrderBy("s.id")
}

// query scans subjects and attaches their student ids
func (r *SubjectRepo) query(ctx context.Context, b squirrel.SelectBuilder, op string) ([]*models.Subject, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, op)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	ids := []int64{}
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CourseID, &s.LecturerID); err != nil {
			return nil, dbError(err, op)
		}
		subjects = append(subjects, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op)
	}

	links, err := r.q.links(ctx, "subject_id", "student_id", ids)
	if err != nil {
		return nil, err
	}
	for _, s := range subjects {
		s.StudentIDs = links[s.ID]
	}
	return subjects, nil
}
