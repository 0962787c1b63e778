package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

var studentColumns = []string{"st.id", "st.first_name", "st.last_name", "st.email", "st.date_of_birth", "st.course_id"}

// StudentRepo handles student database operations
type StudentRepo struct {
	q querier
}

func (r *StudentRepo) Create(ctx context.Context, s *models.Student) (int64, error) {
	sql, args, err := r.q.sb.Insert("students").
		Columns("first_name", "last_name", "email", "date_of_birth", "course_id").
		Values(s.FirstName, s.LastName, s.Email, s.DateOfBirth, s.CourseID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, buildError(err, "create student")
	}

	var id int64
	if err := r.q.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, dbError(err, "creating student")
	}
	return id, nil
}

// GetByID retrieves a student with its subject ids, locking it inside a transaction
func (r *StudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	students, err := r.query(ctx, r.q.forUpdate(r.selectStudents().Where(squirrel.Eq{"st.id": id})), "getting student")
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.NewResourceNotFoundError("student not found")
	}
	return students[0], nil
}

// GetByIDs share-locks the found students inside a transaction
func (r *StudentRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	return r.query(ctx, r.q.forShare(r.selectStudents().Where(squirrel.Eq{"st.id": ids})), "getting students")
}

func (r *StudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents(), "listing students")
}

func (r *StudentRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.Eq{"st.course_id": courseID}), "listing course students")
}

// ListBySubject returns the students enrolled in a subject, share-locked inside a transaction
func (r *StudentRepo) ListBySubject(ctx context.Context, subjectID int64) ([]*models.Student, error) {
	b := r.selectStudents().
		Join("subject_students ss ON ss.student_id = st.id").
		Where(squirrel.Eq{"ss.subject_id": subjectID})
	if r.q.inTx {
		b = b.Suffix("FOR SHARE OF st")
	}
	return r.query(ctx, b, "listing subject students")
}

func (r *StudentRepo) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	return r.q.count(ctx, "students", squirrel.Eq{"course_id": courseID}, "count course students")
}

func (r *StudentRepo) Update(ctx context.Context, s *models.Student) error {
	sql, args, err := r.q.sb.Update("students").
		SetMap(map[string]interface{}{
			"first_name":    s.FirstName,
			"last_name":     s.LastName,
			"email":         s.Email,
			"date_of_birth": s.DateOfBirth,
			"course_id":     s.CourseID,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return buildError(err, "update student")
	}

	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "updating student")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("student not found")
	}
	return nil
}

func (r *StudentRepo) SetSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.q.setLinks(ctx, "student_id", "subject_id", studentID, subjectIDs)
}

// Delete removes a student and its enrollment rows
func (r *StudentRepo) Delete(ctx context.Context, id int64) error {
	if err := r.q.setLinks(ctx, "student_id", "subject_id", id, nil); err != nil {
		return err
	}

	sql, args, err := r.q.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return buildError(err, "delete student")
	}
	tag, err := r.q.db.Exec(ctx, sql, args...)
	if err != nil {
		return dbError(err, "deleting student")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("student not found")
	}
	return nil
}

func (r *StudentRepo) selectStudents() squirrel.SelectBuilder {
	return r.q.sb.Select(studentColumns...).From("students st").OrderBy("st.id")
}

// query scans students and attaches their subject ids
func (r *StudentRepo) query(ctx context.Context, b squirrel.SelectBuilder, op string) ([]*models.Student, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, buildError(err, op)
	}

	rows, err := r.q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, op)
	}
	defer rows.Close()

	students := []*models.Student{}
	ids := []int64{}
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.CourseID); err != nil {
			return nil, dbError(err, op)
		}
		students = append(students, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op)
	}

	links, err := r.q.links(ctx, "student_id", "subject_id", ids)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		s.SubjectIDs = links[s.ID]
	}
	return students, nil
}
