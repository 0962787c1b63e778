package repositories

import (
	"context"

	"github.com/yigit/schoolms/internal/app/models"
)

// CourseRepository persists courses.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// LecturerRepository persists lecturers.
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *models.Lecturer) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Lecturer, error)
	List(ctx context.Context) ([]*models.Lecturer, error)
	Update(ctx context.Context, lecturer *models.Lecturer) error
	Delete(ctx context.Context, id int64) error
}

// SubjectRepository persists subjects and the subject side of enrollments.
// Subjects are returned with StudentIDs populated.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	// GetByIDs returns the subjects that exist among ids, ordered by id.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error)
	ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.Subject, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Subject, error)
	CountByLecturer(ctx context.Context, lecturerID int64) (int, error)
	Update(ctx context.Context, subject *models.Subject) error
	// SetStudents replaces the enrollment of a subject with exactly studentIDs.
	SetStudents(ctx context.Context, subjectID int64, studentIDs []int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteByCourse removes every subject of a course with its enrollment rows.
	DeleteByCourse(ctx context.Context, courseID int64) (int64, error)
}

// StudentRepository persists students and the student side of enrollments.
// Students are returned with SubjectIDs populated.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// GetByIDs returns the students that exist among ids, ordered by id.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]*models.Student, error)
	CountByCourse(ctx context.Context, courseID int64) (int, error)
	Update(ctx context.Context, student *models.Student) error
	// SetSubjects replaces the enrollment of a student with exactly subjectIDs.
	SetSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository persists API accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TxFn runs inside a transaction with a Store bound to it.
type TxFn func(ctx context.Context, tx Store) error

// Store is the Entity Store. Repositories obtained from the Store passed to a
// TxFn share its transaction; reads of a target row inside a transaction lock
// it until commit.
type Store interface {
	Courses() CourseRepository
	Lecturers() LecturerRepository
	Subjects() SubjectRepository
	Students() StudentRepository
	Users() UserRepository

	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// Calling it on a transactional Store reuses the running transaction.
	WithinTransaction(ctx context.Context, fn TxFn) error
	Ping(ctx context.Context) error
	Driver() string
}
