// Package memory is an in-memory Store. Transactions are serialized by one
// mutex and run against a private copy of the state that replaces the
// committed state only when the callback succeeds.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

// Driver names the in-memory store.
const Driver = "memory"

type enrollment struct {
	subjectID int64
	studentID int64
}

type sequences struct {
	course, lecturer, subject, student, user int64
}

type state struct {
	courses     map[int64]models.Course
	lecturers   map[int64]models.Lecturer
	subjects    map[int64]models.Subject
	students    map[int64]models.Student
	users       map[int64]models.User
	enrollments map[enrollment]struct{}
	seq         sequences
}

func newState() *state {
	return &state{
		courses:     map[int64]models.Course{},
		lecturers:   map[int64]models.Lecturer{},
		subjects:    map[int64]models.Subject{},
		students:    map[int64]models.Student{},
		users:       map[int64]models.User{},
		enrollments: map[enrollment]struct{}{},
	}
}

// clone copies every table. Stored models never hold association slices,
// so a shallow copy of each value is a deep copy.
func (st *state) clone() *state {
	return &state{
		courses:     maps.Clone(st.courses),
		lecturers:   maps.Clone(st.lecturers),
		subjects:    maps.Clone(st.subjects),
		students:    maps.Clone(st.students),
		users:       maps.Clone(st.users),
		enrollments: maps.Clone(st.enrollments),
		seq:         st.seq,
	}
}

func (st *state) studentIDsOf(subjectID int64) []int64 {
	var ids []int64
	for e := range st.enrollments {
		if e.subjectID == subjectID {
			ids = append(ids, e.studentID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (st *state) subjectIDsOf(studentID int64) []int64 {
	var ids []int64
	for e := range st.enrollments {
		if e.studentID == studentID {
			ids = append(ids, e.subjectID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (st *state) subject(id int64) *models.Subject {
	s := st.subjects[id]
	s.StudentIDs = st.studentIDsOf(id)
	return &s
}

func (st *state) student(id int64) *models.Student {
	s := st.students[id]
	s.SubjectIDs = st.subjectIDsOf(id)
	return &s
}

// Store is the in-memory Entity Store.
type Store struct {
	mu *sync.RWMutex
	st *state
	tx bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{mu: &sync.RWMutex{}, st: newState()}
}

func (s *Store) Courses() repositories.CourseRepository     { return courseRepo{s} }
func (s *Store) Lecturers() repositories.LecturerRepository { return lecturerRepo{s} }
func (s *Store) Subjects() repositories.SubjectRepository   { return subjectRepo{s} }
func (s *Store) Students() repositories.StudentRepository   { return studentRepo{s} }
func (s *Store) Users() repositories.UserRepository         { return userRepo{s} }
func (s *Store) Driver() string                             { return Driver }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// WithinTransaction runs fn on a private copy of the state and publishes the
// copy when fn returns nil.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, st: s.st.clone(), tx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx {
		return fn(s.st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write applies fn atomically: outside a transaction it runs on a copy that is
// kept only on success.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

func notFound(entity string) error {
	return apperrors.NewResourceNotFoundError(entity + " not found")
}

func duplicate(constraint string) error {
	return apperrors.NewDuplicateKeyError(dberrors.Message(constraint))
}

func referenced(constraint string) error {
	return apperrors.NewReferencedRowError(dberrors.Message(constraint))
}

func dangling(constraint string) error {
	return apperrors.NewValidationError("related object does not exist: " + constraint)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}
