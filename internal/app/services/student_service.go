package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/integrity"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// StudentService defines student operations
type StudentService interface {
	Create(ctx context.Context, req *dto.StudentRequest) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.StudentDetail, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.StudentRequest, mode dto.WriteMode) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(store repositories.Store, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{store: store, logger: logger}
}

func (s *studentServiceImpl) Create(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	if err := req.Validate(dto.ModeCreate); err != nil {
		return nil, err
	}

	var id int64
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		proposal, err := s.proposal(ctx, tx, req)
		if err != nil {
			return err
		}
		if err := integrity.ValidateStudentMutation(nil, proposal, nil); err != nil {
			return s.rejected(err)
		}

		student := &models.Student{}
		req.Apply(student)
		if id, err = tx.Students().Create(ctx, student); err != nil {
			return err
		}
		if proposal.Subjects.Kind() == relation.Replace {
			return tx.Students().SetSubjects(ctx, id, models.SubjectIDs(proposal.Subjects.Items()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Students().GetByID(ctx, id)
}

// Get returns a student with its course and expanded subjects
func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.store.Students().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loader := newDetailLoader(s.store)
	course, err := loader.course(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.store.Subjects().ListByStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := loader.subjects(ctx, subjects)
	if err != nil {
		return nil, err
	}
	return &models.StudentDetail{Student: *student, Course: course, Subjects: details}, nil
}

func (s *studentServiceImpl) List(ctx context.Context) ([]*models.Student, error) {
	return s.store.Students().List(ctx)
}

// Update applies a full or partial change. Changing the course without
// resupplying subjects is rejected while old-course subjects remain.
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.StudentRequest, mode dto.WriteMode) (*models.Student, error) {
	if err := req.Validate(mode); err != nil {
		return nil, err
	}

	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Students().GetByID(ctx, id)
		if err != nil {
			return err
		}
		proposal, err := s.proposal(ctx, tx, req)
		if err != nil {
			return err
		}

		var current []*models.Subject
		if proposal.CourseID != nil && !proposal.Subjects.IsSet() {
			if current, err = tx.Subjects().ListByStudent(ctx, id); err != nil {
				return err
			}
		}
		if err := integrity.ValidateStudentMutation(existing, proposal, current); err != nil {
			return s.rejected(err)
		}

		req.Apply(existing)
		if err := tx.Students().Update(ctx, existing); err != nil {
			return err
		}
		if proposal.Subjects.IsSet() {
			return tx.Students().SetSubjects(ctx, id, models.SubjectIDs(proposal.Subjects.Items()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Students().GetByID(ctx, id)
}

// Delete removes a student and its enrollment rows; subjects are kept
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return tx.Students().Delete(ctx, id)
	})
}

func (s *studentServiceImpl) proposal(ctx context.Context, tx repositories.Store, req *dto.StudentRequest) (integrity.StudentProposal, error) {
	if err := requireCourse(ctx, tx, req.Course); err != nil {
		return integrity.StudentProposal{}, err
	}
	subjects, err := relation.Map(req.Subjects, func(ids []int64) ([]*models.Subject, error) {
		return loadSubjects(ctx, tx, ids)
	})
	if err != nil {
		return integrity.StudentProposal{}, err
	}
	return integrity.StudentProposal{CourseID: req.Course, Subjects: subjects}, nil
}

func (s *studentServiceImpl) rejected(err error) error {
	var v *integrity.Violation
	if errors.As(err, &v) {
		s.logger.Debug().Str("violation", integrity.Describe(v)).Msg("Student mutation rejected")
	}
	return err
}
