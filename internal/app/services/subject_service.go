package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/integrity"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// SubjectService defines subject operations
type SubjectService interface {
	Create(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error)
	Get(ctx context.Context, id int64) (*models.SubjectDetail, error)
	List(ctx context.Context) ([]*models.Subject, error)
	Update(ctx context.Context, id int64, req *dto.SubjectRequest, mode dto.WriteMode) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
}

type subjectServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(store repositories.Store, logger zerolog.Logger) SubjectService {
	return &subjectServiceImpl{store: store, logger: logger}
}

// Create checks the enrollment against the integrity policy and writes the
// subject with its students in one transaction
func (s *subjectServiceImpl) Create(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	if err := req.Validate(dto.ModeCreate); err != nil {
		return nil, err
	}

	var id int64
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		proposal, err := s.proposal(ctx, tx, req)
		if err != nil {
			return err
		}
		if err := integrity.ValidateSubjectMutation(nil, proposal, nil); err != nil {
			return s.rejected(err)
		}

		subject := &models.Subject{}
		req.Apply(subject)
		if id, err = tx.Subjects().Create(ctx, subject); err != nil {
			return err
		}
		if proposal.Students.Kind() == relation.Replace {
			return tx.Subjects().SetStudents(ctx, id, models.StudentIDs(proposal.Students.Items()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Subjects().GetByID(ctx, id)
}

func (s *subjectServiceImpl) Get(ctx context.Context, id int64) (*models.SubjectDetail, error) {
	subject, err := s.store.Subjects().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDetailLoader(s.store).subject(ctx, subject)
}

func (s *subjectServiceImpl) List(ctx context.Context) ([]*models.Subject, error) {
	return s.store.Subjects().List(ctx)
}

// Update applies a full or partial change. The subject row is locked before
// its current students are read, so the check and the write see the same state.
func (s *subjectServiceImpl) Update(ctx context.Context, id int64, req *dto.SubjectRequest, mode dto.WriteMode) (*models.Subject, error) {
	if err := req.Validate(mode); err != nil {
		return nil, err
	}

	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Subjects().GetByID(ctx, id)
		if err != nil {
			return err
		}
		proposal, err := s.proposal(ctx, tx, req)
		if err != nil {
			return err
		}

		var current []*models.Student
		if proposal.CourseID != nil && !proposal.Students.IsSet() {
			if current, err = tx.Students().ListBySubject(ctx, id); err != nil {
				return err
			}
		}
		if err := integrity.ValidateSubjectMutation(existing, proposal, current); err != nil {
			return s.rejected(err)
		}

		req.Apply(existing)
		if err := tx.Subjects().Update(ctx, existing); err != nil {
			return err
		}
		if proposal.Students.IsSet() {
			return tx.Subjects().SetStudents(ctx, id, models.StudentIDs(proposal.Students.Items()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Subjects().GetByID(ctx, id)
}

// Delete removes a subject and its enrollment rows; students are kept
func (s *subjectServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return tx.Subjects().Delete(ctx, id)
	})
}

// proposal resolves the relationship fields of req against tx. Unknown ids
// are rejected here; course membership is left to the integrity policy.
func (s *subjectServiceImpl) proposal(ctx context.Context, tx repositories.Store, req *dto.SubjectRequest) (integrity.SubjectProposal, error) {
	if err := requireCourse(ctx, tx, req.Course); err != nil {
		return integrity.SubjectProposal{}, err
	}
	if req.Lecturer != nil {
		if _, err := tx.Lecturers().GetByID(ctx, *req.Lecturer); err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return integrity.SubjectProposal{}, invalidPK("lecturer", *req.Lecturer)
			}
			return integrity.SubjectProposal{}, err
		}
	}

	students, err := relation.Map(req.Students, func(ids []int64) ([]*models.Student, error) {
		return loadStudents(ctx, tx, ids)
	})
	if err != nil {
		return integrity.SubjectProposal{}, err
	}

	return integrity.SubjectProposal{
		CourseID:   req.Course,
		LecturerID: req.Lecturer,
		Students:   students,
	}, nil
}

func (s *subjectServiceImpl) rejected(err error) error {
	var v *integrity.Violation
	if errors.As(err, &v) {
		s.logger.Debug().Str("violation", integrity.Describe(v)).Msg("Subject mutation rejected")
	}
	return err
}
