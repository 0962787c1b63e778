package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

// LecturerService defines lecturer operations
type LecturerService interface {
	Create(ctx context.Context, req *dto.LecturerRequest) (*models.Lecturer, error)
	Get(ctx context.Context, id int64) (*models.LecturerDetail, error)
	List(ctx context.Context) ([]*models.Lecturer, error)
	Update(ctx context.Context, id int64, req *dto.LecturerRequest, mode dto.WriteMode) (*models.Lecturer, error)
	Delete(ctx context.Context, id int64) error
}

type lecturerServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewLecturerService creates a new lecturer service instance
func NewLecturerService(store repositories.Store, logger zerolog.Logger) LecturerService {
	return &lecturerServiceImpl{store: store, logger: logger}
}

func (s *lecturerServiceImpl) Create(ctx context.Context, req *dto.LecturerRequest) (*models.Lecturer, error) {
	if err := req.Validate(dto.ModeCreate); err != nil {
		return nil, err
	}

	lecturer := &models.Lecturer{}
	req.Apply(lecturer)
	id, err := s.store.Lecturers().Create(ctx, lecturer)
	if err != nil {
		return nil, err
	}
	lecturer.ID = id
	return lecturer, nil
}

// Get returns a lecturer with the subjects they teach and the distinct
// courses of those subjects
func (s *lecturerServiceImpl) Get(ctx context.Context, id int64) (*models.LecturerDetail, error) {
	lecturer, err := s.store.Lecturers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.store.Subjects().ListByLecturer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading lecturer subjects: %w", err)
	}
	details, err := newDetailLoader(s.store).subjects(ctx, subjects)
	if err != nil {
		return nil, err
	}
	return &models.LecturerDetail{
		Lecturer: *lecturer,
		Subjects: details,
		Courses:  models.DistinctCourses(details),
	}, nil
}

func (s *lecturerServiceImpl) List(ctx context.Context) ([]*models.Lecturer, error) {
	return s.store.Lecturers().List(ctx)
}

func (s *lecturerServiceImpl) Update(ctx context.Context, id int64, req *dto.LecturerRequest, mode dto.WriteMode) (*models.Lecturer, error) {
	if err := req.Validate(mode); err != nil {
		return nil, err
	}

	var lecturer *models.Lecturer
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Lecturers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(existing)
		if err := tx.Lecturers().Update(ctx, existing); err != nil {
			return err
		}
		lecturer = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lecturer, nil
}

// Delete removes a lecturer who no longer teaches any subject
func (s *lecturerServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Lecturers().GetByID(ctx, id); err != nil {
			return err
		}

		subjects, err := tx.Subjects().CountByLecturer(ctx, id)
		if err != nil {
			return err
		}
		if subjects > 0 {
			return apperrors.NewReferencedRowError(dberrors.Message(dberrors.SubjectLecturerFKey))
		}
		return tx.Lecturers().Delete(ctx, id)
	})
}
