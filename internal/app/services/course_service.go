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

// CourseService defines course operations
type CourseService interface {
	Create(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	Get(ctx context.Context, id int64) (*models.CourseDetail, error)
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, id int64, req *dto.CourseRequest, mode dto.WriteMode) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(store repositories.Store, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{store: store, logger: logger}
}

func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	if err := req.Validate(dto.ModeCreate); err != nil {
		return nil, err
	}

	course := &models.Course{}
	req.Apply(course)
	id, err := s.store.Courses().Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	return course, nil
}

// Get returns a course with its students and fully expanded subjects
func (s *courseServiceImpl) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	course, err := s.store.Courses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading course students: %w", err)
	}
	subjects, err := s.store.Subjects().ListByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading course subjects: %w", err)
	}
	details, err := newDetailLoader(s.store).subjects(ctx, subjects)
	if err != nil {
		return nil, err
	}
	return &models.CourseDetail{Course: *course, Students: students, Subjects: details}, nil
}

func (s *courseServiceImpl) List(ctx context.Context) ([]*models.Course, error) {
	return s.store.Courses().List(ctx)
}

func (s *courseServiceImpl) Update(ctx context.Context, id int64, req *dto.CourseRequest, mode dto.WriteMode) (*models.Course, error) {
	if err := req.Validate(mode); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		existing, err := tx.Courses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(existing)
		if err := tx.Courses().Update(ctx, existing); err != nil {
			return err
		}
		course = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course and cascades to its subjects and their enrollments.
// A course that still has students is not deleted.
func (s *courseServiceImpl) Delete(ctx context.Context, id int64) error {
	var removed int64
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Courses().GetByID(ctx, id); err != nil {
			return err
		}

		students, err := tx.Students().CountByCourse(ctx, id)
		if err != nil {
			return err
		}
		if students > 0 {
			return apperrors.NewReferencedRowError(dberrors.Message(dberrors.StudentCourseFKey))
		}

		if removed, err = tx.Subjects().DeleteByCourse(ctx, id); err != nil {
			return err
		}
		return tx.Courses().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", id).Int64("subjectsRemoved", removed).Msg("Course deleted")
	return nil
}
