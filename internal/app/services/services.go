package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/helpers"
)

// Services holds every service of the API
type Services struct {
	Courses   CourseService
	Lecturers LecturerService
	Subjects  SubjectService
	Students  StudentService
	Auth      *AuthService
}

// NewServices wires all services on one store
func NewServices(store repositories.Store, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	return &Services{
		Courses:   NewCourseService(store, logger),
		Lecturers: NewLecturerService(store, logger),
		Subjects:  NewSubjectService(store, logger),
		Students:  NewStudentService(store, logger),
		Auth:      NewAuthService(store.Users(), jwtService, logger),
	}
}

// invalidPK reports a related id that does not exist
func invalidPK(field string, id int64) error {
	return apperrors.NewValidationError(fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)).
		WithCode(string(dto.ErrorCodeResourceInvalid)).
		WithDetails(map[string]interface{}{"field": field, "id": id})
}

// requireCourse loads a referenced course, mapping not-found to a field error
func requireCourse(ctx context.Context, tx repositories.Store, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := tx.Courses().GetByID(ctx, *id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return invalidPK("course", *id)
		}
		return err
	}
	return nil
}

// loadStudents resolves student ids, rejecting unknown ones
func loadStudents(ctx context.Context, tx repositories.Store, ids []int64) ([]*models.Student, error) {
	ids = helpers.UniqueIDs(ids)
	students, err := tx.Students().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if id, missing := helpers.MissingID(ids, models.StudentIDs(students)); missing {
		return nil, invalidPK("students", id)
	}
	return students, nil
}

// loadSubjects resolves subject ids, rejecting unknown ones
func loadSubjects(ctx context.Context, tx repositories.Store, ids []int64) ([]*models.Subject, error) {
	ids = helpers.UniqueIDs(ids)
	subjects, err := tx.Subjects().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if id, missing := helpers.MissingID(ids, models.SubjectIDs(subjects)); missing {
		return nil, invalidPK("subjects", id)
	}
	return subjects, nil
}
