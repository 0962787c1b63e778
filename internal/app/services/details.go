package services

import (
	"context"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/repositories"
)

// detailLoader expands subjects into SubjectDetail, caching the courses and
// lecturers it has already fetched
type detailLoader struct {
	store     repositories.Store
	courses   map[int64]*models.Course
	lecturers map[int64]*models.Lecturer
}

func newDetailLoader(store repositories.Store) *detailLoader {
	return &detailLoader{
		store:     store,
		courses:   map[int64]*models.Course{},
		lecturers: map[int64]*models.Lecturer{},
	}
}

func (l *detailLoader) course(ctx context.Context, id int64) (*models.Course, error) {
	if c, ok := l.courses[id]; ok {
		return c, nil
	}
	c, err := l.store.Courses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.courses[id] = c
	return c, nil
}

func (l *detailLoader) lecturer(ctx context.Context, id int64) (*models.Lecturer, error) {
	if lec, ok := l.lecturers[id]; ok {
		return lec, nil
	}
	lec, err := l.store.Lecturers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.lecturers[id] = lec
	return lec, nil
}

func (l *detailLoader) subject(ctx context.Context, s *models.Subject) (*models.SubjectDetail, error) {
	course, err := l.course(ctx, s.CourseID)
	if err != nil {
		return nil, err
	}
	lecturer, err := l.lecturer(ctx, s.LecturerID)
	if err != nil {
		return nil, err
	}
	students, err := l.store.Students().GetByIDs(ctx, s.StudentIDs)
	if err != nil {
		return nil, err
	}
	return &models.SubjectDetail{Subject: *s, Course: course, Lecturer: lecturer, Students: students}, nil
}

func (l *detailLoader) subjects(ctx context.Context, subjects []*models.Subject) ([]*models.SubjectDetail, error) {
	out := make([]*models.SubjectDetail, 0, len(subjects))
	for _, s := range subjects {
		d, err := l.subject(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
