// Package seed loads the sample school data and bootstraps the admin account.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// Result counts what a seed run created
type Result struct {
	Courses   int
	Lecturers int
	Subjects  int
	Students  int
	Skipped   bool
}

type course struct{ name, description string }

type lecturer struct{ first, last, email string }

type subject struct {
	name, description string
	course, lecturer  int
}

type student struct {
	first, last, email, dob string
	course                  int
	subjects                []int
}

var courses = []course{
	{"Computer Science", "Study of computation, algorithms, and software engineering."},
	{"Electrical Engineering", "Study of electrical systems, circuits, and power generation."},
	{"Business Administration", "Study of management, finance, and organizational leadership."},
}

var lecturers = []lecturer{
	{"James", "Mokoena", "james.mokoena@university.ac.za"},
	{"Sarah", "Naidoo", "sarah.naidoo@university.ac.za"},
	{"David", "van der Merwe", "david.vdm@university.ac.za"},
}

// course and lecturer are indexes into the tables above
var subjects = []subject{
	{"Data Structures", "Arrays, linked lists, trees, and graphs.", 0, 0},
	{"Web Development", "Frontend and backend web technologies.", 0, 0},
	{"Database Systems", "Relational databases, SQL, and data modeling.", 0, 1},
	{"Circuit Analysis", "Fundamentals of electrical circuits and components.", 1, 2},
	{"Digital Electronics", "Logic gates, microprocessors, and digital systems.", 1, 2},
	{"Power Systems", "Electrical power generation and distribution.", 1, 1},
	{"Financial Accounting", "Principles of accounting and financial reporting.", 2, 1},
	{"Marketing Management", "Marketing strategies and consumer behavior.", 2, 2},
	{"Organizational Behavior", "Human behavior in organizational settings.", 2, 0},
}

var students = []student{
	{"Sipho", "Dlamini", "sipho.dlamini@student.ac.za", "2000-03-15", 0, []int{0, 1, 2}},
	{"Naledi", "Khumalo", "naledi.khumalo@student.ac.za", "2001-07-22", 0, []int{0, 2}},
	{"Thabo", "Mthembu", "thabo.mthembu@student.ac.za", "1999-11-08", 0, []int{1, 2}},
	{"Zanele", "Ngcobo", "zanele.ngcobo@student.ac.za", "2000-01-30", 1, []int{3, 4, 5}},
	{"Bongani", "Sithole", "bongani.sithole@student.ac.za", "2001-05-12", 1, []int{3, 4}},
	{"Lerato", "Molefe", "lerato.molefe@student.ac.za", "2000-09-25", 1, []int{4, 5}},
	{"Ayanda", "Zulu", "ayanda.zulu@student.ac.za", "2001-02-14", 2, []int{6, 7, 8}},
	{"Nomvula", "Cele", "nomvula.cele@student.ac.za", "2000-06-18", 2, []int{6, 8}},
	{"Mandla", "Nkosi", "mandla.nkosi@student.ac.za", "1999-12-03", 2, []int{7, 8}},
}

// CreateSampleData creates the sample courses, lecturers, subjects and
// students through the services, so every row passes the integrity policy.
// Nothing is created when any course already exists.
func CreateSampleData(ctx context.Context, store repositories.Store, svc *services.Services, lgr zerolog.Logger) (Result, error) {
	existing, err := store.Courses().Count(ctx)
	if err != nil {
		return Result{}, err
	}
	if existing > 0 {
		lgr.Warn().Int("courses", existing).Msg("Database already has data, skipping seed")
		return Result{Skipped: true}, nil
	}

	var res Result
	courseIDs := make([]int64, 0, len(courses))
	for _, c := range courses {
		created, err := svc.Courses.Create(ctx, &dto.CourseRequest{Name: ptr(c.name), Description: ptr(c.description)})
		if err != nil {
			return res, fmt.Errorf("seed course %q: %w", c.name, err)
		}
		courseIDs = append(courseIDs, created.ID)
		res.Courses++
	}

	lecturerIDs := make([]int64, 0, len(lecturers))
	for _, l := range lecturers {
		created, err := svc.Lecturers.Create(ctx, &dto.LecturerRequest{FirstName: ptr(l.first), LastName: ptr(l.last), Email: ptr(l.email)})
		if err != nil {
			return res, fmt.Errorf("seed lecturer %q: %w", l.email, err)
		}
		lecturerIDs = append(lecturerIDs, created.ID)
		res.Lecturers++
	}

	subjectIDs := make([]int64, 0, len(subjects))
	for _, s := range subjects {
		created, err := svc.Subjects.Create(ctx, &dto.SubjectRequest{
			Name:        ptr(s.name),
			Description: ptr(s.description),
			Course:      ptr(courseIDs[s.course]),
			Lecturer:    ptr(lecturerIDs[s.lecturer]),
		})
		if err != nil {
			return res, fmt.Errorf("seed subject %q: %w", s.name, err)
		}
		subjectIDs = append(subjectIDs, created.ID)
		res.Subjects++
	}

	for _, st := range students {
		enrolled := make([]int64, 0, len(st.subjects))
		for _, i := range st.subjects {
			enrolled = append(enrolled, subjectIDs[i])
		}
		_, err := svc.Students.Create(ctx, &dto.StudentRequest{
			FirstName:   ptr(st.first),
			LastName:    ptr(st.last),
			Email:       ptr(st.email),
			DateOfBirth: ptr(st.dob),
			Course:      ptr(courseIDs[st.course]),
			Subjects:    relation.ReplaceWith(enrolled...),
		})
		if err != nil {
			return res, fmt.Errorf("seed student %q: %w", st.email, err)
		}
		res.Students++
	}

	lgr.Info().
		Int("courses", res.Courses).
		Int("lecturers", res.Lecturers).
		Int("subjects", res.Subjects).
		Int("students", res.Students).
		Msg("Sample data seeded")
	return res, nil
}

// EnsureAdmin creates the admin account when it does not exist yet
func EnsureAdmin(ctx context.Context, svc *services.Services, email, password string, lgr zerolog.Logger) error {
	created, err := svc.Auth.CreateAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if !created {
		lgr.Warn().Str("email", email).Msg("Admin user already exists")
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
