package models

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Student belongs to one course and may enroll in subjects of that course.
type Student struct {
	ID          int64     `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	CourseID    int64     `json:"course" db:"course_id"`

	// SubjectIDs is the enrollment association, populated by the store.
	SubjectIDs []int64 `json:"subjects"`
}

// StudentDetail is a student with its course and enrolled subjects resolved.
type StudentDetail struct {
	Student
	Course   *Course
	Subjects []*SubjectDetail
}
