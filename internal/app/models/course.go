package models

// Course represents a program of study. Name is unique.
type Course struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Name        string `json:"name" db:"name" example:"Computer Science"`
	Description string `json:"description" db:"description" example:"Study of computation"`
}

// CourseDetail is a course together with its enrolled students and subjects.
type CourseDetail struct {
	Course
	Students []*Student
	Subjects []*SubjectDetail
}
