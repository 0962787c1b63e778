package models

// Subject is a taught unit owned by one course and one lecturer.
// (Name, CourseID) is unique.
type Subject struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	CourseID    int64  `json:"course" db:"course_id"`
	LecturerID  int64  `json:"lecturer" db:"lecturer_id"`

	// StudentIDs is the enrollment association, populated by the store.
	StudentIDs []int64 `json:"students"`
}

// SubjectDetail is a subject with its course, lecturer and enrolled students resolved.
type SubjectDetail struct {
	Subject
	Course   *Course
	Lecturer *Lecturer
	Students []*Student
}
