package models

// Lecturer teaches subjects. Email is unique.
type Lecturer struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	FirstName string `json:"first_name" db:"first_name" example:"Jane"`
	LastName  string `json:"last_name" db:"last_name" example:"Smith"`
	Email     string `json:"email" db:"email" example:"jane@example.com"`
}

// LecturerDetail is a lecturer with the subjects they teach and the distinct
// courses those subjects belong to, in first-seen order.
type LecturerDetail struct {
	Lecturer
	Subjects []*SubjectDetail
	Courses  []*Course
}

// DistinctCourses collects the course of every subject, de-duplicated by id,
// keeping the order in which each course is first seen.
func DistinctCourses(subjects []*SubjectDetail) []*Course {
	seen := make(map[int64]struct{}, len(subjects))
	courses := make([]*Course, 0, len(subjects))
	for _, s := range subjects {
		if s == nil || s.Course == nil {
			continue
		}
		if _, ok := seen[s.Course.ID]; ok {
			continue
		}
		seen[s.Course.ID] = struct{}{}
		courses = append(courses, s.Course)
	}
	return courses
}
