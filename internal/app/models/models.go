package models

// StudentIDs returns the ids of the given students in order.
func StudentIDs(students []*Student) []int64 {
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}

// SubjectIDs returns the ids of the given subjects in order.
func SubjectIDs(subjects []*Subject) []int64 {
	ids := make([]int64, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}
	return ids
}
