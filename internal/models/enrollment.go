package models

import "time"

// Enrollment links a user to a course and unlocks its lessons
type Enrollment struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	CourseID   int       `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}
