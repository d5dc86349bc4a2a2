package models

import "time"

// Course represents a course in the catalog
type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CourseListItem is a catalog course flagged with the viewer's enrollment status
type CourseListItem struct {
	Course
	Enrolled bool `json:"enrolled"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title        string  `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}
