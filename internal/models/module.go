package models

// Module groups lessons inside a course. OrderIndex is unique within the course.
type Module struct {
	ID          int     `json:"id"`
	CourseID    int     `json:"courseId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	OrderIndex  int     `json:"orderIndex"`
}

// CreateModuleRequest represents a request to create a module.
// A nil OrderIndex appends the module after the existing ones.
type CreateModuleRequest struct {
	CourseID    int     `json:"courseId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	OrderIndex  *int    `json:"orderIndex,omitempty"`
}

// UpdateModuleRequest represents a request to update a module (partial update)
type UpdateModuleRequest struct {
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	OrderIndex  *int    `json:"orderIndex,omitempty"`
}
