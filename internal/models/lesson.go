package models

// Lesson is a single unit of content inside a module.
// VideoID is a bare YouTube video id, never a URL.
type Lesson struct {
	ID              int     `json:"id"`
	ModuleID        int     `json:"moduleId"`
	Title           string  `json:"title"`
	Content         *string `json:"content,omitempty"`
	VideoID         *string `json:"videoId,omitempty"`
	OrderIndex      int     `json:"orderIndex"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// CreateLessonRequest represents a request to create a lesson.
// VideoURL accepts a pasted YouTube URL or a bare video id.
type CreateLessonRequest struct {
	ModuleID        int     `json:"moduleId"`
	Title           string  `json:"title"`
	Content         *string `json:"content,omitempty"`
	VideoURL        *string `json:"videoUrl,omitempty"`
	OrderIndex      *int    `json:"orderIndex,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// UpdateLessonRequest represents a request to update a lesson (partial update).
// An empty VideoURL clears the video.
type UpdateLessonRequest struct {
	Title           string  `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	VideoURL        *string `json:"videoUrl,omitempty"`
	OrderIndex      *int    `json:"orderIndex,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

// LessonPatch is a validated partial lesson update.
// Nil pointers leave columns unchanged; an empty VideoID clears the video.
type LessonPatch struct {
	Title           string
	Content         *string
	VideoID         *string
	OrderIndex      *int
	DurationMinutes *int
}
