package models

import "time"

// SupportMaterial is a downloadable file offered to all students
type SupportMaterial struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FileURL     string    `json:"fileUrl"`
	FileName    string    `json:"fileName"`
	FileType    *string   `json:"fileType,omitempty"`
	FileSize    *int64    `json:"fileSize,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateSupportMaterialRequest represents a request to create a support material
type CreateSupportMaterialRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	FileURL     string  `json:"fileUrl"`
	FileName    string  `json:"fileName"`
	FileType    *string `json:"fileType,omitempty"`
	FileSize    *int64  `json:"fileSize,omitempty"`
}

// UpdateSupportMaterialRequest represents a request to update a support material (partial update)
type UpdateSupportMaterialRequest struct {
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     string  `json:"fileUrl,omitempty"`
	FileName    string  `json:"fileName,omitempty"`
	FileType    *string `json:"fileType,omitempty"`
	FileSize    *int64  `json:"fileSize,omitempty"`
}
