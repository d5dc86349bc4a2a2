package models

import "time"

// DashboardSettings holds the hero banner shown on the student dashboard
type DashboardSettings struct {
	HeroImageURL   *string   `json:"heroImageUrl,omitempty"`
	HeroTitle      *string   `json:"heroTitle,omitempty"`
	HeroParagraph1 *string   `json:"heroParagraph1,omitempty"`
	HeroParagraph2 *string   `json:"heroParagraph2,omitempty"`
	HeroParagraph3 *string   `json:"heroParagraph3,omitempty"`
	HeroCTA        *string   `json:"heroCta,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UpdateDashboardSettingsRequest represents a partial update of the hero banner.
// Nil fields are left unchanged, empty strings clear the field.
type UpdateDashboardSettingsRequest struct {
	HeroImageURL   *string `json:"heroImageUrl,omitempty"`
	HeroTitle      *string `json:"heroTitle,omitempty"`
	HeroParagraph1 *string `json:"heroParagraph1,omitempty"`
	HeroParagraph2 *string `json:"heroParagraph2,omitempty"`
	HeroParagraph3 *string `json:"heroParagraph3,omitempty"`
	HeroCTA        *string `json:"heroCta,omitempty"`
}

// DashboardResponse is the student landing page payload
type DashboardResponse struct {
	Settings  *DashboardSettings `json:"settings"`
	MyCourses []Course           `json:"myCourses"`
	Courses   []CourseListItem   `json:"courses"`
}

// AdminStats holds platform-wide counters for the admin overview
type AdminStats struct {
	Courses     int `json:"courses"`
	Students    int `json:"students"`
	Modules     int `json:"modules"`
	Enrollments int `json:"enrollments"`
}

// PurchaseVerification reports whether an e-mail has an approved purchase
type PurchaseVerification struct {
	Email    string `json:"email"`
	Approved bool   `json:"approved"`
}
