package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for the student catalog
type CatalogService interface {
	// Method ListCourses retrieve all courses flagged with the user's enrollment status.
	ListCourses(ctx context.Context, userID int) ([]models.CourseListItem, error)
	// Method MyCourses retrieve the courses the user is enrolled in.
	MyCourses(ctx context.Context, userID int) ([]models.Course, error)
	// Method Dashboard retrieve the hero banner, the user's courses and the whole catalog.
	Dashboard(ctx context.Context, userID int) (*models.DashboardResponse, error)
}

// EnrollmentService is the interface that wraps course enrollment
type EnrollmentService interface {
	// Method Enroll enrolls the user in the course.
	//
	// A missing course returns an error wrapping models.ErrNotFound, an existing enrollment one wrapping models.ErrConflict.
	Enroll(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
}

// SupportMaterialLister is the interface that wraps support material listing
type SupportMaterialLister interface {
	GetAll(ctx context.Context) ([]models.SupportMaterial, error)
}

// CatalogHandler handles student-facing catalog requests
type CatalogHandler struct {
	BaseHandler
	catalog     CatalogService
	enrollments EnrollmentService
	materials   SupportMaterialLister
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogService, enrollments EnrollmentService, materials SupportMaterialLister, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: BaseHandler{Logger: logger},
		catalog:     catalog,
		enrollments: enrollments,
		materials:   materials,
	}
}

// RegisterRoutes registers all catalog handler routes
// Note: This assumes the router is already scoped to /api/v1 and authenticated
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/support-materials", h.SupportMaterials)
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Get("/mine", h.MyCourses)
		r.Post("/{id}/enroll", h.Enroll)
	})
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description All courses, newest first, each flagged with the viewer's enrollment
// @Tags catalog
// @Produce json
// @Success 200 {array} models.CourseListItem
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	courses, err := h.catalog.ListCourses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// MyCourses handles GET /courses/mine
// @Summary List my courses
// @Description Courses the viewer is enrolled in
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/mine [get]
func (h *CatalogHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	courses, err := h.catalog.MyCourses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll in a course
// @Tags catalog
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]string "Invalid course ID"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 409 {object} map[string]string "Already enrolled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id}/enroll [post]
func (h *CatalogHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	courseID, ok := h.urlParamID(w, r, "id", "course")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), userID, courseID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to enroll")
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// Dashboard handles GET /dashboard
// @Summary Student dashboard
// @Description Hero banner settings, enrolled courses and the full catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} models.DashboardResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard [get]
func (h *CatalogHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	dashboard, err := h.catalog.Dashboard(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get dashboard")
		return
	}

	h.RespondJSON(w, http.StatusOK, dashboard)
}

// SupportMaterials handles GET /support-materials
// @Summary List support materials
// @Tags catalog
// @Produce json
// @Success 200 {array} models.SupportMaterial
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /support-materials [get]
func (h *CatalogHandler) SupportMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.materials.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get support materials")
		return
	}

	h.RespondJSON(w, http.StatusOK, materials)
}
