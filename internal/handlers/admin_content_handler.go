package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// AdminCourseService is the interface that wraps methods for course administration
type AdminCourseService interface {
	// Method GetAll retrieve all courses, newest first.
	GetAll(ctx context.Context) ([]models.Course, error)
	// Method GetByID retrieve a course by its ID.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// Method Create creates a course and returns its ID.
	Create(ctx context.Context, req *models.CreateCourseRequest) (int, error)
	// Method Update applies a partial update to a course.
	Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error
	// Method Delete deletes a course with its modules, lessons and enrollments.
	Delete(ctx context.Context, id int) error
}

// AdminModuleService is the interface that wraps methods for module administration
type AdminModuleService interface {
	// Method GetByCourseID retrieve the modules of a course in display order.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Module, error)
	// Method Create creates a module and returns its ID.
	//
	// Without an order index the module is appended; a taken order index is a validation error.
	Create(ctx context.Context, req *models.CreateModuleRequest) (int, error)
	// Method Update applies a partial update to a module.
	Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error
	// Method Delete deletes a module with its lessons.
	Delete(ctx context.Context, id int) error
}

// AdminLessonService is the interface that wraps methods for lesson administration
type AdminLessonService interface {
	// Method GetByModuleID retrieve the lessons of a module in display order.
	GetByModuleID(ctx context.Context, moduleID int) ([]models.Lesson, error)
	// Method Create creates a lesson and returns its ID. The video link is stored as a bare video id.
	Create(ctx context.Context, req *models.CreateLessonRequest) (int, error)
	// Method Update applies a partial update to a lesson. An empty video link removes the video.
	Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error
	// Method Delete deletes a lesson.
	Delete(ctx context.Context, id int) error
}

// AdminContentHandler handles course, module and lesson administration
type AdminContentHandler struct {
	BaseHandler
	courses AdminCourseService
	modules AdminModuleService
	lessons AdminLessonService
}

// NewAdminContentHandler creates a new admin content handler
func NewAdminContentHandler(courses AdminCourseService, modules AdminModuleService, lessons AdminLessonService, logger *zap.Logger) *AdminContentHandler {
	return &AdminContentHandler{
		BaseHandler: BaseHandler{Logger: logger},
		courses:     courses,
		modules:     modules,
		lessons:     lessons,
	}
}

// RegisterRoutes registers all admin content routes
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *AdminContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/courses", func(r chi.Router) {
		r.Get("/", h.ListCourses)
		r.Post("/", h.CreateCourse)
		r.Get("/{id}", h.GetCourse)
		r.Patch("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Get("/{id}/modules", h.ListModules)
	})
	r.Route("/admin/modules", func(r chi.Router) {
		r.Post("/", h.CreateModule)
		r.Patch("/{id}", h.UpdateModule)
		r.Delete("/{id}", h.DeleteModule)
		r.Get("/{id}/lessons", h.ListLessons)
	})
	r.Route("/admin/lessons", func(r chi.Router) {
		r.Post("/", h.CreateLesson)
		r.Patch("/{id}", h.UpdateLesson)
		r.Delete("/{id}", h.DeleteLesson)
	})
}

// ListCourses handles GET /admin/courses
// @Summary List courses
// @Tags admin
// @Produce json
// @Success 200 {array} models.Course
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/courses [get]
func (h *AdminContentHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /admin/courses/{id}
// @Summary Get course by ID
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string "Invalid course ID"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /admin/courses/{id} [get]
func (h *AdminContentHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "course")
	if !ok {
		return
	}

	course, err := h.courses.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// CreateCourse handles POST /admin/courses
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateCourseRequest true "Course"
// @Success 201 {object} map[string]int "Created course ID"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/courses [post]
func (h *AdminContentHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.courses.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateCourse handles PATCH /admin/courses/{id}
// @Summary Update a course
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} map[string]string "Course updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /admin/courses/{id} [patch]
func (h *AdminContentHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "course")
	if !ok {
		return
	}
	var req models.UpdateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.courses.Update(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, r, err, "failed to update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course updated successfully"})
}

// DeleteCourse handles DELETE /admin/courses/{id}
// @Summary Delete a course
// @Tags admin
// @Param id path int true "Course ID"
// @Success 204
// @Failure 404 {object} map[string]string "Course not found"
// @Router /admin/courses/{id} [delete]
func (h *AdminContentHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "course")
	if !ok {
		return
	}

	if err := h.courses.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, r, err, "failed to delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListModules handles GET /admin/courses/{id}/modules
// @Summary List the modules of a course
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} models.Module
// @Failure 404 {object} map[string]string "Course not found"
// @Router /admin/courses/{id}/modules [get]
func (h *AdminContentHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "course")
	if !ok {
		return
	}

	modules, err := h.modules.GetByCourseID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get modules")
		return
	}

	h.RespondJSON(w, http.StatusOK, modules)
}

// CreateModule handles POST /admin/modules
// @Summary Create a module
// @Description orderIndex defaults to the number of modules already in the course
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateModuleRequest true "Module"
// @Success 201 {object} map[string]int "Created module ID"
// @Failure 400 {object} map[string]string "Invalid request or duplicate order index"
// @Router /admin/modules [post]
func (h *AdminContentHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.modules.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateModule handles PATCH /admin/modules/{id}
// @Summary Update a module
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param request body models.UpdateModuleRequest true "Fields to update"
// @Success 200 {object} map[string]string "Module updated"
// @Failure 400 {object} map[string]string "Invalid request or duplicate order index"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /admin/modules/{id} [patch]
func (h *AdminContentHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "module")
	if !ok {
		return
	}
	var req models.UpdateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.modules.Update(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, r, err, "failed to update module")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "module updated successfully"})
}

// DeleteModule handles DELETE /admin/modules/{id}
// @Summary Delete a module
// @Tags admin
// @Param id path int true "Module ID"
// @Success 204
// @Failure 404 {object} map[string]string "Module not found"
// @Router /admin/modules/{id} [delete]
func (h *AdminContentHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "module")
	if !ok {
		return
	}

	if err := h.modules.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, r, err, "failed to delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLessons handles GET /admin/modules/{id}/lessons
// @Summary List the lessons of a module
// @Tags admin
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {array} models.Lesson
// @Failure 404 {object} map[string]string "Module not found"
// @Router /admin/modules/{id}/lessons [get]
func (h *AdminContentHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "module")
	if !ok {
		return
	}

	lessons, err := h.lessons.GetByModuleID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// CreateLesson handles POST /admin/lessons
// @Summary Create a lesson
// @Description videoUrl accepts a YouTube watch, short, embed or /v/ link or a bare video id
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateLessonRequest true "Lesson"
// @Success 201 {object} map[string]int "Created lesson ID"
// @Failure 400 {object} map[string]string "Invalid request, video URL or duplicate order index"
// @Router /admin/lessons [post]
func (h *AdminContentHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLessonRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.lessons.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateLesson handles PATCH /admin/lessons/{id}
// @Summary Update a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body models.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} map[string]string "Lesson updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /admin/lessons/{id} [patch]
func (h *AdminContentHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "lesson")
	if !ok {
		return
	}
	var req models.UpdateLessonRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.lessons.Update(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, r, err, "failed to update lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson updated successfully"})
}

// DeleteLesson handles DELETE /admin/lessons/{id}
// @Summary Delete a lesson
// @Tags admin
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /admin/lessons/{id} [delete]
func (h *AdminContentHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "lesson")
	if !ok {
		return
	}

	if err := h.lessons.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, r, err, "failed to delete lesson")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
