package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// maxUploadSize bounds multipart upload requests
const maxUploadSize = 50 << 20

// SupportMaterialService is the interface that wraps methods for support material administration
type SupportMaterialService interface {
	// Method GetAll retrieve all support materials, newest first.
	GetAll(ctx context.Context) ([]models.SupportMaterial, error)
	// Method Create creates a support material and returns its ID.
	Create(ctx context.Context, req *models.CreateSupportMaterialRequest) (int, error)
	// Method Update applies a partial update to a support material.
	Update(ctx context.Context, id int, req *models.UpdateSupportMaterialRequest) error
	// Method Delete deletes a support material.
	Delete(ctx context.Context, id int) error
}

// DashboardSettingsService is the interface that wraps the hero banner settings
type DashboardSettingsService interface {
	GetSettings(ctx context.Context) (*models.DashboardSettings, error)
	UpdateSettings(ctx context.Context, req *models.UpdateDashboardSettingsRequest) (*models.DashboardSettings, error)
}

// AdminService is the interface that wraps the admin overview
type AdminService interface {
	// Method GetStudents retrieve all profiles with the student role.
	GetStudents(ctx context.Context) ([]models.Profile, error)
	// Method GetStats retrieve platform-wide counters.
	GetStats(ctx context.Context) (*models.AdminStats, error)
}

// UploadService is the interface that wraps file uploads
type UploadService interface {
	// Method UploadFile stores the file in the bucket and returns its public URL and metadata.
	//
	// Image buckets reject anything but PNG, JPEG and WEBP up to 5 MB with a validation error.
	UploadFile(ctx context.Context, bucket models.Bucket, reader io.Reader, contentType, originalName string) (*models.UploadResult, error)
	// Method DeleteFile removes a stored file and its metadata.
	DeleteFile(ctx context.Context, bucket models.Bucket, filename string) error
	// Method IsValidBucket checks if the bucket is known.
	IsValidBucket(bucket string) bool
}

// AdminHandler handles admin requests outside course content
type AdminHandler struct {
	BaseHandler
	materials SupportMaterialService
	settings  DashboardSettingsService
	admin     AdminService
	uploads   UploadService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(materials SupportMaterialService, settings DashboardSettingsService, admin AdminService, uploads UploadService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{Logger: logger},
		materials:   materials,
		settings:    settings,
		admin:       admin,
		uploads:     uploads,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/support-materials", h.ListSupportMaterials)
	r.Post("/admin/support-materials", h.CreateSupportMaterial)
	r.Patch("/admin/support-materials/{id}", h.UpdateSupportMaterial)
	r.Delete("/admin/support-materials/{id}", h.DeleteSupportMaterial)

	r.Get("/admin/dashboard-settings", h.GetDashboardSettings)
	r.Patch("/admin/dashboard-settings", h.UpdateDashboardSettings)

	r.Get("/admin/students", h.ListStudents)
	r.Get("/admin/stats", h.Stats)

	r.Post("/admin/uploads/{bucket}", h.Upload)
	r.Delete("/admin/uploads/{bucket}/{filename}", h.DeleteUpload)
}

// ListSupportMaterials handles GET /admin/support-materials
// @Summary List support materials
// @Tags admin
// @Produce json
// @Success 200 {array} models.SupportMaterial
// @Router /admin/support-materials [get]
func (h *AdminHandler) ListSupportMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.materials.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get support materials")
		return
	}

	h.RespondJSON(w, http.StatusOK, materials)
}

// CreateSupportMaterial handles POST /admin/support-materials
// @Summary Create a support material
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateSupportMaterialRequest true "Support material"
// @Success 201 {object} map[string]int "Created support material ID"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /admin/support-materials [post]
func (h *AdminHandler) CreateSupportMaterial(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSupportMaterialRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.materials.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to create support material")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateSupportMaterial handles PATCH /admin/support-materials/{id}
// @Summary Update a support material
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Support material ID"
// @Param request body models.UpdateSupportMaterialRequest true "Fields to update"
// @Success 200 {object} map[string]string "Support material updated"
// @Failure 404 {object} map[string]string "Support material not found"
// @Router /admin/support-materials/{id} [patch]
func (h *AdminHandler) UpdateSupportMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "support material")
	if !ok {
		return
	}
	var req models.UpdateSupportMaterialRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.materials.Update(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, r, err, "failed to update support material")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "support material updated successfully"})
}

// DeleteSupportMaterial handles DELETE /admin/support-materials/{id}
// @Summary Delete a support material
// @Tags admin
// @Param id path int true "Support material ID"
// @Success 204
// @Failure 404 {object} map[string]string "Support material not found"
// @Router /admin/support-materials/{id} [delete]
func (h *AdminHandler) DeleteSupportMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlParamID(w, r, "id", "support material")
	if !ok {
		return
	}

	if err := h.materials.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, r, err, "failed to delete support material")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDashboardSettings handles GET /admin/dashboard-settings
// @Summary Get the hero banner settings
// @Tags admin
// @Produce json
// @Success 200 {object} models.DashboardSettings
// @Router /admin/dashboard-settings [get]
func (h *AdminHandler) GetDashboardSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetSettings(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get dashboard settings")
		return
	}

	h.RespondJSON(w, http.StatusOK, settings)
}

// UpdateDashboardSettings handles PATCH /admin/dashboard-settings
// @Summary Update the hero banner settings
// @Description Omitted fields are kept, empty strings clear a field
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.UpdateDashboardSettingsRequest true "Fields to update"
// @Success 200 {object} models.DashboardSettings
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /admin/dashboard-settings [patch]
func (h *AdminHandler) UpdateDashboardSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateDashboardSettingsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.settings.UpdateSettings(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to update dashboard settings")
		return
	}

	h.RespondJSON(w, http.StatusOK, settings)
}

// ListStudents handles GET /admin/students
// @Summary List students
// @Tags admin
// @Produce json
// @Success 200 {array} models.Profile
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.admin.GetStudents(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get students")
		return
	}

	h.RespondJSON(w, http.StatusOK, students)
}

// Stats handles GET /admin/stats
// @Summary Platform counters
// @Tags admin
// @Produce json
// @Success 200 {object} models.AdminStats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStats(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get stats")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// Upload handles POST /admin/uploads/{bucket}
// @Summary Upload a file
// @Description Stores a support material, course thumbnail or hero image. Image buckets accept PNG, JPEG and WEBP up to 5 MB.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param bucket path string true "Bucket" Enums(support-materials, course-thumbnails, hero-images)
// @Param file formData file true "File to upload"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} map[string]string "Invalid bucket, file type or size"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/uploads/{bucket} [post]
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if !h.uploads.IsValidBucket(bucket) {
		h.RespondError(w, http.StatusBadRequest, "invalid bucket")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.Logger.Debug("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		contentType = ""
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploads.UploadFile(r.Context(), models.Bucket(bucket), file, contentType, fileHeader.Filename)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to upload file")
		return
	}

	h.Logger.Info("file uploaded",
		zap.String("bucket", bucket),
		zap.String("file", result.FileName),
		zap.Int64("size", result.FileSize),
	)
	h.RespondJSON(w, http.StatusCreated, result)
}

// DeleteUpload handles DELETE /admin/uploads/{bucket}/{filename}
// @Summary Delete an uploaded file
// @Tags admin
// @Param bucket path string true "Bucket"
// @Param filename path string true "File name"
// @Success 204
// @Failure 404 {object} map[string]string "File not found"
// @Router /admin/uploads/{bucket}/{filename} [delete]
func (h *AdminHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if !h.uploads.IsValidBucket(bucket) {
		h.RespondError(w, http.StatusBadRequest, "invalid bucket")
		return
	}

	if err := h.uploads.DeleteFile(r.Context(), models.Bucket(bucket), chi.URLParam(r, "filename")); err != nil {
		h.RespondServiceError(w, r, err, "failed to delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
