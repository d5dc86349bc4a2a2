package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/memberclass/platform/internal/auth/middleware"
	"github.com/memberclass/platform/internal/auth/service"
	"github.com/memberclass/platform/internal/config"
	"github.com/memberclass/platform/internal/handlers"
	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/player"
	"github.com/memberclass/platform/internal/repositories"
	"github.com/memberclass/platform/internal/services"
	"github.com/memberclass/platform/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testTokens *service.TokenGenerator
	testQueue  = &recordingClient{}
)

// recordingClient stands in for the asynq client and keeps enqueued tasks
type recordingClient struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (c *recordingClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (c *recordingClient) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = nil
}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// seedTestData inserts a student, a course with two modules and three lessons
func seedTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	cleanupTestData(t, db)

	statements := []string{
		"INSERT INTO profiles (id, email, full_name, role) VALUES (1, 'student@example.com', 'Student', 1)",
		"INSERT INTO courses (id, title, description) VALUES (1, 'Go basics', 'From zero to services')",
		"INSERT INTO modules (id, course_id, title, order_index) VALUES (11, 1, 'Second', 1), (10, 1, 'First', 0)",
		`INSERT INTO lessons (id, module_id, title, video_id, order_index) VALUES
			(101, 10, 'Setup', 'dQw4w9WgXcQ', 0),
			(102, 10, 'Types', NULL, 1),
			(111, 11, 'Goroutines', NULL, 0)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "Failed to seed test data")
	}
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"enrollments", "lessons", "modules", "courses", "profiles"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to cleanup test data")
	}
	testQueue.reset()
}

// setupTestRouter wires the student endpoints the way the API binary does
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	courseRepo := repositories.NewCourseRepository(db)
	moduleRepo := repositories.NewModuleRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)

	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo, tasks.NewEnqueuer(testQueue), logger)
	catalogService := services.NewCatalogService(courseRepo, repositories.NewDashboardSettingsRepository(db), logger)
	materialService := services.NewSupportMaterialService(repositories.NewSupportMaterialRepository(db), logger)
	source := services.NewPlayerContentSource(courseRepo, moduleRepo, lessonRepo, enrollmentRepo, enrollmentService)
	sessions := player.NewSessionManager(source, time.Minute, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(testTokens))
		handlers.NewCatalogHandler(catalogService, enrollmentService, materialService, logger).RegisterRoutes(r)
		handlers.NewPlayerHandler(sessions, logger).RegisterRoutes(r)
	})
	return r
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	if cfg.Database.Host == "" {
		fmt.Println("TEST_DB_* not set, skipping integration tests")
		os.Exit(0)
	}

	testLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	testDB, err = sql.Open("mysql", cfg.DSN()+"&multiStatements=true")
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}
	if err = testDB.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to ping test database: %v", err))
	}

	if err := migrateUp(testDB); err != nil {
		panic(fmt.Sprintf("Failed to migrate test database: %v", err))
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = "integration-secret"
	}
	testTokens = service.NewTokenGenerator(secret, time.Hour)
	testRouter = setupTestRouter(testDB, testLogger)

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func migrateUp(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "mysql", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	token, err := testTokens.GenerateAccessToken(1, int(models.RoleStudent))
	require.NoError(t, err)

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestIntegration_CatalogRequiresToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegration_EnrollThroughCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	w := do(t, http.MethodGet, "/courses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.CourseListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.False(t, items[0].Enrolled)

	w = do(t, http.MethodPost, "/courses/1/enroll", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, testQueue.count())

	w = do(t, http.MethodPost, "/courses/1/enroll", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, http.MethodPost, "/courses/999/enroll", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, http.MethodGet, "/courses/mine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Go basics", mine[0].Title)
}

func TestIntegration_PlayerFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	seedTestData(t, testDB)
	defer cleanupTestData(t, testDB)

	w := do(t, http.MethodPost, "/player/sessions", handlers.CreateSessionRequest{CourseID: 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session handlers.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.False(t, session.State.Enrolled)
	require.Len(t, session.State.Modules, 2)
	assert.Equal(t, "First", session.State.Modules[0].Title)
	assert.Nil(t, session.State.ActiveLesson)

	base := "/player/sessions/" + session.SessionID

	w = do(t, http.MethodPost, base+"/modules/10", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, http.MethodPost, base+"/enroll", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.True(t, session.State.Enrolled)
	require.NotNil(t, session.State.ActiveLesson)
	assert.Equal(t, 101, session.State.ActiveLesson.ID)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", session.State.EmbedURL)
	assert.Equal(t, 1, testQueue.count())

	// the row already exists
	w = do(t, http.MethodPost, base+"/enroll", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, testQueue.count())

	w = do(t, http.MethodPost, base+"/lessons/102", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, 102, session.State.ActiveLesson.ID)
	assert.Empty(t, session.State.EmbedURL)

	w = do(t, http.MethodPost, base+"/modules/11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, 111, session.State.ActiveLesson.ID)
	assert.Equal(t, 2, session.State.CachedModules)

	w = do(t, http.MethodPost, base+"/lessons/101", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
