// Package player resolves which modules and lessons a viewer sees while navigating one course
package player

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/memberclass/platform/internal/models"
	"github.com/memberclass/platform/internal/video"
)

// ContentSource is the data access used by the resolver
type ContentSource interface {
	// FetchCourse returns the course or an error wrapping models.ErrNotFound
	FetchCourse(ctx context.Context, courseID int) (*models.Course, error)
	// FetchModules returns the modules of a course
	FetchModules(ctx context.Context, courseID int) ([]models.Module, error)
	// FetchLessons returns the lessons of a module
	FetchLessons(ctx context.Context, moduleID int) ([]models.Lesson, error)
	// FetchEnrollment reports whether the user is enrolled in the course
	FetchEnrollment(ctx context.Context, userID, courseID int) (bool, error)
	// CreateEnrollment enrolls the user in the course
	CreateEnrollment(ctx context.Context, userID, courseID int) error
}

// Resolver holds the navigation state of one viewer inside one course.
//
// Lessons are cached per module for the lifetime of the resolver and never refetched.
// The mutex is not held while the ContentSource is called, so operations may overlap;
// a module selection only takes effect if it is still the active module when its fetch returns.
type Resolver struct {
	source ContentSource
	userID int

	mu              sync.Mutex
	course          *models.Course
	modules         []models.Module
	lessonsByModule map[int][]models.Lesson
	activeModule    int
	activeLesson    int
	enrolled        bool
	// settled is the last selection whose lessons were available
	settledModule int
	settledLesson int
	// inFlight counts lesson fetches per module started under the current generation
	inFlight map[int]int
	// generation changes whenever Load replaces the whole state
	generation uint64
}

// NewResolver creates a resolver for the given viewer
func NewResolver(source ContentSource, userID int) *Resolver {
	return &Resolver{
		source:          source,
		userID:          userID,
		lessonsByModule: make(map[int][]models.Lesson),
		inFlight:        make(map[int]int),
	}
}

// Load fetches the course, the viewer's enrollment and the ordered modules.
// When enrolled, the first module's lessons are loaded and its first lesson becomes active.
// On failure the previous state is kept.
func (r *Resolver) Load(ctx context.Context, courseID int) error {
	course, err := r.source.FetchCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &NotFoundError{CourseID: courseID}
		}
		return &LoadError{What: "course", Err: err}
	}

	enrolled, err := r.source.FetchEnrollment(ctx, r.userID, courseID)
	if err != nil {
		return &LoadError{What: "enrollment", Err: err}
	}

	modules, err := r.source.FetchModules(ctx, courseID)
	if err != nil {
		return &LoadError{What: "modules", Err: err}
	}
	modules = sortedModules(modules)

	cache := make(map[int][]models.Lesson)
	activeModule, activeLesson := 0, 0
	if enrolled && len(modules) > 0 {
		first := modules[0].ID
		lessons, err := r.source.FetchLessons(ctx, first)
		if err != nil {
			return &LoadError{What: "lessons", Err: err}
		}
		lessons = sortedLessons(lessons)
		cache[first] = lessons
		activeModule = first
		activeLesson = firstLessonID(lessons)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.course = course
	r.modules = modules
	r.lessonsByModule = cache
	r.enrolled = enrolled
	r.activeModule = activeModule
	r.activeLesson = activeLesson
	r.settledModule = activeModule
	r.settledLesson = activeLesson
	r.inFlight = make(map[int]int)
	r.generation++
	return nil
}

// SelectModule makes moduleID the active module and its first lesson the active lesson.
// Cached lessons are reused; otherwise they are fetched and cached.
// If another module was selected while the fetch was in flight, the fetched lessons are cached
// but the newer selection is kept. A failed fetch goes back to the previous selection when that
// module is cached or still loading, and to the last settled selection otherwise.
func (r *Resolver) SelectModule(ctx context.Context, moduleID int) error {
	r.mu.Lock()
	if r.course == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	if !r.enrolled {
		r.mu.Unlock()
		return ErrLocked
	}
	if !r.hasModule(moduleID) {
		r.mu.Unlock()
		return ErrModuleNotInCourse
	}

	if lessons, ok := r.lessonsByModule[moduleID]; ok {
		r.activeModule = moduleID
		r.activeLesson = firstLessonID(lessons)
		r.settle()
		r.mu.Unlock()
		return nil
	}

	// The module becomes active right away with no lesson until its list arrives.
	prevModule, prevLesson := r.activeModule, r.activeLesson
	generation := r.generation
	r.activeModule = moduleID
	r.activeLesson = 0
	r.inFlight[moduleID]++
	r.mu.Unlock()

	lessons, err := r.source.FetchLessons(ctx, moduleID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation != generation {
		// state was replaced by Load while fetching
		if err != nil {
			return &LoadError{What: "lessons", Err: err}
		}
		return nil
	}

	r.inFlight[moduleID]--
	if err != nil {
		if r.activeModule == moduleID && r.inFlight[moduleID] == 0 {
			r.restore(prevModule, prevLesson)
		}
		return &LoadError{What: "lessons", Err: err}
	}

	lessons = sortedLessons(lessons)
	if _, ok := r.lessonsByModule[moduleID]; !ok {
		r.lessonsByModule[moduleID] = lessons
	}
	if r.activeModule == moduleID {
		r.activeLesson = firstLessonID(r.lessonsByModule[moduleID])
		r.settle()
	}
	return nil
}

// restore puts back the selection that was active before a failed fetch.
// Must be called with r.mu held.
func (r *Resolver) restore(prevModule, prevLesson int) {
	if prevModule == 0 {
		r.activeModule, r.activeLesson = 0, 0
		return
	}
	if cached, ok := r.lessonsByModule[prevModule]; ok {
		r.activeModule, r.activeLesson = prevModule, prevLesson
		// the previous module may have finished loading in the meantime
		if prevLesson == 0 {
			r.activeLesson = firstLessonID(cached)
		}
		return
	}
	if r.inFlight[prevModule] > 0 {
		r.activeModule, r.activeLesson = prevModule, 0
		return
	}
	// the previous module failed too
	r.activeModule, r.activeLesson = r.settledModule, r.settledLesson
}

// settle records the active selection as the fallback for failed fetches.
// Must be called with r.mu held and the active module cached.
func (r *Resolver) settle() {
	r.settledModule, r.settledLesson = r.activeModule, r.activeLesson
}

// SelectLesson makes lessonID the active lesson if it belongs to the active module's loaded list
func (r *Resolver) SelectLesson(lessonID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.course == nil {
		return ErrNotLoaded
	}
	lessons, ok := r.lessonsByModule[r.activeModule]
	if r.activeModule == 0 || !ok {
		return ErrLessonNotInModule
	}
	for _, l := range lessons {
		if l.ID == lessonID {
			r.activeLesson = lessonID
			r.settle()
			return nil
		}
	}
	return ErrLessonNotInModule
}

// Enroll creates the viewer's enrollment and then opens the first module.
// A failed write returns *EnrollmentError and leaves the state unchanged.
// A failed lesson fetch after a successful write returns *LoadError with the viewer enrolled
// and no module selected, so SelectModule can retry.
// If Load replaced the state during the write, the reload's own enrollment check wins and
// *LoadError wrapping ErrStateReplaced is returned so the caller re-reads the state.
func (r *Resolver) Enroll(ctx context.Context) error {
	r.mu.Lock()
	if r.course == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	courseID := r.course.ID
	generation := r.generation
	r.mu.Unlock()

	if err := r.source.CreateEnrollment(ctx, r.userID, courseID); err != nil {
		return &EnrollmentError{Err: err}
	}

	r.mu.Lock()
	if r.generation != generation {
		r.mu.Unlock()
		return &LoadError{What: "enrollment", Err: ErrStateReplaced}
	}
	r.enrolled = true
	if len(r.modules) == 0 {
		r.mu.Unlock()
		return nil
	}
	first := r.modules[0].ID
	r.mu.Unlock()

	return r.SelectModule(ctx, first)
}

// CourseID returns the loaded course id, or 0 before Load succeeded
func (r *Resolver) CourseID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.course == nil {
		return 0
	}
	return r.course.ID
}

// State is a point-in-time copy of the resolver state
type State struct {
	Course         *models.Course  `json:"course"`
	Enrolled       bool            `json:"enrolled"`
	Modules        []models.Module `json:"modules"`
	ActiveModuleID *int            `json:"activeModuleId"`
	Lessons        []models.Lesson `json:"lessons"`
	LessonsLoading bool            `json:"lessonsLoading"`
	ActiveLesson   *models.Lesson  `json:"activeLesson"`
	EmbedURL       string          `json:"embedUrl,omitempty"`
	CachedModules  int             `json:"cachedModules"`
}

// Snapshot returns a copy of the current state safe to hand to other goroutines
func (r *Resolver) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := State{
		Enrolled:      r.enrolled,
		Modules:       slices.Clone(r.modules),
		CachedModules: len(r.lessonsByModule),
	}
	if r.course != nil {
		c := *r.course
		s.Course = &c
	}
	if r.activeModule == 0 {
		return s
	}

	id := r.activeModule
	s.ActiveModuleID = &id
	lessons, ok := r.lessonsByModule[r.activeModule]
	if !ok {
		s.LessonsLoading = true
		return s
	}
	s.Lessons = slices.Clone(lessons)
	for i := range s.Lessons {
		if s.Lessons[i].ID == r.activeLesson {
			l := s.Lessons[i]
			s.ActiveLesson = &l
			if l.VideoID != nil && *l.VideoID != "" {
				s.EmbedURL = video.EmbedURL(*l.VideoID)
			}
			break
		}
	}
	return s
}

func (r *Resolver) hasModule(moduleID int) bool {
	return slices.ContainsFunc(r.modules, func(m models.Module) bool { return m.ID == moduleID })
}

func sortedModules(modules []models.Module) []models.Module {
	out := slices.Clone(modules)
	slices.SortStableFunc(out, func(a, b models.Module) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
	return out
}

func sortedLessons(lessons []models.Lesson) []models.Lesson {
	out := slices.Clone(lessons)
	if out == nil {
		out = []models.Lesson{}
	}
	slices.SortStableFunc(out, func(a, b models.Lesson) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
	return out
}

func firstLessonID(lessons []models.Lesson) int {
	if len(lessons) == 0 {
		return 0
	}
	return lessons[0].ID
}
