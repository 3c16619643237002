package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/pai-learn/internal/catalog"
)

var (
	// ErrUnknownCourse is returned for course ids missing from the catalog.
	ErrUnknownCourse = errors.New("unknown course")
	// ErrUnknownLecture is returned in strict mode for lecture ids outside the course.
	ErrUnknownLecture = errors.New("unknown lecture")
)

// Update is the outcome of a completion change.
type Update struct {
	CourseID  string
	LectureID string
	Completed bool
	Progress  int
	Changed   bool
}

// Snapshot is a point-in-time copy of a course's completion state. Version
// matches the Version of the last event published for the course.
type Snapshot struct {
	Completed map[string]bool
	Progress  int
	Version   uint64
}

// IsCompleted reports whether lectureID is in the snapshot.
func (s Snapshot) IsCompleted(lectureID string) bool {
	return s.Completed[lectureID]
}

// courseState is the single owner of one course's mutable completion data.
type courseState struct {
	mu        sync.Mutex
	loaded    bool
	completed map[string]struct{}
	progress  int
	version   uint64 // bumped on every applied change
}

// Tracker owns completion sets and derived progress for every catalog course.
// Mutations on one course are serialized; different courses proceed in parallel.
type Tracker struct {
	catalog   *catalog.Catalog
	store     CompletionStore
	strict    bool
	publisher Publisher
	states    map[string]*courseState // fixed after NewTracker
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStrictLectures controls whether lecture ids outside the course are rejected.
// When disabled they are stored but never counted towards progress.
func WithStrictLectures(strict bool) Option {
	return func(t *Tracker) { t.strict = strict }
}

// WithPublisher sets where progress events are sent.
func WithPublisher(p Publisher) Option {
	return func(t *Tracker) {
		if p != nil {
			t.publisher = p
		}
	}
}

// NewTracker creates a tracker for every course in cat. A nil store falls back
// to an in-memory one.
func NewTracker(cat *catalog.Catalog, store CompletionStore, opts ...Option) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	t := &Tracker{
		catalog:   cat,
		store:     store,
		strict:    true,
		publisher: NopPublisher{},
		states:    make(map[string]*courseState, cat.Len()),
	}
	for _, s := range cat.All() {
		t.states[s.ID] = &courseState{completed: make(map[string]struct{})}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetLectureCompletion marks a lecture complete or incomplete and recomputes
// the course progress. The change is written to the store before memory is
// touched, so a failed write leaves the course unchanged.
func (t *Tracker) SetLectureCompletion(ctx context.Context, courseID, lectureID string, completed bool) (Update, error) {
	st, ok := t.states[courseID]
	if !ok {
		return Update{}, fmt.Errorf("%w: %s", ErrUnknownCourse, courseID)
	}
	if t.strict && !t.catalog.HasLecture(courseID, lectureID) {
		return Update{}, fmt.Errorf("%w: %s in course %s", ErrUnknownLecture, lectureID, courseID)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := t.load(ctx, courseID, st); err != nil {
		return Update{}, err
	}

	_, present := st.completed[lectureID]
	changed := present != completed
	if changed {
		if err := t.store.Set(ctx, courseID, lectureID, completed); err != nil {
			return Update{}, fmt.Errorf("saving completion for %s/%s: %w", courseID, lectureID, err)
		}
		if completed {
			st.completed[lectureID] = struct{}{}
		} else {
			delete(st.completed, lectureID)
		}
		st.version++
		t.recompute(courseID, st)
	}
	upd := Update{
		CourseID:  courseID,
		LectureID: lectureID,
		Completed: completed,
		Progress:  st.progress,
		Changed:   changed,
	}
	if !changed {
		return upd, nil
	}

	slog.Info("lecture completion updated",
		"course_id", courseID,
		"lecture_id", lectureID,
		"completed", completed,
		"progress", upd.Progress,
	)
	// Published under st.mu so subscribers see changes in the order they applied.
	t.publisher.Publish(Event{
		CourseID:  courseID,
		LectureID: lectureID,
		Completed: completed,
		Progress:  upd.Progress,
		Version:   st.version,
		At:        time.Now().UTC(),
	})
	return upd, nil
}

// Snapshot returns a copy of the course's completion set and progress.
func (t *Tracker) Snapshot(ctx context.Context, courseID string) (Snapshot, error) {
	st, ok := t.states[courseID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownCourse, courseID)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := t.load(ctx, courseID, st); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Completed: make(map[string]bool, len(st.completed)),
		Progress:  st.progress,
		Version:   st.version,
	}
	for id := range st.completed {
		snap.Completed[id] = true
	}
	return snap, nil
}

// Progress returns the current progress percentage of a course.
func (t *Tracker) Progress(ctx context.Context, courseID string) (int, error) {
	snap, err := t.Snapshot(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return snap.Progress, nil
}

// Seed applies initial completions to courses that have never been seeded.
// A course is seeded once per store: completions already in the store are
// kept as they are, and a course the user later cleared stays cleared.
func (t *Tracker) Seed(ctx context.Context, completions map[string][]string) error {
	for courseID, lectureIDs := range completions {
		st, ok := t.states[courseID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCourse, courseID)
		}

		if err := t.seedCourse(ctx, courseID, st, lectureIDs); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) seedCourse(ctx context.Context, courseID string, st *courseState, lectureIDs []string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	seeded, err := t.store.Seeded(ctx, courseID)
	if err != nil {
		return fmt.Errorf("checking seed marker for %s: %w", courseID, err)
	}
	if seeded {
		slog.Debug("skipping seed, course already seeded", "course_id", courseID)
		return nil
	}

	if err := t.load(ctx, courseID, st); err != nil {
		return err
	}
	// Completions written before seed markers existed count as seeded state.
	if len(st.completed) == 0 {
		for _, id := range lectureIDs {
			if err := t.store.Set(ctx, courseID, id, true); err != nil {
				return fmt.Errorf("seeding %s/%s: %w", courseID, id, err)
			}
			st.completed[id] = struct{}{}
		}
		t.recompute(courseID, st)
	}

	if err := t.store.MarkSeeded(ctx, courseID); err != nil {
		return fmt.Errorf("marking %s seeded: %w", courseID, err)
	}
	return nil
}

// load hydrates st from the store on first use. Callers hold st.mu.
func (t *Tracker) load(ctx context.Context, courseID string, st *courseState) error {
	if st.loaded {
		return nil
	}
	ids, err := t.store.Completed(ctx, courseID)
	if err != nil {
		return fmt.Errorf("loading completions for %s: %w", courseID, err)
	}
	for _, id := range ids {
		st.completed[id] = struct{}{}
	}
	st.loaded = true
	t.recompute(courseID, st)
	return nil
}

// recompute derives progress from the completion set. Ids that do not belong
// to the course are ignored. Callers hold st.mu.
func (t *Tracker) recompute(courseID string, st *courseState) {
	n := 0
	for id := range st.completed {
		if t.catalog.HasLecture(courseID, id) {
			n++
		}
	}
	st.progress = Percent(n, t.catalog.LectureCount(courseID))
}
