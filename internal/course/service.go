// Package course exposes read and update operations over the catalog and
// the progress tracker.
package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/p-n-ai/pai-learn/internal/catalog"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

var (
	// ErrNotFound covers unknown courses and lectures that are not part of a course.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a malformed update request.
	ErrInvalidInput = errors.New("invalid input")
)

// LectureUpdate is returned after a successful completion change.
type LectureUpdate struct {
	Progress  int    `json:"progress"`
	LectureID string `json:"lectureId"`
	Completed bool   `json:"completed"`
}

// Service answers course queries.
type Service struct {
	catalog *catalog.Catalog
	tracker *progress.Tracker
}

// NewService creates a course service.
func NewService(cat *catalog.Catalog, tracker *progress.Tracker) *Service {
	return &Service{catalog: cat, tracker: tracker}
}

// ListCourses returns every course summary with its current progress.
func (s *Service) ListCourses(ctx context.Context) ([]catalog.CourseSummary, error) {
	summaries := s.catalog.All()
	for i := range summaries {
		p, err := s.tracker.Progress(ctx, summaries[i].ID)
		if err != nil {
			return nil, fmt.Errorf("progress for course %s: %w", summaries[i].ID, err)
		}
		summaries[i].Progress = p
	}
	return summaries, nil
}

// GetCourse returns a copy of the course tree with completion flags and
// progress filled in from the tracker.
func (s *Service) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	c, ok := s.catalog.Get(id)
	if !ok {
		return catalog.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}

	snap, err := s.tracker.Snapshot(ctx, id)
	if err != nil {
		return catalog.Course{}, fmt.Errorf("progress for course %s: %w", id, err)
	}

	c.Progress = snap.Progress
	for mi := range c.Modules {
		for li := range c.Modules[mi].Lectures {
			l := &c.Modules[mi].Lectures[li]
			l.Completed = snap.IsCompleted(l.ID)
		}
	}
	return c, nil
}

// Progress returns the course's completion snapshot. Its Version orders it
// against progress events of the same course.
func (s *Service) Progress(ctx context.Context, id string) (progress.Snapshot, error) {
	if !s.catalog.Has(id) {
		return progress.Snapshot{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	snap, err := s.tracker.Snapshot(ctx, id)
	if err != nil {
		return progress.Snapshot{}, fmt.Errorf("progress for course %s: %w", id, err)
	}
	return snap, nil
}

// UpdateLecture sets the completion flag of one lecture in a course.
func (s *Service) UpdateLecture(ctx context.Context, courseID, lectureID string, completed bool) (LectureUpdate, error) {
	if lectureID == "" {
		return LectureUpdate{}, fmt.Errorf("lectureId is required: %w", ErrInvalidInput)
	}
	if !s.catalog.Has(courseID) {
		return LectureUpdate{}, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}

	upd, err := s.tracker.SetLectureCompletion(ctx, courseID, lectureID, completed)
	switch {
	case errors.Is(err, progress.ErrUnknownCourse), errors.Is(err, progress.ErrUnknownLecture):
		return LectureUpdate{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	case err != nil:
		return LectureUpdate{}, fmt.Errorf("update lecture: %w", err)
	}

	return LectureUpdate{
		Progress:  upd.Progress,
		LectureID: upd.LectureID,
		Completed: upd.Completed,
	}, nil
}
