// Package catalog holds the read-only course, module and lecture tree.
package catalog

import (
	"fmt"
	"sort"
)

// Catalog is an immutable set of courses. It is safe for concurrent use.
type Catalog struct {
	courses  []Course
	index    map[string]int
	lectures map[string]map[string]struct{}
}

// New validates courses and builds a catalog from them. Modules are sorted by
// their order rank. Lecture ids must be unique within a course.
func New(courses []Course) (*Catalog, error) {
	c := &Catalog{
		courses:  make([]Course, 0, len(courses)),
		index:    make(map[string]int, len(courses)),
		lectures: make(map[string]map[string]struct{}, len(courses)),
	}

	for _, in := range courses {
		course := in.Clone()
		if course.ID == "" {
			return nil, fmt.Errorf("course %q: id is required", course.Title)
		}
		if _, dup := c.index[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}

		sort.SliceStable(course.Modules, func(i, j int) bool {
			return course.Modules[i].Order < course.Modules[j].Order
		})

		moduleIDs := make(map[string]struct{}, len(course.Modules))
		lectureIDs := make(map[string]struct{})
		for mi := range course.Modules {
			m := &course.Modules[mi]
			if m.ID == "" {
				return nil, fmt.Errorf("course %s: module id is required", course.ID)
			}
			if _, dup := moduleIDs[m.ID]; dup {
				return nil, fmt.Errorf("course %s: duplicate module id %q", course.ID, m.ID)
			}
			moduleIDs[m.ID] = struct{}{}

			for li := range m.Lectures {
				l := &m.Lectures[li]
				if l.ID == "" {
					return nil, fmt.Errorf("course %s module %s: lecture id is required", course.ID, m.ID)
				}
				if _, dup := lectureIDs[l.ID]; dup {
					return nil, fmt.Errorf("course %s: duplicate lecture id %q", course.ID, l.ID)
				}
				lectureIDs[l.ID] = struct{}{}

				switch l.Type {
				case "":
					l.Type = KindLecture
				case KindLecture, KindAssignment:
				default:
					return nil, fmt.Errorf("course %s lecture %s: unknown type %q", course.ID, l.ID, l.Type)
				}
			}
		}

		c.index[course.ID] = len(c.courses)
		c.lectures[course.ID] = lectureIDs
		c.courses = append(c.courses, course)
	}

	return c, nil
}

// All returns course summaries in catalog order.
func (c *Catalog) All() []CourseSummary {
	out := make([]CourseSummary, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course.Summary())
	}
	return out
}

// Get returns a deep copy of the course with the given id.
func (c *Catalog) Get(id string) (Course, bool) {
	i, ok := c.index[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i].Clone(), true
}

// Has reports whether a course exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// HasLecture reports whether lectureID belongs to courseID.
func (c *Catalog) HasLecture(courseID, lectureID string) bool {
	_, ok := c.lectures[courseID][lectureID]
	return ok
}

// LectureCount returns the number of lectures in a course, or 0 for unknown ids.
func (c *Catalog) LectureCount(courseID string) int {
	return len(c.lectures[courseID])
}

// InitialCompletions returns, per course, the lectures flagged completed in the
// source data.
func (c *Catalog) InitialCompletions() map[string][]string {
	out := make(map[string][]string)
	for _, course := range c.courses {
		for _, m := range course.Modules {
			for _, l := range m.Lectures {
				if l.Completed {
					out[course.ID] = append(out[course.ID], l.ID)
				}
			}
		}
	}
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}
