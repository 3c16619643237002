package catalog

// Lecture kinds.
const (
	KindLecture    = "lecture"
	KindAssignment = "assignment"
)

// Course is a top-level enrollment unit with its ordered modules.
type Course struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Instructor  string       `json:"instructor" yaml:"instructor"`
	Thumbnail   string       `json:"thumbnail" yaml:"thumbnail"`
	Duration    string       `json:"duration" yaml:"duration"`
	Progress    int          `json:"progress" yaml:"progress"`
	Modules     []Module     `json:"modules" yaml:"modules"`
	NextSession *NextSession `json:"nextSession,omitempty" yaml:"nextSession,omitempty"`
}

// CourseSummary is the list view of a course. Modules are left out.
type CourseSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Instructor  string       `json:"instructor"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    string       `json:"duration"`
	Progress    int          `json:"progress"`
	NextSession *NextSession `json:"nextSession,omitempty"`
}

// Module is an ordered group of lectures.
type Module struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Order       int       `json:"order" yaml:"order"`
	Lectures    []Lecture `json:"lectures" yaml:"lectures"`
}

// Lecture is the unit of completion.
type Lecture struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Duration    string   `json:"duration" yaml:"duration"`
	VideoID     string   `json:"videoId" yaml:"videoId"`
	Completed   bool     `json:"completed" yaml:"completed"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Materials   []string `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// NextSession describes the next scheduled live session of a course.
type NextSession struct {
	Date  string `json:"date" yaml:"date"`
	Time  string `json:"time" yaml:"time"`
	Title string `json:"title" yaml:"title"`
}

// Summary returns the list view of c.
func (c Course) Summary() CourseSummary {
	s := CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Instructor:  c.Instructor,
		Thumbnail:   c.Thumbnail,
		Duration:    c.Duration,
		Progress:    c.Progress,
	}
	if c.NextSession != nil {
		ns := *c.NextSession
		s.NextSession = &ns
	}
	return s
}

// Clone returns a deep copy of c. Mutating the copy never affects c.
func (c Course) Clone() Course {
	out := c
	if c.NextSession != nil {
		ns := *c.NextSession
		out.NextSession = &ns
	}
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		cm := m
		cm.Lectures = make([]Lecture, len(m.Lectures))
		for j, l := range m.Lectures {
			cl := l
			if l.Materials != nil {
				cl.Materials = append([]string(nil), l.Materials...)
			}
			cm.Lectures[j] = cl
		}
		out.Modules[i] = cm
	}
	return out
}

// LectureCount returns the number of lectures across all modules.
func (c Course) LectureCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lectures)
	}
	return n
}
