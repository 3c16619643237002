package catalog

// Seed returns the built-in demo courses used when no catalog directory is configured.
func Seed() []Course {
	return []Course{
		{
			ID:          "1",
			Title:       "100x Engineers Generative-AI Wizardry",
			Description: "Master Generative AI with hands-on projects and real-world applications",
			Instructor:  "100xEngineers",
			Thumbnail:   "https://via.placeholder.com/300x200",
			Duration:    "12 weeks",
			NextSession: &NextSession{
				Date:  "2023-08-10",
				Time:  "18:00",
				Title: "Live Lecture - Advanced AI Concepts",
			},
			Modules: []Module{
				{
					ID:          "m1",
					Title:       "Week 1 - Introduction to Python",
					Description: "Get started with Python programming",
					Order:       1,
					Lectures: []Lecture{
						{
							ID:          "l1",
							Title:       "Intro to programming in Python",
							Duration:    "109:39",
							VideoID:     "dQw4w9WgXcQ",
							Completed:   true,
							Type:        KindLecture,
							Description: "Learn the basics of Python programming language",
							Materials:   []string{"slides.pdf", "exercise1.py"},
						},
						{
							ID:          "l2",
							Title:       "Assignment 1 - Big Binary",
							Duration:    "60:00",
							Type:        KindAssignment,
							Description: "Complete the binary number conversion exercise",
						},
					},
				},
				{
					ID:          "m2",
					Title:       "Week 2 - Web Development Basics",
					Description: "Introduction to full stack web development",
					Order:       2,
					Lectures: []Lecture{
						{
							ID:          "l3",
							Title:       "Full Stack Web Apps - Part 1",
							Duration:    "131:12",
							VideoID:     "dQw4w9WgXcQ",
							Type:        KindLecture,
							Description: "Understanding the basics of web applications",
						},
						{
							ID:          "l4",
							Title:       "Full Stack Web Apps - Part 2",
							Duration:    "120:00",
							VideoID:     "dQw4w9WgXcQ",
							Type:        KindLecture,
							Description: "Advanced web development concepts",
						},
					},
				},
			},
		},
		{
			ID:          "2",
			Title:       "100x Engineers Generative-AI Wizardry Cohort 2",
			Description: "Second cohort of the popular Generative AI course",
			Instructor:  "100xEngineers",
			Thumbnail:   "https://via.placeholder.com/300x200",
			Duration:    "12 weeks",
			Modules:     []Module{},
		},
	}
}
