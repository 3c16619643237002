package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-learn/internal/platform/schema"
)

var courseSchema = schema.MustCompile("course", `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "instructor": {"type": "string"},
    "thumbnail": {"type": "string"},
    "duration": {"type": "string"},
    "progress": {"type": "integer", "minimum": 0, "maximum": 100},
    "nextSession": {
      "type": "object",
      "required": ["date", "title"],
      "properties": {
        "date": {"type": "string"},
        "time": {"type": "string"},
        "title": {"type": "string"}
      }
    },
    "modules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "order": {"type": "integer"},
          "lectures": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "title"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "duration": {"type": "string"},
                "videoId": {"type": "string"},
                "completed": {"type": "boolean"},
                "type": {"enum": ["lecture", "assignment"]},
                "description": {"type": "string"},
                "materials": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`)

// LoadDir reads every course YAML file under rootDir. Files that are not valid
// YAML or do not match the course schema are skipped with a warning. The
// returned courses are in lexical path order.
func LoadDir(rootDir string) ([]Course, error) {
	var courses []Course
	seen := make(map[string]string)

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		course, ok, err := loadCourse(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if prev, dup := seen[course.ID]; dup {
			return fmt.Errorf("course %q defined in both %s and %s", course.ID, prev, path)
		}
		seen[course.ID] = path
		courses = append(courses, course)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	slog.Info("catalog loaded", "path", rootDir, "courses", len(courses))
	return courses, nil
}

// Load builds a catalog from rootDir, or from the seed courses when rootDir is empty.
func Load(rootDir string) (*Catalog, error) {
	if rootDir == "" {
		return New(Seed())
	}
	courses, err := LoadDir(rootDir)
	if err != nil {
		return nil, err
	}
	return New(courses)
}

func loadCourse(path string) (Course, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return Course{}, false, nil
	}
	if _, ok := raw["id"]; !ok {
		return Course{}, false, nil // Not a course file
	}
	if err := courseSchema.Validate(raw); err != nil {
		slog.Warn("skipping course YAML that fails validation", "path", path, "error", err)
		return Course{}, false, nil
	}

	var course Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return Course{}, false, nil
	}
	return course, true, nil
}
