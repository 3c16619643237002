package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/report"
)

type updateLectureResponse struct {
	Success bool `json:"success"`
	course.LectureUpdate
}

func (s *server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.courses.ListCourses(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Course not found", "Failed to fetch courses")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.courses.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Course not found", "Failed to fetch course")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleUpdateLecture(w http.ResponseWriter, r *http.Request) {
	var req updateLectureRequest
	if !decodeBody(w, r, updateLectureSchema, &req, "Missing required fields") {
		return
	}

	upd, err := s.courses.UpdateLecture(r.Context(), r.PathValue("id"), req.LectureID, req.Completed)
	if err != nil {
		writeServiceError(w, r, err, "Course or lecture not found", "Failed to update lecture status")
		return
	}
	writeJSON(w, http.StatusOK, updateLectureResponse{Success: true, LectureUpdate: upd})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.courses.GetCourse(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Course not found", "Failed to build report")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCourse(&buf, c); err != nil {
		writeServiceError(w, r, err, "Course not found", "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="course-%s-progress.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
