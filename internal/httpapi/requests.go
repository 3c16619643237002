package httpapi

import "github.com/p-n-ai/pai-learn/internal/platform/schema"

var updateLectureSchema = schema.MustCompile("update_lecture", `{
  "type": "object",
  "required": ["lectureId", "completed"],
  "properties": {
    "lectureId": {"type": "string", "minLength": 1},
    "completed": {"type": "boolean"}
  }
}`)

var loginSchema = schema.MustCompile("login", `{
  "type": "object",
  "required": ["username", "password"],
  "properties": {
    "username": {"type": "string", "minLength": 1},
    "password": {"type": "string", "minLength": 1}
  }
}`)

type updateLectureRequest struct {
	LectureID string `json:"lectureId"`
	Completed bool   `json:"completed"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
