package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/courses/1/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	var first map[string]any
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if first["type"] != "snapshot" || first["progress"] != float64(25) {
		t.Fatalf("first frame = %v, want snapshot at 25", first)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPatch, srv.URL+"/courses/1",
		strings.NewReader(`{"lectureId":"l4","completed":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH status = %d, want 200", resp.StatusCode)
	}

	var update map[string]any
	if err := wsjson.Read(ctx, conn, &update); err != nil {
		t.Fatalf("reading update: %v", err)
	}
	if update["type"] != "update" || update["lectureId"] != "l4" || update["progress"] != float64(50) {
		t.Errorf("update frame = %v, want l4 at 50", update)
	}
	if update["version"] != first["version"].(float64)+1 {
		t.Errorf("update version = %v, want one past snapshot version %v", update["version"], first["version"])
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestEventStream_SnapshotCarriesEarlierChanges(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	for _, lecture := range []string{"l2", "l3"} {
		rec := env.do(t, http.MethodPatch, "/courses/1", `{"lectureId":"`+lecture+`","completed":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("PATCH %s status = %d, want 200", lecture, rec.Code)
		}
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/courses/1/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	var first map[string]any
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if first["progress"] != float64(75) || first["version"] != float64(2) {
		t.Fatalf("snapshot = %v, want progress 75 at version 2", first)
	}

	rec := env.do(t, http.MethodPatch, "/courses/1", `{"lectureId":"l3","completed":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, want 200", rec.Code)
	}

	var update map[string]any
	if err := wsjson.Read(ctx, conn, &update); err != nil {
		t.Fatalf("reading update: %v", err)
	}
	if update["progress"] != float64(50) || update["version"] != float64(3) {
		t.Errorf("update = %v, want progress 50 at version 3", update)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestEventStream_UnknownCourse(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/courses/999/events", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if n := env.hub.Subscribers("999"); n != 0 {
		t.Errorf("Subscribers(999) = %d, want 0 after rejected stream", n)
	}
}
