package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-learn/internal/progress"
)

const wsWriteTimeout = 5 * time.Second

// streamMessage is one WebSocket frame. The first frame of a stream has type
// "snapshot" and carries the current progress; later frames have type "update"
// and always carry a higher version than the snapshot.
type streamMessage struct {
	Type string `json:"type"`
	progress.Event
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Subscribe before reading the snapshot so no update in between is lost.
	events, cancel := s.events.Subscribe(id)
	defer cancel()

	snap, err := s.courses.Progress(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Course not found", "Failed to open event stream")
		return
	}

	// The stream outlives the server's per-request deadlines.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     s.originPatterns,
		InsecureSkipVerify: s.anyOrigin,
	})
	if err != nil {
		logger(r.Context()).Warn("websocket accept failed", "course_id", id, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	log := logger(r.Context()).With("course_id", id)
	log.Info("progress stream opened")

	snapshot := streamMessage{Type: "snapshot", Event: progress.Event{
		CourseID: id,
		Progress: snap.Progress,
		Version:  snap.Version,
		At:       time.Now().UTC(),
	}}
	if err := writeFrame(ctx, conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("progress stream closed")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "stream ended")
				return
			}
			// Already reflected in the snapshot.
			if ev.Version <= snap.Version {
				continue
			}
			if err := writeFrame(ctx, conn, streamMessage{Type: "update", Event: ev}); err != nil {
				log.Info("progress stream write failed", "error", err)
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
