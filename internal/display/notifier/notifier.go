package notifier

import (
	"encoding/json"
	"net/http"
	"time"

	sse "github.com/r3labs/sse/v2"

	"roombook/pkg/logger"
)

// StreamSchedule carries live schedule updates to connected displays.
const StreamSchedule = "schedule"

// Notifier fans schedule changes out to TV displays over server-sent events.
type Notifier struct {
	server *sse.Server
	log    *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(StreamSchedule)

	return &Notifier{
		server: server,
		log:    log,
	}
}

// Publish encodes payload as JSON and broadcasts it under eventType. A
// payload that fails to encode is dropped with a log entry; displays
// periodically re-fetch the snapshot, so a missed event self-heals.
func (n *Notifier) Publish(eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		n.log.Error("Failed to encode display event", "event_type", eventType, "error", err)
		return
	}

	n.server.Publish(StreamSchedule, &sse.Event{
		Event: []byte(eventType),
		Data:  data,
	})
}

// ServeHTTP serves the event stream. The stream name is fixed so clients
// do not need the ?stream= query parameter the underlying server expects.
func (n *Notifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The server's WriteTimeout would sever a healthy stream.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		n.log.Warn("Failed to clear write deadline for event stream", "error", err)
	}

	query := r.URL.Query()
	query.Set("stream", StreamSchedule)
	r.URL.RawQuery = query.Encode()

	n.server.ServeHTTP(w, r)
}

func (n *Notifier) Close() {
	n.server.Close()
}
