package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FrameSink accepts landmark frames and fans out the resulting snapshots.
type FrameSink interface {
	Submit(landmark.Frame) bool
	Subscribe() (<-chan engine.Snapshot, func())
}

// StreamHandler exchanges frames and snapshots over a WebSocket. Clients
// send Frame JSON messages and receive every Snapshot the pipeline
// produces, including those caused by other clients.
type StreamHandler struct {
	sink FrameSink
}

// NewStreamHandler creates a StreamHandler feeding sink.
func NewStreamHandler(sink FrameSink) *StreamHandler {
	return &StreamHandler{sink: sink}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	snapshots, cancel := h.sink.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(conn, snapshots)
	}()

	h.readLoop(conn)
	cancel()
	<-done
}

// readLoop submits frames until the client goes away. Malformed messages
// are logged and skipped.
func (h *StreamHandler) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var f landmark.Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			log.Printf("stream: ignoring malformed frame: %v", err)
			continue
		}
		if !h.sink.Submit(f) {
			log.Printf("stream: frame at %d dropped", f.TimestampMs)
		}
	}
}

// writeLoop is the only writer on conn.
func (h *StreamHandler) writeLoop(conn *websocket.Conn, snapshots <-chan engine.Snapshot) {
	for snap := range snapshots {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			// Closing unblocks readLoop, which then cancels the subscription.
			conn.Close()
			for range snapshots {
			}
			return
		}
	}
}
