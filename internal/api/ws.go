package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/gyaneshwarpardhi/blockflow/internal/editor"
	"github.com/gyaneshwarpardhi/blockflow/internal/event"
	"github.com/gyaneshwarpardhi/blockflow/internal/notice"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024

	sendBufferSize = 64
)

// Message kinds pushed to the surface.
const (
	msgResult = "result"
	msgNotice = "notice"
	msgError  = "error"
)

// wsMessage is the envelope of every server → surface frame.
type wsMessage struct {
	Kind   string         `json:"kind"`
	Result *editor.Result `json:"result,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// wsSession binds one WebSocket connection to one editor. The surface sends
// gesture events; results are written back in order and notices are pushed
// as they are raised.
type wsSession struct {
	editor *editor.Editor
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// GET /v1/editors/{editorID}/ws
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	e, err := h.Editors.Get(chi.URLParam(r, "editorID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.Logger.Warn("websocket upgrade failed", "editor", e.ID(), "err", err)
		return
	}

	s := &wsSession{
		editor: e,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: h.Logger.With("editor", e.ID(), "remote", r.RemoteAddr),
		done:   make(chan struct{}),
	}
	notices, cancel := e.Notices()
	go s.forwardNotices(notices)
	go s.writePump()
	s.readPump(r.Context(), cancel)
}

func (s *wsSession) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// readPump dispatches every incoming event and queues its outcome. It runs on
// the request goroutine and returns when the connection drops.
func (s *wsSession) readPump(ctx context.Context, cancelNotices func()) {
	defer func() {
		cancelNotices()
		s.stop()
		s.conn.Close()
		s.logger.Debug("websocket closed")
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "err", err)
			}
			return
		}
		// A bad frame is reported to the surface; the session stays open.
		var ev event.Event
		if err := json.NewDecoder(frame).Decode(&ev); err != nil {
			s.push(wsMessage{Kind: msgError, Error: "invalid JSON: " + err.Error()})
			continue
		}
		res, err := s.editor.Dispatch(ctx, &ev)
		if err != nil {
			s.push(wsMessage{Kind: msgError, Error: err.Error()})
			continue
		}
		s.push(wsMessage{Kind: msgResult, Result: res})
	}
}

// forwardNotices relays editor notices until the subscription ends. The
// subscription also ends when the editor is closed, which ends the session.
func (s *wsSession) forwardNotices(notices <-chan notice.Notice) {
	for n := range notices {
		n := n
		s.push(wsMessage{Kind: msgNotice, Notice: &n})
	}
	s.stop()
}

func (s *wsSession) push(m wsMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		s.logger.Error("encode websocket message", "err", err)
		return
	}
	select {
	case s.send <- b:
	case <-s.done:
	}
}

// writePump is the only writer on the connection.
func (s *wsSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case b := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				s.logger.Warn("websocket write failed", "err", err)
				s.stop()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.stop()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
