package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/service"
)

const (
	wsWriteWait   = 5 * time.Second
	wsMaxFrame    = 64 << 10
	wsIdleTimeout = 2 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsReply is sent for every frame received. Exactly one of Result and Error is set.
type wsReply struct {
	Result *service.Result `json:"result,omitempty"`
	Error  *errorResponse  `json:"error,omitempty"`
}

// handleWebSocket answers one collision query per text frame until the
// client closes the connection or stays idle too long.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", log.Err(err))
		return
	}
	defer conn.Close()

	l := s.log.With(log.String("conn", uuid.NewString()), log.String("remote", conn.RemoteAddr().String()))
	l.Info("websocket connected")
	defer l.Info("websocket closed")

	conn.SetReadLimit(wsMaxFrame)
	ctx := r.Context()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Debug("websocket read failed", log.Err(err))
			}
			return
		}

		var reply wsReply
		var pair service.Pair
		if err := json.Unmarshal(data, &pair); err != nil {
			_, body := classify(badRequest{err: err})
			reply.Error = &body
		} else if res, err := s.svc.Collide(ctx, pair); err != nil {
			_, body := classify(err)
			reply.Error = &body
		} else {
			reply.Result = &res
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				l.Debug("websocket write failed", log.Err(err))
			}
			return
		}
	}
}
