package ws

import (
	"net/http"
	"time"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/logger"
	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// syncPeriod matches the old client-side polling interval this channel
	// replaces: the authoritative snapshot is pushed every 10 seconds.
	syncPeriod = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin is already constrained by the JWT requirement
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SyncHandler streams reconciled user snapshots over a websocket. The client
// may also send a text frame at any time to force an immediate sync.
type SyncHandler struct {
	reconcile *service.ReconcileService
}

func NewSyncHandler(reconcile *service.ReconcileService) *SyncHandler {
	return &SyncHandler{reconcile: reconcile}
}

type snapshotMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Serve upgrades the connection and runs the sync loop. Requires the JWT
// middleware to have set user_id (token passed via query for WS).
func (h *SyncHandler) Serve(c *gin.Context) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatus(401)
		return
	}
	userID, ok := uidVal.(int64)
	if !ok {
		c.AbortWithStatus(401)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// sync requests from the read pump; buffered so a slow write never
	// blocks reads
	syncReq := make(chan struct{}, 1)
	done := make(chan struct{})

	go h.readPump(conn, syncReq, done)
	h.writePump(c, conn, userID, syncReq, done)
}

func (h *SyncHandler) readPump(conn *websocket.Conn, syncReq chan<- struct{}, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		// any client frame means "sync now"
		select {
		case syncReq <- struct{}{}:
		default:
		}
	}
}

func (h *SyncHandler) writePump(c *gin.Context, conn *websocket.Conn, userID int64, syncReq <-chan struct{}, done <-chan struct{}) {
	syncTicker := time.NewTicker(syncPeriod)
	pingTicker := time.NewTicker(pingPeriod)
	defer syncTicker.Stop()
	defer pingTicker.Stop()

	// initial snapshot on connect
	if !h.push(c, conn, userID) {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-syncReq:
			if !h.push(c, conn, userID) {
				return
			}
		case <-syncTicker.C:
			if !h.push(c, conn, userID) {
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SyncHandler) push(c *gin.Context, conn *websocket.Conn, userID int64) bool {
	u, err := h.reconcile.Sync(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("ws sync reconcile failed", "user_id", userID, "error", err)
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	msg := snapshotMessage{
		Type: "snapshot",
		Data: u.Snapshot(clock.NowUTC(), h.reconcile.Limits()),
	}
	if err := conn.WriteJSON(msg); err != nil {
		return false
	}
	return true
}
