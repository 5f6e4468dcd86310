package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	minInterval      = 50 * time.Millisecond
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Message types of the task feed.
const (
	wsTypeTasks = "tasks"
	wsTypeError = "error"
)

// wsEnvelope is the frame written to feed subscribers.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Task feed
// @Description  Upgrades to a WebSocket and pushes the caller's tasks every interval (?interval=2s or ?interval_ms=2000, at most 10s).
// @Tags         tasks
// @Param        interval     query  string  false  "Push period as a Go duration"
// @Param        interval_ms  query  int     false  "Push period in milliseconds"
// @Success      101
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/tasks/ws [get]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) wsTasks(c *gin.Context) {
	interval := h.parseInterval(c)
	owner := userFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendTasks(ctx, conn, owner.ID); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "user_id", owner.ID, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "user_id", owner.ID, "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendTasks(ctx, conn, owner.ID); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "user_id", owner.ID, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds; the
// configured feed interval is the fallback.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval
	if h.opts.FeedInterval >= minInterval && h.opts.FeedInterval <= maxInterval {
		interval = h.opts.FeedInterval
	}

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			d := time.Duration(v) * time.Millisecond
			if d >= minInterval {
				return d
			}
		}
	}

	return interval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendTasks writes the first page of the owner's tasks. A lookup failure is
// reported to the subscriber as an error frame and ends the feed.
func (h *Handler) sendTasks(ctx context.Context, conn *websocket.Conn, ownerID int) error {
	tasks, err := h.services.ListByOwner(ctx, ownerID, 0, 0)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_tasks_failed", "user_id", ownerID, "err", err)
		}
		msg := "Internal Server Error"
		if appErr := apperrors.From(err); appErr.Code != apperrors.CodeInternal {
			msg = appErr.Message
		}
		if werr := conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: msg}); werr != nil {
			return werr
		}
		return err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return conn.WriteJSON(wsEnvelope{Type: wsTypeTasks, Data: tasks})
}
