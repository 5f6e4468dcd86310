package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys and headers.
const (
	ctxUserKey      = "currentUser"
	ctxTaskKey      = "currentTask"
	ctxRequestIDKey = "requestID"

	headerRequestID = "X-Request-ID"
	basicChallenge  = `Basic realm="tasks"`
)

// requestID tags every request with an id, reusing the caller's when given.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", c.GetString(ctxRequestIDKey),
	)
}

// currentUser authenticates the request with Basic credentials or a Bearer
// token and stores the user in the context.
func (h *Handler) currentUser(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.Header("WWW-Authenticate", basicChallenge)
		h.abort(c, apperrors.New(apperrors.CodeInvalidCredentials, "Not authenticated"))
		return
	}

	var (
		u   *models.User
		err error
	)
	scheme, value, _ := strings.Cut(header, " ")
	switch strings.ToLower(scheme) {
	case "basic":
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			h.invalidAuthHeader(c)
			return
		}
		u, err = h.services.CurrentUser(c.Request.Context(), service.Credentials{Username: username, Password: password})
	case "bearer":
		token := strings.TrimSpace(value)
		if token == "" {
			h.invalidAuthHeader(c)
			return
		}
		u, err = h.services.CurrentUserFromToken(c.Request.Context(), token)
	default:
		h.invalidAuthHeader(c)
		return
	}
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_failed", "request_id", c.GetString(ctxRequestIDKey), "err", err)
		}
		h.abort(c, err)
		return
	}

	c.Set(ctxUserKey, u)
	c.Next()
}

func (h *Handler) invalidAuthHeader(c *gin.Context) {
	c.Header("WWW-Authenticate", basicChallenge)
	h.abort(c, apperrors.New(apperrors.CodeInvalidCredentials, "Invalid Authorization header format"))
}

// currentActiveUser must run after currentUser.
func (h *Handler) currentActiveUser(c *gin.Context) {
	if _, err := h.services.CurrentActiveUser(userFrom(c)); err != nil {
		h.abort(c, err)
		return
	}
	c.Next()
}

// currentTask resolves the :id path parameter to a task owned by the caller.
func (h *Handler) currentTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.abort(c, apperrors.Validation(apperrors.ValidationMessage, fmt.Sprintf("`id` value is not a valid integer: %q", c.Param("id"))))
		return
	}
	task, err := h.services.CurrentTask(c.Request.Context(), id, userFrom(c))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.Set(ctxTaskKey, task)
	c.Next()
}

func userFrom(c *gin.Context) *models.User {
	return c.MustGet(ctxUserKey).(*models.User)
}

func taskFrom(c *gin.Context) *models.Task {
	return c.MustGet(ctxTaskKey).(*models.Task)
}
