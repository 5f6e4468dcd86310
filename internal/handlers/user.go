package handlers

import (
	"net/http"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgUserRegistered    = "The user was registered successfully"
	msgUserAuthenticated = "The user authenticated successfully"
)

// @Summary      Current user
// @Description  Returns the user identified by the request credentials.
// @Tags         user
// @Produce      json
// @Success      200  {object}  response{data=models.User}
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/user [get]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	h.ok(c, http.StatusOK, userFrom(c), "")
}

// @Summary      Register
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        input  body      models.UserCreate  true  "New account"
// @Success      200    {object}  response{data=models.User}
// @Failure      409    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/user [post]
func (h *Handler) registerUser(c *gin.Context) {
	var input models.UserCreate
	if !h.bindJSON(c, &input) {
		return
	}

	u, err := h.services.Register(c.Request.Context(), input)
	if err != nil {
		if h.log != nil {
			h.log.Infow("user_register_failed", "username", input.Username, "err", err)
		}
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, u, msgUserRegistered)
}

// @Summary      Login
// @Description  Exchanges credentials for a signed bearer token.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        input  body      models.UserLogin  true  "Credentials"
// @Success      200    {object}  response{data=models.UserToken}
// @Failure      401    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/user/login [post]
func (h *Handler) loginUser(c *gin.Context) {
	var input models.UserLogin
	if !h.bindJSON(c, &input) {
		return
	}

	token, err := h.services.IssueToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("user_login_failed", "username", input.Username, "err", err)
		}
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, models.UserToken{Token: token}, msgUserAuthenticated)
}
